package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/events"
)

const personalJSON = `{"firstName":"Ahmed","lastName":"Hassan","email":"ahmed@example.com","phone":"+905551112233",
"birthDate":"2001-05-20","gender":"male","nationality":"Syrian","passportNumber":"N1234567"}`

const educationJSON = `{"educationLevel":"high_school","schoolName":"Damascus High School","schoolCountry":"Syria",
"graduationYear":2020,"gpa":88.5}`

func preferencesJSON(universityID, programID int64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"universityId":%d,"programId":%d,"academicYear":"2025-2026","semester":"fall"}`,
		universityID, programID))
}

// walkToReview fills every section and returns a draft at the review step
func walkToReview(t *testing.T, f *fixture) *models.WizardDraft {
	t.Helper()
	ctx := context.Background()
	actor := f.studentActor()

	draft, err := f.wizard.Start(ctx, actor)
	require.NoError(t, err)

	_, err = f.wizard.SaveSection(ctx, actor, draft.ID, models.StepPersonal, json.RawMessage(personalJSON))
	require.NoError(t, err)
	_, _, err = f.wizard.AttachDocument(ctx, actor, draft.ID, DocumentPhoto, "me.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	_, err = f.wizard.Next(ctx, actor, draft.ID)
	require.NoError(t, err)

	_, _, err = f.wizard.AttachDocument(ctx, actor, draft.ID, DocumentPassport, "passport.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)
	_, err = f.wizard.Next(ctx, actor, draft.ID)
	require.NoError(t, err)

	_, err = f.wizard.SaveSection(ctx, actor, draft.ID, models.StepEducation, json.RawMessage(educationJSON))
	require.NoError(t, err)
	_, err = f.wizard.Next(ctx, actor, draft.ID)
	require.NoError(t, err)

	_, err = f.wizard.SaveSection(ctx, actor, draft.ID, models.StepPreferences, preferencesJSON(f.university.ID, f.program.ID))
	require.NoError(t, err)
	draft, err = f.wizard.Next(ctx, actor, draft.ID)
	require.NoError(t, err)
	require.Equal(t, models.StepReview, draft.CurrentStep)
	return draft
}

func TestWizard_StartPrefillsFromAccount(t *testing.T) {
	f := newFixture(t)

	draft, err := f.wizard.Start(context.Background(), f.studentActor())
	require.NoError(t, err)

	assert.Equal(t, "draft-1", draft.ID)
	assert.Equal(t, models.StepPersonal, draft.CurrentStep)
	assert.Equal(t, "Ahmed", draft.Personal.FirstName)
	assert.Equal(t, "Hassan", draft.Personal.LastName)
	assert.Equal(t, "ahmed@example.com", draft.Personal.Email)
	assert.Equal(t, f.student.ID, draft.StudentID)
}

func TestWizard_OtherStudentCannotSeeDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.wizard.Start(ctx, f.studentActor())
	require.NoError(t, err)

	other := f.studentActor()
	other.UserID = f.admin.ID + 100
	_, err = f.wizard.Get(ctx, other, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
}

func TestWizard_StepGates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := f.studentActor()

	draft, err := f.wizard.Start(ctx, actor)
	require.NoError(t, err)

	t.Run("incomplete personal section", func(t *testing.T) {
		_, err := f.wizard.Next(ctx, actor, draft.ID)
		assert.ErrorIs(t, err, apperrors.ErrStepIncomplete)
	})

	t.Run("future step is locked", func(t *testing.T) {
		_, err := f.wizard.SaveSection(ctx, actor, draft.ID, models.StepEducation, json.RawMessage(educationJSON))
		assert.ErrorIs(t, err, apperrors.ErrStepLocked)

		_, _, err = f.wizard.AttachDocument(ctx, actor, draft.ID, DocumentPassport, "passport.pdf", bytes.NewReader(pdfBytes))
		assert.ErrorIs(t, err, apperrors.ErrStepLocked)
	})

	t.Run("photo is required", func(t *testing.T) {
		_, err := f.wizard.SaveSection(ctx, actor, draft.ID, models.StepPersonal, json.RawMessage(personalJSON))
		require.NoError(t, err)

		_, err = f.wizard.Next(ctx, actor, draft.ID)
		assert.ErrorIs(t, err, apperrors.ErrPhotoRequired)
	})

	t.Run("photo url cannot be set through the section", func(t *testing.T) {
		forged := `{"photoUrl":"http://elsewhere.example/x.png"}`
		saved, err := f.wizard.SaveSection(ctx, actor, draft.ID, models.StepPersonal, json.RawMessage(forged))
		require.NoError(t, err)
		assert.Empty(t, saved.Personal.PhotoURL)
		assert.Equal(t, "Syrian", saved.Personal.Nationality)

		_, err = f.wizard.Next(ctx, actor, draft.ID)
		assert.ErrorIs(t, err, apperrors.ErrPhotoRequired)
	})

	t.Run("photo must be an image", func(t *testing.T) {
		_, _, err := f.wizard.AttachDocument(ctx, actor, draft.ID, DocumentPhoto, "me.pdf", bytes.NewReader(pdfBytes))
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedFile)
	})

	t.Run("passport is required", func(t *testing.T) {
		updated, stored, err := f.wizard.AttachDocument(ctx, actor, draft.ID, DocumentPhoto, "me.png", bytes.NewReader(pngBytes))
		require.NoError(t, err)
		assert.Equal(t, stored.URL, updated.Personal.PhotoURL)
		assert.Contains(t, stored.Key, fmt.Sprintf("applications/%d/%s/", f.student.ID, draft.ID))

		moved, err := f.wizard.Next(ctx, actor, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StepDocuments, moved.CurrentStep)

		_, err = f.wizard.Next(ctx, actor, draft.ID)
		assert.ErrorIs(t, err, apperrors.ErrPassportRequired)

		forged := `{"passportUrl":"http://elsewhere.example/p.pdf","otherDocuments":[{"name":"x","url":"http://elsewhere.example/x"}]}`
		saved, err := f.wizard.SaveSection(ctx, actor, draft.ID, models.StepDocuments, json.RawMessage(forged))
		require.NoError(t, err)
		assert.Empty(t, saved.Documents.PassportURL)
		assert.Empty(t, saved.Documents.OtherDocuments)

		_, err = f.wizard.Next(ctx, actor, draft.ID)
		assert.ErrorIs(t, err, apperrors.ErrPassportRequired)
	})

	t.Run("back never goes below the first step", func(t *testing.T) {
		back, err := f.wizard.Back(ctx, actor, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StepPersonal, back.CurrentStep)

		back, err = f.wizard.Back(ctx, actor, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StepPersonal, back.CurrentStep)
	})
}

func TestWizard_SaveSectionMergesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := f.studentActor()

	draft, err := f.wizard.Start(ctx, actor)
	require.NoError(t, err)

	updated, err := f.wizard.SaveSection(ctx, actor, draft.ID, models.StepPersonal, json.RawMessage(`{"nationality":"Iraqi"}`))
	require.NoError(t, err)
	assert.Equal(t, "Iraqi", updated.Personal.Nationality)
	assert.Equal(t, "Ahmed", updated.Personal.FirstName)

	_, err = f.wizard.SaveSection(ctx, actor, draft.ID, models.StepPersonal, json.RawMessage(`{"firstName":`))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestWizard_ProgramMustBelongToUniversity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := f.studentActor()

	draft := walkToReview(t, f)
	_, err := f.wizard.Back(ctx, actor, draft.ID)
	require.NoError(t, err)

	_, err = f.wizard.SaveSection(ctx, actor, draft.ID, models.StepPreferences, preferencesJSON(f.university.ID+50, f.program.ID))
	require.NoError(t, err)

	_, err = f.wizard.Next(ctx, actor, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = f.wizard.SaveSection(ctx, actor, draft.ID, models.StepPreferences, preferencesJSON(0, f.program.ID+50))
	require.NoError(t, err)
	_, err = f.wizard.Next(ctx, actor, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrProgramNotFound)
}

func TestWizard_Submit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := f.studentActor()

	draft := walkToReview(t, f)

	_, err := f.wizard.Next(ctx, actor, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrStepLocked)

	_, err = f.wizard.Submit(ctx, actor, draft.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrTermsNotAccepted)

	resp, err := f.wizard.Submit(ctx, actor, draft.ID, true)
	require.NoError(t, err)

	assert.Equal(t, dto.OutcomeSuccess, resp.Outcome)
	app := resp.Application
	assert.Equal(t, "APP-20250314-1042", app.ID)
	assert.Equal(t, "Computer Engineering", app.ProgramName)
	assert.Equal(t, "Istanbul University", app.UniversityName)
	assert.Equal(t, "2025-2026", app.AcademicYear)
	assert.Equal(t, "fall", app.Semester)
	assert.Equal(t, "Syrian", app.FormData["nationality"])

	passport, ok := app.Document("passport")
	require.True(t, ok)
	assert.Equal(t, models.DocumentUploaded, passport.Status)
	photo, ok := app.Document("photo")
	require.True(t, ok)
	assert.Equal(t, models.DocumentUploaded, photo.Status)
	diploma, ok := app.Document("diploma")
	require.True(t, ok)
	assert.Equal(t, models.DocumentRequired, diploma.Status)

	_, err = f.wizard.Get(ctx, actor, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrDraftNotFound)
	assert.Equal(t, []string{events.ApplicationSubmitted}, f.recorder.Names())
}

func TestWizard_SubmitRequiresReviewStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.wizard.Start(ctx, f.studentActor())
	require.NoError(t, err)

	_, err = f.wizard.Submit(ctx, f.studentActor(), draft.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrNotAtReview)
}

func TestFlattenDraft(t *testing.T) {
	draft := &models.WizardDraft{
		Personal:    models.PersonalInfo{FirstName: "Sara", PhotoURL: "http://x/photo.png"},
		Documents:   models.DocumentsSection{PassportURL: "http://x/passport.pdf"},
		Education:   models.EducationSection{SchoolName: "Amman School", GPA: 91},
		Preferences: models.ProgramPreferences{ProgramID: 3, Semester: "spring"},
	}

	formData, err := FlattenDraft(draft)
	require.NoError(t, err)

	assert.Equal(t, "Sara", formData["firstName"])
	assert.Equal(t, "http://x/photo.png", formData["photoUrl"])
	assert.Equal(t, "http://x/passport.pdf", formData["passportUrl"])
	assert.Equal(t, "Amman School", formData["schoolName"])
	assert.Equal(t, float64(91), formData["gpa"])
	assert.Equal(t, float64(3), formData["programId"])
	assert.Equal(t, "spring", formData["semester"])
}
