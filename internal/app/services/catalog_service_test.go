package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
)

func newCatalog() CatalogService {
	universities := repositories.NewMemoryUniversityRepository()
	return NewCatalogService(universities, repositories.NewMemoryProgramRepository(universities))
}

func TestCatalog_UniversityLifecycle(t *testing.T) {
	catalog := newCatalog()
	ctx := context.Background()

	uni, err := catalog.CreateUniversity(ctx, &dto.UniversityRequest{Name: " Ankara University ", Country: "Turkey", City: "Ankara"})
	require.NoError(t, err)
	assert.Equal(t, "Ankara University", uni.Name)

	program, err := catalog.CreateProgram(ctx, &dto.ProgramRequest{
		UniversityID: uni.ID, Name: "Medicine", DegreeLevel: "bachelor", Language: "Turkish",
		DurationYears: 6, TuitionFee: 9000, Currency: "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ankara University", program.UniversityName)
	assert.Equal(t, "Turkey", program.Country)
	assert.Equal(t, "USD", program.Currency)

	err = catalog.DeleteUniversity(ctx, uni.ID)
	assert.ErrorIs(t, err, apperrors.ErrUniversityHasPrograms)

	require.NoError(t, catalog.DeleteProgram(ctx, program.ID))
	require.NoError(t, catalog.DeleteUniversity(ctx, uni.ID))

	_, err = catalog.GetUniversity(ctx, uni.ID)
	assert.ErrorIs(t, err, apperrors.ErrUniversityNotFound)
}

func TestCatalog_ProgramNeedsUniversity(t *testing.T) {
	catalog := newCatalog()

	_, err := catalog.CreateProgram(context.Background(), &dto.ProgramRequest{
		UniversityID: 77, Name: "Law", DegreeLevel: "master", Language: "English", DurationYears: 2, Currency: "EUR",
	})
	assert.ErrorIs(t, err, apperrors.ErrUniversityNotFound)
}

func TestCatalog_ListPrograms(t *testing.T) {
	catalog := newCatalog()
	ctx := context.Background()

	uni, err := catalog.CreateUniversity(ctx, &dto.UniversityRequest{Name: "Cairo University", Country: "Egypt", City: "Cairo"})
	require.NoError(t, err)
	for _, p := range []struct {
		name  string
		level models.DegreeLevel
		fee   float64
	}{
		{"Architecture", models.DegreeBachelor, 3000},
		{"Data Science", models.DegreeMaster, 5000},
		{"Pharmacy", models.DegreeBachelor, 7000},
	} {
		_, err := catalog.CreateProgram(ctx, &dto.ProgramRequest{
			UniversityID: uni.ID, Name: p.name, DegreeLevel: string(p.level), Language: "Arabic",
			DurationYears: 4, TuitionFee: p.fee, Currency: "EGP",
		})
		require.NoError(t, err)
	}

	resp, err := catalog.ListPrograms(ctx, dto.ProgramFilter{DegreeLevel: "bachelor", Page: 1, Size: 1})
	require.NoError(t, err)
	items := resp.Items.([]*models.Program)
	require.Len(t, items, 1)
	assert.Equal(t, "Architecture", items[0].Name)
	assert.Equal(t, int64(2), resp.Pagination.TotalItems)
	assert.Equal(t, 2, resp.Pagination.TotalPages)

	resp, err = catalog.ListPrograms(ctx, dto.ProgramFilter{MaxFee: 5000})
	require.NoError(t, err)
	assert.Len(t, resp.Items.([]*models.Program), 2)

	_, err = catalog.ListPrograms(ctx, dto.ProgramFilter{DegreeLevel: "doctorate"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	countries, err := catalog.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Egypt"}, countries)
}
