package dto

import (
	"github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/pkg/filestorage"
)

// SubmitDraftRequest finishes the wizard
type SubmitDraftRequest struct {
	AgreeTerms bool `json:"agreeTerms"`
}

// AttachDocumentResponse is the draft after an upload together with the stored file
type AttachDocumentResponse struct {
	Draft *models.WizardDraft     `json:"draft"`
	File  *filestorage.StoredFile `json:"file"`
}
