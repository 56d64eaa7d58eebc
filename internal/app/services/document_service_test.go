package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/filestorage"
)

func TestDocuments_Upload(t *testing.T) {
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "http://files.test/uploads")
	require.NoError(t, err)
	f := newFixture(t)
	s := NewDocumentService(storage, 1, zerolog.Nop())

	stored, err := s.Upload(context.Background(), f.studentActor(), "diploma.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", stored.ContentType)
	assert.Contains(t, stored.Key, "documents/1/")

	_, err = s.Upload(context.Background(), f.studentActor(), "notes.txt", bytes.NewReader([]byte("plain text notes")))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFile)
}
