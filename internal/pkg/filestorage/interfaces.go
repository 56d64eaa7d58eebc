package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/yigit/edupath/internal/pkg/apperrors"
)

// StoredFile describes an uploaded object
type StoredFile struct {
	Key         string `json:"key"`         // storage key, relative to the bucket or base directory
	URL         string `json:"url"`         // public URL
	Name        string `json:"name"`        // original filename
	Size        int64  `json:"size"`        // size in bytes
	ContentType string `json:"contentType"` // detected MIME type
}

// FileStorage stores uploaded documents and attachments
type FileStorage interface {
	// Save writes the content under folder and returns where it can be fetched
	Save(ctx context.Context, folder string, upload *Upload) (*StoredFile, error)

	// Delete removes an object by key. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}

// Upload is a file whose content was read and checked against a Policy
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the content length.
func (u *Upload) Size() int64 {
	return int64(len(u.Data))
}

// Policy restricts accepted uploads.
type Policy struct {
	MaxSize      int64
	AllowedTypes []string
}

// DocumentPolicy accepts images and PDFs up to maxSizeMB.
func DocumentPolicy(maxSizeMB int) Policy {
	return Policy{
		MaxSize:      int64(maxSizeMB) << 20,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp", "application/pdf"},
	}
}

// PhotoPolicy accepts images only.
func PhotoPolicy(maxSizeMB int) Policy {
	return Policy{
		MaxSize:      int64(maxSizeMB) << 20,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
	}
}

// Read loads r, enforcing the size limit and sniffing the MIME type.
func (p Policy) Read(name string, r io.Reader) (*Upload, error) {
	limit := p.MaxSize
	if limit <= 0 {
		limit = 10 << 20
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "file is too large").
			WithDetails(map[string]interface{}{"maxSize": limit})
	}
	if len(data) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "file is empty")
	}

	detected := mimetype.Detect(data)
	if len(p.AllowedTypes) > 0 && !mimetype.EqualsAny(detected.String(), p.AllowedTypes...) {
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "file type is not allowed").
			WithDetails(map[string]interface{}{"contentType": detected.String(), "allowed": p.AllowedTypes})
	}

	return &Upload{
		Name:        filepath.Base(name),
		ContentType: detected.String(),
		Data:        data,
	}, nil
}

// ReadMultipart opens a multipart file and reads it through the policy.
func (p Policy) ReadMultipart(fileHeader *multipart.FileHeader) (*Upload, error) {
	if fileHeader == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "file is required")
	}
	if p.MaxSize > 0 && fileHeader.Size > p.MaxSize {
		return nil, apperrors.NewCustomError(apperrors.ErrUnsupportedFile, "file is too large").
			WithDetails(map[string]interface{}{"maxSize": p.MaxSize})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return p.Read(fileHeader.Filename, file)
}

// objectKey builds "<folder>/<uuid><ext>", keeping the extension of the original name.
func objectKey(folder string, upload *Upload) string {
	ext := strings.ToLower(filepath.Ext(upload.Name))
	if ext == "" {
		if m := mimetype.Lookup(upload.ContentType); m != nil {
			ext = m.Extension()
		}
	}
	name := uuid.New().String() + ext
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func reader(upload *Upload) io.ReadSeeker {
	return bytes.NewReader(upload.Data)
}
