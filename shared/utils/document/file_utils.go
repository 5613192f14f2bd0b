package document

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/config"
	docmodels "placify-backend/shared/database/models/document"

	"github.com/google/uuid"
)

// UploadPolicy holds the per document type extension whitelist and the size cap
type UploadPolicy struct {
	MaxFileSize int64
	Extensions  map[docmodels.DocumentType][]string
}

func NewUploadPolicy(cfg *config.Config) UploadPolicy {
	return UploadPolicy{
		MaxFileSize: cfg.UploadMaxFileSize,
		Extensions: map[docmodels.DocumentType][]string{
			docmodels.DocumentTypePhoto:       cfg.UploadPhotoExtensions,
			docmodels.DocumentTypeCV:          cfg.UploadCVExtensions,
			docmodels.DocumentTypeCoverLetter: cfg.UploadOtherExtensions,
			docmodels.DocumentTypeCertificate: cfg.UploadOtherExtensions,
		},
	}
}

// Validate checks type, size and extension of an upload and returns the normalized extension
func (p UploadPolicy) Validate(docType docmodels.DocumentType, fileName string, size int64) (string, error) {
	if !docType.Valid() {
		return "", apperrors.ValidationField("document_type", "must be one of photo, cv, cover_letter, certificate")
	}
	if size <= 0 {
		return "", apperrors.ValidationField("file", "file is empty")
	}
	if p.MaxFileSize > 0 && size > p.MaxFileSize {
		return "", apperrors.ValidationField("file", fmt.Sprintf("file exceeds %d bytes", p.MaxFileSize))
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || !slices.Contains(p.Extensions[docType], ext) {
		return "", apperrors.ValidationField("file",
			fmt.Sprintf("%s files accept %s", docType, strings.Join(p.Extensions[docType], ", ")))
	}
	return ext, nil
}

// ObjectKey builds the storage key users/<user>/<type>-<unix>-<random><ext>
func ObjectKey(userID uuid.UUID, docType docmodels.DocumentType, ext string, now time.Time) string {
	return fmt.Sprintf("users/%s/%s-%d-%s%s",
		userID, docType, now.Unix(), uuid.NewString()[:8], ext)
}

// SanitizeFileName keeps the base name and strips characters that break headers
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 32 || r == '"' || r == '/' {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." {
		return "file"
	}
	return name
}
