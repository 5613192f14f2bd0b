package document

import (
	"strings"
	"testing"
	"time"

	"placify-backend/shared/apperrors"
	docmodels "placify-backend/shared/database/models/document"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() UploadPolicy {
	return UploadPolicy{
		MaxFileSize: 1024,
		Extensions: map[docmodels.DocumentType][]string{
			docmodels.DocumentTypePhoto: {".jpg", ".png"},
			docmodels.DocumentTypeCV:    {".pdf", ".docx"},
		},
	}
}

func TestUploadPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		docType docmodels.DocumentType
		file    string
		size    int64
		wantExt string
		wantErr bool
	}{
		{"photo ok", docmodels.DocumentTypePhoto, "me.JPG", 10, ".jpg", false},
		{"cv ok", docmodels.DocumentTypeCV, "resume.pdf", 1024, ".pdf", false},
		{"cv as image", docmodels.DocumentTypeCV, "resume.png", 10, "", true},
		{"too large", docmodels.DocumentTypePhoto, "me.png", 1025, "", true},
		{"empty", docmodels.DocumentTypePhoto, "me.png", 0, "", true},
		{"no extension", docmodels.DocumentTypeCV, "resume", 10, "", true},
		{"unknown type", docmodels.DocumentType("selfie"), "me.png", 10, "", true},
		{"type without whitelist", docmodels.DocumentTypeCertificate, "c.pdf", 10, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := testPolicy().Validate(tt.docType, tt.file, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestObjectKey(t *testing.T) {
	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	now := time.Unix(1700000000, 0)

	key := ObjectKey(userID, docmodels.DocumentTypeCV, ".pdf", now)
	assert.True(t, strings.HasPrefix(key, "users/11111111-2222-3333-4444-555555555555/cv-1700000000-"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, ObjectKey(userID, docmodels.DocumentTypeCV, ".pdf", now), "keys carry a random part")
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "cv.pdf", SanitizeFileName("../../etc/cv.pdf"))
	assert.Equal(t, "cv.pdf", SanitizeFileName(`C:\Users\me\cv.pdf`))
	assert.Equal(t, "mycv.pdf", SanitizeFileName("my\"cv.pdf"))
	assert.Equal(t, "file", SanitizeFileName(""))
}
