package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placify-backend/document-service/services"
	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models"
	"placify-backend/shared/database/models/document"
	"placify-backend/shared/utils/auth"
	docutils "placify-backend/shared/utils/document"
)

type storageStub struct{ keys []string }

func (s *storageStub) Bucket() string { return "docs" }

func (s *storageStub) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	_, err := io.Copy(io.Discard, r)
	s.keys = append(s.keys, key)
	return err
}

func (s *storageStub) PresignedURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://minio.local/docs/" + key, nil
}

func (s *storageStub) Remove(context.Context, string) error { return nil }

type repoStub struct{ docs map[uuid.UUID]document.Document }

func (r *repoStub) Create(_ context.Context, doc *document.Document, _ services.ProfileLink) error {
	r.docs[doc.ID] = *doc
	return nil
}

func (r *repoStub) Get(_ context.Context, id uuid.UUID) (*document.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, apperrors.NotFound("document")
	}
	return &doc, nil
}

func (r *repoStub) ListByUser(_ context.Context, userID uuid.UUID) ([]document.Document, error) {
	var out []document.Document
	for _, d := range r.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *repoStub) Delete(_ context.Context, doc *document.Document, _ services.ProfileLink) error {
	delete(r.docs, doc.ID)
	return nil
}

func setup(t *testing.T) (*gin.Engine, *repoStub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &repoStub{docs: map[uuid.UUID]document.Document{}}
	policy := docutils.UploadPolicy{
		MaxFileSize: 1 << 20,
		Extensions: map[document.DocumentType][]string{
			document.DocumentTypeCV: {".pdf"},
		},
	}
	svc := services.NewDocumentService(repo, &storageStub{}, policy, time.Minute)

	tokens := auth.NewTokenManager("test-secret", time.Hour, time.Hour)
	pair, err := tokens.IssuePair(auth.Principal{UserID: uuid.New(), Email: "s@uni.edu", Role: models.RoleStudent})
	require.NoError(t, err)

	r := gin.New()
	NewDocumentHandler(svc, policy.MaxFileSize).RegisterRoutes(r, tokens)
	return r, repo, pair.Token
}

func multipartBody(t *testing.T, docType, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("document_type", docType))
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadThenRedirect(t *testing.T) {
	r, repo, token := setup(t)

	body, contentType := multipartBody(t, "cv", "resume.pdf", []byte("%PDF-1.7\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data document.Document `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "resume.pdf", created.Data.FileName)
	assert.Len(t, repo.docs, 1)

	// the stored link works without a token
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, created.Data.FileURL, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://minio.local/docs/"+created.Data.ObjectKey, w.Header().Get("Location"))
}

func TestUploadRejectsWrongExtension(t *testing.T) {
	r, repo, token := setup(t)

	body, contentType := multipartBody(t, "cv", "resume.exe", []byte("MZ"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.docs)
}

func TestDocumentRoutesRequireToken(t *testing.T) {
	r, _, _ := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents/"+uuid.NewString()+"/file", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents/nope/file", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
