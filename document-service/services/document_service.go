package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"placify-backend/shared/apperrors"
	"placify-backend/shared/database/models/document"
	"placify-backend/shared/logger"
	"placify-backend/shared/metrics"
	"placify-backend/shared/utils/auth"
	docutils "placify-backend/shared/utils/document"
)

// ProfileLink names the profile field a document type feeds
type ProfileLink int

const (
	LinkNone ProfileLink = iota
	LinkUserImage
	LinkStudentCV
)

func LinkFor(t document.DocumentType) ProfileLink {
	switch t {
	case document.DocumentTypePhoto:
		return LinkUserImage
	case document.DocumentTypeCV:
		return LinkStudentCV
	}
	return LinkNone
}

// Repository persists document rows. Create and Delete also maintain the linked profile field.
type Repository interface {
	Create(ctx context.Context, doc *document.Document, link ProfileLink) error
	Get(ctx context.Context, id uuid.UUID) (*document.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]document.Document, error)
	Delete(ctx context.Context, doc *document.Document, link ProfileLink) error
}

// Upload is one multipart file as received by the handler
type Upload struct {
	DocumentType  string
	FileName      string
	Size          int64
	ContentType   string
	Body          io.Reader
	ApplicationID *uuid.UUID
}

// SignedURL is a time limited download link
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DocumentService struct {
	repo    Repository
	storage Storage
	policy  docutils.UploadPolicy
	expiry  time.Duration
	now     func() time.Time
}

func NewDocumentService(repo Repository, storage Storage, policy docutils.UploadPolicy, expiry time.Duration) *DocumentService {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &DocumentService{repo: repo, storage: storage, policy: policy, expiry: expiry, now: time.Now}
}

// RetrievalPath is the stable URL stored on profiles. It redirects to a fresh presigned URL.
func RetrievalPath(id uuid.UUID) string {
	return fmt.Sprintf("/api/documents/%s/file", id)
}

// Upload validates, stores and records a file for the caller
func (s *DocumentService) Upload(ctx context.Context, p auth.Principal, up Upload) (*document.Document, error) {
	docType := document.DocumentType(strings.ToLower(strings.TrimSpace(up.DocumentType)))
	fileName := docutils.SanitizeFileName(up.FileName)

	ext, err := s.policy.Validate(docType, fileName, up.Size)
	if err != nil {
		metrics.RecordDocumentUpload(string(docType), "rejected")
		return nil, err
	}

	body := bufio.NewReaderSize(up.Body, 512)
	contentType := detectContentType(body, up.ContentType, ext)

	doc := &document.Document{
		ID:            uuid.New(),
		UserID:        p.UserID,
		ApplicationID: up.ApplicationID,
		DocumentType:  docType,
		FileName:      fileName,
		FileSize:      up.Size,
		MimeType:      contentType,
		FileExtension: ext,
		BucketName:    s.storage.Bucket(),
		ObjectKey:     docutils.ObjectKey(p.UserID, docType, ext, s.now()),
	}
	doc.FileURL = RetrievalPath(doc.ID)

	log := logger.FromContext(ctx).With(zap.String("object_key", doc.ObjectKey))

	if err := s.storage.Put(ctx, doc.ObjectKey, body, up.Size, contentType); err != nil {
		metrics.RecordDocumentUpload(string(docType), "failed")
		return nil, apperrors.Internal("failed to store file", err)
	}

	if err := s.repo.Create(ctx, doc, LinkFor(docType)); err != nil {
		if rmErr := s.storage.Remove(ctx, doc.ObjectKey); rmErr != nil {
			log.Warn("failed to clean up object after insert failure", zap.Error(rmErr))
		}
		metrics.RecordDocumentUpload(string(docType), "failed")
		return nil, apperrors.Internal("failed to save document", err)
	}

	metrics.RecordDocumentUpload(string(docType), "stored")
	log.Info("document uploaded", zap.String("document_type", string(docType)), zap.Int64("size", up.Size))
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, p auth.Principal) ([]document.Document, error) {
	docs, err := s.repo.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, apperrors.Internal("failed to list documents", err)
	}
	return docs, nil
}

// SignedURL presigns one of the caller's documents
func (s *DocumentService) SignedURL(ctx context.Context, p auth.Principal, id uuid.UUID) (*SignedURL, error) {
	doc, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, doc)
}

// Resolve presigns any document by id for the public retrieval path
func (s *DocumentService) Resolve(ctx context.Context, id uuid.UUID) (*SignedURL, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, doc)
}

// Delete removes the object and its row, clearing the profile field that pointed at it
func (s *DocumentService) Delete(ctx context.Context, p auth.Principal, id uuid.UUID) error {
	doc, err := s.owned(ctx, p, id)
	if err != nil {
		return err
	}

	if err := s.storage.Remove(ctx, doc.ObjectKey); err != nil {
		return apperrors.Internal("failed to remove file", err)
	}
	if err := s.repo.Delete(ctx, doc, LinkFor(doc.DocumentType)); err != nil {
		return apperrors.Internal("failed to delete document", err)
	}

	logger.FromContext(ctx).Info("document deleted", zap.String("document_id", doc.ID.String()))
	return nil
}

func (s *DocumentService) owned(ctx context.Context, p auth.Principal, id uuid.UUID) (*document.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != p.UserID {
		return nil, apperrors.NotFound("document")
	}
	return doc, nil
}

func (s *DocumentService) sign(ctx context.Context, doc *document.Document) (*SignedURL, error) {
	url, err := s.storage.PresignedURL(ctx, doc.ObjectKey, doc.FileName, s.expiry)
	if err != nil {
		return nil, apperrors.Internal("failed to sign download url", err)
	}
	return &SignedURL{URL: url, ExpiresAt: s.now().Add(s.expiry)}, nil
}

// detectContentType trusts a specific client header, then sniffs, then falls back to the extension
func detectContentType(r *bufio.Reader, declared, ext string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if head, _ := r.Peek(512); len(head) > 0 {
		if sniffed := http.DetectContentType(head); sniffed != "application/octet-stream" {
			return sniffed
		}
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
