package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"placify-backend/document-service/services"
	"placify-backend/shared/apperrors"
	"placify-backend/shared/middleware"
	"placify-backend/shared/utils/response"
)

// multipartOverhead leaves room for form fields and boundaries on top of the file itself
const multipartOverhead = 1 << 20

type DocumentHandler struct {
	documents   *services.DocumentService
	maxFileSize int64
}

func NewDocumentHandler(svc *services.DocumentService, maxFileSize int64) *DocumentHandler {
	return &DocumentHandler{documents: svc, maxFileSize: maxFileSize}
}

// UploadDocument stores a profile photo, CV or other document
// @Summary Upload a document
// @Description photo accepts .jpg .jpeg .png .webp, cv accepts .pdf .doc .docx. Photos become the user's image, CVs the student's cv_url.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param document_type formData string true "photo, cv, cover_letter or certificate"
// @Param file formData file true "File to upload"
// @Param application_id formData string false "Application this document belongs to" format(uuid)
// @Security BearerAuth
// @Success 201 {object} response.Envelope{data=document.Document}
// @Failure 400 {object} response.Envelope "Invalid type, extension or size"
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	if h.maxFileSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, apperrors.ValidationField("file", "a file is required"))
		return
	}
	defer file.Close()

	var applicationID *uuid.UUID
	if raw := c.PostForm("application_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperrors.ValidationField("application_id", "must be a valid UUID"))
			return
		}
		applicationID = &id
	}

	doc, err := h.documents.Upload(c.Request.Context(), middleware.MustPrincipal(c), services.Upload{
		DocumentType:  c.PostForm("document_type"),
		FileName:      header.Filename,
		Size:          header.Size,
		ContentType:   header.Header.Get("Content-Type"),
		Body:          file,
		ApplicationID: applicationID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Document uploaded successfully", doc)
}

// GetDocuments lists the caller's documents
// @Summary List my documents
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]document.Document}
// @Failure 401 {object} response.Envelope
// @Router /documents [get]
func (h *DocumentHandler) GetDocuments(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, docs)
}

// GetDocumentURL presigns a download link for one of the caller's documents
// @Summary Presigned download URL
// @Tags documents
// @Produce json
// @Param id path string true "Document ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=services.SignedURL}
// @Failure 404 {object} response.Envelope
// @Router /documents/{id}/url [get]
func (h *DocumentHandler) GetDocumentURL(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	signed, err := h.documents.SignedURL(c.Request.Context(), middleware.MustPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, signed)
}

// ServeDocument redirects the stable retrieval path to a fresh presigned URL
// @Summary Open a document
// @Description Stable link stored on profiles. Answers 302 to a short lived presigned URL.
// @Tags documents
// @Param id path string true "Document ID" format(uuid)
// @Success 302
// @Failure 404 {object} response.Envelope
// @Router /documents/{id}/file [get]
func (h *DocumentHandler) ServeDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	signed, err := h.documents.Resolve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, signed.URL)
}

// DeleteDocument removes one of the caller's documents
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), middleware.MustPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OKWithMessage(c, "Document deleted successfully", nil)
}

// RegisterRoutes mounts the document routes. The retrieval path stays public.
func (h *DocumentHandler) RegisterRoutes(r gin.IRouter, validator middleware.TokenValidator) {
	api := r.Group("/api/documents")
	api.GET("/:id/file", h.ServeDocument)

	authed := api.Group("", middleware.AuthMiddleware(validator))
	authed.POST("", h.UploadDocument)
	authed.GET("", h.GetDocuments)
	authed.GET("/:id/url", h.GetDocumentURL)
	authed.DELETE("/:id", h.DeleteDocument)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperrors.ValidationField("id", "must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
