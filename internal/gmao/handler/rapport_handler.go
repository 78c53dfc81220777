package handler

import (
	"errors"

	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RapportHandler routes des rapports et de leurs pièces jointes
type RapportHandler struct {
	rapportSvc  *service.RapportService
	documentSvc *service.DocumentService
	logger      *zap.Logger
}

func NewRapportHandler(rapportSvc *service.RapportService, documentSvc *service.DocumentService, logger *zap.Logger) *RapportHandler {
	return &RapportHandler{rapportSvc: rapportSvc, documentSvc: documentSvc, logger: logger}
}

// List GET /rapports
func (h *RapportHandler) List(c *gin.Context) {
	items, err := h.rapportSvc.List(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// Get GET /rapports/:id
func (h *RapportHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	r, err := h.rapportSvc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, r)
}

// Create POST /rapports
func (h *RapportHandler) Create(c *gin.Context) {
	var req service.CreateRapportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	r, err := h.rapportSvc.Create(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Created(c, r)
}

// Update PUT /rapports/:id
func (h *RapportHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateRapportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	r, err := h.rapportSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, r)
}

// Validate PUT /rapports/:id/validate
func (h *RapportHandler) Validate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	r, err := h.rapportSvc.Validate(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, r, "rapport validé")
}

// Delete DELETE /rapports/:id
func (h *RapportHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.rapportSvc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, h.logger, err)
		return
	}
	SuccessMessage(c, nil, "rapport supprimé")
}

// Documents GET /rapports/:id/documents
func (h *RapportHandler) Documents(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	docs, err := h.documentSvc.List(c.Request.Context(), id)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, docs)
}

// UploadDocument POST /rapports/:id/documents
func (h *RapportHandler) UploadDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		ValidationError(c, "fichier manquant", gin.H{"file": "un fichier est requis"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		InternalError(c, h.logger, err)
		return
	}
	defer f.Close()

	doc, err := h.documentSvc.Upload(c.Request.Context(), id,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, f)
	if err != nil {
		if errors.Is(err, service.ErrStockageIndisponible) {
			ValidationError(c, "stockage objet non configuré", nil)
			return
		}
		RespondError(c, h.logger, err)
		return
	}
	Created(c, doc)
}

// DocumentURL GET /rapports/:id/documents/:documentId/url
func (h *RapportHandler) DocumentURL(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	documentID, ok := parseID(c, "documentId")
	if !ok {
		return
	}
	u, err := h.documentSvc.DownloadURL(c.Request.Context(), id, documentID)
	if err != nil {
		if errors.Is(err, service.ErrStockageIndisponible) {
			ValidationError(c, "stockage objet non configuré", nil)
			return
		}
		RespondError(c, h.logger, err)
		return
	}
	Success(c, gin.H{"url": u})
}
