package handler

import (
	"context"

	documentsapp "github.com/brokersuite/backend/internal/application/documents"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles quote and lease document API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *documentsapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documentsapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// Create godoc
// @Summary      Create a document
// @Description  Creates a draft quote (DEV number) or lease (BAIL number)
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body documentsapp.CreateDocumentRequest true "Document creation request"
// @Success      201 {object} dto.Response{data=documentsapp.DocumentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req documentsapp.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	document, err := h.documentService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, document)
}

// GetByID godoc
// @Summary      Get document by ID
// @Tags         documents
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=documentsapp.DocumentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	document, err := h.documentService.GetByID(c.Request.Context(), tenantID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, document)
}

// GetByNumber godoc
// @Summary      Get document by document number
// @Tags         documents
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        number path string true "Document number" example:"DEV-2025-00001"
// @Success      200 {object} dto.Response{data=documentsapp.DocumentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/number/{number} [get]
func (h *DocumentHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	document, err := h.documentService.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, document)
}

// List godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        kind query string false "Document kind" Enums(QUOTE, LEASE)
// @Param        status query string false "Document status" Enums(DRAFT, ISSUED, ARCHIVED)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]documentsapp.DocumentResponse,meta=dto.Meta}
// @Router       /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter documentsapp.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	documents, total, err := h.documentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, documents, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a draft document
// @Description  Title and amount can only change while the document is a draft
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Document ID" format(uuid)
// @Param        request body documentsapp.UpdateDocumentRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=documentsapp.DocumentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req documentsapp.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	document, err := h.documentService.Update(c.Request.Context(), tenantID, documentID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, document)
}

// Issue godoc
// @Summary      Issue a draft document
// @Tags         documents
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=documentsapp.DocumentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id}/issue [post]
func (h *DocumentHandler) Issue(c *gin.Context) {
	h.transition(c, h.documentService.Issue)
}

// Archive godoc
// @Summary      Archive an issued document
// @Tags         documents
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} dto.Response{data=documentsapp.DocumentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id}/archive [post]
func (h *DocumentHandler) Archive(c *gin.Context) {
	h.transition(c, h.documentService.Archive)
}

// Delete godoc
// @Summary      Delete a document
// @Description  Soft-deletes the document; its number stays consumed
// @Tags         documents
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Document ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), tenantID, documentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *DocumentHandler) transition(c *gin.Context, op func(ctx context.Context, tenantID, documentID uuid.UUID) (*documentsapp.DocumentResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	document, err := op(c.Request.Context(), tenantID, documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, document)
}
