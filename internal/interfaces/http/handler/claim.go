package handler

import (
	"context"

	claimsapp "github.com/brokersuite/backend/internal/application/claims"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClaimHandler handles insurance claim API endpoints
type ClaimHandler struct {
	BaseHandler
	claimService *claimsapp.ClaimService
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimService *claimsapp.ClaimService) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
	}
}

// Register godoc
// @Summary      Register a claim
// @Description  Registers a claim with a REC number drawn from the reception year's sequence
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        request body claimsapp.RegisterClaimRequest true "Claim registration request"
// @Success      201 {object} dto.Response{data=claimsapp.ClaimResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims [post]
func (h *ClaimHandler) Register(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req claimsapp.RegisterClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	claim, err := h.claimService.Register(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, claim)
}

// GetByID godoc
// @Summary      Get claim by ID
// @Tags         claims
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} dto.Response{data=claimsapp.ClaimResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id} [get]
func (h *ClaimHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	claim, err := h.claimService.GetByID(c.Request.Context(), tenantID, claimID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, claim)
}

// GetByNumber godoc
// @Summary      Get claim by document number
// @Tags         claims
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        number path string true "Claim number" example:"REC-2025-00001"
// @Success      200 {object} dto.Response{data=claimsapp.ClaimResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/number/{number} [get]
func (h *ClaimHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Claim number is required")
		return
	}

	claim, err := h.claimService.GetByNumber(c.Request.Context(), tenantID, number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, claim)
}

// List godoc
// @Summary      List claims
// @Tags         claims
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        status query string false "Claim status" Enums(OPEN, RESOLVED, CLOSED)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        overdue query bool false "Only claims past their escalation deadline"
// @Param        minimum_level query int false "Minimum escalation level" minimum(1) maximum(3)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]claimsapp.ClaimResponse,meta=dto.Meta}
// @Router       /claims [get]
func (h *ClaimHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter claimsapp.ClaimListFilter
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

	claims, total, err := h.claimService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, claims, total, filter.Page, filter.PageSize)
}

// UpdateReceptionDate godoc
// @Summary      Correct the reception date of a claim
// @Description  Recomputes the escalation deadline from the corrected date
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body claimsapp.UpdateReceptionDateRequest true "Corrected reception date"
// @Success      200 {object} dto.Response{data=claimsapp.ClaimResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id}/reception-date [put]
func (h *ClaimHandler) UpdateReceptionDate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	var req claimsapp.UpdateReceptionDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	claim, err := h.claimService.UpdateReceptionDate(c.Request.Context(), tenantID, claimID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, claim)
}

// UpdateDescription godoc
// @Summary      Update the description of an open claim
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body claimsapp.UpdateDescriptionRequest true "Description update"
// @Success      200 {object} dto.Response{data=claimsapp.ClaimResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id}/description [put]
func (h *ClaimHandler) UpdateDescription(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	var req claimsapp.UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	claim, err := h.claimService.UpdateDescription(c.Request.Context(), tenantID, claimID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, claim)
}

// Escalate godoc
// @Summary      Escalate a claim to the next level
// @Description  Raises the escalation level by one and extends the deadline by ten business days per level; level 3 is the ceiling
// @Tags         claims
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} dto.Response{data=claimsapp.ClaimResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id}/escalate [post]
func (h *ClaimHandler) Escalate(c *gin.Context) {
	h.transition(c, h.claimService.Escalate)
}

// Resolve godoc
// @Summary      Resolve an open claim
// @Tags         claims
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} dto.Response{data=claimsapp.ClaimResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id}/resolve [post]
func (h *ClaimHandler) Resolve(c *gin.Context) {
	h.transition(c, h.claimService.Resolve)
}

// Close godoc
// @Summary      Close a resolved claim
// @Tags         claims
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} dto.Response{data=claimsapp.ClaimResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id}/close [post]
func (h *ClaimHandler) Close(c *gin.Context) {
	h.transition(c, h.claimService.Close)
}

// Delete godoc
// @Summary      Delete a claim
// @Description  Soft-deletes the claim; its REC number stays consumed
// @Tags         claims
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        id path string true "Claim ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /claims/{id} [delete]
func (h *ClaimHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	if err := h.claimService.Delete(c.Request.Context(), tenantID, claimID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ClaimHandler) transition(c *gin.Context, op func(ctx context.Context, tenantID, claimID uuid.UUID) (*claimsapp.ClaimResponse, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	claimID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid claim ID format")
		return
	}

	claim, err := op(c.Request.Context(), tenantID, claimID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, claim)
}
