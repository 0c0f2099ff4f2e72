package handler

import (
	"net/http"

	"canebill/internal/service"
	"canebill/pkg/pagination"
	"canebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	router.GET("/api/audit", requireAdmin, h.list)
}

// list returns audit log entries, newest first
// @Summary      List audit log entries
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action  query  string  false  "Filter by action"
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /api/audit [get]
func (h *AuditHandler) list(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.auditService.ListEntries(c.Request.Context(), c.Query("action"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, entries, params.Page, params.Limit, total))
}
