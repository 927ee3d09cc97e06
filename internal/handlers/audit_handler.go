package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a paginated list of administrative actions
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param entity query string false "Filter by entity type"
// @Param user_id query int false "Filter by actor"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *AuditHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 32)

	args := services.NewAuditListArgs(page, perPage, c.Query("entity"), uint(userID))

	logs, total, err := h.auditService.List(c.Request.Context(), args)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audit_logs": logs,
		"pagination": gin.H{
			"page":        args.Page,
			"per_page":    args.PerPage,
			"total":       total,
			"total_pages": (total + int64(args.PerPage) - 1) / int64(args.PerPage),
		},
	})
}
