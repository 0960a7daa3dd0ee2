package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studorg/marketplace/internal/domain/model"
	"github.com/studorg/marketplace/internal/server/http/dto"
)

// AdminHandler serves administrative views over orders.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// ListAll handles GET /api/orders/admin.
func (h *AdminHandler) ListAll(c *gin.Context) {
	orders, err := h.facade.AllOrders(c.Request.Context(), CurrentPage(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Stats handles GET /api/orders/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.facade.Stats(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		DeliveredCount:    stats.DeliveredCount,
		DeliveredQuantity: stats.DeliveredQuantity,
		DeliveredRevenue:  stats.DeliveredRevenue.StringFixed(2),
	})
}

// Archived handles GET /api/orders/archived.
func (h *AdminHandler) Archived(c *gin.Context) {
	archived, err := h.facade.ArchivedOrders(c.Request.Context(), CurrentPage(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.OrderResponse, 0, len(archived))
	for _, o := range archived {
		response = append(response, toOrderResponse(model.Order(o)))
	}

	c.JSON(http.StatusOK, response)
}
