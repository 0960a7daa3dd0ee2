package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/studorg/marketplace/internal/domain/errors"
	"github.com/studorg/marketplace/internal/domain/model"
	"github.com/studorg/marketplace/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}

	input := model.NewOrder{
		BuyerID:      CurrentUserID(c),
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		PaymentType:  model.PaymentType(req.PaymentType),
		Instructions: req.Instructions,
	}
	if req.ProductPrice != "" {
		price, err := decimal.NewFromString(req.ProductPrice)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "invalid product price"})
			return
		}
		input.ProductPrice = price
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domainErrors.ErrInsufficientStock):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c), CurrentPage(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order id"})
		return
	}

	next := model.OrderStatus(c.Query("status"))
	order, err := h.facade.TransitionOrder(c.Request.Context(), orderID, next, CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domainErrors.ErrInvalidOperation):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domainErrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Assigned handles GET /api/orders/assigned.
func (h *OrderHandler) Assigned(c *gin.Context) {
	orders, err := h.facade.AssignedOrders(c.Request.Context(), CurrentUserID(c), CurrentPage(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, toOrderResponses(orders))
}
