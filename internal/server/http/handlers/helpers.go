package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studorg/marketplace/internal/domain/model"
	"github.com/studorg/marketplace/internal/server/http/dto"
	"github.com/studorg/marketplace/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentPage reads page/limit query parameters.
func CurrentPage(c *gin.Context) model.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("limit"))
	return model.Page{Number: page, Size: size}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:           order.ID,
		BuyerID:      order.BuyerID,
		ProductID:    order.ProductID,
		ProductName:  order.ProductName,
		ProductPrice: order.ProductPrice.StringFixed(2),
		Quantity:     order.Quantity,
		Status:       string(order.Status),
		PaymentType:  string(order.PaymentType),
		Instructions: order.Instructions,
		AssignedRep:  order.AssignedRep,
		TotalPrice:   order.TotalPrice().StringFixed(2),
		CreatedAt:    order.CreatedAt,
		PaidAt:       order.PaidAt,
	}
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return response
}
