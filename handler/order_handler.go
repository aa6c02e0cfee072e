package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rohitk2319/ocr-patient-intake/dto"
	"github.com/rohitk2319/ocr-patient-intake/store"
)

type OrderHandler struct {
	orders store.OrderStore
}

func NewOrderHandler(orders store.OrderStore) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// ListOrders handles GET /api/orders, newest first.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		h.sendStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// CreateOrder handles POST /api/orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.sendStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder handles PUT /api/orders/:id. Fields absent from the body
// keep their stored values.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	order, err := h.orders.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.sendStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/orders/:id.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.sendStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{Message: "Order deleted successfully"})
}

func (h *OrderHandler) sendStoreError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
		return
	}
	log.Printf("Error: order store operation failed - %v", err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error", Details: err.Error()})
}
