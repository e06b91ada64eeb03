package controllers

import (
	"context"
	"net/http"

	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type orderItemBody struct {
	ProductID   string  `json:"productId"`
	ProductType string  `json:"productType"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
}

// CreateOrder handles checkout: cart-sourced when sessionId is present,
// else from the explicit item list.
func (h *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		Name          string          `json:"name"`
		Phone         string          `json:"phone"`
		Email         string          `json:"email"`
		Address       string          `json:"address"`
		Notes         string          `json:"notes"`
		PaymentMethod string          `json:"paymentMethod"`
		SessionID     string          `json:"sessionId"`
		Items         []orderItemBody `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in := services.CreateOrderInput{
		Name:          body.Name,
		Phone:         body.Phone,
		Email:         body.Email,
		Address:       body.Address,
		Notes:         body.Notes,
		PaymentMethod: body.PaymentMethod,
		SessionID:     body.SessionID,
	}

	for _, item := range body.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product ID format")
			return
		}
		in.Items = append(in.Items, services.OrderItemInput{
			ProductID:   productID,
			ProductType: models.ProductType(item.ProductType),
			Name:        item.Name,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Image:       item.Image,
		})
	}

	if claim, exists := c.Get("userId"); exists {
		if raw, valid := claim.(string); valid {
			if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
				in.UserID = &oid
			}
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.Create(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, gin.H{"message": "order created successfully", "data": order})
}

func (h *OrderController) GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	orders, err := h.orders.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"count": len(orders), "data": orders})
}

func (h *OrderController) GetOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": order})
}

// TrackOrder is the public lookup by order number.
func (h *OrderController) TrackOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.Track(ctx, c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": order})
}

func (h *OrderController) GetMyOrders(c *gin.Context) {
	claim, exists := c.Get("userId")
	if !exists {
		fail(c, http.StatusUnauthorized, "please login to view your orders")
		return
	}
	raw, valid := claim.(string)
	if !valid {
		fail(c, http.StatusUnauthorized, "please login to view your orders")
		return
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		fail(c, http.StatusUnauthorized, "please login to view your orders")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	orders, err := h.orders.ListByUser(ctx, oid)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"count": len(orders), "data": orders})
}

func (h *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order ID")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "please provide status")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.UpdateStatus(ctx, id, body.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "order status updated successfully", "data": order})
}

func (h *OrderController) UpdatePaymentStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order ID")
		return
	}

	var body struct {
		PaymentStatus string `json:"paymentStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "please provide payment status")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.UpdatePaymentStatus(ctx, id, body.PaymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "payment status updated successfully", "data": order})
}

func (h *OrderController) UpdateOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order ID")
		return
	}

	var body struct {
		Name          *string `json:"name"`
		Phone         *string `json:"phone"`
		Email         *string `json:"email"`
		Address       *string `json:"address"`
		Notes         *string `json:"notes"`
		Status        *string `json:"status"`
		PaymentMethod *string `json:"paymentMethod"`
		PaymentStatus *string `json:"paymentStatus"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	order, err := h.orders.Update(ctx, id, services.UpdateOrderInput{
		Name:          body.Name,
		Phone:         body.Phone,
		Email:         body.Email,
		Address:       body.Address,
		Notes:         body.Notes,
		Status:        body.Status,
		PaymentMethod: body.PaymentMethod,
		PaymentStatus: body.PaymentStatus,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "order updated successfully", "data": order})
}

// DeleteOrder removes the order after restoring stock for its lines.
func (h *OrderController) DeleteOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.orders.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "order deleted successfully"})
}
