package controllers

import (
	"context"
	"net/http"

	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// GetCart returns the session's cart, creating an empty one on first
// sight of the session.
func (h *CartController) GetCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cart, err := h.carts.GetOrCreate(ctx, c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"data": cart})
}

func (h *CartController) AddToCart(c *gin.Context) {
	var body struct {
		ProductID   string `json:"productId" binding:"required"`
		ProductType string `json:"productType" binding:"required"`
		Quantity    int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "please provide productId and productType")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product ID format")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cart, err := h.carts.AddItem(ctx, c.Param("sessionId"), productID, models.ProductType(body.ProductType), body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "item added to cart successfully", "data": cart})
}

func (h *CartController) UpdateCartItem(c *gin.Context) {
	var body struct {
		ProductID   string `json:"productId" binding:"required"`
		ProductType string `json:"productType" binding:"required"`
		Quantity    int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "please provide productId, productType, and quantity")
		return
	}

	productID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product ID format")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cart, err := h.carts.UpdateItem(ctx, c.Param("sessionId"), productID, models.ProductType(body.ProductType), body.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "cart item updated successfully", "data": cart})
}

func (h *CartController) RemoveFromCart(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product ID format")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cart, err := h.carts.RemoveItem(ctx, c.Param("sessionId"), productID, models.ProductType(c.Param("productType")))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "item removed from cart successfully", "data": cart})
}

func (h *CartController) ClearCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cart, err := h.carts.Clear(ctx, c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "cart cleared successfully", "data": cart})
}
