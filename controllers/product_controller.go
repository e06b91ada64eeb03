package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/mmhmddd/PowerEV-Server/logger"
	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/services"
	"github.com/mmhmddd/PowerEV-Server/store"
	"github.com/mmhmddd/PowerEV-Server/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProductController serves all nine catalogs with one set of handlers;
// the route layer binds each instance method to a concrete ProductType.
type ProductController struct {
	catalog  *store.CatalogStore
	uploader *utils.Uploader
}

func NewProductController(catalog *store.CatalogStore, uploader *utils.Uploader) *ProductController {
	return &ProductController{catalog: catalog, uploader: uploader}
}

func (h *ProductController) List(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		products, err := h.catalog.ListProducts(ctx, t)
		if err != nil {
			fail(c, http.StatusInternalServerError, "server error")
			return
		}
		ok(c, gin.H{"count": len(products), "data": products})
	}
}

func (h *ProductController) Get(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		product, err := h.catalog.FindProduct(ctx, t, id)
		if err != nil {
			respondError(c, services.ErrProductNotFound)
			return
		}
		ok(c, gin.H{"data": product})
	}
}

type productBody struct {
	Name          string        `json:"name"`
	Brand         string        `json:"brand"`
	Price         *float64      `json:"price"`
	Stock         *int          `json:"stock"`
	Quantity      string        `json:"quantity"`
	Voltage       *float64      `json:"voltage"`
	Amperage      *float64      `json:"amperage"`
	ConnectorType string        `json:"connectorType"`
	Phase         string        `json:"phase"`
	Efficiency    *float64      `json:"efficiency"`
	Size          string        `json:"size"`
	Description   string        `json:"description"`
	Images        []string      `json:"images"`
	Offer         *models.Offer `json:"offer"`
}

func (h *ProductController) Create(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body productBody
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Name == "" || body.Price == nil || body.Stock == nil {
			fail(c, http.StatusBadRequest, "please provide name, price, and stock")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		// Inline base64 payloads go to the media host; anything already a
		// URL is stored as-is.
		images, err := h.uploader.UploadImages(ctx, body.Images, utils.FolderFor(t))
		if err != nil {
			logger.Log.Error("image upload failed", zap.String("productType", string(t)), zap.Error(err))
			fail(c, http.StatusInternalServerError, "failed to upload images")
			return
		}

		product := models.Product{
			Name:          body.Name,
			Brand:         body.Brand,
			Price:         *body.Price,
			Stock:         *body.Stock,
			Quantity:      body.Quantity,
			Voltage:       body.Voltage,
			Amperage:      body.Amperage,
			ConnectorType: body.ConnectorType,
			Phase:         body.Phase,
			Efficiency:    body.Efficiency,
			Size:          body.Size,
			Description:   body.Description,
			Images:        images,
		}
		if body.Offer != nil {
			product.Offer = *body.Offer
		}

		if err := h.catalog.InsertProduct(ctx, t, &product); err != nil {
			fail(c, http.StatusInternalServerError, "failed to create product")
			return
		}
		created(c, gin.H{"message": "product created", "data": product})
	}
}

func (h *ProductController) Update(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product ID format")
			return
		}

		var body productBody
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		set := bson.M{}
		if body.Name != "" {
			set["name"] = body.Name
		}
		if body.Brand != "" {
			set["brand"] = body.Brand
		}
		if body.Price != nil {
			set["price"] = *body.Price
		}
		if body.Stock != nil {
			set["stock"] = *body.Stock
		}
		if body.Quantity != "" {
			set["quantity"] = body.Quantity
		}
		if body.Voltage != nil {
			set["voltage"] = *body.Voltage
		}
		if body.Amperage != nil {
			set["amperage"] = *body.Amperage
		}
		if body.ConnectorType != "" {
			set["connectorType"] = body.ConnectorType
		}
		if body.Phase != "" {
			set["phase"] = body.Phase
		}
		if body.Efficiency != nil {
			set["efficiency"] = *body.Efficiency
		}
		if body.Size != "" {
			set["size"] = body.Size
		}
		if body.Description != "" {
			set["description"] = body.Description
		}
		if body.Offer != nil {
			set["offer"] = *body.Offer
		}
		if body.Images != nil {
			images, err := h.uploader.UploadImages(ctx, body.Images, utils.FolderFor(t))
			if err != nil {
				logger.Log.Error("image upload failed", zap.String("productType", string(t)), zap.Error(err))
				fail(c, http.StatusInternalServerError, "failed to upload images")
				return
			}
			set["images"] = images
		}

		product, err := h.catalog.UpdateProduct(ctx, t, id, set)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(c, services.ErrProductNotFound)
				return
			}
			fail(c, http.StatusInternalServerError, "failed to update product")
			return
		}
		ok(c, gin.H{"message": "product updated", "data": product})
	}
}

// UpdateStock sets the absolute stock figure for one product, for
// corrections after manual counts or reconciliation.
func (h *ProductController) UpdateStock(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product ID format")
			return
		}

		var body struct {
			Stock *int `json:"stock"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Stock == nil {
			fail(c, http.StatusBadRequest, "please provide stock")
			return
		}
		if *body.Stock < 0 {
			fail(c, http.StatusBadRequest, "stock cannot be negative")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := h.catalog.SetStock(ctx, t, id, *body.Stock); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(c, services.ErrProductNotFound)
				return
			}
			fail(c, http.StatusInternalServerError, "failed to update stock")
			return
		}
		ok(c, gin.H{"message": "stock updated", "id": id.Hex(), "stock": *body.Stock})
	}
}

func (h *ProductController) Delete(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product ID format")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		product, err := h.catalog.FindProduct(ctx, t, id)
		if err != nil {
			respondError(c, services.ErrProductNotFound)
			return
		}

		if err := h.catalog.DeleteProduct(ctx, t, id); err != nil {
			fail(c, http.StatusInternalServerError, "failed to delete product")
			return
		}

		// Media cleanup is best-effort; a dangling asset is harmless.
		if err := h.uploader.DeleteImages(ctx, product.Images); err != nil {
			logger.Log.Warn("image cleanup failed",
				zap.String("productType", string(t)),
				zap.String("productId", id.Hex()),
				zap.Error(err))
		}

		ok(c, gin.H{"message": "product deleted", "id": id.Hex()})
	}
}
