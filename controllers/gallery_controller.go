package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mmhmddd/PowerEV-Server/database"
	"github.com/mmhmddd/PowerEV-Server/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type GalleryController struct{}

func NewGalleryController() *GalleryController {
	return &GalleryController{}
}

func (h *GalleryController) GetAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.GalleryCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		fail(c, http.StatusInternalServerError, "server error")
		return
	}

	items := []models.GalleryItem{}
	if err := cursor.All(ctx, &items); err != nil {
		fail(c, http.StatusInternalServerError, "server error")
		return
	}
	ok(c, gin.H{"count": len(items), "data": items})
}

func (h *GalleryController) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid gallery item ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var item models.GalleryItem
	if err := database.GalleryCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		fail(c, http.StatusNotFound, "gallery item not found")
		return
	}
	ok(c, gin.H{"data": item})
}

func (h *GalleryController) Create(c *gin.Context) {
	var body struct {
		Image       string `json:"image" binding:"required"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "please provide an image")
		return
	}

	now := time.Now()
	item := models.GalleryItem{
		ID:          primitive.NewObjectID(),
		Image:       body.Image,
		Title:       body.Title,
		Description: body.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := database.GalleryCollection.InsertOne(ctx, item); err != nil {
		fail(c, http.StatusInternalServerError, "failed to create gallery item")
		return
	}
	created(c, gin.H{"message": "gallery item created", "data": item})
}

func (h *GalleryController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid gallery item ID")
		return
	}

	var body struct {
		Image       *string `json:"image"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if body.Image != nil {
		set["image"] = *body.Image
	}
	if body.Title != nil {
		set["title"] = *body.Title
	}
	if body.Description != nil {
		set["description"] = *body.Description
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.GalleryItem
	err = database.GalleryCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		fail(c, http.StatusNotFound, "gallery item not found")
		return
	}
	ok(c, gin.H{"message": "gallery item updated", "data": updated})
}

func (h *GalleryController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid gallery item ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	res, err := database.GalleryCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to delete gallery item")
		return
	}
	if res.DeletedCount == 0 {
		fail(c, http.StatusNotFound, "gallery item not found")
		return
	}
	ok(c, gin.H{"message": "gallery item deleted"})
}
