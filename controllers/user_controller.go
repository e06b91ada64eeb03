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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// UserController is the admin user-management surface plus the
// authenticated account lookup behind /auth/me.
type UserController struct{}

func NewUserController() *UserController {
	return &UserController{}
}

func validUserRole(role string) bool {
	return role == "customer" || role == "admin"
}

func userPayload(u models.User) gin.H {
	return gin.H{
		"id":    u.ID.Hex(),
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

// Me returns the account behind the presented token.
func (h *UserController) Me(c *gin.Context) {
	claim, exists := c.Get("userId")
	if !exists {
		fail(c, http.StatusUnauthorized, "please login")
		return
	}
	raw, valid := claim.(string)
	if !valid {
		fail(c, http.StatusUnauthorized, "please login")
		return
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		fail(c, http.StatusUnauthorized, "please login")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	if err := database.UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	ok(c, gin.H{"user": userPayload(user)})
}

func (h *UserController) GetAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.UserCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}
	ok(c, gin.H{"count": len(users), "data": users})
}

func (h *UserController) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user ID format")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	if err := database.UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	ok(c, gin.H{"data": user})
}

// Create lets an admin provision an account with an explicit role,
// unlike the public register endpoint which always makes customers.
func (h *UserController) Create(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "please provide name, email, and password")
		return
	}

	role := input.Role
	if role == "" {
		role = "customer"
	}
	if !validUserRole(role) {
		fail(c, http.StatusBadRequest, "role must be customer or admin")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var existing models.User
	if err := database.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing); err == nil {
		fail(c, http.StatusConflict, "email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now(),
	}
	if _, err := database.UserCollection.InsertOne(ctx, user); err != nil {
		fail(c, http.StatusInternalServerError, "failed to create user")
		return
	}
	created(c, gin.H{"message": "user created successfully", "user": userPayload(user)})
}

func (h *UserController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user ID format")
		return
	}

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	set := bson.M{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		if !models.ValidEmail(input.Email) {
			fail(c, http.StatusBadRequest, "invalid email format")
			return
		}
		set["email"] = input.Email
	}
	if input.Role != "" {
		if !validUserRole(input.Role) {
			fail(c, http.StatusBadRequest, "role must be customer or admin")
			return
		}
		set["role"] = input.Role
	}
	if len(set) == 0 {
		fail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = database.UserCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, "failed to update user")
		return
	}
	ok(c, gin.H{"message": "user updated successfully", "data": updated})
}

// UpdatePassword replaces a user's password without requiring the old
// one; the route is admin-gated.
func (h *UserController) UpdatePassword(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user ID format")
		return
	}

	var input struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "please provide a password of at least 6 characters")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to update password")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	res, err := database.UserCollection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": string(hashed)}})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to update password")
		return
	}
	if res.MatchedCount == 0 {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	ok(c, gin.H{"message": "password updated successfully"})
}

func (h *UserController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user ID format")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	res, err := database.UserCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to delete user")
		return
	}
	if res.DeletedCount == 0 {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	ok(c, gin.H{"message": "user deleted successfully", "id": id.Hex()})
}
