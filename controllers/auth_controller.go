package controllers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/mmhmddd/PowerEV-Server/database"
	"github.com/mmhmddd/PowerEV-Server/logger"
	"github.com/mmhmddd/PowerEV-Server/middleware"
	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenTTL is how long a password-reset link stays valid.
const resetTokenTTL = 10 * time.Minute

type AuthController struct {
	mailer *utils.Mailer
}

func NewAuthController(mailer *utils.Mailer) *AuthController {
	return &AuthController{mailer: mailer}
}

func generateToken(userID, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"exp":    time.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	return token.SignedString(middleware.JWTSecret())
}

func (h *AuthController) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "please provide name, email, and password")
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
		fail(c, http.StatusInternalServerError, "failed to register")
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      "customer",
		CreatedAt: time.Now(),
	}
	if _, err := database.UserCollection.InsertOne(ctx, user); err != nil {
		fail(c, http.StatusInternalServerError, "failed to register")
		return
	}

	created(c, gin.H{"message": "user registered successfully", "user": gin.H{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}})
}

func (h *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "please provide email and password")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	if err := database.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := generateToken(user.ID.Hex(), user.Role)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to sign token")
		return
	}

	ok(c, gin.H{"token": token, "user": gin.H{
		"id":    user.ID.Hex(),
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}})
}

// Logout blacklists the presented token until its natural expiry.
func (h *AuthController) Logout(c *gin.Context) {
	tokenString := middleware.BearerToken(c)
	if tokenString == "" {
		fail(c, http.StatusBadRequest, "token required")
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return middleware.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}

	claims, valid := token.Claims.(jwt.MapClaims)
	if !valid {
		fail(c, http.StatusUnauthorized, "invalid token")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	_, err = database.BlacklistCollection.InsertOne(ctx, bson.M{
		"token": tokenString,
		"exp":   int64(claims["exp"].(float64)),
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to blacklist token")
		return
	}
	ok(c, gin.H{"message": "logged out successfully"})
}

// ForgotPassword stores a sha256 hash of a random token on the user and
// emails the raw token. The raw value never touches the database.
func (h *AuthController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "please provide an email")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	if err := database.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		fail(c, http.StatusInternalServerError, "server error")
		return
	}
	resetToken := hex.EncodeToString(raw)
	hashed := sha256.Sum256([]byte(resetToken))

	_, err := database.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"resetPasswordToken":  hex.EncodeToString(hashed[:]),
		"resetPasswordExpire": time.Now().Add(resetTokenTTL),
	}})
	if err != nil {
		fail(c, http.StatusInternalServerError, "server error")
		return
	}

	if err := h.mailer.SendResetPasswordEmail(user.Email, resetToken); err != nil {
		logger.Log.Error("reset email failed", zap.String("email", user.Email), zap.Error(err))
		// Roll the token back so a stale link cannot linger.
		_, _ = database.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$unset": bson.M{
			"resetPasswordToken":  "",
			"resetPasswordExpire": "",
		}})
		fail(c, http.StatusInternalServerError, "failed to send reset password email")
		return
	}

	ok(c, gin.H{"message": "reset password email sent successfully"})
}

func (h *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "please provide a new password")
		return
	}

	hashed := sha256.Sum256([]byte(c.Param("resetToken")))

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	err := database.UserCollection.FindOne(ctx, bson.M{
		"resetPasswordToken":  hex.EncodeToString(hashed[:]),
		"resetPasswordExpire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid or expired reset token")
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "server error")
		return
	}

	_, err = database.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"password": string(newHash)},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, "server error")
		return
	}

	ok(c, gin.H{"message": "password reset successfully"})
}
