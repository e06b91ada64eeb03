package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/mmhmddd/PowerEV-Server/services"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds every datastore round trip a handler makes.
const requestTimeout = 10 * time.Second

func ok(c *gin.Context, data gin.H) {
	data["success"] = true
	c.JSON(http.StatusOK, data)
}

func created(c *gin.Context, data gin.H) {
	data["success"] = true
	c.JSON(http.StatusCreated, data)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondError maps service errors onto the API's status codes:
// validation and business conflicts are 400, lookups are 404,
// everything else is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidSession),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrEmptyCart):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		fail(c, http.StatusNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, "server error")
	}
}
