package controllers_test

import (
	"net/http"
	"testing"

	"github.com/mmhmddd/PowerEV-Server/controllers"
	"github.com/mmhmddd/PowerEV-Server/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProductController_UpdateStock_Validation(t *testing.T) {
	h := controllers.NewProductController(nil, nil)
	handler := h.UpdateStock(models.TypeCharger)
	const id = "64a0b1c2d3e4f5a6b7c8d9e0"

	tests := []struct {
		name string
		id   string
		body string
	}{
		{"invalid product id", "nope", `{"stock":3}`},
		{"missing stock", id, `{}`},
		{"negative stock", id, `{"stock":-5}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, w := testContext(t, http.MethodPut, "/api/chargers/"+tc.id+"/stock", tc.body)
			c.Params = gin.Params{{Key: "id", Value: tc.id}}

			handler(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
