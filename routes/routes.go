package routes

import (
	"github.com/mmhmddd/PowerEV-Server/controllers"
	"github.com/mmhmddd/PowerEV-Server/middleware"
	"github.com/mmhmddd/PowerEV-Server/models"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Product *controllers.ProductController
	Gallery *controllers.GalleryController
}

// catalogPaths binds each product category to its URL segment.
var catalogPaths = map[models.ProductType]string{
	models.TypeCharger: "chargers",
	models.TypeCable:   "cables",
	models.TypeStation: "stations",
	models.TypeAdapter: "adapters",
	models.TypeBox:     "boxes",
	models.TypeBreaker: "breakers",
	models.TypePlug:    "plugs",
	models.TypeWire:    "wires",
	models.TypeOther:   "others",
}

func RegisterRoutes(r *gin.Engine, h Controllers) {

	r.GET("/", func(c *gin.Context) {
		c.String(200, "PowerEV API is running")
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.POST("/forgot-password", h.Auth.ForgotPassword)
			auth.POST("/reset-password/:resetToken", h.Auth.ResetPassword)

			auth.GET("/me", middleware.AuthMiddleware(), h.User.Me)
		}

		users := api.Group("/users", middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			users.GET("", h.User.GetAll)
			users.POST("", h.User.Create)
			users.GET("/:id", h.User.Get)
			users.PUT("/:id", h.User.Update)
			users.PUT("/:id/password", h.User.UpdatePassword)
			users.DELETE("/:id", h.User.Delete)
		}

		cart := api.Group("/cart")
		{
			cart.GET("/:sessionId", h.Cart.GetCart)
			cart.POST("/:sessionId/add", h.Cart.AddToCart)
			cart.PUT("/:sessionId/update", h.Cart.UpdateCartItem)
			cart.DELETE("/:sessionId/remove/:productId/:productType", h.Cart.RemoveFromCart)
			cart.DELETE("/:sessionId/clear", h.Cart.ClearCart)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", middleware.OptionalAuthMiddleware(), h.Order.CreateOrder)
			orders.GET("/track/:orderNumber", h.Order.TrackOrder)
			orders.GET("/:id", h.Order.GetOrder)

			orders.GET("/user/my-orders", middleware.AuthMiddleware(), h.Order.GetMyOrders)

			admin := orders.Group("", middleware.AuthMiddleware(), middleware.AdminMiddleware())
			{
				admin.GET("", h.Order.GetAllOrders)
				admin.PUT("/:id", h.Order.UpdateOrder)
				admin.PUT("/:id/status", h.Order.UpdateOrderStatus)
				admin.PUT("/:id/payment-status", h.Order.UpdatePaymentStatus)
				admin.DELETE("/:id", h.Order.DeleteOrder)
			}
		}

		for t, path := range catalogPaths {
			registerCatalog(api.Group("/"+path), h.Product, t)
		}

		gallery := api.Group("/gallery")
		{
			gallery.GET("", h.Gallery.GetAll)
			gallery.GET("/:id", h.Gallery.Get)

			admin := gallery.Group("", middleware.AuthMiddleware(), middleware.AdminMiddleware())
			{
				admin.POST("", h.Gallery.Create)
				admin.PUT("/:id", h.Gallery.Update)
				admin.DELETE("/:id", h.Gallery.Delete)
			}
		}
	}
}

func registerCatalog(rg *gin.RouterGroup, h *controllers.ProductController, t models.ProductType) {
	rg.GET("", h.List(t))
	rg.GET("/:id", h.Get(t))

	admin := rg.Group("", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("", h.Create(t))
		admin.PUT("/:id", h.Update(t))
		admin.PUT("/:id/stock", h.UpdateStock(t))
		admin.DELETE("/:id", h.Delete(t))
	}
}
