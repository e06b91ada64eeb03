package main

import (
	"context"
	"time"

	"github.com/mmhmddd/PowerEV-Server/config"
	"github.com/mmhmddd/PowerEV-Server/controllers"
	"github.com/mmhmddd/PowerEV-Server/database"
	"github.com/mmhmddd/PowerEV-Server/logger"
	"github.com/mmhmddd/PowerEV-Server/models"
	"github.com/mmhmddd/PowerEV-Server/routes"
	"github.com/mmhmddd/PowerEV-Server/services"
	"github.com/mmhmddd/PowerEV-Server/store"
	"github.com/mmhmddd/PowerEV-Server/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	log, err := logger.Init(config.GetEnv("GIN_MODE", "debug"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	uri := config.GetEnv("MONGO_URI", "mongodb://localhost:27017")
	dbName := config.GetEnv("DB_NAME", "powerev")
	if err := database.ConnectMongo(uri, dbName); err != nil {
		log.Fatal("MongoDB connection error", zap.Error(err))
	}
	database.InitCollections()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal("index creation failed", zap.Error(err))
	}
	if err := seedAdmin(ctx, log); err != nil {
		log.Error("admin seeding failed", zap.Error(err))
	}

	cartStore := store.NewCartStore(database.CartCollection)
	orderStore := store.NewOrderStore(database.OrderCollection)
	catalogStore := store.NewCatalogStore(database.Catalogs())

	cartService := services.NewCartService(cartStore, catalogStore, log)
	orderService := services.NewOrderService(orderStore, cartStore, catalogStore, log)

	uploader := utils.NewUploader()
	mailer := utils.NewMailer()

	r := gin.Default()
	r.SetTrustedProxies(nil)
	routes.RegisterRoutes(r, routes.Controllers{
		Auth:    controllers.NewAuthController(mailer),
		User:    controllers.NewUserController(),
		Cart:    controllers.NewCartController(cartService),
		Order:   controllers.NewOrderController(orderService),
		Product: controllers.NewProductController(catalogStore, uploader),
		Gallery: controllers.NewGalleryController(),
	})

	port := config.GetEnv("PORT", "5000")
	log.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// seedAdmin creates the default admin account on first boot.
func seedAdmin(ctx context.Context, log *zap.Logger) error {
	email := config.GetEnv("ADMIN_EMAIL", "admin@powerev.com")

	var existing models.User
	err := database.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(config.GetEnv("ADMIN_PASSWORD", "123456")), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:        primitive.NewObjectID(),
		Name:      "Admin",
		Email:     email,
		Password:  string(hashed),
		Role:      "admin",
		CreatedAt: time.Now(),
	}
	if _, err := database.UserCollection.InsertOne(ctx, admin); err != nil {
		return err
	}
	log.Info("default admin user created", zap.String("email", email))
	return nil
}
