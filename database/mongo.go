package database

import (
	"context"
	"time"

	"github.com/mmhmddd/PowerEV-Server/logger"
	"github.com/mmhmddd/PowerEV-Server/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var Client *mongo.Client
var DB *mongo.Database

func ConnectMongo(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	DB = client.Database(dbName)

	logger.Log.Info("connected to MongoDB", zap.String("db", dbName))
	return nil
}

var (
	UserCollection      *mongo.Collection
	CartCollection      *mongo.Collection
	OrderCollection     *mongo.Collection
	GalleryCollection   *mongo.Collection
	BlacklistCollection *mongo.Collection
)

// catalogCollections maps every product category to its own collection,
// resolved once at startup. Unknown categories never reach this map:
// ProductType.Valid gates all inputs.
var catalogCollections map[models.ProductType]*mongo.Collection

func InitCollections() {
	UserCollection = DB.Collection("users")
	CartCollection = DB.Collection("carts")
	OrderCollection = DB.Collection("orders")
	GalleryCollection = DB.Collection("galleries")
	BlacklistCollection = DB.Collection("blacklist_tokens")

	catalogCollections = map[models.ProductType]*mongo.Collection{
		models.TypeCharger: DB.Collection("chargers"),
		models.TypeCable:   DB.Collection("cables"),
		models.TypeStation: DB.Collection("stations"),
		models.TypeAdapter: DB.Collection("adapters"),
		models.TypeBox:     DB.Collection("boxes"),
		models.TypeBreaker: DB.Collection("breakers"),
		models.TypePlug:    DB.Collection("plugs"),
		models.TypeWire:    DB.Collection("wires"),
		models.TypeOther:   DB.Collection("others"),
	}
}

func Catalogs() map[models.ProductType]*mongo.Collection {
	return catalogCollections
}

// EnsureIndexes creates the unique keys the order pipeline relies on:
// one cart per session, and the duplicate-key signal the order-number
// retry loop reacts to.
func EnsureIndexes(ctx context.Context) error {
	_, err := CartCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = OrderCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
