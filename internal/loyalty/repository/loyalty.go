package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salonhub/pkg/config"
	"salonhub/pkg/model"
)

const (
	CollectionName = "CustomerLoyalty"
)

// LoyaltyRepository stores one document per customer, keyed by the
// customer ID. Get returns (nil, nil) for customers who have never
// earned a point.
type LoyaltyRepository interface {
	Get(ctx context.Context, customerID string) (*model.CustomerLoyalty, error)
	Upsert(ctx context.Context, loyalty *model.CustomerLoyalty) error
}

type mongoLoyaltyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLoyaltyRepository(cfg *config.Config) LoyaltyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLoyaltyRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoLoyaltyRepository) Get(ctx context.Context, customerID string) (*model.CustomerLoyalty, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var loyalty model.CustomerLoyalty
	err := r.collection.FindOne(ctx, bson.M{"_id": customerID}).Decode(&loyalty)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load loyalty state: %w", err)
	}

	return &loyalty, nil
}

func (r *mongoLoyaltyRepository) Upsert(ctx context.Context, loyalty *model.CustomerLoyalty) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	loyalty.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{
		"$set": bson.M{
			"points":     loyalty.Points,
			"tier":       loyalty.Tier,
			"updated_at": loyalty.UpdatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": loyalty.CustomerID}, update, opts); err != nil {
		return fmt.Errorf("failed to store loyalty state: %w", err)
	}

	return nil
}
