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
	SettingsCollectionName = "Settings"

	platformFeeDocID = "platform_fee"
)

// PlatformFeeRepository stores the single operator-wide fee document.
// Get returns (nil, nil) when no fee has ever been configured; callers
// fall back to the environment default.
type PlatformFeeRepository interface {
	Get(ctx context.Context) (*model.PlatformFeeConfig, error)
	Put(ctx context.Context, fee *model.PlatformFeeConfig) error
}

type mongoPlatformFeeRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPlatformFeeRepository(cfg *config.Config) PlatformFeeRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPlatformFeeRepository{
		cfg:        cfg,
		collection: db.Collection(SettingsCollectionName),
	}
}

func (r *mongoPlatformFeeRepository) Get(ctx context.Context) (*model.PlatformFeeConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc struct {
		ID        string    `bson:"_id"`
		Mode      string    `bson:"mode"`
		Value     float64   `bson:"value"`
		UpdatedAt time.Time `bson:"updated_at"`
	}

	err := r.collection.FindOne(ctx, bson.M{"_id": platformFeeDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load platform fee config: %w", err)
	}

	return &model.PlatformFeeConfig{
		Mode:      doc.Mode,
		Value:     doc.Value,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (r *mongoPlatformFeeRepository) Put(ctx context.Context, fee *model.PlatformFeeConfig) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	fee.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{
		"$set": bson.M{
			"mode":       fee.Mode,
			"value":      fee.Value,
			"updated_at": fee.UpdatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": platformFeeDocID}, update, opts); err != nil {
		return fmt.Errorf("failed to store platform fee config: %w", err)
	}

	return nil
}
