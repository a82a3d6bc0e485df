// Package store implements the engine's persistence contract over MongoDB.
// Every operation commits as a single document update; the engine relies on
// that for its at-most-once question delivery and for composing concurrent
// attempt writes.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"dashtutor/internal/config"
	"dashtutor/internal/engine"
)

// Collection names within the configured database.
const (
	usersCollection     = "users"
	questionsCollection = "questions"
	skillsCollection    = "skills"
)

// Handler is the MongoDB-backed persistence adapter. It satisfies
// engine.Store.
type Handler struct {
	client    *mongo.Client
	users     *mongo.Collection
	questions *mongo.Collection
	skills    *mongo.Collection
	timeout   time.Duration
	log       *zap.Logger
}

var _ engine.Store = (*Handler)(nil)

// Connect dials the store, verifies connectivity and ensures the indexes
// the scheduler's latency depends on.
func Connect(ctx context.Context, cfg config.MongoConfig, log *zap.Logger) (*Handler, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	h := &Handler{
		client:    client,
		users:     db.Collection(usersCollection),
		questions: db.Collection(questionsCollection),
		skills:    db.Collection(skillsCollection),
		timeout:   cfg.Timeout,
		log:       log,
	}
	if err := h.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info("store connected", zap.String("database", cfg.Database))
	return h, nil
}

// Close disconnects from the store.
func (h *Handler) Close(ctx context.Context) error {
	return h.client.Disconnect(ctx)
}

func (h *Handler) ensureIndexes(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	_, err := h.users.Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	_, err = h.questions.Indexes().CreateMany(opCtx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "question_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "skill_ids", Value: 1}, {Key: "times_shown", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create questions indexes: %w", err)
	}
	return nil
}

// opContext bounds one store round-trip with the configured per-call
// timeout.
func (h *Handler) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.timeout)
}

// storeErr maps a driver failure to the engine's retryable store error.
func storeErr(op string, err error) error {
	return &engine.ErrStoreUnavailable{Op: op, Err: err}
}
