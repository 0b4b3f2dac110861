package repository

import (
	"context"
	"fmt"
	"time"

	"transparency-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Stores bundles the repositories of the configured driver
type Stores struct {
	QuestionAnswers QuestionAnswerRepository
	Reports         ReportRepository
	Recents         RecentRepository

	close func(context.Context) error
}

// Close releases the underlying connections
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store selected by cfg.Store
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.Store {
	case config.StoreMongo:
		return openMongo(ctx, cfg, logger)
	case config.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StoreMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		mem := NewMemoryStore()
		return &Stores{
			QuestionAnswers: mem.QuestionAnswers(),
			Reports:         mem.Reports(),
			Recents:         mem.Recents(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := EnsureMongoIndexes(connectCtx, db); err != nil {
		logger.Warn("Failed to ensure MongoDB indexes", zap.Error(err))
	}

	logger.Info("MongoDB connection established", zap.String("database", cfg.MongoDB))
	return &Stores{
		QuestionAnswers: NewMongoQuestionAnswerRepository(db),
		Reports:         NewMongoReportRepository(db),
		Recents:         NewMongoRecentRepository(db),
		close:           client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	logger.Info("Postgres connection established")
	return &Stores{
		QuestionAnswers: NewPostgresQuestionAnswerRepository(pool),
		Reports:         NewPostgresReportRepository(pool),
		Recents:         NewPostgresRecentRepository(pool),
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}
