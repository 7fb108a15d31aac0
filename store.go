package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"katalog/internal/config"
	"katalog/internal/repositories"
)

const connectTimeout = 10 * time.Second

// productStore is the configured product repository plus whatever closes it.
type productStore struct {
	Products repositories.ProductRepository
	close    func() error
}

func (s *productStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openStore connects the repository selected by DB_DRIVER and prepares its
// schema or indexes.
func openStore(ctx context.Context, cfg *config.Config) (*productStore, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return openGORM(postgres.Open(cfg.DatabaseDSN))
	case config.DriverSQLite:
		return openGORM(sqlite.Open(cfg.DatabaseDSN))
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverMemory:
		log.Warn("Using in-memory product store; data is lost on restart")
		return &productStore{Products: repositories.NewMemoryProductRepository()}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func openGORM(dialector gorm.Dialector) (*productStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return newGORMStore(db)
}

// newGORMStore migrates the products table. It owns db and closes it when
// migration fails.
func newGORMStore(db *gorm.DB) (*productStore, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	repo := repositories.NewGORMProductRepository(db)
	if err := repo.Migrate(); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Error closing database after failed migration")
		}
		return nil, err
	}
	log.WithField("dialect", db.Dialector.Name()).Info("Connected to database")
	return &productStore{Products: repo, close: sqlDB.Close}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*productStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	repo := repositories.NewMongoProductRepository(client.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")
	return &productStore{
		Products: repo,
		close:    func() error { return client.Disconnect(context.Background()) },
	}, nil
}
