// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/caiosarava/cadastramento/internal/app/system/filestore"
	"github.com/caiosarava/cadastramento/internal/app/system/indexes"
	"github.com/caiosarava/cadastramento/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and, when configured, the Drive client.
// A Drive failure is logged and leaves uploads disabled; a Mongo failure
// aborts startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("mongo ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}
	deps.Files = connectDrive(ctx, driveCredentials(appCfg), logger)
	return deps, nil
}

func driveCredentials(appCfg AppConfig) filestore.Credentials {
	return filestore.Credentials{
		ClientID:        appCfg.DriveClientID,
		APIKey:          appCfg.DriveAPIKey,
		FolderID:        appCfg.DriveFolderID,
		CredentialsFile: appCfg.DriveCredentialsFile,
	}
}

// connectDrive returns nil when the credentials are missing or the client
// cannot be built.
func connectDrive(ctx context.Context, creds filestore.Credentials, logger *zap.Logger) filestore.Files {
	if err := creds.Check(); err != nil {
		if errors.Is(err, filestore.ErrNotConfigured) {
			logger.Info("drive not configured; document uploads disabled", zap.Error(err))
		} else {
			logger.Warn("drive credentials rejected; document uploads disabled", zap.Error(err))
		}
		return nil
	}
	d, err := filestore.NewDrive(ctx, creds, logger)
	if err != nil {
		logger.Warn("drive client init failed; document uploads disabled", zap.Error(err))
		return nil
	}
	logger.Info("drive client ready", zap.String("folder_id", d.FolderID()))
	return d
}

// EnsureSchema creates the unique and lookup indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
