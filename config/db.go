package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var (
	DB          *sql.DB
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
)

var retryDelay = 5 * time.Second

// InitDBWithRetry attempts to connect to PostgreSQL with retries.
func InitDBWithRetry(p PostgresConfig) error {
	retries := p.ConnectRetries
	if retries < 1 {
		retries = 1
	}
	var err error
	for i := 0; i < retries; i++ {
		err = InitDB(p)
		if err == nil {
			return nil
		}
		Log.Warn("postgres connection failed",
			zap.Int("attempt", i+1), zap.Int("max_attempts", retries), zap.Error(err))
		if i < retries-1 {
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", retries, err)
}

func InitDB(p PostgresConfig) error {
	Log.Info("connecting to postgres",
		zap.String("host", p.Host), zap.String("port", p.Port),
		zap.String("dbname", p.Name), zap.String("user", p.User),
		zap.String("sslmode", p.SSLMode))

	db, err := sql.Open("postgres", p.ConnString())
	if err != nil {
		return fmt.Errorf("error opening PostgreSQL database: %w", err)
	}

	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("error connecting to PostgreSQL database: %w", err)
	}

	var tableExists bool
	err = db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)`, p.Table).Scan(&tableExists)
	if err != nil {
		db.Close()
		return fmt.Errorf("error checking %s table: %w", p.Table, err)
	}
	if !tableExists {
		db.Close()
		return fmt.Errorf("%s table does not exist in the database", p.Table)
	}

	DB = db
	Log.Info("connected to postgres", zap.String("table", p.Table))
	return nil
}

// ConnectMongoWithRetry attempts to connect to MongoDB with retries.
func ConnectMongoWithRetry(m MongoConfig) error {
	retries := m.ConnectRetries
	if retries < 1 {
		retries = 1
	}
	var err error
	for i := 0; i < retries; i++ {
		err = connectMongo(m)
		if err == nil {
			return nil
		}
		Log.Warn("mongo connection failed",
			zap.Int("attempt", i+1), zap.Int("max_attempts", retries), zap.Error(err))
		if i < retries-1 {
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("failed to connect to MongoDB after %d attempts: %w", retries, err)
}

func connectMongo(m MongoConfig) error {
	clientOptions := options.Client().ApplyURI(m.URI).
		SetMaxPoolSize(20).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetRetryReads(true).
		SetReadPreference(readpref.Primary())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("error connecting to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return fmt.Errorf("error pinging MongoDB: %w", err)
	}

	MongoClient = client
	MongoDB = client.Database(m.Database)
	Log.Info("connected to mongo", zap.String("database", m.Database))
	return nil
}

// CloseDB releases whichever database connections were opened.
func CloseDB() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			Log.Warn("error closing postgres", zap.Error(err))
		}
		DB = nil
	}
	if MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := MongoClient.Disconnect(ctx); err != nil {
			Log.Warn("error closing mongo", zap.Error(err))
		}
		MongoClient = nil
		MongoDB = nil
	}
}
