package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceMongo    = "mongo"
)

// Config holds every setting read from the environment.
type Config struct {
	Port      string
	PublicURL string
	DataFile  string
	Source    string

	Postgres PostgresConfig
	Mongo    MongoConfig

	AllowedOrigins []string
	CORSDebug      bool

	LogLevel  string
	LogFormat string

	ColorMale   string
	ColorFemale string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Table    string

	MaxOpenConns   int
	ConnectRetries int
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string

	ConnectRetries int
}

// LoadEnv loads variables from the first .env file found. Variables already
// present in the environment win.
func LoadEnv() (string, error) {
	possiblePaths := []string{
		os.Getenv("RNE_ENV"),
		".env",
		"../.env",
	}
	for _, path := range possiblePaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return path, godotenv.Load(path)
	}
	return "", nil
}

// Load builds a Config from the environment.
func Load() Config {
	cfg := Config{
		Port:      getEnvWithDefault("PORT", "8080"),
		PublicURL: os.Getenv("PUBLIC_URL"),
		DataFile:  getEnvWithDefault("DATA_FILE", "elus-conseillers-municipaux-cm.csv"),
		Source:    strings.ToLower(getEnvWithDefault("SOURCE", SourceCSV)),
		Postgres: PostgresConfig{
			Host:     getEnvWithDefault("DB_HOST", "localhost"),
			Port:     getEnvWithDefault("DB_PORT", "5432"),
			User:     getEnvWithDefault("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnvWithDefault("DB_NAME", "rne"),
			SSLMode:  os.Getenv("DB_SSL_MODE"),
			Table:    getEnvWithDefault("DB_TABLE", "elus_conseillers_municipaux"),

			MaxOpenConns:   getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			ConnectRetries: getEnvAsInt("DB_CONNECT_RETRIES", 5),
		},
		Mongo: MongoConfig{
			URI:        getEnvWithDefault("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnvWithDefault("MONGO_DB_NAME", "rne"),
			Collection: getEnvWithDefault("MONGO_COLLECTION", "elus_cm"),

			ConnectRetries: getEnvAsInt("DB_CONNECT_RETRIES", 5),
		},
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}),
		CORSDebug:   getEnvAsBool("CORS_DEBUG", false),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvWithDefault("LOG_FORMAT", "json"),
		ColorMale:   getEnvWithDefault("COLOR_H", "#636EFA"),
		ColorFemale: getEnvWithDefault("COLOR_F", "#EF553B"),
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
		if strings.Contains(cfg.Postgres.Host, "aivencloud.com") {
			cfg.Postgres.SSLMode = "require"
		}
	}
	return cfg
}

// ConnString is the lib/pq keyword/value DSN.
func (p PostgresConfig) ConnString() string {
	return "host=" + p.Host + " port=" + p.Port + " user=" + p.User +
		" password=" + p.Password + " dbname=" + p.Name + " sslmode=" + p.SSLMode
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
