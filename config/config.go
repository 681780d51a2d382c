package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	CORS     CORSConfig
	S3       S3Config      `envPrefix:"AWS_"`
	Redis    RedisConfig   `envPrefix:"REDIS_"`
	Catalog  CatalogConfig `envPrefix:"CATALOG_"`
}

type ServerConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE" envDefault:"debug"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	EnablePprof bool   `env:"ENABLE_PPROF" envDefault:"false"`
}

type DatabaseConfig struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         string `env:"PORT" envDefault:"5432"`
	User         string `env:"USER" envDefault:"admin"`
	Password     string `env:"PASSWORD" envDefault:"1234"`
	DBName       string `env:"NAME" envDefault:"rota"`
	SSLMode      string `env:"SSLMODE" envDefault:"disable"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"100"`
}

// JWTConfig holds the secret shared with the identity provider that issues access tokens.
type JWTConfig struct {
	Secret string `env:"SECRET" envDefault:"your-secret-key"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

type S3Config struct {
	Region          string `env:"REGION" envDefault:"eu-central-1"`
	Bucket          string `env:"S3_BUCKET" envDefault:"rota-uploads"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	BaseURL         string `env:"S3_BASE_URL"` // CloudFront or S3 direct URL
}

type RedisConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// CatalogConfig holds the tunables of the place catalog and the suggestion endpoint.
type CatalogConfig struct {
	PublicListLimit    int `env:"PUBLIC_LIST_LIMIT" envDefault:"50"`
	MaxImages          int `env:"MAX_IMAGES" envDefault:"4"`
	SuggestMinQueryLen int `env:"SUGGEST_MIN_QUERY_LEN" envDefault:"2"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
