package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Port          string
	GoEnv         string
	StorageDriver string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string
	DynamoDBAutoCreate bool

	OrdersTable        string
	EstimatesTable     string
	PaymentsTable      string
	CountersTable      string
	CatalogTablePrefix string

	CORSAllowedOrigins []string

	MercadoPagoAccessToken string
	PaymentGatewayMock     bool
}

// Load reads .env.<GO_ENV> (or .env) and then the process environment.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("[config] no .env file found, using system environment variables")
		}
	} else {
		log.Printf("[config] loaded configuration from %s", envFile)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		GoEnv:         getEnv("GO_ENV", "development"),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDynamoDB)),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", "local"),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", "local"),
		DynamoDBEndpoint:   os.Getenv("DYNAMODB_ENDPOINT"),
		DynamoDBAutoCreate: getBool("DYNAMODB_AUTO_CREATE"),

		OrdersTable:        getEnv("ORDERS_TABLE", "orders"),
		EstimatesTable:     getEnv("ESTIMATES_TABLE", "estimates"),
		PaymentsTable:      getEnv("PAYMENTS_TABLE", "payments"),
		CountersTable:      getEnv("COUNTERS_TABLE", "counters"),
		CatalogTablePrefix: os.Getenv("CATALOG_TABLE_PREFIX"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		PaymentGatewayMock:     getBool("PAYMENT_GATEWAY_MOCK") || getBool("MERCADOPAGO_MOCK"),
	}
}

// Validate checks that the configuration can start the service
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDynamoDB, StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDynamoDB, StorageMemory, c.StorageDriver)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.StorageDriver == StorageDynamoDB && c.AWSRegion == "" {
		return fmt.Errorf("AWS_REGION is required for the dynamodb storage driver")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func (c *Config) UsesMemoryStorage() bool {
	return c.StorageDriver == StorageMemory
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
