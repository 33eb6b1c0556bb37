package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

func New() Config {
	return Config{
		BasePath: requireEnv("BASE_PATH"),
		UIUrl:    requireEnv("UI_URL"),
		Postgresql: Postgresql{
			Host:         requireEnv("DATABASE_HOST"),
			Port:         requireEnvAsInt("DATABASE_PORT"),
			Username:     requireEnv("DATABASE_USERNAME"),
			Password:     requireEnv("DATABASE_PASSWORD"),
			DatabaseName: requireEnv("DATABASE_NAME"),
		},
		Redis: Redis{
			Host: requireEnv("REDIS_HOST"),
			Port: requireEnvAsInt("REDIS_PORT"),
		},
		SMTP: SMTP{
			Host:     requireEnv("SMTP_HOST"),
			Port:     requireEnvAsInt("SMTP_PORT"),
			Username: requireEnv("SMTP_USERNAME"),
			Password: requireEnv("SMTP_PASSWORD"),
		},
		TokenPublicKey: requireEnvAsPublicKey("TOKEN_PUBLIC_KEY"),
		Aggregation: Aggregation{
			Workers:        optionalEnvAsInt("AGGREGATION_WORKERS", 10),
			BackendTimeout: time.Duration(optionalEnvAsInt("BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
			NodeCacheTTL:   time.Duration(optionalEnvAsInt("NODE_CACHE_TTL_SECONDS", 90)) * time.Second,
			DetailCacheTTL: time.Duration(optionalEnvAsInt("DETAIL_CACHE_TTL_SECONDS", 180)) * time.Second,
		},
		ActionValidity: time.Duration(optionalEnvAsInt("ACTION_VALIDITY_DAYS", 3)) * 24 * time.Hour,
	}
}

type Config struct {
	BasePath       string
	UIUrl          string
	Postgresql     Postgresql
	Redis          Redis
	SMTP           SMTP
	TokenPublicKey *rsa.PublicKey
	Aggregation    Aggregation
	ActionValidity time.Duration
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type Redis struct {
	Host string
	Port int
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

type Aggregation struct {
	Workers        int
	BackendTimeout time.Duration
	NodeCacheTTL   time.Duration
	DetailCacheTTL time.Duration
}

func requireEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("Can't find environment variable: %s\n", key)
	}
	return value
}

func requireEnvAsInt(key string) int {
	valueStr := requireEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value as integer: %s", err.Error())
	}
	return value
}

func optionalEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value as integer: %s", err.Error())
	}
	return value
}

func requireEnvAsPublicKey(key string) *rsa.PublicKey {
	publicKey, err := parsePublicKey(requireEnv(key))
	if err != nil {
		log.Fatalf("Can't parse public key: %s", err.Error())
	}
	return publicKey
}

func parsePublicKey(pemEncoded string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemEncoded))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}

	return publicKey, nil
}
