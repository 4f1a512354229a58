package config

import (
	"os"
	"strings"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	JWTSecret      string
	RedisAddr      string
	RedisPassword  string
	RabbitMQURI    string
	RabbitExchange string
	CORSOrigins    []string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "quiz_system"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RabbitMQURI:    os.Getenv("RABBITMQ_URI"),
		RabbitExchange: os.Getenv("RABBITMQ_EXCHANGE"),
		CORSOrigins:    strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
