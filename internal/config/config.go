package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host        string
	Port        int
	DatabaseURL string

	JWTSecret []byte

	KafkaAddress string

	ESURL      string
	ESUser     string
	ESPassword string

	LogLevel string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		Host:         envDefault("HOST", "0.0.0.0"),
		Port:         envIntDefault("PORT", 8000),
		DatabaseURL:  envDefault("DATABASE_URL", "sqlite:///videoteka.db"),
		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
		LogLevel:     envDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// SQLitePath вытаскивает путь к файлу из DATABASE_URL вида
// sqlite:///videoteka.db; голое имя файла тоже считается путём.
func SQLitePath(url string) string {
	if url == "" {
		return "videoteka.db"
	}
	if after, ok := strings.CutPrefix(url, "sqlite:///"); ok {
		return after
	}
	return url
}
