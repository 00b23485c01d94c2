package configs

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBDriver      string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	DBSSLMode     string
	Port          string
	AppEnv        string
	AppAuthKey    string
	AppEncKey     string
	CSRFEnabled   bool
	StoreConfig   string
	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string
	KafkaBrokers  []string
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	emailFrom := os.Getenv("EMAIL_FROM")
	if emailFrom == "" {
		emailFrom = os.Getenv("EMAIL_USERNAME")
	}

	return ENV{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getEnv("DB_NAME", "mellomelt"),
		DBPort:        os.Getenv("DB_PORT"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		Port:          getEnv("APP_PORT", ":8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		AppAuthKey:    os.Getenv("APP_AUTH_KEY"),
		AppEncKey:     os.Getenv("APP_ENC_KEY"),
		CSRFEnabled:   os.Getenv("CSRF_ENABLED") != "false",
		StoreConfig:   getEnv("STORE_CONFIG", "configs/store.toml"),
		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getEnv("EMAIL_PORT", "587"),
		EmailUsername: os.Getenv("EMAIL_USERNAME"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     emailFrom,
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
