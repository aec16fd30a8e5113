package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Capability names toggling which route groups get mounted.
const (
	CapabilityOrders         = "orders"
	CapabilityPaymentLinks   = "payment-links"
	CapabilityCheckoutVerify = "checkout-verify"
	CapabilityWebhook        = "webhook"
)

// DBCredentials holds the datastore credential. It may be supplied as inline
// JSON or base64-encoded JSON in DB_CREDENTIALS, or as discrete DB_* variables.
type DBCredentials struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

type Config struct {
	Port string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	DB DBCredentials

	// Currency for orders and the factor converting major to minor units
	// (paise for INR).
	Currency        string
	MinorUnitFactor int64

	// Capabilities enabled for this instance.
	Capabilities map[string]bool

	// CORS allow-list. "*" allows any origin.
	CORSAllowedOrigins []string

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	KafkaBrokers string
	KafkaTopic   string
}

var AppConfig Config

// LoadConfig populates AppConfig from the environment. Call Validate before
// serving; missing required values are fatal at startup, not at request time.
func LoadConfig() {
	envLocations := []string{
		".env",
		"config/.env",
		"../config/.env",
		"../../config/.env",
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = Config{
		Port: getEnvWithDefault("PORT", "8080"),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		DB: loadDBCredentials(),

		Currency:        getEnvWithDefault("CURRENCY", "INR"),
		MinorUnitFactor: 100,

		Capabilities: parseCapabilities(getEnvWithDefault("CAPABILITIES",
			strings.Join([]string{CapabilityOrders, CapabilityPaymentLinks, CapabilityCheckoutVerify, CapabilityWebhook}, ","))),

		CORSAllowedOrigins: splitAndTrim(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),

		SMTPHost:  getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvWithDefault("SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getEnvWithDefault("KAFKA_TOPIC", "course.payments"),
	}
}

// Validate checks that every value required by the enabled capability set is
// present. Any error here must stop the process before it accepts connections.
func Validate() error {
	c := AppConfig

	if c.RazorpayKeyID == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID missing")
	}
	if c.RazorpayKeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_SECRET missing")
	}
	if c.Capabilities[CapabilityWebhook] && c.RazorpayWebhookSecret == "" {
		return fmt.Errorf("RAZORPAY_WEBHOOK_SECRET missing (webhook capability enabled)")
	}
	if c.DB.Host == "" || c.DB.User == "" || c.DB.DBName == "" {
		return fmt.Errorf("datastore credentials missing (set DB_CREDENTIALS or DB_HOST/DB_USER/DB_NAME)")
	}
	if len(c.Capabilities) == 0 {
		return fmt.Errorf("no capabilities enabled")
	}
	return nil
}

// loadDBCredentials prefers DB_CREDENTIALS (inline or base64-encoded JSON) and
// falls back to discrete DB_* variables.
func loadDBCredentials() DBCredentials {
	if raw := os.Getenv("DB_CREDENTIALS"); raw != "" {
		creds, err := ParseDBCredentials(raw)
		if err == nil {
			return creds
		}
		log.Printf("Warning: DB_CREDENTIALS is not usable: %v", err)
	}

	return DBCredentials{
		Host:     getEnvWithDefault("DB_HOST", "localhost"),
		Port:     getEnvWithDefault("DB_PORT", "5432"),
		User:     getEnvWithDefault("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   getEnvWithDefault("DB_NAME", "postgres"),
	}
}

// ParseDBCredentials accepts inline JSON or base64-encoded JSON.
func ParseDBCredentials(raw string) (DBCredentials, error) {
	var creds DBCredentials

	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), &creds); err == nil {
		return withCredDefaults(creds), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return creds, fmt.Errorf("not inline JSON and base64 decode failed: %w", err)
	}
	if err := json.Unmarshal(decoded, &creds); err != nil {
		return creds, fmt.Errorf("decoded value is not valid JSON: %w", err)
	}
	return withCredDefaults(creds), nil
}

func withCredDefaults(creds DBCredentials) DBCredentials {
	if creds.Port == "" {
		creds.Port = "5432"
	}
	return creds
}

func parseCapabilities(raw string) map[string]bool {
	caps := make(map[string]bool)
	for _, c := range splitAndTrim(raw) {
		caps[c] = true
	}
	return caps
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDBConnString() string {
	return "host=" + AppConfig.DB.Host +
		" port=" + AppConfig.DB.Port +
		" user=" + AppConfig.DB.User +
		" password=" + AppConfig.DB.Password +
		" dbname=" + AppConfig.DB.DBName +
		" sslmode=disable"
}
