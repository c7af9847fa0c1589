package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	AppConfig Config
	envLoaded bool
)

// Store drivers
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type LDAPConfig struct {
	URL           string `json:"url"`
	BaseDN        string `json:"base_dn"`
	AdminDN       string `json:"admin_dn"`
	AdminPassword string `json:"-"`
	UsersOU       string `json:"users_ou"`
	UserFilter    string `json:"user_filter"`
}

type Config struct {
	Environment string `json:"environment"`
	ServerPort  string `json:"server_port"`
	CORSOrigins []string `json:"cors_origins"`
	SentryDSN   string `json:"-"`

	// memory or postgres
	StoreDriver string `json:"store_driver"`

	DBHost         string `json:"db_host"`
	DBPort         string `json:"db_port"`
	DBUser         string `json:"db_user"`
	DBPassword     string `json:"-"`
	DBName         string `json:"db_name"`
	DBSSLMode      string `json:"db_ssl_mode"`
	DBMaxIdleConns int    `json:"db_max_idle_conns"`
	DBMaxOpenConns int    `json:"db_max_open_conns"`

	// Rate limit for the public tracking surface
	RateLimitMax        int `json:"rate_limit_max"`
	RateLimitWindowMins int `json:"rate_limit_window_mins"`

	LDAP  LDAPConfig  `json:"ldap"`
	Redis RedisConfig `json:"redis"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	envLoaded = true
}

func LoadConfig() error {
	AppConfig = Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		CORSOrigins: splitAndTrim(getEnv("CORS_ORIGIN", "http://localhost:3000")),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		StoreDriver: getEnv("STORE_DRIVER", StoreDriverMemory),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "phishing"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "phishing_db"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),

		RateLimitMax:        getEnvAsInt("RATE_LIMIT_MAX", 100),
		RateLimitWindowMins: getEnvAsInt("RATE_LIMIT_WINDOW_MINS", 15),

		LDAP: LDAPConfig{
			URL:           getEnv("LDAP_URL", "ldap://localhost:389"),
			BaseDN:        getEnv("LDAP_BASE_DN", "dc=example,dc=org"),
			AdminDN:       getEnv("LDAP_ADMIN_DN", ""),
			AdminPassword: getEnv("LDAP_ADMIN_PASSWORD", ""),
			UsersOU:       getEnv("LDAP_USERS_OU", ""),
			UserFilter:    getEnv("LDAP_USER_FILTER", "(objectClass=inetOrgPerson)"),
		},

		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	switch AppConfig.StoreDriver {
	case StoreDriverMemory, StoreDriverPostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", AppConfig.StoreDriver)
	}

	if AppConfig.StoreDriver == StoreDriverPostgres && AppConfig.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required when STORE_DRIVER=postgres")
	}

	logConfig()
	return nil
}

// DSN builds the postgres connection string from the DB settings.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// IsProduction reports whether the service runs with production error
// reporting (generic 500 bodies instead of literal error messages).
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		log.Printf("environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return fallback
	}
	return value
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func logConfig() {
	log.Println("Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("Store Driver: %s", AppConfig.StoreDriver)
	if AppConfig.StoreDriver == StoreDriverPostgres {
		log.Printf("Database: %s@%s:%s/%s",
			AppConfig.DBUser, AppConfig.DBHost, AppConfig.DBPort, AppConfig.DBName)
	}
	log.Printf("LDAP: %s (%s)", AppConfig.LDAP.URL, AppConfig.LDAP.BaseDN)
}
