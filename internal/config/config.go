package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret        = "default_secret"
	defaultJWTRefreshSecret = "default_refresh_secret"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Upload   UploadConfig
	Security SecurityConfig
	Cleanup  CleanupConfig
	Seed     SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // mysql | sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// AccessTTL returns the access token lifetime
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessTokenMins) * time.Minute
}

// RefreshTTL returns the refresh token lifetime
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTokenDays) * 24 * time.Hour
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// UploadConfig holds image upload configuration
type UploadConfig struct {
	Driver              string // cloudinary | local
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	LocalDir            string
	PublicBaseURL       string
	MaxImageBytes       int
}

// SecurityConfig holds hashing and rate limit settings
type SecurityConfig struct {
	BcryptCost        int
	RateLimitMax      int
	RateLimitWindow   time.Duration
	AuthRateLimitMax  int
	AuthRateLimitSpan time.Duration
}

// CleanupConfig holds the orphaned image cleanup job settings
type CleanupConfig struct {
	Schedule    string
	MaxAttempts int
}

// SeedConfig holds the optional development admin account
type SeedConfig struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	cfg := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(),
		Upload:   loadUploadConfig(),
		Security: loadSecurityConfig(),
		Cleanup: CleanupConfig{
			Schedule:    getEnv("CLEANUP_SCHEDULE", "@every 10m"),
			MaxAttempts: getEnvInt("CLEANUP_MAX_ATTEMPTS", 10),
		},
		Seed: SeedConfig{
			AdminName:     getEnv("SEED_ADMIN_NAME", "admin"),
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Driver != "mysql" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'sqlite')", c.Database.Driver)
	}
	if c.Upload.Driver != "cloudinary" && c.Upload.Driver != "local" {
		return fmt.Errorf("invalid UPLOAD_DRIVER: '%s' (must be 'cloudinary' or 'local')", c.Upload.Driver)
	}
	if c.JWT.AccessTokenMins <= 0 || c.JWT.RefreshTokenDays <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.JWT.Secret == c.JWT.RefreshSecret {
		return fmt.Errorf("access and refresh token secrets must differ")
	}
	if c.IsProd() && (c.JWT.Secret == defaultJWTSecret || c.JWT.RefreshSecret == defaultJWTRefreshSecret) {
		return fmt.Errorf("default JWT secrets are not allowed in prod mode")
	}
	return nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Driver:     getEnv("DB_DRIVER", "mysql"),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "coursehub"),
		SQLitePath: getEnv("SQLITE_PATH", "coursehub.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", defaultJWTSecret),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", defaultJWTRefreshSecret),
		AccessTokenMins:  getEnvInt("ACCESS_TOKEN_MINUTES", 15),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 7),
	}
}

// loadCookieConfig loads cookie config; auth cookies are secure and strict unless overridden
func loadCookieConfig() CookieConfig {
	secure, err := strconv.ParseBool(getEnv("COOKIE_SECURE", "true"))
	if err != nil {
		secure = true
	}

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "Strict"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		Driver:              getEnv("UPLOAD_DRIVER", "local"),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "course_images"),
		LocalDir:            getEnv("LOCAL_UPLOAD_DIR", "./uploads"),
		PublicBaseURL:       strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		MaxImageBytes:       getEnvInt("MAX_IMAGE_BYTES", 5*1024*1024),
	}
}

func loadSecurityConfig() SecurityConfig {
	return SecurityConfig{
		BcryptCost:        getEnvInt("BCRYPT_COST", 12),
		RateLimitMax:      getEnvInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow:   time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 1)) * time.Second,
		AuthRateLimitMax:  getEnvInt("AUTH_RATE_LIMIT_MAX", 5),
		AuthRateLimitSpan: time.Duration(getEnvInt("AUTH_RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return c.Upload.PublicBaseURL
	}
	return origins
}
