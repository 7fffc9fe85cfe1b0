package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Uploads   UploadConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	I18n      I18nConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	BaseURL string // URL base da API para construir URIs RFC 7807

	// Proxies cujo X-Forwarded-For é aceito; vazio usa sempre o endereço da conexão
	TrustedProxies []string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	AutoMigrate bool
}

type RedisConfig struct {
	URL string
}

// Enabled indica se há Redis configurado
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type UploadConfig struct {
	Dir        string
	PublicPath string
	MaxBytes   int64
	S3         S3Config
}

type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	PublicURL    string
}

// Enabled indica se as imagens vão para object storage
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

type RateLimitConfig struct {
	AuthAttempts int
	AuthWindow   time.Duration
	APIRequests  int
	APIWindow    time.Duration
}

type AdminConfig struct {
	ProtectedUsername string
}

type LoggingConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins string
}

type I18nConfig struct {
	DefaultLanguage string
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load carrega as configurações do ambiente (e do arquivo .env, se existir)
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),

			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: v.GetDuration("JWT_EXPIRY"),
		},
		Uploads: UploadConfig{
			Dir:        v.GetString("UPLOAD_DIR"),
			PublicPath: v.GetString("UPLOAD_PUBLIC_PATH"),
			MaxBytes:   v.GetInt64("UPLOAD_MAX_BYTES"),
			S3: S3Config{
				Bucket:       v.GetString("S3_BUCKET"),
				Region:       v.GetString("S3_REGION"),
				Endpoint:     v.GetString("S3_ENDPOINT"),
				AccessKey:    v.GetString("S3_ACCESS_KEY"),
				SecretKey:    v.GetString("S3_SECRET_KEY"),
				UsePathStyle: v.GetBool("S3_USE_PATH_STYLE"),
				PublicURL:    v.GetString("S3_PUBLIC_URL"),
			},
		},
		RateLimit: RateLimitConfig{
			AuthAttempts: v.GetInt("AUTH_RATE_LIMIT"),
			AuthWindow:   v.GetDuration("AUTH_RATE_WINDOW"),
			APIRequests:  v.GetInt("API_RATE_LIMIT"),
			APIWindow:    v.GetDuration("API_RATE_WINDOW"),
		},
		Admin: AdminConfig{
			ProtectedUsername: v.GetString("PROTECTED_ADMIN_USERNAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		I18n: I18nConfig{
			DefaultLanguage: v.GetString("DEFAULT_LANGUAGE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("API_BASE_URL", "http://localhost:3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "gearshare")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_SECRET", "your-secret-key-change-this")
	v.SetDefault("JWT_EXPIRY", "168h")
	v.SetDefault("UPLOAD_DIR", "./public/images/uploaded")
	v.SetDefault("UPLOAD_PUBLIC_PATH", "/images/uploaded")
	v.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("AUTH_RATE_LIMIT", 5)
	v.SetDefault("AUTH_RATE_WINDOW", "15m")
	v.SetDefault("API_RATE_LIMIT", 100)
	v.SetDefault("API_RATE_WINDOW", "1m")
	v.SetDefault("PROTECTED_ADMIN_USERNAME", "admin")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("DEFAULT_LANGUAGE", "he")
}

const insecureDefaultSecret = "your-secret-key-change-this"

// Validate verifica combinações inválidas de configuração
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWT.Secret == insecureDefaultSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRY: %s", c.JWT.Expiry)
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("invalid UPLOAD_MAX_BYTES: %d", c.Uploads.MaxBytes)
	}
	if c.RateLimit.AuthAttempts <= 0 || c.RateLimit.AuthWindow <= 0 {
		return errors.New("auth rate limit must be positive")
	}
	if c.RateLimit.APIRequests <= 0 || c.RateLimit.APIWindow <= 0 {
		return errors.New("api rate limit must be positive")
	}
	return nil
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// splitList separa uma lista por vírgulas, descartando itens vazios
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
