package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Assistant AssistantConfig
	Shop      ShopConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// IsDevelopment reports whether the server runs outside production
func (s ServerConfig) IsDevelopment() bool {
	return s.Env != "production"
}

type StoreConfig struct {
	Backend string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

// Enabled reports whether a Redis host is configured
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

type AdminConfig struct {
	DefaultPassword   string
	MinPasswordLength int
}

type AssistantConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Language    string

	FallbackNotConfigured string
	FallbackUnavailable   string
	FallbackNoAnswer      string
}

type ShopConfig struct {
	Name     string
	Location string
	Locale   string
}

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORE_BACKEND", BackendMemory)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_KEY_PREFIX", "abs:")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "abs_store")
	viper.SetDefault("MONGO_COLLECTION", "documents")
	viper.SetDefault("JWT_ACCESS_EXPIRY", 60)
	viper.SetDefault("ADMIN_DEFAULT_PASSWORD", "rdh5050")
	viper.SetDefault("ADMIN_MIN_PASSWORD_LENGTH", 4)
	viper.SetDefault("ASSISTANT_MODEL", "gemini-3-flash-preview")
	viper.SetDefault("ASSISTANT_TEMPERATURE", 0.7)
	viper.SetDefault("ASSISTANT_LANGUAGE", "Bengali (বাংলা)")
	viper.SetDefault("ASSISTANT_FALLBACK_NOT_CONFIGURED", "দুঃখিত, এআই সার্ভিস কনফিগার করা হয়নি। দয়া করে অ্যাডমিন প্যানেলে চেক করুন।")
	viper.SetDefault("ASSISTANT_FALLBACK_UNAVAILABLE", "আমি এই মুহূর্তে সংযোগ করতে পারছি না। দয়া করে সরাসরি আমাদের ফোন নম্বরে যোগাযোগ করুন।")
	viper.SetDefault("ASSISTANT_FALLBACK_NO_ANSWER", "আমি দুঃখিত, আমি এই মুহূর্তে উত্তর দিতে পারছি না।")
	viper.SetDefault("SHOP_NAME", "ABS Library & Computer")
	viper.SetDefault("SHOP_LOCATION", "Dhaka, Bangladesh")
	viper.SetDefault("SHOP_LOCALE", "bn-BD")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:     viper.GetString("SERVER_PORT"),
			Env:      viper.GetString("SERVER_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(viper.GetString("STORE_BACKEND")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:      viper.GetString("REDIS_HOST"),
			Port:      viper.GetString("REDIS_PORT"),
			Password:  viper.GetString("REDIS_PASSWORD"),
			DB:        viper.GetInt("REDIS_DB"),
			KeyPrefix: viper.GetString("REDIS_KEY_PREFIX"),
		},
		Mongo: MongoConfig{
			URI:        viper.GetString("MONGO_URI"),
			Database:   viper.GetString("MONGO_DATABASE"),
			Collection: viper.GetString("MONGO_COLLECTION"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Admin: AdminConfig{
			DefaultPassword:   viper.GetString("ADMIN_DEFAULT_PASSWORD"),
			MinPasswordLength: viper.GetInt("ADMIN_MIN_PASSWORD_LENGTH"),
		},
		Assistant: AssistantConfig{
			APIKey:                viper.GetString("ASSISTANT_API_KEY"),
			Model:                 viper.GetString("ASSISTANT_MODEL"),
			Temperature:           float32(viper.GetFloat64("ASSISTANT_TEMPERATURE")),
			Language:              viper.GetString("ASSISTANT_LANGUAGE"),
			FallbackNotConfigured: viper.GetString("ASSISTANT_FALLBACK_NOT_CONFIGURED"),
			FallbackUnavailable:   viper.GetString("ASSISTANT_FALLBACK_UNAVAILABLE"),
			FallbackNoAnswer:      viper.GetString("ASSISTANT_FALLBACK_NO_ANSWER"),
		},
		Shop: ShopConfig{
			Name:     viper.GetString("SHOP_NAME"),
			Location: viper.GetString("SHOP_LOCATION"),
			Locale:   viper.GetString("SHOP_LOCALE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:            viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
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
