package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config アプリケーション設定
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Calendar  CalendarConfig
	Log       LogConfig
	S3        S3Config
	Report    ReportConfig
	Weather   WeatherConfig
	RateLimit RateLimitConfig
	Feed      FeedConfig
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port           string
	AllowedOrigins []string // "*" はすべて許可
}

// DatabaseConfig データベース設定
type DatabaseConfig struct {
	Driver     string // "postgres" または "sqlite"
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// AuthConfig トークン検証設定
type AuthConfig struct {
	JWTSecret    string
	JWTExpiresIn time.Duration
}

// CalendarConfig 日付の解釈に使うタイムゾーン
type CalendarConfig struct {
	TimeZone string
}

// LogConfig ログ設定
type LogConfig struct {
	Level          string
	Directory      string
	UploadEnabled  bool
	UploadMaxAge   time.Duration
	UploadInterval time.Duration
}

// S3Config S3設定
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// ReportConfig PDFレポート設定
type ReportConfig struct {
	ArchiveEnabled bool
	ArchivePrefix  string
}

// WeatherConfig 天気API設定
type WeatherConfig struct {
	BaseURL    string
	Timeout    time.Duration
	DefaultLat float64
	DefaultLon float64
}

// RateLimitConfig レート制限設定
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// FeedConfig 変更フィード設定
type FeedConfig struct {
	Listen     bool // PostgreSQLのLISTEN/NOTIFYを使う
	BufferSize int
	Heartbeat  time.Duration
}

// LoadConfig 環境変数から設定を読み込み
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getIntEnv("DB_PORT", 5432),
			User:       getEnv("DB_USER", "diary"),
			Password:   getEnv("DB_PASSWORD", "diary"),
			Name:       getEnv("DB_NAME", "diary"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "data/diary.db"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
			JWTExpiresIn: getDurationEnv("JWT_EXPIRES_IN", 24*time.Hour),
		},
		Calendar: CalendarConfig{
			TimeZone: getEnv("CALENDAR_TIMEZONE", "Asia/Seoul"),
		},
		Log: LogConfig{
			Level:          getEnv("LOG_LEVEL", "info"),
			Directory:      getEnv("LOG_DIRECTORY", "logs"),
			UploadEnabled:  getBoolEnv("LOG_UPLOAD_ENABLED", false),
			UploadMaxAge:   getDurationEnv("LOG_UPLOAD_MAX_AGE", 24*time.Hour),
			UploadInterval: getDurationEnv("LOG_UPLOAD_INTERVAL", 1*time.Hour),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", "http://localhost:9000"), // MinIO用のデフォルト
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "diary-app"),
			UseSSL:          getBoolEnv("S3_USE_SSL", false),
		},
		Report: ReportConfig{
			ArchiveEnabled: getBoolEnv("REPORT_ARCHIVE_ENABLED", false),
			ArchivePrefix:  getEnv("REPORT_ARCHIVE_PREFIX", "reports"),
		},
		Weather: WeatherConfig{
			BaseURL:    getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com/v1"),
			Timeout:    getDurationEnv("WEATHER_TIMEOUT", 10*time.Second),
			DefaultLat: getFloatEnv("WEATHER_DEFAULT_LAT", 37.5665), // ソウル
			DefaultLon: getFloatEnv("WEATHER_DEFAULT_LON", 126.9780),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getFloatEnv("RATE_LIMIT_RPS", 10),
			Burst:             getIntEnv("RATE_LIMIT_BURST", 20),
		},
		Feed: FeedConfig{
			Listen:     getBoolEnv("FEED_LISTEN", true),
			BufferSize: getIntEnv("FEED_BUFFER_SIZE", 64),
			Heartbeat:  getDurationEnv("FEED_HEARTBEAT", 25*time.Second),
		},
	}
}

// Location 設定されたタイムゾーンを返す（不正な場合はUTC）
func (c *CalendarConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv 環境変数をboolで取得
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv 環境変数をintで取得
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getFloatEnv 環境変数をfloat64で取得
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getListEnv カンマ区切りの環境変数をスライスで取得
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// getDurationEnv 環境変数をtime.Durationで取得
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
