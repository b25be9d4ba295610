package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Board      BoardConfig
	Upload     UploadConfig
	S3         S3Config
	Dynamo     DynamoConfig
	Redis      RedisConfig
	NATS       NATSConfig
	CloudWatch CloudWatchConfig
	Export     ExportConfig
	Security   SecurityConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// BoardConfig описывает размер доски и тему по умолчанию.
// Количество слотов фиксируется на старте процесса и дальше не меняется.
type BoardConfig struct {
	SlotCount       int
	DefaultTheme    string
	DefaultSubtitle string
}

type UploadConfig struct {
	MaxImageBytes      int64
	MaxArtistNameRunes int
	RateLimitPerMinute int
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	KeyPrefix       string
	URLMode         string
	PresignedTTL    time.Duration
}

type DynamoConfig struct {
	Enabled         bool
	TableOrphans    string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SweepInterval   time.Duration
	SweepGrace      time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type NATSConfig struct {
	Enabled bool
	URL     string
}

type CloudWatchConfig struct {
	MetricsEnabled    bool
	MetricsNamespace  string
	Region            string
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	MetricsBufferSize int
	MetricsFlush      time.Duration
}

type ExportConfig struct {
	TileSize     int
	Columns      int
	FetchTimeout time.Duration
	MaxTileBytes int64
}

type SecurityConfig struct {
	ResetPassword string
	APIRatePerSec float64
	APIRateBurst  int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	slotCount, err := strconv.Atoi(getEnv("BOARD_SLOT_COUNT", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOARD_SLOT_COUNT: %w", err)
	}

	maxImageMB, err := strconv.Atoi(getEnv("UPLOAD_MAX_IMAGE_MB", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_IMAGE_MB: %w", err)
	}

	uploadRate, err := strconv.Atoi(getEnv("UPLOAD_RATE_LIMIT_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_RATE_LIMIT_PER_MINUTE: %w", err)
	}

	presignedTTL, err := time.ParseDuration(getEnv("S3_PRESIGNED_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid S3_PRESIGNED_TTL: %w", err)
	}

	sweepInterval, err := time.ParseDuration(getEnv("ORPHAN_SWEEP_INTERVAL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_SWEEP_INTERVAL: %w", err)
	}

	sweepGrace, err := time.ParseDuration(getEnv("ORPHAN_SWEEP_GRACE", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_SWEEP_GRACE: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cwBufferSize, err := strconv.Atoi(getEnv("CLOUDWATCH_METRICS_BUFFER_SIZE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_METRICS_BUFFER_SIZE: %w", err)
	}

	cwFlush, err := time.ParseDuration(getEnv("CLOUDWATCH_METRICS_FLUSH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_METRICS_FLUSH_INTERVAL: %w", err)
	}

	tileSize, err := strconv.Atoi(getEnv("EXPORT_TILE_SIZE", "320"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_TILE_SIZE: %w", err)
	}

	exportColumns, err := strconv.Atoi(getEnv("EXPORT_COLUMNS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_COLUMNS: %w", err)
	}

	fetchTimeout, err := time.ParseDuration(getEnv("EXPORT_FETCH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_FETCH_TIMEOUT: %w", err)
	}

	apiRate, err := strconv.ParseFloat(getEnv("API_RATE_PER_SECOND", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_PER_SECOND: %w", err)
	}

	apiBurst, err := strconv.Atoi(getEnv("API_RATE_BURST", "40"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_BURST: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "drawgrid"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Board: BoardConfig{
			SlotCount:       slotCount,
			DefaultTheme:    getEnv("BOARD_DEFAULT_THEME", "Untitled"),
			DefaultSubtitle: getEnv("BOARD_DEFAULT_SUBTITLE", "..."),
		},
		Upload: UploadConfig{
			MaxImageBytes:      int64(maxImageMB) * 1024 * 1024,
			MaxArtistNameRunes: 64,
			RateLimitPerMinute: uploadRate,
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "ru-central1"),
			Endpoint:        getEnv("S3_ENDPOINT", "https://storage.yandexcloud.net"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "artworks"),
			URLMode:         getEnv("S3_URL_MODE", "public"),
			PresignedTTL:    presignedTTL,
		},
		Dynamo: DynamoConfig{
			Enabled:         getEnvBool("DYNAMO_ENABLED", false),
			TableOrphans:    getEnv("DYNAMO_TABLE_ORPHAN_UPLOADS", "drawgrid_orphan_uploads"),
			Region:          getEnv("DYNAMO_REGION", getEnv("S3_REGION", "ru-central1")),
			Endpoint:        getEnv("DYNAMO_ENDPOINT", ""),
			AccessKeyID:     getEnv("DYNAMO_ACCESS_KEY_ID", getEnv("S3_ACCESS_KEY_ID", "")),
			SecretAccessKey: getEnv("DYNAMO_SECRET_ACCESS_KEY", getEnv("S3_SECRET_ACCESS_KEY", "")),
			SweepInterval:   sweepInterval,
			SweepGrace:      sweepGrace,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		CloudWatch: CloudWatchConfig{
			MetricsEnabled:    getEnvBool("CLOUDWATCH_METRICS_ENABLED", false),
			MetricsNamespace:  getEnv("CLOUDWATCH_METRICS_NAMESPACE", "DrawGrid/Board"),
			Region:            getEnv("CLOUDWATCH_REGION", getEnv("S3_REGION", "ru-central1")),
			Endpoint:          getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:       getEnv("CLOUDWATCH_ACCESS_KEY_ID", getEnv("S3_ACCESS_KEY_ID", "")),
			SecretAccessKey:   getEnv("CLOUDWATCH_SECRET_ACCESS_KEY", getEnv("S3_SECRET_ACCESS_KEY", "")),
			MetricsBufferSize: cwBufferSize,
			MetricsFlush:      cwFlush,
		},
		Export: ExportConfig{
			TileSize:     tileSize,
			Columns:      exportColumns,
			FetchTimeout: fetchTimeout,
			MaxTileBytes: 16 * 1024 * 1024,
		},
		Security: SecurityConfig{
			ResetPassword: getEnv("RESET_PASSWORD", ""),
			APIRatePerSec: apiRate,
			APIRateBurst:  apiBurst,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Board.SlotCount < 1 || c.Board.SlotCount > 64 {
		return fmt.Errorf("BOARD_SLOT_COUNT must be in [1,64], got %d", c.Board.SlotCount)
	}
	if c.Security.ResetPassword == "" {
		return fmt.Errorf("RESET_PASSWORD is required")
	}
	if c.S3.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}
	if c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "" {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required")
	}
	if c.Export.Columns < 1 {
		return fmt.Errorf("EXPORT_COLUMNS must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}
