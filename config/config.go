package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "github.com/evanmmo/vod-dashboard/logger"
	"github.com/evanmmo/vod-dashboard/models"
)

type AppConfig struct {
	Port string

	DatabaseType string // postgres | sqlite
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	SQLitePath   string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins    []string
	GoogleClientID string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	LogLevel        string
	LoginRatePerMin int
}

var App = &AppConfig{}

// Load đọc cấu hình từ biến môi trường (đã được godotenv nạp trước đó)
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:           getEnv("PORT", "8080"),
		DatabaseType:   strings.ToLower(getEnv("DATABASE_TYPE", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		SQLitePath:     getEnv("SQLITE_PATH", "vods.db"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTTTL:         24 * time.Hour,
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		AdminEmail:     strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AdminName:      getEnv("ADMIN_NAME", "Administrator"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	cfg.LoginRatePerMin = 10

	if raw := os.Getenv("JWT_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("JWT_TTL không hợp lệ: %q", raw)
		}
		cfg.JWTTTL = ttl
	}
	if raw := os.Getenv("LOGIN_RATE_PER_MIN"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("LOGIN_RATE_PER_MIN không hợp lệ: %q", raw)
		}
		cfg.LoginRatePerMin = n
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("thiếu JWT_SECRET")
	}
	switch cfg.DatabaseType {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DATABASE_TYPE không hỗ trợ: %s", cfg.DatabaseType)
	}

	App = cfg
	return cfg, nil
}

// InitDB kết nối DB theo DATABASE_TYPE, cấu hình pool và AutoMigrate
func InitDB(cfg *AppConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:  logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DatabaseType {
	case "sqlite":
		// foreign_keys để ON DELETE CASCADE có hiệu lực
		dsn := fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000&_journal_mode=WAL", cfg.SQLitePath)
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("không thể kết nối database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("không thể lấy sql.DB từ gorm: %w", err)
	}

	// Connection Pooling config
	if cfg.DatabaseType == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	applog.L().Info().Str("driver", cfg.DatabaseType).Msg("database connected & migrated")
	return db, nil
}

// Migrate tạo/cập nhật schema cho mọi model
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.VOD{},
		&models.Piece{},
		&models.RevokedToken{},
	); err != nil {
		return fmt.Errorf("autoMigrate lỗi: %w", err)
	}
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
