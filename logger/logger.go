// Package logger giữ logger zerolog dùng chung cho cả process.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config là tuỳ chọn cho logger toàn cục
type Config struct {
	Level   string    // "debug", "info", "warn", ... rỗng thì lấy LOG_LEVEL, mặc định info
	Output  io.Writer // mặc định os.Stdout
	Service string
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure khởi tạo logger đúng một lần, các lần gọi sau bị bỏ qua
func Configure(cfg Config) {
	once.Do(func() {
		level := zerolog.InfoLevel
		raw := cfg.Level
		if raw == "" {
			raw = os.Getenv("LOG_LEVEL")
		}
		if raw != "" {
			if parsed, err := zerolog.ParseLevel(raw); err == nil {
				level = parsed
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		service := cfg.Service
		if service == "" {
			service = "vod-dashboard"
		}

		base = zerolog.New(out).With().
			Timestamp().
			Str("service", service).
			Logger()
	})
}

func L() *zerolog.Logger {
	Configure(Config{})
	return &base
}

// WithComponent trả về logger con có field "component"
func WithComponent(component string) *zerolog.Logger {
	l := L().With().Str("component", component).Logger()
	return &l
}
