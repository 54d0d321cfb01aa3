package utils

import (
	"context"
	"time"

	applog "github.com/evanmmo/vod-dashboard/logger"
)

// Purger xóa các bản ghi đã hết hạn, trả về số dòng bị xóa
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RunCleanup chạy một lượt dọn dẹp
func RunCleanup(ctx context.Context, p Purger) {
	log := applog.WithComponent("cleanup")

	n, err := p.PurgeExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("purge expired revoked tokens failed")
		return
	}
	if n > 0 {
		log.Info().Int64("rows", n).Msg("purged expired revoked tokens")
	}
}

// StartCleanupJob chạy cleanup ngay khi khởi động rồi lặp lại theo interval cho tới khi ctx bị hủy
func StartCleanupJob(ctx context.Context, p Purger, interval time.Duration) {
	RunCleanup(ctx, p)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				RunCleanup(ctx, p)
			}
		}
	}()

	applog.WithComponent("cleanup").Info().Dur("interval", interval).Msg("cleanup job started")
}
