package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDate = errors.New("ngày không hợp lệ, dùng YYYY-MM-DD")
	ErrInvalidPage = errors.New("page phải là số nguyên không âm")
)

// ParseStreamDate nhận "YYYY-MM-DD" hoặc RFC3339 và trả về ngày (00:00 UTC)
func ParseStreamDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	// Giữ nguyên ngày theo lịch của client, bỏ phần giờ
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParsePage đọc ?page= (bắt đầu từ 0); rỗng = trang 0
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, ErrInvalidPage
	}
	return page, nil
}
