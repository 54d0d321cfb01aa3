package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation: dữ liệu đầu vào không hợp lệ, chưa chạm tới DB
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized: người gọi không có quyền admin
	ErrUnauthorized = errors.New("administrator role required")
	// ErrNotFound: VOD không tồn tại
	ErrNotFound = errors.New("vod not found")
	// ErrStore: DB lỗi khi đọc/ghi
	ErrStore = errors.New("store failure")
)

// ValidationError mang thông báo lỗi theo từng field ("stream_date", "pieces.0.mp4_url", ...)
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError bọc lỗi gốc từ gorm kèm tên thao tác
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
