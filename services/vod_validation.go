package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	msgStreamDateRequired = "You must specify a stream date"
	msgMP4URLRequired     = "You must specify an MP4 URL"
)

type PieceInput struct {
	MP4URL  string
	JSONURL *string
}

// VODInput là dữ liệu tạo VOD. StreamDate nil = chưa chọn ngày.
type VODInput struct {
	StreamDate  *time.Time
	Description string
	Pieces      []PieceInput
}

// ValidateVODForm kiểm tra form tạo VOD và trả về lỗi theo field; map rỗng = hợp lệ.
// Hàm thuần, không truy cập DB.
func ValidateVODForm(in VODInput) map[string]string {
	fields := map[string]string{}
	if in.StreamDate == nil || in.StreamDate.IsZero() {
		fields["stream_date"] = msgStreamDateRequired
	}
	for i, p := range in.Pieces {
		if strings.TrimSpace(p.MP4URL) == "" {
			fields[fmt.Sprintf("pieces.%d.mp4_url", i)] = msgMP4URLRequired
		}
	}
	return fields
}

// normalizeJSONURL: chuỗi rỗng được lưu thành NULL
func normalizeJSONURL(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return nil
	}
	return &v
}

// normalizeStreamDate giữ lại ngày theo lịch, bỏ giờ và múi giờ
func normalizeStreamDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
