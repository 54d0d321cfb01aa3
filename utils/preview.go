package utils

import "strings"

const previewEllipsis = "..."

// PreviewDescription rút gọn mô tả còn tối đa maxLength ký tự (rune), bỏ các ký tự
// '.', ',', ' ', '\n' ở cuối rồi thêm "...". Mô tả ngắn hơn được trả nguyên vẹn.
func PreviewDescription(description string, maxLength int) string {
	runes := []rune(description)
	if len(runes) <= maxLength {
		return description
	}
	if maxLength < 0 {
		maxLength = 0
	}

	truncated := strings.TrimRight(string(runes[:maxLength]), ". ,\n")
	return truncated + previewEllipsis
}

// DescriptionLines tách mô tả theo từng dòng để client hiển thị
func DescriptionLines(description string) []string {
	return strings.Split(description, "\n")
}
