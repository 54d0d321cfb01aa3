package config

const (
	// VODsPerPage là kích thước trang cố định cho danh sách VOD
	VODsPerPage = 12
	// DescriptionPreviewLength là số ký tự tối đa của mô tả rút gọn
	DescriptionPreviewLength = 250
)
