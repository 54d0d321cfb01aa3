package config

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	applog "github.com/evanmmo/vod-dashboard/logger"
	"github.com/evanmmo/vod-dashboard/models"
)

// SeedAdmin tạo tài khoản admin từ ADMIN_EMAIL/ADMIN_PASSWORD, hoặc nâng quyền nếu đã tồn tại
func SeedAdmin(db *gorm.DB, cfg *AppConfig) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	var user models.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&user).Error
	switch {
	case err == nil:
		if user.Role == models.RoleAdmin {
			return nil
		}
		if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return fmt.Errorf("không thể nâng quyền admin: %w", err)
		}
		applog.L().Info().Str("email", cfg.AdminEmail).Msg("promoted existing user to admin")
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("không thể tìm admin: %w", err)
	}

	if cfg.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL được đặt nhưng thiếu ADMIN_PASSWORD")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("không thể mã hoá mật khẩu: %w", err)
	}

	admin := models.User{
		FullName: cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("không thể tạo admin: %w", err)
	}
	applog.L().Info().Str("email", cfg.AdminEmail).Msg("admin account seeded")
	return nil
}
