package controllers

import (
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/evanmmo/vod-dashboard/config"
	"github.com/evanmmo/vod-dashboard/middleware"
	"github.com/evanmmo/vod-dashboard/models"
	"github.com/evanmmo/vod-dashboard/services"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

func sessionService(c *gin.Context) *services.SessionService {
	return services.NewSessionService(dbFrom(c))
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role,
	}
}

// issueSession ký token, đặt cookie phiên và trả về thông tin đăng nhập
func issueSession(c *gin.Context, user *models.User, message string) {
	token, err := sessionService(c).Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo token"})
		return
	}

	maxAge := int(config.App.JWTTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", c.Request.TLS != nil, true)

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"token":   token,
		"user":    userPayload(user),
	})
}

// ====== HANDLERS ======
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := dbFrom(c)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Check email tồn tại
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email đã được sử dụng"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi kiểm tra email"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể mã hoá mật khẩu"})
		return
	}

	// Tài khoản đăng ký luôn là user thường; admin chỉ được tạo qua SeedAdmin
	newUser := models.User{
		FullName: strings.TrimSpace(input.FullName),
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo người dùng"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Đăng ký thành công",
		"user":    userPayload(&newUser),
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := dbFrom(c).Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email hoặc mật khẩu không đúng"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email hoặc mật khẩu không đúng"})
		return
	}

	if !user.Active() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Tài khoản đã bị tạm khóa"})
		return
	}

	issueSession(c, &user, "Đăng nhập thành công")
}

func GoogleLogin(c *gin.Context) {
	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if config.App.GoogleClientID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	// Xác minh token với đúng GOOGLE_CLIENT_ID
	payload, err := idtoken.Validate(c.Request.Context(), input.IDToken, config.App.GoogleClientID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token Google không hợp lệ"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	fullName, _ := payload.Claims["name"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !verified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email Google chưa được xác minh"})
		return
	}

	db := dbFrom(c)
	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nếu chưa có -> tạo mới; mật khẩu rỗng nên không thể đăng nhập bằng mật khẩu
		user = models.User{
			Email:    email,
			FullName: fullName,
			Password: "",
			Role:     models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo người dùng"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tìm người dùng"})
		return
	}

	if !user.Active() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Tài khoản đã bị tạm khóa"})
		return
	}

	issueSession(c, &user, "Đăng nhập Google thành công")
}

// Logout thu hồi token hiện tại
func Logout(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if err := sessionService(c).Revoke(c.Request.Context(), sess); err != nil {
		respondServiceError(c, "logout", err)
		return
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"message": "Đăng xuất thành công"})
}

// Me trả về user của phiên hiện tại
func Me(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	var user models.User
	if err := dbFrom(c).First(&user, "id = ?", sess.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy người dùng"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userPayload(&user)})
}
