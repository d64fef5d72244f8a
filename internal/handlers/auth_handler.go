package handlers

import (
	"net/http"

	"outsite-backend/internal/auth"
	"outsite-backend/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const cookieMaxAge = 24 * 60 * 60 // matches the token TTL

// AuthHandler issues and clears the session cookie.
type AuthHandler struct {
	DB   *gorm.DB
	Salt string
}

func NewAuthHandler(db *gorm.DB, salt string) *AuthHandler {
	return &AuthHandler{DB: db, Salt: salt}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and sets the HTTP-only session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password+h.Salt))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}

	c.SetCookie(auth.CookieName, token, cookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated session so the client can derive role-gated
// UI state without caching it locally.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":       c.GetUint("userID"),
		"username": c.GetString("username"),
		"role":     c.GetString("role"),
	})
}
