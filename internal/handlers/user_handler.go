package handlers

import (
	"net/http"

	"outsite-backend/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler is admin-only account management.
type UserHandler struct {
	DB   *gorm.DB
	Salt string
}

func NewUserHandler(db *gorm.DB, salt string) *UserHandler {
	return &UserHandler{DB: db, Salt: salt}
}

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("id").Find(&users).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type UserInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin warehouse maintenance"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var input UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password+h.Salt), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}

	user := models.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

type UserUpdateInput struct {
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin warehouse maintenance"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input UserUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		serviceError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if input.Role != "" {
		updates["role"] = input.Role
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password+h.Salt), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
			return
		}
		updates["password_hash"] = string(hash)
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if id == c.GetUint("userID") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		serviceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
