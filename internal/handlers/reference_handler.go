package handlers

import (
	"net/http"

	"outsite-backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReferenceHandler serves the simple named entities attached to invoices:
// suppliers, buyers, repairmen and bol repairmen.
type ReferenceHandler struct {
	DB *gorm.DB
}

func NewReferenceHandler(db *gorm.DB) *ReferenceHandler {
	return &ReferenceHandler{DB: db}
}

type NameInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (h *ReferenceHandler) ListSuppliers(c *gin.Context) {
	var rows []models.Supplier
	if err := h.DB.Order("name").Find(&rows).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReferenceHandler) CreateSupplier(c *gin.Context) {
	var input NameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	row := models.Supplier{Name: input.Name, Phone: input.Phone}
	if err := h.DB.Create(&row).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ReferenceHandler) DeleteSupplier(c *gin.Context) {
	h.deleteByID(c, &models.Supplier{})
}

func (h *ReferenceHandler) ListBuyers(c *gin.Context) {
	var rows []models.Buyer
	if err := h.DB.Order("name").Find(&rows).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReferenceHandler) CreateBuyer(c *gin.Context) {
	var input NameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	row := models.Buyer{Name: input.Name}
	if err := h.DB.Create(&row).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ReferenceHandler) DeleteBuyer(c *gin.Context) {
	h.deleteByID(c, &models.Buyer{})
}

func (h *ReferenceHandler) ListRepairMen(c *gin.Context) {
	var rows []models.RepairMan
	if err := h.DB.Order("name").Find(&rows).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReferenceHandler) CreateRepairMan(c *gin.Context) {
	var input NameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	row := models.RepairMan{Name: input.Name}
	if err := h.DB.Create(&row).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ReferenceHandler) DeleteRepairMan(c *gin.Context) {
	h.deleteByID(c, &models.RepairMan{})
}

func (h *ReferenceHandler) ListBolRepairMen(c *gin.Context) {
	var rows []models.BolRepairMan
	if err := h.DB.Order("name").Find(&rows).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReferenceHandler) CreateBolRepairMan(c *gin.Context) {
	var input NameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	row := models.BolRepairMan{Name: input.Name}
	if err := h.DB.Create(&row).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *ReferenceHandler) DeleteBolRepairMan(c *gin.Context) {
	h.deleteByID(c, &models.BolRepairMan{})
}

func (h *ReferenceHandler) deleteByID(c *gin.Context, model interface{}) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res := h.DB.Delete(model, id)
	if res.Error != nil {
		serviceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
