package handlers

import (
	"net/http"

	"outsite-backend/internal/models"
	"outsite-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PurchaseHandler struct {
	DB  *gorm.DB
	Inv *services.Inventory
}

func NewPurchaseHandler(db *gorm.DB, inv *services.Inventory) *PurchaseHandler {
	return &PurchaseHandler{DB: db, Inv: inv}
}

func (h *PurchaseHandler) List(c *gin.Context) {
	var invoices []models.PurchaseInvoice
	err := h.DB.Preload("Supplier").Preload("Buyer").Preload("Items.Product").
		Order("id desc").Find(&invoices).Error
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var invoice models.PurchaseInvoice
	err := h.DB.Preload("Supplier").Preload("Buyer").
		Preload("Items.Product").Preload("Items.Batch").
		First(&invoice, id).Error
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *PurchaseHandler) Create(c *gin.Context) {
	var input services.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	invoice, err := h.Inv.CreatePurchase(c.GetUint("userID"), input)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	invoice, err := h.Inv.UpdatePurchase(id, input)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Inv.DeletePurchase(id); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}

type DeliveryInput struct {
	ItemID uint   `json:"item_id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=pending delivered"`
}

// SetDelivery marks a line item delivered or pending.
func (h *PurchaseHandler) SetDelivery(c *gin.Context) {
	var input DeliveryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	res := h.DB.Model(&models.PurchaseInvoiceItem{}).
		Where("id = ?", input.ItemID).
		Update("delivery_status", input.Status)
	if res.Error != nil {
		serviceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Delivery status updated"})
}
