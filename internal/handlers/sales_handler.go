package handlers

import (
	"net/http"

	"outsite-backend/internal/models"
	"outsite-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SalesHandler struct {
	DB  *gorm.DB
	Inv *services.Inventory
}

func NewSalesHandler(db *gorm.DB, inv *services.Inventory) *SalesHandler {
	return &SalesHandler{DB: db, Inv: inv}
}

func (h *SalesHandler) List(c *gin.Context) {
	q := h.DB.Preload("Vehicle").Preload("Items.Product").Order("id desc")
	if status := c.Query("approval"); status != "" {
		q = q.Where("approval_status = ?", status)
	}
	if status := c.Query("disbursement"); status != "" {
		q = q.Where("disbursement_status = ?", status)
	}

	var invoices []models.SalesInvoice
	if err := q.Find(&invoices).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var invoice models.SalesInvoice
	err := h.DB.Preload("Vehicle").Preload("RepairMan").Preload("BolRepairMan").
		Preload("Items.Product").Preload("Items.Batch").
		First(&invoice, id).Error
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *SalesHandler) Create(c *gin.Context) {
	var input services.SalesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	invoice, err := h.Inv.CreateSales(c.GetUint("userID"), input)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// Update edits a not-yet-disbursed invoice; disbursed ones are immutable
// and can only be returned.
func (h *SalesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input services.SalesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	invoice, err := h.Inv.UpdateSales(id, input)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Inv.DeleteSales(id); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}

type ApprovalInput struct {
	Approved *bool `json:"approved" binding:"required"`
}

// SetApproval is the admin sign-off. No inventory effect.
func (h *SalesHandler) SetApproval(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input ApprovalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	invoice, err := h.Inv.SetApproval(id, *input.Approved)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type DisburseInput struct {
	RepairManID    uint `json:"repair_man_id" binding:"required"`
	BolRepairManID uint `json:"bol_repair_man_id" binding:"required"`
}

// Disburse releases the parts from the warehouse; this is the only point
// stock is consumed.
func (h *SalesHandler) Disburse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input DisburseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	invoice, err := h.Inv.Disburse(id, input.RepairManID, input.BolRepairManID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Return reverses a disbursed invoice and deletes it.
func (h *SalesHandler) Return(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Inv.Return(id); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice returned"})
}
