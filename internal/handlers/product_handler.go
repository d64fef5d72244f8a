package handlers

import (
	"net/http"

	"outsite-backend/internal/barcode"
	"outsite-backend/internal/models"
	"outsite-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductHandler covers product CRUD, duplicate-name checking, manual batch
// adjustments and barcode rendering.
type ProductHandler struct {
	DB  *gorm.DB
	Inv *services.Inventory
}

func NewProductHandler(db *gorm.DB, inv *services.Inventory) *ProductHandler {
	return &ProductHandler{DB: db, Inv: inv}
}

func (h *ProductHandler) List(c *gin.Context) {
	rows, err := h.Inv.ListProducts()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var product models.Product
	if err := h.DB.Preload("Batches").First(&product, id).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type ProductInput struct {
	Name           string `json:"name" binding:"required"`
	Barcode        string `json:"barcode" binding:"required"`
	Category       string `json:"category"`
	Unit           string `json:"unit"`
	ReceivingParty string `json:"receiving_party"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if err := h.Inv.CreateProducts([]models.Product{{
		Name:           input.Name,
		Barcode:        input.Barcode,
		Category:       input.Category,
		Unit:           input.Unit,
		ReceivingParty: input.ReceivingParty,
	}}); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Products created"})
}

type BatchCreateRequest struct {
	Products []ProductInput `json:"products" binding:"required,min=1,dive"`
}

// BatchCreate inserts several products at once; the duplicate-name check
// reruns inside the creation transaction.
func (h *ProductHandler) BatchCreate(c *gin.Context) {
	var req BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	products := make([]models.Product, 0, len(req.Products))
	for _, in := range req.Products {
		products = append(products, models.Product{
			Name:           in.Name,
			Barcode:        in.Barcode,
			Category:       in.Category,
			Unit:           in.Unit,
			ReceivingParty: in.ReceivingParty,
		})
	}

	if err := h.Inv.CreateProducts(products); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Products created", "count": len(products)})
}

type DuplicateCheckRequest struct {
	Names []string `json:"names" binding:"required,min=1"`
}

// CheckDuplicates reports which candidate names already exist so the form
// can block submission before creating anything.
func (h *ProductHandler) CheckDuplicates(c *gin.Context) {
	var req DuplicateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	duplicates, err := h.Inv.CheckDuplicateNames(req.Names)
	if err != nil {
		serviceError(c, err)
		return
	}
	if duplicates == nil {
		duplicates = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"duplicates": duplicates})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Inv.DeleteProduct(id); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	rows, err := h.Inv.LowStockProducts()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProductHandler) OutOfStock(c *gin.Context) {
	rows, err := h.Inv.OutOfStockProducts()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Barcode renders the product's barcode as a printable PNG.
func (h *ProductHandler) Barcode(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		serviceError(c, err)
		return
	}

	img, err := barcode.RenderPNG(product.Barcode, 300, 80)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

type BatchInput struct {
	ProductID     uint    `json:"product_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"gte=0"`
	VehicleID     *uint   `json:"vehicle_id"`
}

// CreateBatch records a manual adjustment lot.
func (h *ProductHandler) CreateBatch(c *gin.Context) {
	var input BatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	batch, err := h.Inv.CreateBatch(input.ProductID, input.Quantity, input.PurchasePrice, input.VehicleID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, batch)
}

type BatchUpdateInput struct {
	ID        uint  `json:"id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"gte=0"`
	VehicleID *uint `json:"vehicle_id"`
}

func (h *ProductHandler) UpdateBatch(c *gin.Context) {
	var input BatchUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	batch, err := h.Inv.UpdateBatch(input.ID, input.Quantity, input.VehicleID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

type BatchDeleteInput struct {
	ID uint `json:"id" binding:"required"`
}

func (h *ProductHandler) DeleteBatch(c *gin.Context) {
	var input BatchDeleteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Inv.DeleteBatch(input.ID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Batch deleted"})
}
