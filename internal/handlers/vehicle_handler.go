package handlers

import (
	"net/http"
	"strconv"

	"outsite-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type VehicleHandler struct {
	DB *gorm.DB
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{DB: db}
}

func (h *VehicleHandler) List(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := h.DB.Order("id").Find(&vehicles).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var vehicle models.Vehicle
	if err := h.DB.Preload("WorkOrders").First(&vehicle, id).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

type VehicleInput struct {
	GovernmentNumber string `json:"government_number" binding:"required"`
	RoyalNumber      string `json:"royal_number"`
	VehicleType      string `json:"vehicle_type"`
	Model            string `json:"model"`
	Color            string `json:"color"`
	Notes            string `json:"notes"`
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var input VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	var count int64
	if err := h.DB.Model(&models.Vehicle{}).
		Where("government_number = ?", input.GovernmentNumber).
		Count(&count).Error; err != nil {
		serviceError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": msgDuplicateVehicle})
		return
	}

	vehicle := models.Vehicle{
		GovernmentNumber: input.GovernmentNumber,
		RoyalNumber:      input.RoyalNumber,
		VehicleType:      input.VehicleType,
		Model:            input.Model,
		Color:            input.Color,
		Notes:            input.Notes,
	}
	if err := h.DB.Create(&vehicle).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input VehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, id).Error; err != nil {
		serviceError(c, err)
		return
	}

	// Another vehicle may not already carry the new plate number.
	var count int64
	if err := h.DB.Model(&models.Vehicle{}).
		Where("government_number = ? AND id <> ?", input.GovernmentNumber, id).
		Count(&count).Error; err != nil {
		serviceError(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": msgDuplicateVehicle})
		return
	}

	vehicle.GovernmentNumber = input.GovernmentNumber
	vehicle.RoyalNumber = input.RoyalNumber
	vehicle.VehicleType = input.VehicleType
	vehicle.Model = input.Model
	vehicle.Color = input.Color
	vehicle.Notes = input.Notes
	if err := h.DB.Save(&vehicle).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// Delete removes the vehicle and cascades its work orders.
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var vehicle models.Vehicle
		if err := tx.First(&vehicle, id).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", id).
			Delete(&models.WorkOrder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&vehicle).Error
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

// ImportRowResult is the per-row outcome of a bulk import.
type ImportRowResult struct {
	Row     int    `json:"row"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Import reads an xlsx sheet (columns: government number, royal number,
// type, model, color) and inserts a vehicle per row, reporting success or
// failure per row instead of aborting the whole file.
func (h *VehicleHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read file"})
		return
	}
	defer src.Close()

	xl, err := excelize.OpenReader(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid xlsx file"})
		return
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheet)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read sheet"})
		return
	}

	results := make([]ImportRowResult, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		result := ImportRowResult{Row: i + 1}

		vehicle := models.Vehicle{}
		if len(row) > 0 {
			vehicle.GovernmentNumber = row[0]
		}
		if len(row) > 1 {
			vehicle.RoyalNumber = row[1]
		}
		if len(row) > 2 {
			vehicle.VehicleType = row[2]
		}
		if len(row) > 3 {
			vehicle.Model = row[3]
		}
		if len(row) > 4 {
			vehicle.Color = row[4]
		}

		if vehicle.GovernmentNumber == "" {
			result.Error = msgVehicleRequired
			results = append(results, result)
			continue
		}

		var count int64
		if err := h.DB.Model(&models.Vehicle{}).
			Where("government_number = ?", vehicle.GovernmentNumber).
			Count(&count).Error; err != nil {
			result.Error = msgServerError
			results = append(results, result)
			continue
		}
		if count > 0 {
			result.Error = msgDuplicateVehicle
			results = append(results, result)
			continue
		}

		if err := h.DB.Create(&vehicle).Error; err != nil {
			result.Error = msgServerError
			results = append(results, result)
			continue
		}
		result.Success = true
		results = append(results, result)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

type WorkOrderInput struct {
	Category       string `json:"category" binding:"required"`
	Description    string `json:"description"`
	AttachmentPath string `json:"attachment_path"`
}

func (h *VehicleHandler) ListWorkOrders(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var orders []models.WorkOrder
	if err := h.DB.Where("vehicle_id = ?", id).Order("id desc").Find(&orders).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *VehicleHandler) CreateWorkOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input WorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, id).Error; err != nil {
		serviceError(c, err)
		return
	}

	order := models.WorkOrder{
		VehicleID:      vehicle.ID,
		Category:       input.Category,
		Description:    input.Description,
		AttachmentPath: input.AttachmentPath,
	}
	if err := h.DB.Create(&order).Error; err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *VehicleHandler) DeleteWorkOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	orderID, err := strconv.Atoi(c.Param("orderID"))
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	res := h.DB.Where("vehicle_id = ?", id).
		Delete(&models.WorkOrder{}, orderID)
	if res.Error != nil {
		serviceError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work order deleted"})
}
