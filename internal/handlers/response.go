package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"outsite-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Localized messages surfaced to the Arabic UI.
const (
	msgServerError       = "حدث خطأ في الخادم"
	msgNotFound          = "غير موجود"
	msgDuplicateVehicle  = "رقم السيارة مكرر"
	msgVehicleRequired   = "رقم السيارة مطلوب"
	msgProductInUse      = "المنتج مستخدم في فواتير ولا يمكن حذفه"
	msgInsufficientStock = "الكمية غير متوفرة في المخزون"
)

// bindError turns a gin binding failure into a 400 with a per-field error
// map when the cause is validation, or a generic message otherwise.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
}

// serviceError maps inventory sentinel errors onto HTTP statuses. Anything
// unknown is a 500 with the generic localized message.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	case errors.Is(err, services.ErrAlreadyDisbursed),
		errors.Is(err, services.ErrNotDisbursed),
		errors.Is(err, services.ErrNotApproved),
		errors.Is(err, services.ErrBatchConflict),
		errors.Is(err, services.ErrPurchaseConsumed),
		errors.Is(err, services.ErrBatchInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrProductInUse):
		c.JSON(http.StatusConflict, gin.H{"error": msgProductInUse})
	case errors.Is(err, services.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": msgInsufficientStock})
	case errors.Is(err, services.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyInvoice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
	}
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
