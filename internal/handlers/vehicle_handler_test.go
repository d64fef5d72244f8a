package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"outsite-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func vehicleRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewVehicleHandler(db)
	r := gin.New()
	r.Use(fakeSession(models.RoleMaintenance))
	r.POST("/api/vehicles", h.Create)
	r.POST("/api/vehicles/import", h.Import)
	r.DELETE("/api/vehicles/:id/work-orders/:orderID", h.DeleteWorkOrder)
	return r
}

// buildImportFile renders rows into an xlsx body under a "file" form field.
func buildImportFile(t *testing.T, rows [][]string) (*bytes.Buffer, string) {
	t.Helper()
	xl := excelize.NewFile()
	sheet := xl.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := xl.SetCellValue(sheet, name, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var xlsx bytes.Buffer
	if err := xl.Write(&xlsx); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "vehicles.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(xlsx.Bytes()); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestVehicleImportPerRowResults(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Create(&models.Vehicle{GovernmentNumber: "1234"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := vehicleRouter(db)

	body, contentType := buildImportFile(t, [][]string{
		{"الرقم الحكومي", "الرقم الملكي", "النوع", "الموديل", "اللون"},
		{"1234", "R-1", "بيك أب", "2020", "أبيض"}, // collides
		{"5678", "R-2", "سيدان", "2021", "أسود"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/vehicles/import", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []ImportRowResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 row results, got %d", len(resp.Results))
	}
	if resp.Results[0].Success || resp.Results[0].Error != "رقم السيارة مكرر" {
		t.Fatalf("colliding row: %+v", resp.Results[0])
	}
	if !resp.Results[1].Success {
		t.Fatalf("clean row failed: %+v", resp.Results[1])
	}

	var count int64
	db.Model(&models.Vehicle{}).Count(&count)
	if count != 2 { // the seeded one plus the clean import row
		t.Fatalf("vehicle count = %d, want 2", count)
	}
}

func TestDeleteWorkOrderRejectsNonNumericID(t *testing.T) {
	db := setupTestDB(t)
	vehicle := models.Vehicle{GovernmentNumber: "1234"}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := db.Create(&models.WorkOrder{VehicleID: vehicle.ID, Category: "صيانة"}).Error; err != nil {
			t.Fatalf("seed work order: %v", err)
		}
	}
	r := vehicleRouter(db)

	// A crafted id must not reach the WHERE clause as SQL.
	path := fmt.Sprintf("/api/vehicles/%d/work-orders/id%%20IS%%20NOT%%20NULL", vehicle.ID)
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	var count int64
	db.Model(&models.WorkOrder{}).Count(&count)
	if count != 3 {
		t.Fatalf("work orders deleted through crafted id: %d left", count)
	}

	// A numeric id removes exactly that order.
	var order models.WorkOrder
	if err := db.Where("vehicle_id = ?", vehicle.ID).First(&order).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	path = fmt.Sprintf("/api/vehicles/%d/work-orders/%d", vehicle.ID, order.ID)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("numeric delete: expected 200 got %d", w.Code)
	}
	db.Model(&models.WorkOrder{}).Count(&count)
	if count != 2 {
		t.Fatalf("work order count = %d, want 2", count)
	}
}

func TestVehicleCreateRejectsDuplicatePlate(t *testing.T) {
	db := setupTestDB(t)
	r := vehicleRouter(db)

	body := `{"government_number":"1234","royal_number":"R-1"}`
	w := doJSON(t, r, http.MethodPost, "/api/vehicles", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201 got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/vehicles", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409 got %d body=%s", w.Code, w.Body.String())
	}
}
