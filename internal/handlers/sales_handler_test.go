package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outsite-backend/internal/models"
	"outsite-backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func salesRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	inv := services.NewInventory(db)
	h := NewSalesHandler(db, inv)
	r := gin.New()
	r.Use(fakeSession(models.RoleAdmin))
	r.POST("/api/sales-invoices", h.Create)
	r.GET("/api/sales-invoices/:id", h.Get)
	r.PATCH("/api/sales-invoices/:id", h.Update)
	r.PATCH("/api/sales-invoices/:id/approval", h.SetApproval)
	r.PATCH("/api/sales-invoices/:id/disburse", h.Disburse)
	r.POST("/api/sales-invoices/:id/return", h.Return)
	return r
}

type salesFixture struct {
	product   models.Product
	vehicle   models.Vehicle
	batchID   uint
	repairMan models.RepairMan
	bol       models.BolRepairMan
}

func seedSalesFixture(t *testing.T, db *gorm.DB, stock int) salesFixture {
	t.Helper()
	fx := salesFixture{
		product:   models.Product{Name: "فلتر زيت", Barcode: "B-1"},
		vehicle:   models.Vehicle{GovernmentNumber: "أ ب ج 1234"},
		repairMan: models.RepairMan{Name: "فني"},
		bol:       models.BolRepairMan{Name: "مستلم"},
	}
	for _, m := range []interface{}{&fx.product, &fx.vehicle, &fx.repairMan, &fx.bol} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	supplier := models.Supplier{Name: "S"}
	buyer := models.Buyer{Name: "B"}
	db.Create(&supplier)
	db.Create(&buyer)

	purchase, err := services.NewInventory(db).CreatePurchase(1, services.PurchaseInput{
		SupplierID: supplier.ID,
		BuyerID:    buyer.ID,
		Items: []services.PurchaseItemInput{
			{ProductID: fx.product.ID, Quantity: stock, PurchasePrice: 10},
		},
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	fx.batchID = *purchase.Items[0].BatchID
	return fx
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSalesInvoiceLifecycleOverHTTP(t *testing.T) {
	db := setupTestDB(t)
	fx := seedSalesFixture(t, db, 20)
	r := salesRouter(db)

	// Create
	body := fmt.Sprintf(
		`{"number":"S-1","vehicle_id":%d,"items":[{"product_id":%d,"batch_id":%d,"sold_quantity":5,"unit_price":15,"available_quantity":20}]}`,
		fx.vehicle.ID, fx.product.ID, fx.batchID)
	w := doJSON(t, r, http.MethodPost, "/api/sales-invoices", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.SalesInvoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	idPath := fmt.Sprintf("/api/sales-invoices/%d", created.ID)

	// Disburse before approval is rejected.
	disburseBody := fmt.Sprintf(`{"repair_man_id":%d,"bol_repair_man_id":%d}`, fx.repairMan.ID, fx.bol.ID)
	w = doJSON(t, r, http.MethodPatch, idPath+"/disburse", disburseBody)
	if w.Code != http.StatusConflict {
		t.Fatalf("unapproved disburse: expected 409 got %d", w.Code)
	}

	// Approve
	w = doJSON(t, r, http.MethodPatch, idPath+"/approval", `{"approved":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	// Disburse
	w = doJSON(t, r, http.MethodPatch, idPath+"/disburse", disburseBody)
	if w.Code != http.StatusOK {
		t.Fatalf("disburse: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var batch models.ProductBatch
	if err := db.First(&batch, fx.batchID).Error; err != nil {
		t.Fatalf("load batch: %v", err)
	}
	if batch.Quantity != 15 || batch.SoldQuantity != 5 {
		t.Fatalf("after disburse: %d/%d, want 15/5", batch.Quantity, batch.SoldQuantity)
	}

	// Second disbursement attempt must be rejected without double-decrement.
	w = doJSON(t, r, http.MethodPatch, idPath+"/disburse", disburseBody)
	if w.Code != http.StatusConflict {
		t.Fatalf("second disburse: expected 409 got %d", w.Code)
	}

	// Editing a disbursed invoice is rejected.
	w = doJSON(t, r, http.MethodPatch, idPath, body)
	if w.Code != http.StatusConflict {
		t.Fatalf("edit disbursed: expected 409 got %d", w.Code)
	}

	// Return restores the batch and deletes the invoice.
	w = doJSON(t, r, http.MethodPost, idPath+"/return", "")
	if w.Code != http.StatusOK {
		t.Fatalf("return: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if err := db.First(&batch, fx.batchID).Error; err != nil {
		t.Fatalf("reload batch: %v", err)
	}
	if batch.Quantity != 20 || batch.SoldQuantity != 0 {
		t.Fatalf("after return: %d/%d, want 20/0", batch.Quantity, batch.SoldQuantity)
	}
	w = doJSON(t, r, http.MethodGet, idPath, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after return: expected 404 got %d", w.Code)
	}
}

func TestDisburseInsufficientStockOverHTTP(t *testing.T) {
	db := setupTestDB(t)
	fx := seedSalesFixture(t, db, 3)
	r := salesRouter(db)

	body := fmt.Sprintf(
		`{"number":"S-2","vehicle_id":%d,"items":[{"product_id":%d,"batch_id":%d,"sold_quantity":5,"unit_price":15,"available_quantity":3}]}`,
		fx.vehicle.ID, fx.product.ID, fx.batchID)
	w := doJSON(t, r, http.MethodPost, "/api/sales-invoices", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d", w.Code)
	}
	var created models.SalesInvoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	idPath := fmt.Sprintf("/api/sales-invoices/%d", created.ID)

	doJSON(t, r, http.MethodPatch, idPath+"/approval", `{"approved":true}`)

	disburseBody := fmt.Sprintf(`{"repair_man_id":%d,"bol_repair_man_id":%d}`, fx.repairMan.ID, fx.bol.ID)
	w = doJSON(t, r, http.MethodPatch, idPath+"/disburse", disburseBody)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}

	// Nothing moved and the invoice is still disbursable later.
	var invoice models.SalesInvoice
	if err := db.First(&invoice, created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if invoice.DisbursementStatus != models.DisbursementNot {
		t.Fatalf("status = %q", invoice.DisbursementStatus)
	}
}

func TestSalesValidationErrors(t *testing.T) {
	db := setupTestDB(t)
	r := salesRouter(db)

	// Missing vehicle_id and items: field-error map in the 400 payload.
	w := doJSON(t, r, http.MethodPost, "/api/sales-invoices", `{"number":"S-3"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Fields) == 0 {
		t.Fatalf("expected field errors, body=%s", w.Body.String())
	}
}
