package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"github.com/sympatecoinc/door-quoter/internal/quoting/repository"
	"github.com/sympatecoinc/door-quoter/internal/quoting/service"
	"github.com/sympatecoinc/door-quoter/internal/quoting/testutil"
	"gorm.io/gorm"
)

func setupWorkOrderRouter(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := service.NewServices(repos, db, nil, testutil.Logger(), service.Options{})
	h := NewWorkOrderHandler(svcs.WorkOrder)

	r := testutil.SetupRouter()
	v1 := testutil.AuthGroup(r, "/api/v1")
	v1.POST("/projects/:id/work-orders/generate", h.Generate)
	v1.GET("/work-orders", h.List)
	v1.GET("/work-orders/:id", h.Get)
	v1.GET("/work-orders/:id/time-in-stage", h.TimeInStage)
	v1.POST("/work-orders/:id/start", h.Start)
	v1.POST("/work-orders/:id/advance", h.Advance)

	projectID := seedProjectWithOnePanel(t, db)
	return r, db, projectID
}

func seedProjectWithOnePanel(t *testing.T, db *gorm.DB) string {
	t.Helper()
	testutil.SeedPricingMode(t, db, entity.CostingFullStock)
	rail := testutil.SeedPart(t, db, "EXT-100", entity.PartTypeExtrusion, 0)
	if err := db.Create(&entity.StockLengthRule{
		ID:           uuid.New().String(),
		MasterPartID: rail.ID,
		MinHeight:    testutil.Float(84),
		MaxHeight:    testutil.Float(96),
		StockLength:  96,
		BasePrice:    15,
		AppliesTo:    entity.AppliesToHeight,
		IsActive:     true,
	}).Error; err != nil {
		t.Fatalf("seeding rule: %v", err)
	}

	product := &entity.Product{ID: uuid.New().String(), Code: "SD-100", Name: "Single Door"}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	if err := db.Create(&entity.ProductBOM{
		ID: uuid.New().String(), ProductID: product.ID,
		PartType: entity.PartTypeExtrusion, PartName: "Vertical Rail",
		Formula: "height - 2", Quantity: 1, Unit: "IN",
		PartNumber: testutil.Str("EXT-100"),
	}).Error; err != nil {
		t.Fatalf("seeding bom: %v", err)
	}

	project := &entity.Project{ID: uuid.New().String(), Name: "Lobby", SalesOrderID: "SO-1"}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seeding project: %v", err)
	}
	opening := &entity.Opening{
		ID: uuid.New().String(), ProjectID: project.ID,
		Name: "Entry A", RoughWidth: 38, RoughHeight: 98,
	}
	if err := db.Create(opening).Error; err != nil {
		t.Fatalf("seeding opening: %v", err)
	}
	if err := db.Create(&entity.Panel{
		ID: uuid.New().String(), OpeningID: opening.ID,
		ProductID: product.ID, Width: 36, Height: 96,
	}).Error; err != nil {
		t.Fatalf("seeding panel: %v", err)
	}
	return project.ID
}

func TestGenerateEndpoint(t *testing.T) {
	r, _, projectID := setupWorkOrderRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST",
		fmt.Sprintf("/api/v1/projects/%s/work-orders/generate", projectID),
		map[string]interface{}{"batch_size": 10}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 0 {
		t.Fatalf("expected code 0, got %v", resp["code"])
	}
	data := resp["data"].(map[string]interface{})
	if data["created"].(float64) != 1 {
		t.Fatalf("expected 1 created work order, got %v", data["created"])
	}
}

func TestGenerateEndpointRequiresAuth(t *testing.T) {
	r, _, projectID := setupWorkOrderRouter(t)

	w := testutil.DoRequest(r, "POST",
		fmt.Sprintf("/api/v1/projects/%s/work-orders/generate", projectID), nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}
}

func TestAdvanceEndpointWalksAndRejectsPastComplete(t *testing.T) {
	r, _, projectID := setupWorkOrderRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST",
		fmt.Sprintf("/api/v1/projects/%s/work-orders/generate", projectID), nil, token)
	resp := testutil.ParseResponse(w)
	wos := resp["data"].(map[string]interface{})["work_orders"].([]interface{})
	woID := wos[0].(map[string]interface{})["id"].(string)

	stages := []string{"CUTTING", "MILLING", "ASSEMBLY", "QC", "SHIP", "COMPLETE"}
	for _, want := range stages {
		w := testutil.DoRequest(r, "POST",
			fmt.Sprintf("/api/v1/work-orders/%s/advance", woID), nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("advance to %s: got %d: %s", want, w.Code, w.Body.String())
		}
		got := testutil.ParseResponse(w)["data"].(map[string]interface{})["current_stage"].(string)
		if got != want {
			t.Fatalf("expected stage %s, got %s", want, got)
		}
	}

	w = testutil.DoRequest(r, "POST",
		fmt.Sprintf("/api/v1/work-orders/%s/advance", woID), nil, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("advancing past COMPLETE should 400, got %d", w.Code)
	}
	if testutil.ParseResponse(w)["code"].(float64) != 10004 {
		t.Fatal("expected state-error code 10004")
	}
}

func TestListEndpointReturnsStageCounts(t *testing.T) {
	r, _, projectID := setupWorkOrderRouter(t)
	token := testutil.DefaultTestToken()

	testutil.DoRequest(r, "POST",
		fmt.Sprintf("/api/v1/projects/%s/work-orders/generate", projectID), nil, token)

	w := testutil.DoRequest(r, "GET", "/api/v1/work-orders?stage=STAGED", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total"].(float64) != 1 {
		t.Fatalf("expected 1 staged work order, got %v", data["total"])
	}
	counts := data["stage_counts"].(map[string]interface{})
	if counts["STAGED"].(float64) != 1 {
		t.Fatalf("expected STAGED count 1, got %v", counts["STAGED"])
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	r, _, _ := setupWorkOrderRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "GET", "/api/v1/work-orders/no-such-id", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestTimeInStageEndpoint(t *testing.T) {
	r, _, projectID := setupWorkOrderRouter(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(r, "POST",
		fmt.Sprintf("/api/v1/projects/%s/work-orders/generate", projectID), nil, token)
	wos := testutil.ParseResponse(w)["data"].(map[string]interface{})["work_orders"].([]interface{})
	woID := wos[0].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(r, "GET",
		fmt.Sprintf("/api/v1/work-orders/%s/time-in-stage", woID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	minutes := testutil.ParseResponse(w)["data"].(map[string]interface{})["minutes"].(float64)
	if minutes != 0 {
		t.Fatalf("fresh order should report 0 minutes, got %v", minutes)
	}
}
