package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rando-pics/api-go/middleware"
	"github.com/rando-pics/api-go/models"
	"github.com/rando-pics/api-go/services"
	"github.com/rando-pics/api-go/utils"
)

// asUser injects claims directly, standing in for the JWT middleware.
func asUser(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: userID, Role: role})
		c.Next()
	}
}

type testEnv struct {
	stores services.Stores
	memory *services.MemoryStores
	router func(userID uint, role string) *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := services.NewMemoryStores()
	stores := m.Bundle()

	fanout := services.NewFanoutService(m, 3000, 5)
	moderation := services.NewModerationService(stores, m)

	locationController := NewLocationController(stores.Locations)
	broadcastController := NewBroadcastController(fanout, stores.Deliveries)
	moderationController := NewModerationController(moderation)

	router := func(userID uint, role string) *gin.Engine {
		r := gin.New()
		api := r.Group("/api", asUser(userID, role))
		api.POST("/location", locationController.UpdateLocation)
		api.POST("/broadcast", broadcastController.SubmitBroadcast)
		api.GET("/inbox", broadcastController.GetInbox)
		api.GET("/inbox/:id", broadcastController.GetDelivery)
		api.DELETE("/inbox/:id", broadcastController.RemoveDelivery)
		api.POST("/report", moderationController.FileReport)

		mod := api.Group("/moderation", middleware.RequireModerator())
		mod.GET("/reports", moderationController.ListReports)
		mod.DELETE("/reports/:id", moderationController.DismissReport)
		mod.POST("/ban/:userId", moderationController.BanUser)
		return r
	}

	return &testEnv{stores: stores, memory: m, router: router}
}

func (e *testEnv) seedUser(id uint, role string) {
	e.memory.AddUser(&models.User{
		ID:            id,
		Username:      fmt.Sprintf("user%d", id),
		Email:         fmt.Sprintf("user%d@example.com", id),
		Role:          role,
		AccountStatus: models.AccountStatusActive,
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBroadcastFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, models.RoleUser)
	env.seedUser(2, models.RoleUser)

	// Both users publish a location, then user 1 broadcasts.
	w := doJSON(t, env.router(1, models.RoleUser), "POST", "/api/location",
		gin.H{"latitude": 52.5200, "longitude": 13.4050})
	if w.Code != http.StatusOK {
		t.Fatalf("update location: status %d: %s", w.Code, w.Body)
	}
	w = doJSON(t, env.router(2, models.RoleUser), "POST", "/api/location",
		gin.H{"latitude": 52.5300, "longitude": 13.4100})
	if w.Code != http.StatusOK {
		t.Fatalf("update location: status %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, env.router(1, models.RoleUser), "POST", "/api/broadcast",
		gin.H{"imageRef": "broadcasts/1/img1.jpg"})
	if w.Code != http.StatusCreated {
		t.Fatalf("broadcast: status %d: %s", w.Code, w.Body)
	}
	var submitResp struct {
		RecipientCount int    `json:"recipientCount"`
		RecipientIDs   []uint `json:"recipientIds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &submitResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if submitResp.RecipientCount != 1 || len(submitResp.RecipientIDs) != 1 || submitResp.RecipientIDs[0] != 2 {
		t.Fatalf("response = %+v, want recipient 2 only", submitResp)
	}

	// Recipient sees the delivery.
	w = doJSON(t, env.router(2, models.RoleUser), "GET", "/api/inbox", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("inbox: status %d: %s", w.Code, w.Body)
	}
	var inboxResp struct {
		Deliveries []models.BroadcastDelivery `json:"deliveries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &inboxResp); err != nil {
		t.Fatalf("decode inbox: %v", err)
	}
	if len(inboxResp.Deliveries) != 1 || inboxResp.Deliveries[0].ImageRef != "broadcasts/1/img1.jpg" {
		t.Fatalf("inbox = %+v, want the one delivery", inboxResp.Deliveries)
	}
	deliveryID := inboxResp.Deliveries[0].ID

	// The sender cannot read or delete the recipient's copy.
	w = doJSON(t, env.router(1, models.RoleUser), "GET", fmt.Sprintf("/api/inbox/%d", deliveryID), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("sender reading delivery: status %d, want 403", w.Code)
	}
	w = doJSON(t, env.router(1, models.RoleUser), "DELETE", fmt.Sprintf("/api/inbox/%d", deliveryID), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("sender deleting delivery: status %d, want 403", w.Code)
	}

	// The recipient can.
	w = doJSON(t, env.router(2, models.RoleUser), "DELETE", fmt.Sprintf("/api/inbox/%d", deliveryID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recipient deleting delivery: status %d: %s", w.Code, w.Body)
	}
	w = doJSON(t, env.router(2, models.RoleUser), "GET", fmt.Sprintf("/api/inbox/%d", deliveryID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted delivery: status %d, want 404", w.Code)
	}
}

func TestBroadcastWithoutNearbyUsers(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, models.RoleUser)

	w := doJSON(t, env.router(1, models.RoleUser), "POST", "/api/location",
		gin.H{"latitude": 52.5200, "longitude": 13.4050})
	if w.Code != http.StatusOK {
		t.Fatalf("update location: status %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, env.router(1, models.RoleUser), "POST", "/api/broadcast",
		gin.H{"imageRef": "broadcasts/1/img1.jpg"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404 when no one is nearby", w.Code)
	}
}

func TestBroadcastWithoutLocation(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, models.RoleUser)

	w := doJSON(t, env.router(1, models.RoleUser), "POST", "/api/broadcast",
		gin.H{"imageRef": "broadcasts/1/img1.jpg"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404 without a stored location", w.Code)
	}
}

func TestBroadcastRejectsMissingImageRef(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, models.RoleUser)

	w := doJSON(t, env.router(1, models.RoleUser), "POST", "/api/broadcast", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", w.Code)
	}
}

func TestUpdateLocationRejectsOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, models.RoleUser)

	w := doJSON(t, env.router(1, models.RoleUser), "POST", "/api/location",
		gin.H{"latitude": 95.0, "longitude": 13.4050})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", w.Code)
	}
}

func TestModerationEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, models.RoleUser)
	env.seedUser(2, models.RoleUser)
	env.seedUser(3, models.RoleModerator)

	deliveryID, err := env.stores.Deliveries.Record(context.Background(), 1, 2, "img1")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Recipient files a report.
	w := doJSON(t, env.router(2, models.RoleUser), "POST", "/api/report",
		gin.H{"deliveryId": deliveryID, "reason": "inappropriate"})
	if w.Code != http.StatusCreated {
		t.Fatalf("file report: status %d: %s", w.Code, w.Body)
	}

	// Plain users are locked out of the moderation surface.
	w = doJSON(t, env.router(2, models.RoleUser), "GET", "/api/moderation/reports", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-moderator listing reports: status %d, want 403", w.Code)
	}
	w = doJSON(t, env.router(2, models.RoleUser), "POST", "/api/moderation/ban/1", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-moderator banning: status %d, want 403", w.Code)
	}

	// The moderator reviews and acts.
	w = doJSON(t, env.router(3, models.RoleModerator), "GET", "/api/moderation/reports", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list reports: status %d: %s", w.Code, w.Body)
	}
	var listResp struct {
		Reports []models.Report `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode reports: %v", err)
	}
	if len(listResp.Reports) != 1 || listResp.Reports[0].SenderID != 1 {
		t.Fatalf("reports = %+v, want one against user 1", listResp.Reports)
	}

	w = doJSON(t, env.router(3, models.RoleModerator), "POST", "/api/moderation/ban/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ban: status %d: %s", w.Code, w.Body)
	}

	banned, err := env.stores.Users.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !banned.IsBanned() {
		t.Error("target not banned")
	}

	// Banning an unknown user reports not found.
	w = doJSON(t, env.router(3, models.RoleModerator), "POST", "/api/moderation/ban/999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("ban unknown user: status %d, want 404", w.Code)
	}
}

func TestDismissReportEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(1, models.RoleUser)
	env.seedUser(2, models.RoleUser)
	env.seedUser(3, models.RoleModerator)

	deliveryID, err := env.stores.Deliveries.Record(context.Background(), 1, 2, "img1")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	w := doJSON(t, env.router(2, models.RoleUser), "POST", "/api/report",
		gin.H{"deliveryId": deliveryID, "reason": "spam"})
	if w.Code != http.StatusCreated {
		t.Fatalf("file report: status %d: %s", w.Code, w.Body)
	}
	var fileResp struct {
		ReportID uint `json:"reportId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &fileResp); err != nil {
		t.Fatalf("decode report id: %v", err)
	}

	w = doJSON(t, env.router(3, models.RoleModerator), "DELETE",
		fmt.Sprintf("/api/moderation/reports/%d", fileResp.ReportID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dismiss: status %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, env.router(3, models.RoleModerator), "GET", "/api/moderation/reports", nil)
	var listResp struct {
		Reports []models.Report `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode reports: %v", err)
	}
	if len(listResp.Reports) != 0 {
		t.Errorf("open reports = %+v, want none after dismissal", listResp.Reports)
	}
}
