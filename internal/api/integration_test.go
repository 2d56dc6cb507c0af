package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hamsafar/internal/api/handlers"
	"hamsafar/internal/api/middleware"
	"hamsafar/internal/config"
	"hamsafar/internal/live"
	"hamsafar/internal/receipt"
	"hamsafar/internal/repository/collection"
	"hamsafar/internal/services"
	"hamsafar/internal/session"
	"hamsafar/internal/storage"
)

var pkt = time.FixedZone("PKT", 5*60*60)

// 2025-01-01 10:00 local, inside service hours.
var morning = time.Date(2025, 1, 1, 10, 0, 0, 0, pkt)

type testServer struct {
	engine   *gin.Engine
	booking  *services.BookingService
	notifier *services.NotificationService
}

func setupTestServer(t *testing.T, now time.Time) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewDefaultConfig()
	logger := zap.NewNop()
	store := storage.NewMemoryStore()

	bookingRepo := collection.NewBookingRepository(store)
	sessions := session.NewManager(store, cfg.Auth, logger)

	notificationService := services.NewNotificationService(
		services.TemplateComposer{},
		cfg.Notification.WhatsAppGroupLink,
		time.Second,
		logger,
	)
	registryService := services.NewRegistryService(
		collection.NewRouteRepository(store),
		collection.NewLocationRepository(store),
		logger,
	)
	bookingService := services.NewBookingService(bookingRepo, registryService, notificationService, cfg.Booking, pkt, logger)
	bookingService.SetClock(func() time.Time { return now })
	adminService := services.NewAdminService(bookingRepo, false, logger)
	tipsService := services.NewTipsService(nil, time.Second, logger)
	hub := live.NewHub(bookingService, tipsService, cfg.Live, logger)
	receipts, err := receipt.NewRenderer("")
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}

	router := NewRouter(
		handlers.NewAuthHandler(sessions, logger),
		handlers.NewBookingHandler(bookingService, tipsService, receipts, pkt, logger),
		handlers.NewAdminHandler(adminService, logger),
		handlers.NewRegistryHandler(registryService, logger),
		handlers.NewLiveHandler(hub, logger),
		sessions,
		logger,
	)
	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.Setup(engine)

	t.Cleanup(notificationService.Wait)
	return &testServer{engine: engine, booking: bookingService, notifier: notificationService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, name, phone string) string {
	t.Helper()
	w := s.do(t, "POST", "/auth/login", "", map[string]string{"name": name, "phone": phone})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Token
}

func (s *testServer) customer(t *testing.T) string {
	return s.login(t, "Sana Khan", "03111234567")
}

func (s *testServer) admin(t *testing.T) string {
	return s.login(t, "Admin", "03001234567")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func tripAt(at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"pickup":        "Lahore",
		"destination":   "Islamabad",
		"seats":         2,
		"date":          at.Format("2006-01-02"),
		"time":          at.Format("15:04"),
		"vehicleType":   "car",
		"paymentMethod": "online",
	}
}

func (s *testServer) submit(t *testing.T, token string, at time.Time) string {
	t.Helper()
	w := s.do(t, "POST", "/bookings", token, tripAt(at))
	if w.Code != http.StatusCreated {
		t.Fatalf("submit failed: %d %s", w.Code, w.Body.String())
	}
	booking := decode(t, w)["booking"].(map[string]interface{})
	return booking["id"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupTestServer(t, morning)

	w := srv.do(t, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	srv := setupTestServer(t, morning)
	token := srv.customer(t)

	w := srv.do(t, "GET", "/auth/session", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	user := decode(t, w)["user"].(map[string]interface{})
	if user["name"] != "Sana Khan" || user["role"] != "customer" {
		t.Errorf("Unexpected session user %v", user)
	}

	if w := srv.do(t, "POST", "/auth/logout", token, nil); w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if w := srv.do(t, "GET", "/auth/session", token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d", w.Code)
	}
}

func TestLoginRequiresFields(t *testing.T) {
	srv := setupTestServer(t, morning)

	w := srv.do(t, "POST", "/auth/login", "", map[string]string{"name": "  ", "phone": "0300"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestMissingToken(t *testing.T) {
	srv := setupTestServer(t, morning)

	if w := srv.do(t, "GET", "/availability", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if w := srv.do(t, "GET", "/availability", "not-a-jwt", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for garbage token, got %d", w.Code)
	}
}

func TestTokenQueryParameter(t *testing.T) {
	srv := setupTestServer(t, morning)
	token := srv.customer(t)

	w := srv.do(t, "GET", "/availability?token="+token, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if decode(t, w)["available"] != true {
		t.Error("Expected service to be available at 10:00")
	}
}

func TestSubmitCommitted(t *testing.T) {
	srv := setupTestServer(t, morning)
	token := srv.customer(t)

	w := srv.do(t, "POST", "/bookings", token, tripAt(morning.Add(72*time.Hour)))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	resp := decode(t, w)
	if resp["outcome"] != "committed" {
		t.Errorf("Expected committed outcome, got %v", resp["outcome"])
	}
	booking := resp["booking"].(map[string]interface{})
	if booking["status"] != "pending" || booking["rideStatus"] != "pending" {
		t.Errorf("Expected pending statuses, got %v", booking)
	}
	notification := resp["notification"].(map[string]interface{})
	url, _ := notification["whatsappUrl"].(string)
	if !strings.HasPrefix(url, "https://chat.whatsapp.com/") || !strings.Contains(url, "text=") {
		t.Errorf("Unexpected whatsapp url %q", url)
	}

	mine := decode(t, srv.do(t, "GET", "/bookings/mine", token, nil))
	if n := len(mine["bookings"].([]interface{})); n != 1 {
		t.Errorf("Expected 1 booking, got %d", n)
	}
}

func TestSubmitInsideLeadTime(t *testing.T) {
	srv := setupTestServer(t, morning)
	token := srv.customer(t)

	w := srv.do(t, "POST", "/bookings", token, tripAt(morning.Add(5*time.Hour)))
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d. Body: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["outcome"] != "urgent_slot_required" {
		t.Errorf("Expected urgent_slot_required, got %v", resp["outcome"])
	}
	slots := resp["slots"].([]interface{})
	if len(slots) != 16 {
		t.Fatalf("Expected 16 slots, got %d", len(slots))
	}

	// Resubmitting with an offered slot commits an urgent booking.
	first := slots[0].(map[string]interface{})
	draft := tripAt(morning)
	draft["date"] = first["date"]
	draft["time"] = first["time"]
	draft["urgent"] = true

	w = srv.do(t, "POST", "/bookings", token, draft)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	booking := decode(t, w)["booking"].(map[string]interface{})
	if booking["urgent"] != true {
		t.Error("Expected urgent booking")
	}
}

func TestSubmitErrors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		srv := setupTestServer(t, morning)
		draft := tripAt(morning.Add(72 * time.Hour))
		draft["pickup"] = " "

		w := srv.do(t, "POST", "/bookings", srv.customer(t), draft)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("outside service hours", func(t *testing.T) {
		night := time.Date(2025, 1, 1, 3, 0, 0, 0, pkt)
		srv := setupTestServer(t, night)

		w := srv.do(t, "POST", "/bookings", srv.customer(t), tripAt(night.Add(72*time.Hour)))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Code)
		}
	})

	t.Run("admin cannot book", func(t *testing.T) {
		srv := setupTestServer(t, morning)

		w := srv.do(t, "POST", "/bookings", srv.admin(t), tripAt(morning.Add(72*time.Hour)))
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", w.Code)
		}
	})
}

func TestUrgentSlotsAndDraft(t *testing.T) {
	srv := setupTestServer(t, morning)
	token := srv.customer(t)

	slots := decode(t, srv.do(t, "GET", "/bookings/urgent-slots", token, nil))["slots"].([]interface{})
	if len(slots) != 16 {
		t.Errorf("Expected 16 slots, got %d", len(slots))
	}
	first := slots[0].(map[string]interface{})
	if first["date"] != "2025-01-01" || first["time"] != "11:00" {
		t.Errorf("Unexpected first slot %v", first)
	}

	draft := decode(t, srv.do(t, "GET", "/bookings/draft", token, nil))
	if draft["time"] != "09:00" || draft["vehicleType"] != "car" {
		t.Errorf("Unexpected draft %v", draft)
	}
}

func TestAdminRequiresAdmin(t *testing.T) {
	srv := setupTestServer(t, morning)

	w := srv.do(t, "GET", "/admin/bookings", srv.customer(t), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestAdminLifecycle(t *testing.T) {
	srv := setupTestServer(t, morning)
	id := srv.submit(t, srv.customer(t), morning.Add(72*time.Hour))
	admin := srv.admin(t)

	w := srv.do(t, "PATCH", "/admin/bookings/"+id+"/status", admin, map[string]string{"status": "confirmed"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	booking := decode(t, w)["booking"].(map[string]interface{})
	if booking["status"] != "confirmed" {
		t.Errorf("Expected confirmed, got %v", booking["status"])
	}

	w = srv.do(t, "POST", "/admin/bookings/"+id+"/driver", admin, map[string]string{"name": "Imran", "phone": "03219876543"})
	booking = decode(t, w)["booking"].(map[string]interface{})
	if booking["rideStatus"] != "driver-assigned" || booking["driverName"] != "Imran" {
		t.Errorf("Unexpected booking after assignment %v", booking)
	}

	w = srv.do(t, "PATCH", "/admin/bookings/"+id+"/ride-status", admin, map[string]string{"status": "bogus"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown ride status, got %d", w.Code)
	}

	w = srv.do(t, "DELETE", "/admin/bookings/"+id, admin, nil)
	if w.Code != http.StatusPreconditionRequired {
		t.Errorf("Expected status 428 without confirmation, got %d", w.Code)
	}
	w = srv.do(t, "DELETE", "/admin/bookings/"+id+"?confirm=true", admin, nil)
	if decode(t, w)["found"] != true {
		t.Errorf("Expected found=true, got %s", w.Body.String())
	}

	list := decode(t, srv.do(t, "GET", "/admin/bookings", admin, nil))
	if n := len(list["bookings"].([]interface{})); n != 0 {
		t.Errorf("Expected no bookings, got %d", n)
	}
}

func TestAdminMissingBooking(t *testing.T) {
	srv := setupTestServer(t, morning)

	w := srv.do(t, "PATCH", "/admin/bookings/nope/service-status", srv.admin(t), map[string]string{"status": "available"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if decode(t, w)["found"] != false {
		t.Errorf("Expected found=false, got %s", w.Body.String())
	}
}

func TestReceipt(t *testing.T) {
	srv := setupTestServer(t, morning)
	owner := srv.customer(t)
	id := srv.submit(t, owner, morning.Add(72*time.Hour))

	w := srv.do(t, "GET", "/bookings/"+id+"/receipt", owner, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "HAMSAFAR_") {
		t.Errorf("Unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}

	if w := srv.do(t, "GET", "/bookings/"+id+"/receipt", srv.admin(t), nil); w.Code != http.StatusOK {
		t.Errorf("Expected admin to fetch receipt, got %d", w.Code)
	}

	stranger := srv.login(t, "Bilal", "03331112222")
	if w := srv.do(t, "GET", "/bookings/"+id+"/receipt", stranger, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for another customer, got %d", w.Code)
	}
}

func TestRegistryEndpoints(t *testing.T) {
	srv := setupTestServer(t, morning)
	admin := srv.admin(t)
	customer := srv.customer(t)

	w := srv.do(t, "POST", "/admin/routes", admin, map[string]string{"from": "Lahore", "to": "Islamabad", "serviceType": "special"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	routeID := decode(t, w)["id"].(string)

	// An active matching route stamps its service type on new bookings.
	w = srv.do(t, "POST", "/bookings", customer, tripAt(morning.Add(72*time.Hour)))
	booking := decode(t, w)["booking"].(map[string]interface{})
	if booking["serviceType"] != "special" {
		t.Errorf("Expected special service type, got %v", booking["serviceType"])
	}

	w = srv.do(t, "PATCH", "/admin/routes/"+routeID+"/toggle", admin, nil)
	route := decode(t, w)["route"].(map[string]interface{})
	if route["isActive"] != false {
		t.Errorf("Expected inactive route, got %v", route)
	}

	if w := srv.do(t, "POST", "/admin/routes", admin, map[string]string{"from": "A", "to": "B", "serviceType": "express"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown service type, got %d", w.Code)
	}

	srv.do(t, "POST", "/admin/locations", admin, map[string]string{"name": "Liberty Market"})
	locations := decode(t, srv.do(t, "GET", "/locations", customer, nil))["locations"].([]interface{})
	if len(locations) != 1 {
		t.Errorf("Expected 1 location, got %d", len(locations))
	}

	w = srv.do(t, "DELETE", "/admin/routes/missing", admin, nil)
	if decode(t, w)["found"] != false {
		t.Errorf("Expected found=false, got %s", w.Body.String())
	}
}

func TestTipsWithoutGenerator(t *testing.T) {
	srv := setupTestServer(t, morning)

	w := srv.do(t, "GET", "/tips?from=Lahore&to=Islamabad", srv.customer(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if decode(t, w)["tips"] != "" {
		t.Errorf("Expected empty tips, got %v", decode(t, w)["tips"])
	}
}
