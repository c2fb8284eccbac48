package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelbooking/internal/bookings/repository/memory"
	"hotelbooking/internal/bookings/service"
	"hotelbooking/internal/bookings/validator"
	"hotelbooking/pkg/app"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
	hotel   *model.Hotel
	guest   *model.User
	other   *model.User
	manager *model.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.Discard()
	cfg := config.Default(log)
	cfg.RateLimitRequests = 1000

	store := memory.NewStore()
	ts := &testServer{
		store: store,
		hotel: &model.Hotel{Name: "Harbor View", Rooms: []model.RoomType{{RoomType: "standard", MaxCount: 2, Price: 100}}},
		guest: &model.User{Name: "Guest", Email: "guest@example.com"},
		other: &model.User{Name: "Other", Email: "other@example.com"},
	}
	require.NoError(t, store.PutHotel(ts.hotel))
	ts.manager = &model.User{Name: "Manager", Email: "m@example.com", Role: model.RoleHotelManager, HotelID: ts.hotel.ID}
	for _, u := range []*model.User{ts.guest, ts.other, ts.manager} {
		require.NoError(t, store.PutUser(u))
	}
	store.PutSetting(model.SettingPriceToPoint, 100)

	users := memory.NewUserRepository(store)
	bookingService := service.NewBookingService(service.Dependencies{
		Bookings:    memory.NewBookingRepository(store),
		Locks:       memory.NewBookingLockRepository(store),
		Hotels:      memory.NewHotelRepository(store),
		Users:       users,
		Redeemables: memory.NewRedeemableRepository(store),
		Settings:    memory.NewSettingRepository(store),
		Validator:   validator.NewBookingValidator(log),
	}, cfg)
	settingsService := service.NewSettingsService(memory.NewSettingRepository(store), cfg)

	application := app.NewApplication(cfg)
	application.SetApp(
		NewBookingHandler(bookingService, settingsService, log),
		NewHealthHandler(nil, log),
		service.NewActorResolver(users),
	)
	t.Cleanup(application.Close)

	ts.handler = application.Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, user *model.User, body any, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set(middleware.UserIDHeader, user.ID)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func (ts *testServer) bookingBody(rooms int) map[string]any {
	return map[string]any{
		"hotel":     ts.hotel.ID,
		"startDate": "2024-03-01",
		"endDate":   "2024-03-02",
		"rooms":     []map[string]any{{"roomType": "standard", "count": rooms}},
	}
}

func TestBookingAPI_Lifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodPost, "/api/v1/bookings", ts.guest, ts.bookingBody(2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 200.0, body["price"])
	assert.NotContains(t, body, "couponUsed")
	bookingID := body["data"].(map[string]any)["id"].(string)

	rec, body = ts.do(t, http.MethodPost, "/api/v1/bookings", ts.other, ts.bookingBody(1))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "not enough room", body["msg"])
	assert.Equal(t, "CAPACITY_EXCEEDED", body["code"])

	rec, body = ts.do(t, http.MethodGet, "/api/v1/bookings/"+bookingID+"?expand=true", ts.guest, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Harbor View", data["hotel"].(map[string]any)["name"])
	assert.Equal(t, "guest@example.com", data["user"].(map[string]any)["email"])

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/bookings/"+bookingID, ts.other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = ts.do(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/checkIn", ts.manager, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2.0, body["pointsAwarded"])

	rec, body = ts.do(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/checkIn", ts.manager, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Booking is not reserved", body["msg"])

	rec, _ = ts.do(t, http.MethodPut, "/api/v1/bookings/"+bookingID+"/completed", ts.manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = ts.do(t, http.MethodPost, "/api/v1/bookings", ts.other, ts.bookingBody(1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 100.0, body["price"])

	rec, body = ts.do(t, http.MethodGet, "/api/v1/bookings", ts.manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, body["total_count"])
}

func TestBookingAPI_UpdateAndCancel(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodPost, "/api/v1/bookings", ts.guest, ts.bookingBody(1))
	require.Equal(t, http.StatusCreated, rec.Code)
	bookingID := body["data"].(map[string]any)["id"].(string)

	rec, body = ts.do(t, http.MethodPut, "/api/v1/bookings/"+bookingID, ts.guest, map[string]any{"endDate": "2024-03-03"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 200.0, body["price"])

	rec, _ = ts.do(t, http.MethodPut, "/api/v1/bookings/"+bookingID, ts.guest, map[string]any{"endDate": "next week"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/bookings/"+bookingID, ts.other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = ts.do(t, http.MethodDelete, "/api/v1/bookings/"+bookingID, ts.guest, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/bookings/"+bookingID, ts.guest, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingAPI_AvailabilityAndQuote(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/bookings", ts.guest, ts.bookingBody(1))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := ts.do(t, http.MethodGet, "/api/v1/hotels/"+ts.hotel.ID+"/available?checkin=2024-03-01&checkout=2024-03-05", ts.guest, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []any{map[string]any{"type": "standard", "remainCount": 1.0}}, body["data"])

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/hotels/"+ts.hotel.ID+"/available?checkin=2024-03-01", ts.guest, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = ts.do(t, http.MethodPost, "/api/v1/hotels/"+ts.hotel.ID+"/quote", ts.guest, map[string]any{
		"startDate": "2024-04-01T10:00:00Z",
		"endDate":   "2024-04-03T09:00:00Z",
		"rooms":     []map[string]any{{"roomType": "standard", "count": 2}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := body["data"].(map[string]any)
	assert.Equal(t, true, quote["valid"])
	assert.Equal(t, 400.0, quote["price"])
}

func TestBookingAPI_Settings(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodGet, "/api/v1/settings/price-to-point", ts.guest, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100.0, body["data"].(map[string]any)["priceToPoint"])

	rec, _ = ts.do(t, http.MethodPut, "/api/v1/settings/price-to-point", ts.manager, map[string]any{"priceToPoint": 10})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingAPI_Middleware(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodGet, "/api/v1/bookings", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/bookings", &model.User{ID: "65f1c0d2a1b2c3d4e5f60799"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(middleware.UserIDHeader, ts.guest.ID)
	req.Header.Set("Content-Type", "text/plain")
	raw := httptest.NewRecorder()
	ts.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, raw.Code)

	rec, body = ts.do(t, http.MethodGet, "/ready", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "memory", body["database"])
}

func TestBookingAPI_IdempotentCreate(t *testing.T) {
	ts := newTestServer(t)

	first, firstBody := ts.do(t, http.MethodPost, "/api/v1/bookings", ts.guest, ts.bookingBody(1), middleware.IdempotencyHeader, "abc")
	require.Equal(t, http.StatusCreated, first.Code)

	second, secondBody := ts.do(t, http.MethodPost, "/api/v1/bookings", ts.guest, ts.bookingBody(1), middleware.IdempotencyHeader, "abc")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, firstBody, secondBody)

	count, err := memory.NewBookingRepository(ts.store).Count(context.Background(), model.BookingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
