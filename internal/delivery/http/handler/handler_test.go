package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stop-registry/internal/delivery/http/handler"
	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
	"github.com/stop-registry/internal/repository/sqlstore"
	"github.com/stop-registry/internal/repository/sqlstore/testhelpers"
	"github.com/stop-registry/internal/usecase"
)

var testNow = time.Date(2025, time.March, 8, 12, 5, 40, 0, time.UTC)

type mockTransit struct {
	mock.Mock
}

func (m *mockTransit) SearchLocations(ctx context.Context, query string, results int) ([]domain.StopCandidate, error) {
	args := m.Called(ctx, query, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StopCandidate), args.Error(1)
}

func (m *mockTransit) GetDepartures(ctx context.Context, stopID int64, durationMinutes int) ([]domain.Departure, error) {
	args := m.Called(ctx, stopID, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Departure), args.Error(1)
}

type mockText struct {
	mock.Mock
}

func (m *mockText) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type testEnv struct {
	app     *fiber.App
	stops   repository.StopRepository
	transit *mockTransit
	text    *mockText
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tdb := testhelpers.SetupSQLite(t)
	t.Cleanup(tdb.Close)

	logger := zap.NewNop()
	stops := sqlstore.NewStopRepositoryWithClock(tdb.Store, logger, func() time.Time { return testNow })
	transit := new(mockTransit)
	text := new(mockText)

	stopUC := usecase.NewStopUseCase(stops, transit, nil, nil, logger, usecase.StopUseCaseConfig{
		BaseURL:         testhelpers.FixtureBaseURL,
		SearchResults:   5,
		DepartureWindow: 120,
	}).WithClock(func() time.Time { return testNow })
	profileUC := usecase.NewProfileUseCase(stops, transit, text, nil, logger, 90, time.Hour)

	stopHandler := handler.NewStopHandler(stopUC, logger)
	profileHandler := handler.NewProfileHandler(profileUC, logger)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Put("/stops", stopHandler.ImportStops)
	api.Post("/stops", stopHandler.CreateStop)
	api.Get("/stops/:id", stopHandler.GetStop)
	api.Patch("/stops/:id", stopHandler.UpdateStop)
	api.Delete("/stops/:id", stopHandler.DeleteStop)
	api.Get("/operator-profiles/:id", profileHandler.GetOperatorProfiles)
	api.Get("/guide", profileHandler.GetGuide)

	return &testEnv{app: app, stops: stops, transit: transit, text: text}
}

type envelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func ptr(s string) *string { return &s }

func TestStopHandler_ImportStops(t *testing.T) {
	env := newTestEnv(t)
	env.transit.On("SearchLocations", mock.Anything, "Hamburg Hbf", 5).Return([]domain.StopCandidate{
		{Type: domain.LocationTypeStop, ID: 8002549, Name: "Hamburg Hbf", Latitude: 53.553533, Longitude: 10.00636},
		{Type: "address", ID: 1, Name: "Hamburg"},
	}, nil)

	resp, body := env.do(t, "PUT", "/api/v1/stops?query=Hamburg%20Hbf", "")
	assert.Equal(t, 201, resp.StatusCode)
	created := body.Data["created"].([]interface{})
	require.Len(t, created, 1)
	first := created[0].(map[string]interface{})
	assert.Equal(t, float64(8002549), first["stop_id"])
	assert.Equal(t, "2025-03-08-12:05:40", first["last_updated"])
	assert.Equal(t, "http://127.0.0.1:5000/stops/8002549",
		first["_links"].(map[string]interface{})["self"].(map[string]interface{})["href"])

	resp, body = env.do(t, "PUT", "/api/v1/stops?query=Hamburg%20Hbf", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, usecase.MessageAlreadyExists, body.Data["message"])
	assert.Equal(t, []interface{}{float64(8002549)}, body.Data["existing"])
}

func TestStopHandler_ImportStops_Errors(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "PUT", "/api/v1/stops", "")
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", body.Error["code"])

	env.transit.On("SearchLocations", mock.Anything, "nowhere", 5).Return(nil, domain.ErrUpstreamNotFound)
	resp, body = env.do(t, "PUT", "/api/v1/stops?query=nowhere", "")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "TRANSPORT_NOT_FOUND", body.Error["code"])

	env.transit.On("SearchLocations", mock.Anything, "down", 5).Return(nil, domain.ErrUpstreamUnavailable)
	resp, body = env.do(t, "PUT", "/api/v1/stops?query=down", "")
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, "TRANSPORT_UNAVAILABLE", body.Error["code"])
}

func TestStopHandler_CreateStop(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"stop_id": 8010159, "name": "Halle (Saale) Hbf", "latitude": 51.477, "longitude": 11.987}`
	resp, body := env.do(t, "POST", "/api/v1/stops", payload)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, true, body.Data["created"])

	resp, body = env.do(t, "POST", "/api/v1/stops", payload)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, false, body.Data["created"])
	assert.Equal(t, usecase.MessageAlreadyExists, body.Data["message"])

	resp, body = env.do(t, "POST", "/api/v1/stops", `{"stop_id": "x"}`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", body.Error["code"])

	resp, body = env.do(t, "POST", "/api/v1/stops", `{"stop_id": 5, "name": "Far", "latitude": 123}`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", body.Error["code"])
}

func TestStopHandler_CreateStop_BadBody(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "POST", "/api/v1/stops", `{"stop_id": 5, "name":`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", body.Error["code"])

	req := httptest.NewRequest("POST", "/api/v1/stops", strings.NewReader("stop_id=5"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	names, err := env.stops.ListNames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStopHandler_GetStop(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085, 8002549, 8010159)
	env.transit.On("GetDepartures", mock.Anything, int64(8002549), 120).Return([]domain.Departure{
		{Platform: nil, Direction: ptr("Berlin Hbf")},
		{Platform: ptr("14"), Direction: ptr("Hannover Hbf")},
	}, nil)

	resp, body := env.do(t, "GET", "/api/v1/stops/8002549", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(8002549), body.Data["stop_id"])
	assert.Equal(t, "Platform 14 towards Hannover Hbf", body.Data["next_departure"])
	assert.Equal(t, "2025-03-08-12:05:40", body.Data["last_updated"])

	links := body.Data["_links"].(map[string]interface{})
	assert.Equal(t, "http://127.0.0.1:5000/stops/8002549", links["self"].(map[string]interface{})["href"])
	assert.Equal(t, "http://127.0.0.1:5000/stops/8010159", links["next"].(map[string]interface{})["href"])
	assert.Equal(t, "http://127.0.0.1:5000/stops/8000085", links["prev"].(map[string]interface{})["href"])

	stored, err := env.stops.GetByID(context.Background(), 8002549)
	require.NoError(t, err)
	require.NotNil(t, stored.NextDeparture)
	assert.Equal(t, "Platform 14 towards Hannover Hbf", *stored.NextDeparture)
}

func TestStopHandler_GetStop_Include(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085)
	env.transit.On("GetDepartures", mock.Anything, int64(8000085), 120).Return([]domain.Departure{
		{Platform: ptr("3"), Direction: ptr("Köln Hbf")},
	}, nil)

	resp, body := env.do(t, "GET", "/api/v1/stops/8000085?include=name", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Stop", body.Data["name"])
	assert.NotContains(t, body.Data, "next_departure")
	assert.NotContains(t, body.Data, "latitude")
	assert.Contains(t, body.Data, "_links")

	// фильтр не отменяет сохранение
	stored, err := env.stops.GetByID(context.Background(), 8000085)
	require.NoError(t, err)
	require.NotNil(t, stored.NextDeparture)
	assert.Equal(t, "Platform 3 towards Köln Hbf", *stored.NextDeparture)

	resp, body = env.do(t, "GET", "/api/v1/stops/8000085?include=stop_id", "")
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "INVALID_INCLUDE", body.Error["code"])
}

func TestStopHandler_GetStop_Errors(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085)

	tests := []struct {
		name       string
		target     string
		setup      func()
		wantStatus int
		wantCode   string
	}{
		{"non-numeric id", "/api/v1/stops/abc", nil, 400, "INVALID_STOP_ID"},
		{"zero id", "/api/v1/stops/0", nil, 400, "INVALID_STOP_ID"},
		{"unknown stop", "/api/v1/stops/42", nil, 404, "STOP_NOT_FOUND"},
		{
			"upstream bad request", "/api/v1/stops/8000085",
			func() {
				env.transit.On("GetDepartures", mock.Anything, int64(8000085), 120).
					Return(nil, domain.ErrUpstreamBadRequest).Once()
			},
			400, "TRANSPORT_BAD_REQUEST",
		},
		{
			"upstream unavailable", "/api/v1/stops/8000085",
			func() {
				env.transit.On("GetDepartures", mock.Anything, int64(8000085), 120).
					Return(nil, domain.ErrUpstreamUnavailable).Once()
			},
			503, "TRANSPORT_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			resp, body := env.do(t, "GET", tt.target, "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, body.Error["code"])
		})
	}
}

func TestStopHandler_GetStop_NoDeparture(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085)
	env.transit.On("GetDepartures", mock.Anything, int64(8000085), 120).Return([]domain.Departure{
		{Platform: ptr("1"), Direction: nil},
	}, nil)

	resp, body := env.do(t, "GET", "/api/v1/stops/8000085", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "not_found", body.Data["departure_status"])
	assert.NotContains(t, body.Data, "next_departure")
	assert.Equal(t, "2025-03-08-12:00:40", body.Data["last_updated"])
}

func TestStopHandler_GetStop_NoDepartureWithInclude(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085)
	env.transit.On("GetDepartures", mock.Anything, int64(8000085), 120).Return([]domain.Departure{
		{Platform: nil, Direction: ptr("S Spandau")},
	}, nil)

	resp, body := env.do(t, "GET", "/api/v1/stops/8000085?include=name", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "not_found", body.Data["departure_status"])
	assert.Contains(t, body.Data, "name")
	assert.NotContains(t, body.Data, "next_departure")
	assert.NotContains(t, body.Data, "last_updated")
}

func TestStopHandler_UpdateStop(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085)

	resp, body := env.do(t, "PATCH", "/api/v1/stops/8000085", `{"name": "Köln Hbf", "last_updated": "2025-03-09-08:00:00"}`)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "2025-03-09-08:00:00", body.Data["last_updated"])

	stored, err := env.stops.GetByID(context.Background(), 8000085)
	require.NoError(t, err)
	assert.Equal(t, "Köln Hbf", *stored.Name)
}

func TestStopHandler_UpdateStop_Errors(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"not an object", "/api/v1/stops/8000085", `["name"]`, 400, "INVALID_REQUEST"},
		{"null body", "/api/v1/stops/8000085", `null`, 400, "INVALID_REQUEST"},
		{"malformed json", "/api/v1/stops/8000085", `{"name":`, 400, "INVALID_REQUEST"},
		{"forbidden field", "/api/v1/stops/8000085", `{"name": "X", "_links": {}}`, 400, "FORBIDDEN_FIELD"},
		{"nothing to update", "/api/v1/stops/8000085", `{"colour": "red"}`, 400, "NO_UPDATABLE_FIELD"},
		{"bad timestamp", "/api/v1/stops/8000085", `{"last_updated": "2025-03-09 08:00:00"}`, 400, "INVALID_TIMESTAMP"},
		{"bad latitude", "/api/v1/stops/8000085", `{"latitude": "north"}`, 400, "INVALID_FIELD"},
		{"unknown stop", "/api/v1/stops/42", `{"name": "X"}`, 404, "STOP_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, "PATCH", tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, body.Error["code"])
		})
	}

	stored, err := env.stops.GetByID(context.Background(), 8000085)
	require.NoError(t, err)
	assert.Equal(t, "Stop", *stored.Name)
	assert.Equal(t, "2025-03-08-12:00:40", stored.LastUpdated)
}

func TestStopHandler_DeleteStop(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085)

	resp, body := env.do(t, "DELETE", "/api/v1/stops/8000085", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "The stop_id 8000085 was removed from the database.", body.Data["message"])

	resp, body = env.do(t, "DELETE", "/api/v1/stops/8000085", "")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "STOP_NOT_FOUND", body.Error["code"])
}

func TestProfileHandler_GetOperatorProfiles(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.SeedStops(t, env.stops, 8000085)
	env.transit.On("GetDepartures", mock.Anything, int64(8000085), 90).Return([]domain.Departure{
		{OperatorName: ptr("DB Fernverkehr AG")},
	}, nil)
	env.text.On("GenerateText", mock.Anything, mock.Anything).Return("Long-distance trains.", nil)

	resp, body := env.do(t, "GET", "/api/v1/operator-profiles/8000085", "")
	require.Equal(t, 200, resp.StatusCode)
	profiles := body.Data["profiles"].([]interface{})
	require.Len(t, profiles, 1)
	assert.Equal(t, "DB Fernverkehr AG", profiles[0].(map[string]interface{})["operator_name"])

	resp, body = env.do(t, "GET", "/api/v1/operator-profiles/42", "")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "STOP_NOT_FOUND", body.Error["code"])
}

func TestProfileHandler_GetGuide(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/v1/guide", "")
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "NOT_ENOUGH_STOPS", body.Error["code"])

	testhelpers.SeedStops(t, env.stops, 8000085, 8002549)
	env.text.On("GenerateText", mock.Anything, mock.Anything).Return("Start in the west, end in the north.", nil)

	resp, _ = env.do(t, "GET", "/api/v1/guide", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Guide.txt")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
}
