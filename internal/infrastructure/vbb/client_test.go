package vbb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stop-registry/internal/config"
	"github.com/stop-registry/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.TransportConfig{
		BaseURL:        server.URL,
		RequestTimeout: 5,
	}
	return NewTransitClient(cfg, zap.NewNop()).(*client)
}

func TestClient_SearchLocations(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/locations", r.URL.Path)
			assert.Equal(t, "Hauptbahnhof", r.URL.Query().Get("query"))
			assert.Equal(t, "5", r.URL.Query().Get("results"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"type":"stop","id":"900003201","name":"S+U Berlin Hauptbahnhof","location":{"type":"location","latitude":52.52585,"longitude":13.368928}},
				{"type":"location","id":"900980720","name":"Berlin, Hauptbahnhof Parkhaus","location":{"latitude":52.5,"longitude":13.3}},
				{"type":"location","address":"Berlin, Invalidenstr. 10","latitude":52.52,"longitude":13.37},
				{"type":"stop","id":8011160,"name":"Berlin Hbf","location":{"latitude":52.525592,"longitude":13.369545}}
			]`))
		})

		candidates, err := c.SearchLocations(context.Background(), "Hauptbahnhof", 5)
		require.NoError(t, err)
		require.Len(t, candidates, 3)

		assert.Equal(t, domain.StopCandidate{
			Type:      "stop",
			ID:        900003201,
			Name:      "S+U Berlin Hauptbahnhof",
			Latitude:  52.52585,
			Longitude: 13.368928,
		}, candidates[0])
		assert.Equal(t, "location", candidates[1].Type)
		assert.Equal(t, int64(8011160), candidates[2].ID)
	})

	t.Run("empty result", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})

		candidates, err := c.SearchLocations(context.Background(), "nowhere", 5)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("query is url encoded", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "S+U Alexanderplatz & more", r.URL.Query().Get("query"))
			w.Write([]byte(`[]`))
		})

		_, err := c.SearchLocations(context.Background(), "S+U Alexanderplatz & more", 5)
		require.NoError(t, err)
	})
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"bad request", http.StatusBadRequest, `{"message":"bad"}`, domain.ErrUpstreamBadRequest},
		{"not found", http.StatusNotFound, `{"message":"not found"}`, domain.ErrUpstreamNotFound},
		{"server error", http.StatusInternalServerError, `oops`, domain.ErrUpstreamUnavailable},
		{"bad gateway", http.StatusBadGateway, ``, domain.ErrUpstreamUnavailable},
		{"too many requests", http.StatusTooManyRequests, ``, domain.ErrUpstreamUnavailable},
		{"malformed json", http.StatusOK, `{"departures":[`, domain.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GetDepartures(context.Background(), 900003201, 120)
			assert.ErrorIs(t, err, tt.want)

			_, err = c.SearchLocations(context.Background(), "x", 5)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	c := NewTransitClient(&config.TransportConfig{BaseURL: baseURL, RequestTimeout: 1}, zap.NewNop())

	_, err := c.GetDepartures(context.Background(), 1, 120)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestClient_GetDepartures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stops/900003201/departures", r.URL.Path)
		assert.Equal(t, "120", r.URL.Query().Get("duration"))

		w.Write([]byte(`{"departures":[
			{"platform":null,"direction":"S Spandau","line":{"operator":{"name":"S-Bahn Berlin GmbH"}}},
			{"platform":"4 A-C","direction":"Sollstedt","line":{"operator":{"name":"DB Regio AG Nordost"}}},
			{"platform":7,"direction":"Flughafen BER","line":{"operator":null}},
			{"direction":"Zoo"}
		]}`))
	})

	departures, err := c.GetDepartures(context.Background(), 900003201, 120)
	require.NoError(t, err)
	require.Len(t, departures, 4)

	assert.Nil(t, departures[0].Platform)
	assert.Equal(t, "S Spandau", *departures[0].Direction)
	assert.Equal(t, "S-Bahn Berlin GmbH", *departures[0].OperatorName)

	assert.Equal(t, "4 A-C", *departures[1].Platform)
	assert.Equal(t, "Sollstedt", *departures[1].Direction)

	assert.Equal(t, "7", *departures[2].Platform)
	assert.Nil(t, departures[2].OperatorName)

	assert.Nil(t, departures[3].Platform)
	assert.Nil(t, departures[3].OperatorName)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{`"900003201"`, 900003201, true},
		{`8011160`, 8011160, true},
		{`"abc"`, 0, false},
		{`null`, 0, false},
		{``, 0, false},
	}

	for _, tt := range tests {
		id, ok := parseID([]byte(tt.raw))
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, id, tt.raw)
	}
}
