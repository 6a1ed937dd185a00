package vbb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/stop-registry/internal/config"
	"github.com/stop-registry/internal/domain"
	"github.com/stop-registry/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewTransitClient создает клиент REST API провайдера транспортных данных (v6.vbb.transport.rest)
func NewTransitClient(cfg *config.TransportConfig, logger *zap.Logger) repository.TransitRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

type locationResponse struct {
	Type     string          `json:"type"`
	ID       json.RawMessage `json:"id"`
	Name     string          `json:"name"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

type departuresResponse struct {
	Departures []departureResponse `json:"departures"`
}

type departureResponse struct {
	Platform  json.RawMessage `json:"platform"`
	Direction json.RawMessage `json:"direction"`
	Line      *struct {
		Operator *struct {
			Name string `json:"name"`
		} `json:"operator"`
	} `json:"line"`
}

// SearchLocations ищет локации по названию
func (c *client) SearchLocations(ctx context.Context, query string, results int) ([]domain.StopCandidate, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("results", strconv.Itoa(results))

	endpoint := fmt.Sprintf("%s/locations?%s", c.baseURL, params.Encode())

	var locations []locationResponse
	if err := c.getJSON(ctx, endpoint, &locations); err != nil {
		return nil, err
	}

	candidates := make([]domain.StopCandidate, 0, len(locations))
	for _, loc := range locations {
		id, ok := parseID(loc.ID)
		if !ok {
			// адреса и POI приходят без числового id
			continue
		}
		candidate := domain.StopCandidate{
			Type: loc.Type,
			ID:   id,
			Name: loc.Name,
		}
		if loc.Location != nil {
			candidate.Latitude = loc.Location.Latitude
			candidate.Longitude = loc.Location.Longitude
		}
		candidates = append(candidates, candidate)
	}

	c.logger.Debug("Locations search successful",
		zap.String("query", query),
		zap.Int("received", len(locations)),
		zap.Int("candidates", len(candidates)))

	return candidates, nil
}

// GetDepartures возвращает табло отправлений в порядке провайдера
func (c *client) GetDepartures(ctx context.Context, stopID int64, durationMinutes int) ([]domain.Departure, error) {
	endpoint := fmt.Sprintf("%s/stops/%d/departures?duration=%d", c.baseURL, stopID, durationMinutes)

	var board departuresResponse
	if err := c.getJSON(ctx, endpoint, &board); err != nil {
		return nil, err
	}

	departures := make([]domain.Departure, 0, len(board.Departures))
	for _, d := range board.Departures {
		dep := domain.Departure{
			Platform:  scalarString(d.Platform),
			Direction: scalarString(d.Direction),
		}
		if d.Line != nil && d.Line.Operator != nil && d.Line.Operator.Name != "" {
			name := d.Line.Operator.Name
			dep.OperatorName = &name
		}
		departures = append(departures, dep)
	}

	c.logger.Debug("Departures fetched",
		zap.Int64("stop_id", stopID),
		zap.Int("duration", durationMinutes),
		zap.Int("count", len(departures)))

	return departures, nil
}

// getJSON выполняет GET и декодирует тело. Ошибки переводятся в domain.ErrUpstream*.
func (c *client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", domain.ErrUpstreamUnavailable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Transit API request failed", zap.String("url", endpoint), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("transit API: %w", domain.ErrUpstreamBadRequest)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("transit API: %w", domain.ErrUpstreamNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Transit API returned error",
			zap.String("url", endpoint),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("Failed to decode transit response", zap.String("url", endpoint), zap.Error(err))
		return fmt.Errorf("%w: decode: %v", domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

// parseID принимает id и как строку ("900100003"), и как число
func parseID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		id, err := strconv.ParseInt(s, 10, 64)
		return id, err == nil
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	return 0, false
}

// scalarString возвращает строковое представление JSON-скаляра; null и отсутствие поля - nil
func scalarString(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	// номер платформы иногда приходит числом
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v := n.String()
		return &v
	}
	return nil
}
