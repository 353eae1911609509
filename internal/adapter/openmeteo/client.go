package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-alert-bot/internal/domain"
	"github.com/couchcryptid/weather-alert-bot/internal/observability"
)

// DefaultBaseURL is the Open-Meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

const dailyFields = "temperature_2m_max,temperature_2m_min,weather_code"

var (
	errMissing = errors.New("missing")
	errEmpty   = errors.New("empty array")
	errNull    = errors.New("null value")
)

// Location is the point the daily forecast is requested for.
type Location struct {
	Latitude  float64
	Longitude float64
	Timezone  string
}

// Client fetches today's forecast and normalizes it into a domain.ForecastReading.
type Client struct {
	httpClient *http.Client
	baseURL    string
	location   Location
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an Open-Meteo client. The timeout bounds the whole request.
func NewClient(baseURL string, loc Location, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:  baseURL,
		location: loc,
		logger:   logger,
		metrics:  metrics,
	}
}

// Fetch returns today's reading. Any network or data-shape failure is logged
// and reported as domain.UnknownReading; Fetch never returns an error.
func (c *Client) Fetch(ctx context.Context) domain.ForecastReading {
	reading, err := c.fetch(ctx)
	if err != nil {
		var netErr *NetworkError
		var shapeErr *DataShapeError
		switch {
		case errors.As(err, &netErr):
			c.metrics.ForecastFetches.WithLabelValues("network_error").Inc()
			c.logger.Error("forecast request failed", "error", err, "status", netErr.StatusCode)
		case errors.As(err, &shapeErr):
			c.metrics.ForecastFetches.WithLabelValues("data_shape_error").Inc()
			c.logger.Error("malformed forecast response", "error", err, "field", shapeErr.Field)
		default:
			c.metrics.ForecastFetches.WithLabelValues("error").Inc()
			c.logger.Error("unexpected forecast error", "error", err)
		}
		return domain.UnknownReading()
	}

	c.metrics.ForecastFetches.WithLabelValues("success").Inc()
	c.metrics.AverageTemperature.Set(reading.Temperature)
	return reading
}

func (c *Client) fetch(ctx context.Context) (domain.ForecastReading, error) {
	body, err := c.doRequest(ctx)
	if err != nil {
		return domain.ForecastReading{}, err
	}

	daily, err := decodeDaily(body)
	if err != nil {
		return domain.ForecastReading{}, err
	}
	c.logger.Info("forecast received",
		"temperature_max", daily.max,
		"temperature_min", daily.min,
		"weather_code", daily.code,
	)
	return daily.reading(), nil
}

func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	u, err := c.buildURL()
	if err != nil {
		return nil, fmt.Errorf("build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

func (c *Client) buildURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(c.location.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.location.Longitude, 'f', -1, 64))
	q.Set("daily", dailyFields)
	q.Set("forecast_days", "1")
	if c.location.Timezone != "" {
		q.Set("timezone", c.location.Timezone)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Normalize maps a raw forecast payload to a reading. It is pure: the same
// payload always yields the same reading.
func Normalize(payload []byte) (domain.ForecastReading, error) {
	daily, err := decodeDaily(payload)
	if err != nil {
		return domain.ForecastReading{}, err
	}
	return daily.reading(), nil
}

type dailyValues struct {
	max  float64
	min  float64
	code int
}

func (d dailyValues) reading() domain.ForecastReading {
	avg := domain.RoundTemperature((d.max + d.min) / 2)
	return domain.NewForecastReading(avg, domain.DescribeWeatherCode(d.code))
}

func decodeDaily(payload []byte) (dailyValues, error) {
	var resp response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return dailyValues{}, &DataShapeError{Err: err}
	}
	if resp.Daily == nil {
		return dailyValues{}, &DataShapeError{Field: "daily", Err: errMissing}
	}

	maxTemp, err := first(resp.Daily.TemperatureMax, "daily.temperature_2m_max")
	if err != nil {
		return dailyValues{}, err
	}
	minTemp, err := first(resp.Daily.TemperatureMin, "daily.temperature_2m_min")
	if err != nil {
		return dailyValues{}, err
	}
	code, err := first(resp.Daily.WeatherCode, "daily.weather_code")
	if err != nil {
		return dailyValues{}, err
	}

	return dailyValues{max: *maxTemp, min: *minTemp, code: *code}, nil
}

func first[T any](values []*T, field string) (*T, error) {
	if values == nil {
		return nil, &DataShapeError{Field: field, Err: errMissing}
	}
	if len(values) == 0 {
		return nil, &DataShapeError{Field: field, Err: errEmpty}
	}
	if values[0] == nil {
		return nil, &DataShapeError{Field: field, Err: errNull}
	}
	return values[0], nil
}

// Open-Meteo API response types. Only index 0 of each daily array is used.

type response struct {
	Daily *daily `json:"daily"`
}

type daily struct {
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
	WeatherCode    []*int     `json:"weather_code"`
}
