package openmeteo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/weather-alert-bot/internal/domain"
	"github.com/couchcryptid/weather-alert-bot/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"

	clearSkyPayload = `{"latitude":55.75,"longitude":37.62,"daily":{"time":["2026-01-12"],"temperature_2m_max":[2.0],"temperature_2m_min":[-4.0],"weather_code":[0]}}`
)

var testLocation = Location{Latitude: 55.7558, Longitude: 37.6173, Timezone: "Europe/Moscow"}

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(baseURL, testLocation, timeout, observability.NewDiscardLogger(), observability.NewMetrics())
}

func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "55.7558", q.Get("latitude"))
		assert.Equal(t, "37.6173", q.Get("longitude"))
		assert.Equal(t, "temperature_2m_max,temperature_2m_min,weather_code", q.Get("daily"))
		assert.Equal(t, "Europe/Moscow", q.Get("timezone"))
		assert.Equal(t, "1", q.Get("forecast_days"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(clearSkyPayload))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second)
	reading := c.Fetch(context.Background())

	assert.Equal(t, domain.NewForecastReading(-1.0, "ясно"), reading)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.ForecastFetches.WithLabelValues("success")), 0)
	assert.InDelta(t, -1.0, testutil.ToFloat64(c.metrics.AverageTemperature), 0)
}

func TestClient_Fetch_UnmappedCode(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"daily":{"temperature_2m_max":[10.4],"temperature_2m_min":[5.1],"weather_code":[42]}}`)

	reading := testClient(srv.URL, 5*time.Second).Fetch(context.Background())

	assert.True(t, reading.TemperatureKnown)
	assert.InDelta(t, 7.8, reading.Temperature, 1e-9)
	assert.Equal(t, domain.UnknownCategory, reading.Category)
	assert.True(t, reading.IsUnknown(), "unmapped code disables the alert")
}

func TestClient_Fetch_HTTPError(t *testing.T) {
	srv := serveJSON(t, http.StatusServiceUnavailable, `{"error":true,"reason":"maintenance"}`)

	c := testClient(srv.URL, 5*time.Second)
	assert.Equal(t, domain.UnknownReading(), c.Fetch(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.ForecastFetches.WithLabelValues("network_error")), 0)
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(clearSkyPayload))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 50*time.Millisecond)
	assert.Equal(t, domain.UnknownReading(), c.Fetch(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.ForecastFetches.WithLabelValues("network_error")), 0)
}

func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	assert.Equal(t, domain.UnknownReading(), testClient(url, time.Second).Fetch(context.Background()))
}

func TestClient_Fetch_MalformedBody(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"daily":`)

	c := testClient(srv.URL, 5*time.Second)
	assert.Equal(t, domain.UnknownReading(), c.Fetch(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.ForecastFetches.WithLabelValues("data_shape_error")), 0)
}

func TestClient_doRequest_NetworkErrorCarriesStatus(t *testing.T) {
	srv := serveJSON(t, http.StatusBadRequest, `{"reason":"bad latitude"}`)

	_, err := testClient(srv.URL, 5*time.Second).doRequest(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusBadRequest, netErr.StatusCode)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "bad latitude")
}

func TestNormalize_DataShapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"not json", `not json`, ""},
		{"no daily", `{"hourly":{}}`, "daily"},
		{"daily null", `{"daily":null}`, "daily"},
		{"missing max", `{"daily":{"temperature_2m_min":[1],"weather_code":[0]}}`, "daily.temperature_2m_max"},
		{"empty min", `{"daily":{"temperature_2m_max":[1],"temperature_2m_min":[],"weather_code":[0]}}`, "daily.temperature_2m_min"},
		{"null code", `{"daily":{"temperature_2m_max":[1],"temperature_2m_min":[0],"weather_code":[null]}}`, "daily.weather_code"},
		{"string temperature", `{"daily":{"temperature_2m_max":["warm"],"temperature_2m_min":[0],"weather_code":[0]}}`, ""},
		{"fractional code", `{"daily":{"temperature_2m_max":[1],"temperature_2m_min":[0],"weather_code":[2.5]}}`, ""},
		{"daily is array", `{"daily":[1,2,3]}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]byte(tt.payload))
			var shapeErr *DataShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, tt.field, shapeErr.Field)
		})
	}
}

func TestNormalize_UsesFirstDayOnly(t *testing.T) {
	reading, err := Normalize([]byte(`{"daily":{"temperature_2m_max":[31.0,10.0],"temperature_2m_min":[30.5,0.0],"weather_code":[95,0]}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.NewForecastReading(30.8, "гроза"), reading)
}

func TestNormalize_RoundsHalfToEven(t *testing.T) {
	reading, err := Normalize([]byte(`{"daily":{"temperature_2m_max":[0.5],"temperature_2m_min":[0.0],"weather_code":[3]}}`))
	require.NoError(t, err)
	assert.Equal(t, 0.2, reading.Temperature)
}

func TestNormalize_Idempotent(t *testing.T) {
	r1, err1 := Normalize([]byte(clearSkyPayload))
	r2, err2 := Normalize([]byte(clearSkyPayload))
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, r1, r2)
}

func TestDataShapeError_Unwrap(t *testing.T) {
	err := &DataShapeError{Field: "daily", Err: errMissing}
	assert.True(t, errors.Is(err, errMissing))
	assert.Equal(t, `open-meteo response field "daily": missing`, err.Error())
}
