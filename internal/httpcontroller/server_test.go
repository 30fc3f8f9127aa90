package httpcontroller

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/weatherdash/internal/dashboard"
	"github.com/tphakala/weatherdash/internal/weather"
)

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) dashboard.View {
	t.Helper()
	var v dashboard.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestIndex_RendersEmptyDashboard(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Weather Forecast</title>")
	assert.Contains(t, body, `placeholder="Search city..."`)
	assert.Contains(t, body, `data-ask-location="true"`)
	assert.NotContains(t, body, "Feels like")

	// A CSRF cookie is issued and the same token is embedded in the page
	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf" {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)
	assert.Contains(t, body, `content="`+token+`"`)
}

func TestIndex_UsesConfiguredTitle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.server.Settings.Main.Name = "Home Weather"

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Contains(t, rec.Body.String(), "<title>Home Weather</title>")
}

func TestSearch_FormRedirects(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec := env.do(postForm("/search", url.Values{"city": {"Paris"}}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	v := env.controller.View()
	require.NotNil(t, v.Weather)
	assert.Equal(t, "Paris", v.Weather.City)
	assert.Len(t, v.Forecast, weather.MaxForecastDays)
	assert.False(t, v.Loading)

	page := env.do(httptest.NewRequest(http.MethodGet, "/", http.NoBody)).Body.String()
	assert.Contains(t, page, "Paris")
	assert.Contains(t, page, "20.0°")
	assert.Contains(t, page, `data-ask-location="false"`)
}

func TestSearch_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		city      string
		wantCity  string
		wantError string
	}{
		{name: "success", city: "  Oslo ", wantCity: "Oslo"},
		{name: "failure", city: "Nowhere", wantError: dashboard.MsgSearchFailed},
		{name: "blank is ignored", city: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)

			rec := env.do(postJSON("/search", url.Values{"city": {tt.city}}))
			require.Equal(t, http.StatusOK, rec.Code)

			v := decodeView(t, rec)
			assert.Equal(t, tt.wantError, v.Error)
			if tt.wantCity == "" {
				assert.Nil(t, v.Weather)
				return
			}
			require.NotNil(t, v.Weather)
			assert.Equal(t, tt.wantCity, v.Weather.City)
		})
	}
}

func TestSearch_FailurePreservesPreviousData(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	env.do(postJSON("/search", url.Values{"city": {"Paris"}}))
	v := decodeView(t, env.do(postJSON("/search", url.Values{"city": {"Nowhere"}})))

	assert.Equal(t, dashboard.MsgSearchFailed, v.Error)
	require.NotNil(t, v.Weather)
	assert.Equal(t, "Paris", v.Weather.City)
}

func TestSearch_ClientDisconnectDoesNotFailFetch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	req := postForm("/search", url.Values{"city": {"London"}}).WithContext(ctx)
	env.do(req)

	v := env.controller.View()
	require.NotNil(t, v.Weather)
	assert.Equal(t, "London", v.Weather.City)
	assert.Empty(t, v.Error)
	assert.False(t, v.Loading)
}

func TestCSRF_RejectsMissingToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("city=Paris"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := env.do(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, env.controller.View().Weather)
}

func TestCSRF_AcceptsFormField(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	form := url.Values{"city": {"Paris"}, "_csrf": {testCSRFToken}}
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf", Value: testCSRFToken})

	rec := env.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lat, lon string
		wantCode int
	}{
		{name: "valid", lat: "60.17", lon: "24.94", wantCode: http.StatusAccepted},
		{name: "latitude out of range", lat: "91", lon: "0", wantCode: http.StatusBadRequest},
		{name: "longitude out of range", lat: "0", lon: "-180.5", wantCode: http.StatusBadRequest},
		{name: "not a number", lat: "north", lon: "0", wantCode: http.StatusBadRequest},
		{name: "missing", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)

			rec := env.do(postJSON("/location", url.Values{"lat": {tt.lat}, "lon": {tt.lon}}))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusAccepted {
				return
			}
			assert.Eventually(t, func() bool {
				v := env.controller.View()
				return v.Weather != nil && v.Weather.City == "Coordsville" && !v.Loading
			}, 2*time.Second, 10*time.Millisecond)
		})
	}
}

func TestLocationDenied(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	v := decodeView(t, env.do(postJSON("/location/denied", nil)))

	assert.Equal(t, dashboard.MsgLocationDenied, v.Error)
	assert.False(t, v.Loading)
	assert.Nil(t, v.Weather)
}

func TestToggleUnit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	v := decodeView(t, env.do(postJSON("/unit/toggle", nil)))
	assert.Equal(t, weather.Fahrenheit, v.Unit)

	rec := env.do(postForm("/unit/toggle", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, weather.Celsius, env.controller.View().Unit)
}

func TestToggleBookmark(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.do(postJSON("/search", url.Values{"city": {"Paris"}}))

	v := decodeView(t, env.do(postJSON("/bookmarks/toggle", url.Values{"city": {"Paris"}})))
	assert.Equal(t, []string{"Paris"}, v.Bookmarks)
	assert.True(t, v.IsBookmarked)

	page := env.do(httptest.NewRequest(http.MethodGet, "/", http.NoBody)).Body.String()
	assert.Contains(t, page, "star-filled")
	assert.Contains(t, page, `class="bookmarks"`)

	v = decodeView(t, env.do(postJSON("/bookmarks/toggle", url.Values{"city": {"Paris"}})))
	assert.Empty(t, v.Bookmarks)
	assert.False(t, v.IsBookmarked)
}

func TestToggleBookmark_Errors(t *testing.T) {
	t.Parallel()

	t.Run("blank city", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, nil)
		rec := env.do(postJSON("/bookmarks/toggle", url.Values{"city": {" "}}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("save failure", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, failingBackend{})
		rec := env.do(postJSON("/bookmarks/toggle", url.Values{"city": {"Paris"}}))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, env.controller.View().Bookmarks)
	})
}

func TestState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/state", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	v := decodeView(t, rec)
	assert.Nil(t, v.Weather)
	assert.NotNil(t, v.Forecast)
	assert.Equal(t, weather.Celsius, v.Unit)
	assert.Equal(t, weather.GradientNight, v.Background)
}

func TestDashboardPartial(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.do(postJSON("/search", url.Values{"city": {"Paris"}}))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/partials/dashboard", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, weather.GradientClear.CSS(), rec.Header().Get("X-Background"))
	assert.Contains(t, rec.Body.String(), "Paris")
	assert.NotContains(t, rec.Body.String(), "<html")
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = env.do(httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status_code="200"} 1`)
}

func TestAssets(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/assets/style.css", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=3600")
	assert.Contains(t, rec.Body.String(), ".spinner")
}

func TestEvents_StreamsUpdates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	srv := httptest.NewServer(env.server.Echo)
	t.Cleanup(srv.Close)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/api/v1/events", http.NoBody)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.After(3 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", want)
				if line == want {
					return
				}
			case <-deadline:
				require.FailNow(t, "timed out waiting for "+want)
			}
		}
	}

	waitFor("event: ready")
	env.controller.ToggleUnit()
	waitFor("event: update")
	// Heartbeats keep idle connections open
	waitFor(": heartbeat")
}
