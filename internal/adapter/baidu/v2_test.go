package baidu

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AdamsLee/baidu-geocode/internal/domain"
	"github.com/AdamsLee/baidu-geocode/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAK = "test-ak"

func testV2(t *testing.T, baseURL string, opts Options) *V2 {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	c, err := newClient(opts)
	require.NoError(t, err)
	return &V2{ak: testAK, api: baseURL, client: c}
}

func TestV2_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "上海市虹桥路3号", r.URL.Query().Get("address"))
		assert.Equal(t, "json", r.URL.Query().Get("output"))
		assert.Equal(t, testAK, r.URL.Query().Get("ak"))
		assert.Empty(t, r.URL.Query().Get("key"), "v2 authenticates with ak, not key")

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{
			"status": 0,
			"results": [
				{"level": "门址", "location": {"lat": 31.19453, "lng": 121.43745}},
				{"level": "道路", "location": {"lat": 31.2, "lng": 121.44}}
			]
		}`))
	}))
	defer srv.Close()

	g := testV2(t, srv.URL, Options{})
	loc, err := g.Geocode(context.Background(), "上海市虹桥路3号", nil)
	require.NoError(t, err)
	require.NotNil(t, loc)

	assert.Equal(t, "门址", loc.Label, "only the first results entry is consumed")
	require.NotNil(t, loc.Point)
	assert.Equal(t, 31.19453, loc.Point.Lat)
	assert.Equal(t, 121.43745, loc.Point.Lng)
	assert.Contains(t, string(loc.Raw), "门址")
}

func TestV2_Geocode_EmptyResultsPassStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"status": 0, "results": []}`))
	}))
	defer srv.Close()

	g := testV2(t, srv.URL, Options{})
	loc, err := g.Geocode(context.Background(), "nowhere", nil)
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestV2_Geocode_StatusTable(t *testing.T) {
	testCases := []struct {
		status  string
		message string
	}{
		{status: "1", message: "Server internal error"},
		{status: "2", message: "Invalid request"},
		{status: "3", message: "Permission validation failed"},
		{status: "4", message: "Quota validation failed"},
		{status: "5", message: "Invalid ak"},
		{status: "101", message: "Service disabled"},
		{status: "102", message: "Failed to pass the whitelist or wrong security code"},
		{status: "999", message: "Unknown error"},
	}
	for _, tC := range testCases {
		t.Run("status "+tC.status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set(headerContentType, contentTypeJSON)
				_, _ = w.Write([]byte(`{"status": ` + tC.status + `, "results": []}`))
			}))
			defer srv.Close()

			g := testV2(t, srv.URL, Options{})
			_, err := g.Geocode(context.Background(), "anywhere", nil)
			require.Error(t, err)

			var qerr *QueryError
			require.True(t, errors.As(err, &qerr))
			assert.Equal(t, tC.status, qerr.Status)
			assert.Contains(t, err.Error(), tC.message)
		})
	}
}

func TestV2_Reverse_DefaultCoordType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "39.983424,116.322987", r.URL.Query().Get("location"))
		assert.Equal(t, "bd09ll", r.URL.Query().Get("coordtype"))
		assert.Equal(t, "json", r.URL.Query().Get("output"))
		assert.Equal(t, testAK, r.URL.Query().Get("ak"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{
			"status": 0,
			"results": [{"level": "城市", "location": {"lat": 39.983424, "lng": 116.322987}}]
		}`))
	}))
	defer srv.Close()

	g := testV2(t, srv.URL, Options{})
	loc, err := g.Reverse(context.Background(), [2]float64{39.983424, 116.322987}, nil)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "城市", loc.Label)
}

func TestV2_Reverse_CustomCoordType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wgs84ll", r.URL.Query().Get("coordtype"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"status": 0, "results": []}`))
	}))
	defer srv.Close()

	g := testV2(t, srv.URL, Options{})
	_, err := g.Reverse(context.Background(), domain.Point{Lat: 39.983424, Lng: 116.322987},
		&domain.ReverseOptions{CoordType: "wgs84ll"})
	require.NoError(t, err)
}

func TestV2_Geocode_NullCoordinatesDropPoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{
			"status": 0,
			"results": [{"level": "城市", "location": {"lat": null, "lng": null}}]
		}`))
	}))
	defer srv.Close()

	g := testV2(t, srv.URL, Options{})
	loc, err := g.Geocode(context.Background(), "somewhere", nil)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Nil(t, loc.Point)
}
