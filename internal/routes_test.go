package internal

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rvd/internal/controllers"
	"rvd/internal/providers"
	"rvd/internal/store"
	"rvd/internal/structures"
	"rvd/internal/testutil"
)

func routesFixture(t *testing.T) providers.RouterProviderInterface {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		Persistence: structures.Persistence{
			ReportsPath:  filepath.Join(dir, "reports.json.zst"),
			ChannelsPath: filepath.Join(dir, "channels.json.zst"),
		},
	}

	logger := &testutil.MockLogger{}
	compressor, err := store.NewZstdCompressor()
	require.NoError(t, err)
	fm := store.NewFileManager(compressor, logger)

	api := controllers.NewApiController(
		logger,
		store.NewReportStore(conf, fm, nil, logger),
		store.NewChannelDirectory(conf, fm, logger),
		providers.NewCacheProvider(conf, logger),
	)
	return InitRoutes(api, conf)
}

func TestInitRoutes_RegistersOpsEndpoints(t *testing.T) {
	router := routesFixture(t)

	routes := router.GetRoutes()
	require.Len(t, routes, 2)

	urls := []string{routes[0].Url, routes[1].Url}
	assert.Contains(t, urls, "/reports")
	assert.Contains(t, urls, "/channels")
}

func TestInitRoutes_ServesGetOnly(t *testing.T) {
	router := routesFixture(t)

	for _, route := range router.GetRoutes() {
		rr := httptest.NewRecorder()
		route.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, route.Url, nil))
		assert.Equal(t, http.StatusOK, rr.Code, route.Url)

		rr = httptest.NewRecorder()
		route.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, route.Url, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, route.Url)
	}
}
