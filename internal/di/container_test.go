package di

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamroze153/FM-Portal/internal/handler"
	"github.com/shamroze153/FM-Portal/internal/seed"
	"github.com/shamroze153/FM-Portal/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Advisor: config.AdvisorConfig{Timeout: time.Second},
		Dispatch: config.DispatchConfig{
			ZoneOwnerA:           "Bilal",
			ZoneOwnerB:           "Asad",
			ZoneOwnerC:           "Taimoor",
			ZoneOwnerD:           "Saboor",
			TakeoverBonus:        20,
			TaskCompletionPoints: 10,
			ChecklistPoints:      1,
		},
		Seed: config.SeedConfig{AssetCount: 163},
	}
}

func TestNewContainer_DefaultRegistry(t *testing.T) {
	c, err := NewContainer(&ContainerConfig{Config: testConfig()})
	require.NoError(t, err)

	assets, err := c.AssetService.ListAssets(t.Context())
	require.NoError(t, err)
	assert.Len(t, assets, 163)

	zones, err := c.ZoneService.Zones(t.Context())
	require.NoError(t, err)
	require.Len(t, zones, 4)
	assert.Equal(t, "Saboor", zones[3].Controller)

	rc := c.RouterConfig(testConfig())
	assert.Nil(t, rc.Idempotency)
	assert.False(t, rc.Auth.Enabled)
}

func TestNewContainer_AdvisorDisabledFallsBack(t *testing.T) {
	c, err := NewContainer(&ContainerConfig{Config: testConfig(), Registry: seed.Default(8)})
	require.NoError(t, err)

	filed, err := c.DispatchService.FileTicket(t.Context(), 1, "Minor", "Leaking water")
	require.NoError(t, err)
	// Bilal carries two tasks, Asad and Taimoor one each
	assert.Equal(t, "Asad", filed.Ticket.AssignedTo)
	assert.Equal(t, "fallback", string(filed.Assignment))
}

func TestNewContainer_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	c, err := NewContainer(&ContainerConfig{Config: cfg, Registry: seed.Default(8)})
	require.NoError(t, err)

	r := gin.New()
	handler.RegisterRoutes(r, c.Handlers, c.RouterConfig(cfg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"advisor":"disabled"`)
	assert.Contains(t, w.Body.String(), `"redis":"not configured"`)
}

func TestNewContainer_MissingSeedFile(t *testing.T) {
	cfg := testConfig()
	cfg.Seed.File = "/nonexistent/seed.yaml"
	_, err := NewContainer(&ContainerConfig{Config: cfg})
	assert.Error(t, err)
}
