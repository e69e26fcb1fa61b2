package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamroze153/FM-Portal/internal/advisor"
	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/internal/repository"
	"github.com/shamroze153/FM-Portal/internal/service"
	"github.com/shamroze153/FM-Portal/pkg/middleware"
	"github.com/shamroze153/FM-Portal/pkg/redis"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, cfg RouterConfig) *gin.Engine {
	t.Helper()

	assets := make([]domain.Asset, 8)
	for i := range assets {
		assets[i] = domain.Asset{ID: i + 1, Status: domain.AssetStatusActive, Health: domain.MaxHealth}
	}
	store, err := repository.NewMemoryStore(repository.StoreSeed{
		Assets: assets,
		Technicians: []domain.Technician{
			{Name: "Bilal", Points: 150, Attendance: true, Tasks: []string{"t1", "t2"}},
			{Name: "Asad", Points: 120, Demerits: 25, Attendance: true},
			{Name: "Saboor", Points: 90, Demerits: 50},
		},
		Tools:        []domain.Tool{{Name: "Vacuum Pump", Quantity: 2}},
		Refrigerants: []domain.Refrigerant{{Name: "R-32", Type: domain.RefrigerantAC, Kg: 5}},
		ZoneOwners: map[domain.Zone]string{
			domain.ZoneA: "Bilal", domain.ZoneB: "Asad", domain.ZoneC: "Taimoor", domain.ZoneD: "Saboor",
		},
	})
	require.NoError(t, err)

	pub := service.NewNoOpEventPublisher()
	h := &Handlers{
		Health:     NewHealthHandler(nil),
		Asset:      NewAssetHandler(service.NewAssetService(store)),
		Ticket:     NewTicketHandler(service.NewDispatchService(store, advisor.LeastLoadedAdvisor{}, pub, nil, service.DispatchConfig{})),
		Technician: NewTechnicianHandler(service.NewRosterService(store, pub, nil, 10)),
		Zone:       NewZoneHandler(service.NewZoneService(store, pub, nil, service.ZonePoints{TakeoverBonus: 20, Checklist: 1})),
		Compliance: NewComplianceHandler(service.NewComplianceService(store)),
		Inventory:  NewInventoryHandler(service.NewInventoryService(store, nil)),
		Diagnostic: NewDiagnosticHandler(service.NewDiagnosticService(advisor.StaticDiagnostic{}, nil)),
	}

	r := gin.New()
	RegisterRoutes(r, h, cfg)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestTicketLifecycle(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	w, env := do(t, r, http.MethodPost, "/api/v1/tickets", gin.H{"asset_id": 3, "severity": "Major", "issue": "Not cooling"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		AssignedTo string `json:"assigned_to"`
		Assignment string `json:"assignment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Open", created.Status)
	assert.Equal(t, "Asad", created.AssignedTo)
	assert.Equal(t, "advisor", created.Assignment)

	w, _ = do(t, r, http.MethodGet, "/api/v1/tickets/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/v1/tickets/"+created.ID+"/resolve", gin.H{"resolver": "Asad"})
	require.Equal(t, http.StatusOK, w.Code)
	var resolved struct {
		Status   string  `json:"status"`
		Resolver *string `json:"resolver"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resolved))
	assert.Equal(t, "Resolved", resolved.Status)
	require.NotNil(t, resolved.Resolver)
	assert.Equal(t, "Asad", *resolved.Resolver)

	w, env = do(t, r, http.MethodPost, "/api/v1/tickets/"+created.ID+"/resolve", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)

	w, env = do(t, r, http.MethodGet, "/api/v1/tickets?status=Resolved", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)

	w, env = do(t, r, http.MethodGet, "/api/v1/tickets?status=Open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Meta.Total)
}

func TestCreateTicket_Errors(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"missing fields", gin.H{}, http.StatusBadRequest},
		{"bad severity", gin.H{"asset_id": 1, "severity": "Critical", "issue": "x"}, http.StatusBadRequest},
		{"unknown asset", gin.H{"asset_id": 999, "severity": "Minor", "issue": "x"}, http.StatusBadRequest},
		{"blank issue", gin.H{"asset_id": 1, "severity": "Minor", "issue": "   "}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/api/v1/tickets", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
		})
	}

	w, _ := do(t, r, http.MethodGet, "/api/v1/tickets/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/tickets?status=Pending", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTicket_Idempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	r := setupRouter(t, RouterConfig{Idempotency: rc, IdempotencyTTL: time.Minute})

	body := gin.H{"asset_id": 2, "severity": "Minor", "issue": "Noisy fan"}
	w1, env1 := do(t, r, http.MethodPost, "/api/v1/tickets", body, "X-Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, w1.Code)
	w2, env2 := do(t, r, http.MethodPost, "/api/v1/tickets", body, "X-Idempotency-Key", "k-1")
	assert.Equal(t, w1.Code, w2.Code)
	assert.JSONEq(t, string(env1.Data), string(env2.Data))

	_, env := do(t, r, http.MethodGet, "/api/v1/tickets", nil)
	assert.Equal(t, 1, env.Meta.Total)
}

func TestResolveTicket_ChunkedEmptyBody(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	w, env := do(t, r, http.MethodPost, "/api/v1/tickets", gin.H{"asset_id": 4, "severity": "Minor", "issue": "Remote lost"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/"+created.ID+"/resolve", io.NopCloser(strings.NewReader("")))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resolved struct {
		Data struct {
			Status   string  `json:"status"`
			Resolver *string `json:"resolver"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resolved))
	assert.Equal(t, "Resolved", resolved.Data.Status)
	assert.Nil(t, resolved.Data.Resolver)

	w, _ = do(t, r, http.MethodPost, "/api/v1/tickets/"+created.ID+"/resolve", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTechnicianScoring(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	w, _ := do(t, r, http.MethodPost, "/api/v1/technicians/Asad/points", gin.H{"points": 15, "reason": "Fast fix"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/v1/technicians/Asad/demerits", gin.H{"reason": "Safety Violation"})
	require.Equal(t, http.StatusOK, w.Code)
	var adj struct {
		Technician struct {
			Points   int `json:"points"`
			Demerits int `json:"demerits"`
			NetScore int `json:"net_score"`
		} `json:"technician"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &adj))
	assert.Equal(t, 135, adj.Technician.Points)
	assert.Equal(t, 55, adj.Technician.Demerits)
	assert.Equal(t, 80, adj.Technician.NetScore)

	w, env = do(t, r, http.MethodGet, "/api/v1/technicians/Asad/ledger", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ledger struct {
		NetScore int               `json:"net_score"`
		Entries  []json.RawMessage `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ledger))
	assert.Equal(t, 80, ledger.NetScore)
	assert.NotEmpty(t, ledger.Entries)

	w, _ = do(t, r, http.MethodPost, "/api/v1/technicians/Asad/demerits", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/technicians/Asad/demerits", gin.H{"reason": "Bad Vibes"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/technicians/Nobody/points", gin.H{"points": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/technicians/Asad/points", gin.H{"points": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaderboard(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	w, env := do(t, r, http.MethodGet, "/api/v1/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []struct {
		Name string `json:"name"`
		Rank int    `json:"rank"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Bilal", rows[0].Name)
	assert.Equal(t, "Asad", rows[1].Name)
	assert.Equal(t, "Saboor", rows[2].Name)

	w, env = do(t, r, http.MethodGet, "/api/v1/demerit-reasons", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, env.Meta.Total)
}

func TestAttendanceAndTasks(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	w, _ := do(t, r, http.MethodPut, "/api/v1/technicians/Saboor/attendance", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/technicians/Bilal/tasks/shuffle", gin.H{"task": "t1", "to": "Saboor"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/v1/technicians/Saboor/attendance", gin.H{"present": true})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/technicians/Bilal/tasks/shuffle", gin.H{"task": "t1", "to": "Saboor"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/v1/technicians/Saboor/tasks/complete", gin.H{"task": "t1"})
	require.Equal(t, http.StatusOK, w.Code)
	var done struct {
		CompletedBy struct {
			Points int      `json:"points"`
			Tasks  []string `json:"tasks"`
		} `json:"completed_by"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &done))
	assert.Equal(t, 100, done.CompletedBy.Points)
	assert.Empty(t, done.CompletedBy.Tasks)

	w, _ = do(t, r, http.MethodPost, "/api/v1/technicians/Asad/tasks", gin.H{"task": "Replace filter"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestZones(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	w, env := do(t, r, http.MethodGet, "/api/v1/zones", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, env.Meta.Total)

	w, env = do(t, r, http.MethodPut, "/api/v1/zones/D/override", gin.H{"technician": "Bilal"})
	require.Equal(t, http.StatusOK, w.Code)
	var takeover struct {
		Zone struct {
			Controller string `json:"controller"`
		} `json:"zone"`
		Bonus *struct {
			Delta int `json:"delta"`
		} `json:"bonus"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &takeover))
	assert.Equal(t, "Bilal", takeover.Zone.Controller)
	require.NotNil(t, takeover.Bonus)
	assert.Equal(t, 20, takeover.Bonus.Delta)

	w, _ = do(t, r, http.MethodPost, "/api/v1/zones/D/checklists", gin.H{"asset_id": 7, "type": "Monthly"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/zones/D/checklists", gin.H{"asset_id": 1, "type": "Monthly"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/zones/D/override", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/v1/zones/E/override", gin.H{"technician": "Bilal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompliance(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	for _, id := range []int{1, 2, 2} {
		w, _ := do(t, r, http.MethodPost, "/api/v1/compliance/checklists", gin.H{"asset_id": id, "type": "Daily"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := do(t, r, http.MethodGet, "/api/v1/compliance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		TotalAssets int `json:"total_assets"`
		Lines       []struct {
			Type       string `json:"type"`
			Completed  int    `json:"completed"`
			Percentage int    `json:"percentage"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 8, report.TotalAssets)
	require.NotEmpty(t, report.Lines)
	assert.Equal(t, "Daily", report.Lines[0].Type)
	assert.Equal(t, 2, report.Lines[0].Completed)
	assert.Equal(t, 25, report.Lines[0].Percentage)
}

func TestInventoryAndDiagnostics(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	w, _ := do(t, r, http.MethodPut, "/api/v1/inventory/tools/Vacuum%20Pump", gin.H{"quantity": 4})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/v1/inventory/tools/Vacuum%20Pump", gin.H{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/v1/inventory/refrigerants/r-32", gin.H{"kg": 2.5})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPut, "/api/v1/inventory/refrigerants/R-410A", gin.H{"kg": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/v1/diagnostics", gin.H{"issue": "Ice on coil"})
	require.Equal(t, http.StatusOK, w.Code)
	var diag struct {
		Diagnostic string `json:"diagnostic"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &diag))
	assert.Equal(t, advisor.NoDiagnostic, diag.Diagnostic)
}

func TestRoleGate(t *testing.T) {
	auth := middleware.AuthConfig{Enabled: true, Secret: "test-secret", Issuer: "fm-portal"}
	r := setupRouter(t, RouterConfig{Auth: auth})

	w, _ := do(t, r, http.MethodPut, "/api/v1/inventory/tools/Vacuum%20Pump", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.IssueToken(auth.Secret, auth.Issuer, "ops", middleware.RoleAdmin, time.Minute)
	require.NoError(t, err)
	w, _ = do(t, r, http.MethodPut, "/api/v1/inventory/tools/Vacuum%20Pump", gin.H{"quantity": 1}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	// read routes stay open
	w, _ = do(t, r, http.MethodGet, "/api/v1/inventory/tools", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAssetsAndHealth(t *testing.T) {
	r := setupRouter(t, RouterConfig{})

	w, env := do(t, r, http.MethodGet, "/api/v1/assets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 8, env.Meta.Total)

	w, _ = do(t, r, http.MethodGet, "/api/v1/assets/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/assets/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
