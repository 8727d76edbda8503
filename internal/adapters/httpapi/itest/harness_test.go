package itest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/member-audit/internal/adapters/csvexport"
	"github.com/Overland-East-Bay/member-audit/internal/adapters/csvreport"
	"github.com/Overland-East-Bay/member-audit/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/member-audit/internal/adapters/memory/clock"
	memrosterrepo "github.com/Overland-East-Bay/member-audit/internal/adapters/memory/rosterrepo"
	pgrosterrepo "github.com/Overland-East-Bay/member-audit/internal/adapters/postgres/rosterrepo"
	postgres_testutil "github.com/Overland-East-Bay/member-audit/internal/adapters/postgres/testutil"
	"github.com/Overland-East-Bay/member-audit/internal/adapters/xlsxreport"
	"github.com/Overland-East-Bay/member-audit/internal/app/audit"
	"github.com/Overland-East-Bay/member-audit/internal/domain"
	"github.com/Overland-East-Bay/member-audit/internal/ports/out/report"
	rosterrepoport "github.com/Overland-East-Bay/member-audit/internal/ports/out/rosterrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

const apiToken = "itest-token"

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

// newTestServer seeds the roster with the given handles plus one bot account.
func newTestServer(t *testing.T, b backend, handles ...string) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var roster rosterrepoport.Repository
	switch b {
	case backendPostgres:
		roster = pgrosterrepo.NewRepo(postgres_testutil.OpenMigratedPool(t))
	case backendMemory:
		roster = memrosterrepo.NewRepo()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	seed := append([]string(nil), handles...)
	for i, h := range append(seed, "Sesh") {
		m := rosterrepoport.Member{
			ID:        domain.MemberID(uuid.NewString()),
			Handle:    h,
			IsBot:     i == len(seed),
			CreatedAt: clk.Now(),
		}
		if err := roster.Create(context.Background(), m); err != nil {
			t.Fatalf("seed %s: %v", h, err)
		}
	}

	xlsx := xlsxreport.NewRenderer(xlsxreport.DefaultOptions())
	svc := audit.NewService(roster, csvexport.NewParser(), xlsx, clk, nil)
	api := httpapi.NewServer(svc, httpapi.ServerOptions{
		Renderers:     map[string]report.Renderer{"xlsx": xlsx, "csv": csvreport.NewRenderer()},
		DefaultFormat: "xlsx",
	})
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewTokenAuthMiddleware(apiToken),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) postCSV(t *testing.T, path string, token string, body string) (int, []byte, http.Header) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, s.url(path), strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
