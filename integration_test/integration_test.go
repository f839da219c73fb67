package integration_test

import (
	"clearance-refresher/app"
	"clearance-refresher/internal/domain"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

// Mock Implementations

// mockSolver fakes the solver wire protocol: every request.get is
// answered with the configured cookie set.
type mockSolver struct {
	mu       sync.Mutex
	server   *httptest.Server
	commands []map[string]any
	fail     bool
	cookies  []map[string]string
}

func newMockSolver(cookies []map[string]string, fail bool) *mockSolver {
	m := &mockSolver{cookies: cookies, fail: fail}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cmd map[string]any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		m.commands = append(m.commands, cmd)
		m.mu.Unlock()

		if m.fail {
			json.NewEncoder(w).Encode(map[string]any{
				"status":  "error",
				"message": "Error solving the challenge",
			})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"message": "Challenge solved!",
			"solution": map[string]any{
				"url":       cmd["url"],
				"status":    200,
				"cookies":   m.cookies,
				"userAgent": "Mozilla/5.0",
			},
		})
	}))
	return m
}

func (m *mockSolver) Commands() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]any(nil), m.commands...)
}

// mockEndpoint captures clearance updates pushed by the publisher.
type mockEndpoint struct {
	mu      sync.Mutex
	server  *httptest.Server
	bodies  []string
	headers []http.Header
}

func newMockEndpoint() *mockEndpoint {
	m := &mockEndpoint{}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		m.bodies = append(m.bodies, string(body))
		m.headers = append(m.headers, r.Header.Clone())
		m.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	return m
}

func (m *mockEndpoint) Bodies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.bodies...)
}

func (m *mockEndpoint) Headers() []http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]http.Header(nil), m.headers...)
}

type mockCollector struct {
	mu      sync.Mutex
	results []domain.CycleResult
}

func (m *mockCollector) RecordCycle(result domain.CycleResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

func (m *mockCollector) RecordSolverRequest(string, string) {}
func (m *mockCollector) RecordPublish(string)               {}
func (m *mockCollector) RecordSessionCreate()               {}
func (m *mockCollector) RecordSessionDestroy()              {}

func (m *mockCollector) Statuses() []domain.CycleStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	statuses := make([]domain.CycleStatus, 0, len(m.results))
	for _, r := range m.results {
		statuses = append(statuses, r.Cycle.Status)
	}
	return statuses
}

// Test Helpers

func setRefresherEnv(t *testing.T, solverURL, endpointURL string) {
	t.Helper()
	t.Setenv("SOLVER_URL", solverURL)
	t.Setenv("SOLVER_TYPE", "flaresolverr")
	t.Setenv("SOLVER_TIMEOUT", "5000")
	t.Setenv("TARGET_URL", "https://protected.example.com")
	t.Setenv("UPDATE_ENDPOINT", endpointURL)
	t.Setenv("ENDPOINT_AUTH", "test-auth")
	t.Setenv("INTERVAL", "300")
	t.Setenv("PROXY", "")
	t.Setenv("PROXY_URL", "")
	t.Setenv("FLARESOLVERR_URL", "")
	t.Setenv("METRICS_LISTEN", "")
}

// Tests

func TestRefreshFlowEndToEnd(t *testing.T) {
	solver := newMockSolver([]map[string]string{
		{"name": "__cf_bm", "value": "noise"},
		{"name": "cf_clearance", "value": "XYZ"},
	}, false)
	defer solver.server.Close()

	endpoint := newMockEndpoint()
	defer endpoint.server.Close()

	setRefresherEnv(t, solver.server.URL, endpoint.server.URL+"/set/cf_clearance")

	application := app.NewTestApplication(t)

	startCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, application.Start(startCtx))

	require.Eventually(t, func() bool {
		return len(endpoint.Bodies()) == 1
	}, 5*time.Second, 50*time.Millisecond)

	t.Run("Solver Receives Fetch Command", func(t *testing.T) {
		commands := solver.Commands()
		require.Len(t, commands, 1)
		assert.Equal(t, "request.get", commands[0]["cmd"])
		assert.Equal(t, "https://protected.example.com", commands[0]["url"])
		assert.EqualValues(t, 5000, commands[0]["maxTimeout"])
		assert.NotContains(t, commands[0], "proxy")
		assert.NotContains(t, commands[0], "session")
	})

	t.Run("Endpoint Receives Exactly One Update", func(t *testing.T) {
		// Give a straggler publish the chance to show up before counting.
		time.Sleep(300 * time.Millisecond)

		bodies := endpoint.Bodies()
		require.Len(t, bodies, 1)
		assert.JSONEq(t, `{"cf_clearance":"XYZ"}`, bodies[0])

		headers := endpoint.Headers()
		require.Len(t, headers, 1)
		assert.Equal(t, "Bearer test-auth", headers[0].Get("Authorization"))
		assert.Equal(t, "application/json", headers[0].Get("Content-Type"))
	})

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, application.Stop(stopCtx))
}

func TestSolverFailuresKeepLoopAlive(t *testing.T) {
	solver := newMockSolver(nil, true)
	defer solver.server.Close()

	endpoint := newMockEndpoint()
	defer endpoint.server.Close()

	setRefresherEnv(t, solver.server.URL, endpoint.server.URL)
	t.Setenv("INTERVAL", "1")
	t.Setenv("MIN_EXEC_INTERVAL", "1")

	collector := &mockCollector{}
	application := app.NewTestApplication(t,
		fx.Replace(fx.Annotate(collector, fx.As(new(domain.MetricsCollector)))),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, application.Start(startCtx))

	// Two full cycles must complete despite the solver failing hard.
	require.Eventually(t, func() bool {
		return len(collector.Statuses()) >= 2
	}, 10*time.Second, 100*time.Millisecond)

	for _, status := range collector.Statuses() {
		assert.Equal(t, domain.CycleSolverError, status)
	}
	assert.Empty(t, endpoint.Bodies(), "failed cycles must not publish")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, application.Stop(stopCtx))
}
