//go:build integration

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/app"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/config"
)

// Runs against the store selected by the environment, e.g.
// SCENARIO_STORE=dynamodb DYNAMODB_ENDPOINT_URL=http://localhost:8000.
func TestAPI_AssignRoundTrip(t *testing.T) {
	cfg, _ := config.Load()
	a, err := app.Build(context.Background(), cfg, quiet())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer a.Close()
	mux := newMux(a, quiet())

	post := func(path, body string) map[string]any {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d %s", path, w.Code, w.Body.String())
		}
		var out map[string]any
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return out
	}

	scenario := post("/api/tools/scenario_build_normal", `{"total_refund":1000}`)
	body, _ := json.Marshal(map[string]any{"user_ern": "integ-ern", "scenario": scenario})
	if out := post("/api/tools/scenario_assign", string(body)); out["success"] != true {
		t.Fatalf("assign failed: %v", out)
	}
	if out := post("/api/tools/scenario_unassign", `{"user_ern":"integ-ern"}`); out["success"] != true {
		t.Fatalf("unassign failed: %v", out)
	}
}
