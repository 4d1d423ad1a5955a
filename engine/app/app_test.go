package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/assign"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/tools"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/config"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/natsutil"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/repo"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	body := `{"description":"정상","refund_result":{"total_refund":1000}}`
	if err := os.WriteFile(filepath.Join(dir, "TPL_NORMAL_A.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.Config{
		TemplatesDir:         dir,
		Store:                repo.BackendConfig{Kind: repo.BackendMemory},
		BreakerFailThreshold: 2,
		BreakerTimeout:       time.Minute,
	}
}

func TestLoadCatalogWithoutRoot(t *testing.T) {
	cat, err := LoadCatalog(config.Config{}, quiet())
	if err != nil || cat.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d %v", cat.Len(), err)
	}
}

func TestLoadCatalogMalformed(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "TPL_BAD.json"), []byte("{"), 0o644)
	if _, err := LoadCatalog(config.Config{TemplatesDir: dir}, quiet()); err == nil {
		t.Fatal("expected error for malformed template")
	}
}

func TestBuildMemoryApp(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t), quiet())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if a.Catalog.Len() != 1 {
		t.Fatalf("expected one template, got %d", a.Catalog.Len())
	}
	out, err := a.Tools.Call(context.Background(), tools.ToolAssign, tools.Args{"user_ern": "ern-1", "template_id": "TPL_NORMAL_A"})
	if err != nil || !out.(assign.Result).Success {
		t.Fatalf("assign failed: %+v %v", out, err)
	}
	if got, err := a.Store.Get(context.Background(), "ern-1"); err != nil || got["description"] != "정상" {
		t.Fatalf("unexpected stored scenario %v %v", got, err)
	}
	if !strings.Contains(a.Metrics.Render(), `scenario_assignments_total{op="assign",outcome="ok"} 1`) {
		t.Fatalf("assignment not counted:\n%s", a.Metrics.Render())
	}
}

func TestBuildUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Kind = "redis"
	if _, err := Build(context.Background(), cfg, quiet()); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildPublishesEvents(t *testing.T) {
	srv, err := natsserver.NewServer(&natsserver.Options{Port: -1})
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	defer srv.Shutdown()
	if !srv.ReadyForConnections(3 * time.Second) {
		t.Fatal("nats not ready")
	}
	nc, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatal(err)
	}
	defer nc.Close()

	events := make(chan assign.Event, 1)
	sub, err := natsutil.Subscribe(nc, "scenario.assignments", func(_ context.Context, ev assign.Event) {
		events <- ev
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()
	nc.Flush()

	cfg := testConfig(t)
	cfg.EventsSubject = "scenario.assignments"
	cfg.Store.NATSURL = srv.ClientURL()
	a, err := Build(context.Background(), cfg, quiet())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, err := a.Tools.Call(context.Background(), tools.ToolUnassign, tools.Args{"user_ern": "ern-7"}); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-events:
		if ev.Type != assign.EventUnassigned || ev.UserERN != "ern-7" || ev.ID == "" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
	}
}

func TestBuildWithoutNATSStillWorks(t *testing.T) {
	cfg := testConfig(t)
	cfg.EventsSubject = "scenario.assignments"
	cfg.Store.NATSURL = "nats://127.0.0.1:1"
	a, err := Build(context.Background(), cfg, quiet())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if _, err := a.Tools.Call(context.Background(), tools.ToolUnassign, tools.Args{"user_ern": "ern-1"}); err != nil {
		t.Fatal(err)
	}
}
