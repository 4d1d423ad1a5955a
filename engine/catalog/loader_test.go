package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TPL_NORMAL_BIZ_HIGH.json", `{"description":"고액","biz_type":"individual_biz","refund_result":{"total_refund":5000000}}`)
	writeFile(t, dir, "TPL_ERR_LOGIN.yaml", "description: 로그인 실패\ncheck_config:\n  success: false\n  error_type: 홈택스로그인실패\n")
	writeFile(t, dir, "README.json", `{}`)
	writeFile(t, dir, "TPL_NOTES.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "TPL_DIR.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	c, warnings, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}
	if !reflect.DeepEqual(c.IDs(), []string{"TPL_ERR_LOGIN", "TPL_NORMAL_BIZ_HIGH"}) {
		t.Fatalf("unexpected ids %v", c.IDs())
	}

	data, _ := Load(c, "TPL_ERR_LOGIN")
	s, err := scenario.FromRepresentation(data)
	if err != nil {
		t.Fatalf("yaml template should decode: %v", err)
	}
	if s.Check.Success || s.Check.ErrorType != "홈택스로그인실패" {
		t.Fatalf("unexpected check slot %+v", s.Check)
	}

	data, _ = Load(c, "TPL_NORMAL_BIZ_HIGH")
	s, err = scenario.FromRepresentation(data)
	if err != nil {
		t.Fatalf("json template should decode: %v", err)
	}
	if s.RefundResult.TotalRefund != 5000000 {
		t.Fatalf("unexpected total %d", s.RefundResult.TotalRefund)
	}
}

func TestLoadDirMissing(t *testing.T) {
	c, warnings, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing dir should not fail: %v", err)
	}
	if c.Len() != 0 || len(warnings) != 1 || !strings.Contains(warnings[0], "not found") {
		t.Fatalf("expected empty catalog and one warning, got %d %v", c.Len(), warnings)
	}
}

func TestLoadDirMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TPL_BAD.json", `{"description":`)
	_, _, err := LoadDir(dir)
	if err == nil || !strings.Contains(err.Error(), "TPL_BAD.json") {
		t.Fatalf("expected error naming the file, got %v", err)
	}
}

func TestLoadDirDuplicateStemWarns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TPL_A.json", `{"description":"json"}`)
	writeFile(t, dir, "TPL_A.yaml", "description: yaml\n")
	c, warnings, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 || len(warnings) != 1 {
		t.Fatalf("expected one template and one warning, got %d %v", c.Len(), warnings)
	}
	got, _ := c.Get("TPL_A")
	if got["description"] != "yaml" {
		t.Fatalf("later file should win, got %v", got["description"])
	}
}

func TestResolve(t *testing.T) {
	if dir, _ := Resolve("/srv/loader", ""); dir != filepath.Join("/srv/loader", "mock_lambda", "templates") {
		t.Fatalf("unexpected dir %s", dir)
	}
	if dir, _ := Resolve("/srv/loader", "/tmp/tpl"); dir != "/tmp/tpl" {
		t.Fatalf("override should win, got %s", dir)
	}
	if _, err := Resolve("", ""); !errors.Is(err, ErrNoTemplateRoot) {
		t.Fatalf("expected ErrNoTemplateRoot, got %v", err)
	}
}
