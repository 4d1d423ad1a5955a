package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
)

func fixture() *Catalog {
	return New(
		Entry{ID: "TPL_NORMAL_A", Data: scenario.Representation{
			"description":   "정상 A",
			"biz_type":      "individual_biz",
			"refund_result": map[string]any{"total_refund": 1000},
		}},
		Entry{ID: "TPL_ERR_B", Data: scenario.Representation{"description": "에러 B"}},
		Entry{ID: "TPL_CORP_C", Data: scenario.Representation{"biz_type": "corp"}},
	)
}

func ids(sums []Summary) []string {
	out := make([]string, len(sums))
	for i, s := range sums {
		out[i] = s.TemplateID
	}
	return out
}

func TestListFiltering(t *testing.T) {
	c := fixture()
	cases := map[string][]string{
		"":       {"TPL_NORMAL_A", "TPL_ERR_B", "TPL_CORP_C"},
		"all":    {"TPL_NORMAL_A", "TPL_ERR_B", "TPL_CORP_C"},
		"normal": {"TPL_NORMAL_A", "TPL_CORP_C"},
		"error":  {"TPL_ERR_B"},
		"corp":   {"TPL_CORP_C"},
	}
	for category, want := range cases {
		got, err := List(c, category)
		if err != nil {
			t.Fatalf("%q: %v", category, err)
		}
		if !reflect.DeepEqual(ids(got), want) {
			t.Errorf("%q: expected %v, got %v", category, want, ids(got))
		}
	}
}

func TestListRejectsUnknownCategory(t *testing.T) {
	_, err := List(fixture(), "ERR")
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestListEmptyCatalog(t *testing.T) {
	got, err := List(New(), "all")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", got, err)
	}
}

func TestSummaryDefaults(t *testing.T) {
	got, _ := List(fixture(), "all")
	a, b := got[0], got[1]
	if a.Description != "정상 A" || a.TotalRefund != 1000 || a.BizType != "individual_biz" {
		t.Fatalf("unexpected summary %+v", a)
	}
	if b.TotalRefund != 0 || b.BizType != "unknown" {
		t.Fatalf("expected defaults, got %+v", b)
	}
	if got[2].Description != "" {
		t.Fatalf("expected empty description, got %v", got[2].Description)
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	c := fixture()
	data, err := Load(c, "TPL_NORMAL_A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data["description"] = "mutated"
	data["refund_result"].(map[string]any)["total_refund"] = 0
	again, _ := Load(c, "TPL_NORMAL_A")
	if again["description"] != "정상 A" || again["refund_result"].(map[string]any)["total_refund"] != 1000 {
		t.Fatalf("catalog was mutated through Load: %v", again)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(fixture(), "TPL_NOPE")
	var nf *domain.TemplateNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *TemplateNotFoundError, got %v", err)
	}
	if !reflect.DeepEqual(nf.Available, []string{"TPL_NORMAL_A", "TPL_ERR_B", "TPL_CORP_C"}) {
		t.Fatalf("unexpected available ids %v", nf.Available)
	}
}

func TestNewCopiesInputAndKeepsFirstPosition(t *testing.T) {
	src := scenario.Representation{"description": "v1"}
	c := New(Entry{ID: "A", Data: src}, Entry{ID: "B"}, Entry{ID: "A", Data: scenario.Representation{"description": "v2"}})
	src["description"] = "changed"
	if !reflect.DeepEqual(c.IDs(), []string{"A", "B"}) || c.Len() != 2 {
		t.Fatalf("unexpected ids %v", c.IDs())
	}
	got, _ := c.Get("A")
	if got["description"] != "v2" {
		t.Fatalf("expected replacement data, got %v", got)
	}
}
