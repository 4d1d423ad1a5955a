// Package catalog provides the read-only template catalog and the listing
// and loading operations over it.
package catalog

import (
	"strings"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/fn"
)

// Category filters for List.
const (
	CategoryAll    = "all"
	CategoryNormal = "normal"
	CategoryError  = "error"
	CategoryCorp   = "corp"
)

// Entry is one template: its id and the stored representation.
type Entry struct {
	ID   string
	Data scenario.Representation
}

// Catalog is an insertion-ordered snapshot of templates. It is never
// mutated after New returns and is safe for concurrent use.
type Catalog struct {
	ids  []string
	byID map[string]scenario.Representation
}

// New builds a catalog. A repeated id replaces the earlier data but keeps
// its original position.
func New(entries ...Entry) *Catalog {
	c := &Catalog{byID: make(map[string]scenario.Representation, len(entries))}
	for _, e := range entries {
		if _, seen := c.byID[e.ID]; !seen {
			c.ids = append(c.ids, e.ID)
		}
		c.byID[e.ID] = scenario.Clone(e.Data)
	}
	return c
}

// Get returns the stored representation without copying. Callers must not
// mutate it; use Load for a private copy.
func (c *Catalog) Get(id string) (scenario.Representation, bool) {
	data, ok := c.byID[id]
	return data, ok
}

// IDs returns the template ids in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string{}, c.ids...)
}

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.ids) }

// Summary is the listing view of one template.
type Summary struct {
	TemplateID  string `json:"template_id"`
	Description any    `json:"description"`
	TotalRefund any    `json:"total_refund"`
	BizType     any    `json:"biz_type"`
}

func summarize(id string, data scenario.Representation) Summary {
	s := Summary{TemplateID: id, Description: "", TotalRefund: 0, BizType: "unknown"}
	if v, ok := data["description"]; ok {
		s.Description = v
	}
	if rr, ok := data["refund_result"].(map[string]any); ok {
		if v, ok := rr["total_refund"]; ok {
			s.TotalRefund = v
		}
	}
	if v, ok := data["biz_type"]; ok {
		s.BizType = v
	}
	return s
}

func matches(category, id string) bool {
	switch category {
	case CategoryNormal:
		return !strings.Contains(id, "ERR")
	case CategoryError:
		return strings.Contains(id, "ERR")
	case CategoryCorp:
		return strings.Contains(id, "CORP")
	}
	return true
}

// List summarizes the templates passing category, in catalog order. An empty
// category means all.
func List(c *Catalog, category string) ([]Summary, error) {
	switch category {
	case "":
		category = CategoryAll
	case CategoryAll, CategoryNormal, CategoryError, CategoryCorp:
	default:
		return nil, &domain.InvalidCategoryError{Value: category}
	}
	ids := fn.Filter(c.ids, func(id string) bool { return matches(category, id) })
	return fn.Map(ids, func(id string) Summary { return summarize(id, c.byID[id]) }), nil
}

// Load returns a deep copy of the template stored under id.
func Load(c *Catalog, id string) (scenario.Representation, error) {
	data, ok := c.byID[id]
	if !ok {
		return nil, &domain.TemplateNotFoundError{ID: id, Available: c.IDs()}
	}
	return scenario.Clone(data), nil
}
