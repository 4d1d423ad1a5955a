package tools

import (
	"errors"
	"fmt"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/catalog"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
)

// Resource URIs.
const (
	URITemplates  = "scenario://templates"
	URIErrorTypes = "scenario://error-types"
)

// ErrUnknownResource is returned by ReadResource for an unregistered URI.
var ErrUnknownResource = errors.New("Unknown resource URI")

// Resource describes one read-only resource.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// Resources lists the resources ReadResource serves.
func (r *Registry) Resources() []Resource {
	return []Resource{
		{URI: URITemplates, Name: "Templates", Description: "사용 가능한 시나리오 템플릿 목록", MimeType: "application/json"},
		{URI: URIErrorTypes, Name: "Error Types", Description: "지원하는 에러 타입 목록", MimeType: "application/json"},
	}
}

// ReadResource returns the content behind uri.
func (r *Registry) ReadResource(uri string) (any, error) {
	switch uri {
	case URITemplates:
		sums, err := catalog.List(r.catalog, catalog.CategoryAll)
		if err != nil {
			return nil, err
		}
		return map[string]any{"templates": sums}, nil
	case URIErrorTypes:
		return errorTypes(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownResource, uri)
}

func errorTypes() map[string]any {
	return map[string]any{"error_types": domain.AllKinds()}
}
