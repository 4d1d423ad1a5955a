// Package assign binds scenarios to external user ids through a Store. Each
// operation makes exactly one store attempt; retry policy belongs to the
// caller.
package assign

import (
	"context"
	"fmt"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/catalog"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/domain"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
)

// Store is the persistence capability assignment needs. Keys are user ERNs.
type Store interface {
	Put(ctx context.Context, key string, data scenario.Representation) error
	Delete(ctx context.Context, key string) error
}

// DefaultStoreLabel names the store in failure descriptions.
const DefaultStoreLabel = "DynamoDB"

// Request selects the scenario to assign. A non-empty Scenario wins over
// TemplateID.
type Request struct {
	ExternalID string
	Scenario   scenario.Representation
	TemplateID string
}

// Result reports the outcome of a store attempt. On a failed put, Scenario
// carries the full representation so it can be stored by hand.
type Result struct {
	Success  bool                    `json:"success"`
	UserERN  string                  `json:"user_ern"`
	Message  string                  `json:"message,omitempty"`
	Error    string                  `json:"error,omitempty"`
	Scenario scenario.Representation `json:"scenario,omitempty"`
	Note     string                  `json:"note,omitempty"`

	// Err is the underlying *domain.StoreError on failure.
	Err error `json:"-"`
}

// Resolve picks the representation Request refers to.
func Resolve(req Request, cat *catalog.Catalog) (scenario.Representation, error) {
	if req.ExternalID == "" {
		return nil, domain.ErrMissingExternalID
	}
	if len(req.Scenario) > 0 {
		return scenario.Normalize(req.Scenario), nil
	}
	if req.TemplateID == "" {
		return nil, domain.ErrMissingScenarioInput
	}
	if cat == nil {
		cat = catalog.New()
	}
	return catalog.Load(cat, req.TemplateID)
}

// Assign stores the resolved scenario under req.ExternalID. Input errors are
// returned as errors; a store failure is reported in the Result.
func Assign(ctx context.Context, store Store, req Request, cat *catalog.Catalog) (Result, error) {
	data, err := Resolve(req, cat)
	if err != nil {
		return Result{}, err
	}
	return put(ctx, store, req.ExternalID, data, DefaultStoreLabel), nil
}

func put(ctx context.Context, store Store, ern string, data scenario.Representation, label string) Result {
	if err := store.Put(ctx, ern, data); err != nil {
		serr := &domain.StoreError{Op: "put", Key: ern, Err: err}
		return Result{
			Success:  false,
			UserERN:  ern,
			Error:    fmt.Sprintf("%s 저장 실패: %v", label, err),
			Scenario: data,
			Note:     fmt.Sprintf("%s에 저장하지 못했습니다. 위 시나리오를 수동으로 저장해주세요.", label),
			Err:      serr,
		}
	}
	return Result{
		Success: true,
		UserERN: ern,
		Message: fmt.Sprintf("시나리오가 %s에 할당되었습니다.", ern),
	}
}

// Unassign removes the assignment for externalID.
func Unassign(ctx context.Context, store Store, externalID string) (Result, error) {
	return unassignWith(ctx, store, externalID, DefaultStoreLabel)
}

func unassignWith(ctx context.Context, store Store, ern, label string) (Result, error) {
	if ern == "" {
		return Result{}, domain.ErrMissingExternalID
	}
	if err := store.Delete(ctx, ern); err != nil {
		return Result{
			Success: false,
			UserERN: ern,
			Error:   fmt.Sprintf("%s 삭제 실패: %v", label, err),
			Err:     &domain.StoreError{Op: "delete", Key: ern, Err: err},
		}, nil
	}
	return Result{
		Success: true,
		UserERN: ern,
		Message: fmt.Sprintf("%s의 시나리오 할당이 해제되었습니다.", ern),
	}, nil
}
