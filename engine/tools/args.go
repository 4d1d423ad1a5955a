package tools

import (
	"fmt"
	"math"
	"strconv"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
)

// Args are the decoded arguments of one tool call.
type Args map[string]any

// ArgumentError reports an argument of the wrong shape.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Name, e.Reason)
}

// present returns the value for key; nil counts as absent.
func (a Args) present(key string) (any, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (a Args) str(key, def string) (string, error) {
	v, ok := a.present(key)
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ArgumentError{Name: key, Reason: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}

func (a Args) integer(key string, def int64) (int64, error) {
	v, ok := a.present(key)
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n == math.Trunc(n) && math.Abs(n) <= scenario.MaxExactInteger {
			return int64(n), nil
		}
	case interface{ Int64() (int64, error) }:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, &ArgumentError{Name: key, Reason: fmt.Sprintf("expected integer, got %v", v)}
}

func (a Args) number(key string) (*float64, error) {
	v, ok := a.present(key)
	if !ok {
		return nil, nil
	}
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case interface{ Float64() (float64, error) }:
		x, err := n.Float64()
		if err != nil {
			return nil, &ArgumentError{Name: key, Reason: err.Error()}
		}
		f = x
	default:
		return nil, &ArgumentError{Name: key, Reason: fmt.Sprintf("expected number, got %T", v)}
	}
	return &f, nil
}

func (a Args) object(key string) (scenario.Representation, error) {
	v, ok := a.present(key)
	if !ok {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &ArgumentError{Name: key, Reason: fmt.Sprintf("expected object, got %T", v)}
	}
	return m, nil
}

func (a Args) objects(key string) ([]Args, error) {
	v, ok := a.present(key)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &ArgumentError{Name: key, Reason: fmt.Sprintf("expected array, got %T", v)}
	}
	out := make([]Args, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &ArgumentError{Name: fmt.Sprintf("%s[%d]", key, i), Reason: fmt.Sprintf("expected object, got %T", item)}
		}
		out = append(out, m)
	}
	return out, nil
}
