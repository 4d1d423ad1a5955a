// Package repo defines the generic key/value Store used to persist scenario
// assignments and its backends: DynamoDB, PostgreSQL, Neo4j, NATS KV and
// an in-process map.
package repo

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("repo: not found")

// Store is a generic key/value store. Deleting a missing key is not an error.
type Store[V any] interface {
	Put(ctx context.Context, key string, v V) error
	Get(ctx context.Context, key string) (V, error)
	Delete(ctx context.Context, key string) error
}

// Attribute names of a stored record. Every backend uses the same layout.
const (
	KeyAttr   = "user_ern"
	ValueAttr = "scenario_config"
)

// Record is the stored item: the key alongside its value.
type Record[V any] struct {
	Key   string `json:"user_ern" dynamodbav:"user_ern"`
	Value V      `json:"scenario_config" dynamodbav:"scenario_config"`
}

func encodeRecord[V any](key string, v V) ([]byte, error) {
	return json.Marshal(Record[V]{Key: key, Value: v})
}

func decodeRecord[V any](b []byte) (V, error) {
	var rec Record[V]
	if err := json.Unmarshal(b, &rec); err != nil {
		var zero V
		return zero, err
	}
	return rec.Value, nil
}

func encodeValue[V any](v V) ([]byte, error) { return json.Marshal(v) }

func decodeValue[V any](b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
