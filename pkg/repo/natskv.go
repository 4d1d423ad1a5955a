package repo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// kvBucket is the subset of nats.KeyValue the store uses.
type kvBucket interface {
	Put(key string, value []byte) (uint64, error)
	Get(key string) (nats.KeyValueEntry, error)
	Delete(key string, opts ...nats.DeleteOpt) error
}

// NATSKVStore keeps records in a JetStream key/value bucket. Keys are
// base64url encoded because ERNs may contain characters KV keys reject.
type NATSKVStore[V any] struct {
	kv kvBucket
}

// NewNATSKVStore wraps an existing bucket.
func NewNATSKVStore[V any](kv nats.KeyValue) *NATSKVStore[V] {
	return &NATSKVStore[V]{kv: kv}
}

// OpenNATSKV binds to bucket, creating it when it does not exist.
func OpenNATSKV[V any](nc *nats.Conn, bucket string) (*NATSKVStore[V], error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("nats: jetstream: %w", err)
	}
	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: bucket})
	}
	if err != nil {
		return nil, fmt.Errorf("nats: bucket %s: %w", bucket, err)
	}
	return NewNATSKVStore[V](kv), nil
}

var _ Store[any] = (*NATSKVStore[any])(nil)

func kvKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func (s *NATSKVStore[V]) Put(ctx context.Context, key string, v V) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encodeRecord(key, v)
	if err != nil {
		return fmt.Errorf("nats: encode %s: %w", key, err)
	}
	_, err = s.kv.Put(kvKey(key), b)
	return err
}

func (s *NATSKVStore[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	entry, err := s.kv.Get(kvKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	return decodeRecord[V](entry.Value())
}

func (s *NATSKVStore[V]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.kv.Delete(kvKey(key))
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil
	}
	return err
}
