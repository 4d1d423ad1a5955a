package repo

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

type fakeEntry struct {
	key   string
	value []byte
}

func (e fakeEntry) Bucket() string             { return "test" }
func (e fakeEntry) Key() string                { return e.key }
func (e fakeEntry) Value() []byte              { return e.value }
func (e fakeEntry) Revision() uint64           { return 1 }
func (e fakeEntry) Created() time.Time         { return time.Time{} }
func (e fakeEntry) Delta() uint64              { return 0 }
func (e fakeEntry) Operation() nats.KeyValueOp { return nats.KeyValuePut }

type fakeBucket struct {
	data   map[string][]byte
	putErr error
}

func (b *fakeBucket) Put(key string, value []byte) (uint64, error) {
	if b.putErr != nil {
		return 0, b.putErr
	}
	b.data[key] = value
	return uint64(len(b.data)), nil
}

func (b *fakeBucket) Get(key string) (nats.KeyValueEntry, error) {
	v, ok := b.data[key]
	if !ok {
		return nil, nats.ErrKeyNotFound
	}
	return fakeEntry{key: key, value: v}, nil
}

func (b *fakeBucket) Delete(key string, _ ...nats.DeleteOpt) error {
	delete(b.data, key)
	return nil
}

func TestNATSKVStoreRoundTrip(t *testing.T) {
	b := &fakeBucket{data: map[string][]byte{}}
	s := &NATSKVStore[payload]{kv: b}
	ctx := context.Background()

	if err := s.Put(ctx, "ern:user/1", payload{Name: "a"}); err != nil {
		t.Fatal(err)
	}
	enc := base64.RawURLEncoding.EncodeToString([]byte("ern:user/1"))
	if _, ok := b.data[enc]; !ok {
		t.Fatalf("expected encoded key %s, got %v", enc, b.data)
	}
	if string(b.data[enc]) != `{"user_ern":"ern:user/1","scenario_config":{"name":"a","attrs":null}}` {
		t.Fatalf("unexpected stored record %s", b.data[enc])
	}

	got, err := s.Get(ctx, "ern:user/1")
	if err != nil || got.Name != "a" {
		t.Fatalf("got %+v %v", got, err)
	}
	if err := s.Delete(ctx, "ern:user/1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "ern:user/1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNATSKVStorePutError(t *testing.T) {
	s := &NATSKVStore[payload]{kv: &fakeBucket{data: map[string][]byte{}, putErr: nats.ErrConnectionClosed}}
	if err := s.Put(context.Background(), "k", payload{}); !errors.Is(err, nats.ErrConnectionClosed) {
		t.Fatalf("expected connection closed, got %v", err)
	}
}
