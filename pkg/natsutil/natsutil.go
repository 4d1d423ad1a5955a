// Package natsutil carries JSON values over NATS subjects with
// OpenTelemetry trace propagation in message headers.
package natsutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

// natsHeaderCarrier adapts nats.Msg headers for OTel TextMapCarrier.
type natsHeaderCarrier nats.Msg

func (c *natsHeaderCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *natsHeaderCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *natsHeaderCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

// Publish encodes v as JSON and publishes it on subject, injecting the
// trace context from ctx into the message headers.
func Publish[T any](ctx context.Context, nc *nats.Conn, subject string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("natsutil: encode: %w", err)
	}
	msg := &nats.Msg{Subject: subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*natsHeaderCarrier)(msg))
	return nc.PublishMsg(msg)
}

// Subscribe decodes JSON messages on subject into T and hands them to
// handler with the extracted trace context. Malformed messages are dropped.
func Subscribe[T any](nc *nats.Conn, subject string, handler func(context.Context, T)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		var v T
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			return
		}
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*natsHeaderCarrier)(msg))
		handler(ctx, v)
	})
}

// ErrNoConn is returned by a Publisher built without a connection.
var ErrNoConn = errors.New("natsutil: no connection")

// Publisher publishes values of one type to a fixed subject. Its Publish
// method satisfies single-method notifier interfaces such as the
// assignment service's.
type Publisher[T any] struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher returns a Publisher for subject.
func NewPublisher[T any](nc *nats.Conn, subject string) *Publisher[T] {
	return &Publisher[T]{nc: nc, subject: subject}
}

// Subject returns the subject values are published on.
func (p *Publisher[T]) Subject() string { return p.subject }

// Publish sends v. The connection is not flushed.
func (p *Publisher[T]) Publish(ctx context.Context, v T) error {
	if p.nc == nil {
		return ErrNoConn
	}
	return Publish(ctx, p.nc, p.subject, v)
}
