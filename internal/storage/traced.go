package storage

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/till/internal/domain/ledger"
)

type traced struct {
	next   Store
	tracer trace.Tracer
}

// Traced wraps s so that every call is recorded as a span.
func Traced(s Store, tp trace.TracerProvider) Store {
	t := &traced{next: s, tracer: tp.Tracer("github.com/xenking/till/internal/storage")}
	if a, ok := s.(Archiver); ok {
		return &tracedArchiver{traced: t, archiver: a}
	}
	return t
}

func (t *traced) start(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "storage."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("storage.key", key)),
	)
}

func end(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *traced) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := t.start(ctx, "Get", key)
	defer func() { end(span, err) }()
	return t.next.Get(ctx, key)
}

func (t *traced) Put(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := t.start(ctx, "Put", key)
	span.SetAttributes(attribute.Int("storage.size", len(value)))
	defer func() { end(span, err) }()
	return t.next.Put(ctx, key, value)
}

func (t *traced) Delete(ctx context.Context, key string) (err error) {
	ctx, span := t.start(ctx, "Delete", key)
	defer func() { end(span, err) }()
	return t.next.Delete(ctx, key)
}

func (t *traced) Ping(ctx context.Context) error {
	return t.next.Ping(ctx)
}

func (t *traced) Close() error {
	return t.next.Close()
}

type tracedArchiver struct {
	*traced
	archiver Archiver
}

func (t *tracedArchiver) Archive(ctx context.Context, sales []ledger.Sale) (err error) {
	ctx, span := t.tracer.Start(ctx, "storage.Archive",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("storage.sales", len(sales))),
	)
	defer func() { end(span, err) }()
	return t.archiver.Archive(ctx, sales)
}
