package mysql

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// startSpan DB操作のスパンを開始
func startSpan(ctx context.Context, tracer trace.Tracer, name, operation, table string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(
		attribute.String("db.operation", operation),
		attribute.String("db.table", table),
	)
	span.SetAttributes(attrs...)
	return ctx, span
}

// failSpan スパンにエラーを記録
func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}
