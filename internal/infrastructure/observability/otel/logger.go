package otel

import (
	"context"
	"encoding/json"
	"log"
	"maps"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/errkind"
)

// LogLevel ログレベル
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

var severities = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
}

// ParseLogLevel 文字列をログレベルに変換する（不明な値はINFO）
func ParseLogLevel(s string) LogLevel {
	level := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := severities[level]; ok {
		return level
	}
	return LogLevelInfo
}

// LogEntry 1行分のJSONログ
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Service   string                 `json:"service,omitempty"`
	Message   string                 `json:"message"`
	TraceID   string                 `json:"trace_id,omitempty"`
	SpanID    string                 `json:"span_id,omitempty"`
	Error     string                 `json:"error,omitempty"`
	ErrorKind string                 `json:"error_kind,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger トレースと紐付くJSON構造化ロガー
// WARN以上は記録中のスパンにイベントとしても残す
type Logger struct {
	tracer  trace.Tracer
	level   LogLevel
	service string
	base    map[string]interface{}
}

// LoggerOption Loggerの設定
type LoggerOption func(*Logger)

// WithLevel 出力する最低レベルを指定
func WithLevel(level LogLevel) LoggerOption {
	return func(l *Logger) { l.level = level }
}

// WithService 全エントリに付けるサービス名を指定
func WithService(name string) LoggerOption {
	return func(l *Logger) { l.service = name }
}

// NewLogger 新しいLoggerを作成
func NewLogger(tracer trace.Tracer, opts ...LoggerOption) *Logger {
	l := &Logger{
		tracer: tracer,
		level:  LogLevelDebug,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// With 共通フィールドを追加した子ロガーを返す
func (l *Logger) With(fields map[string]interface{}) *Logger {
	child := *l
	child.base = make(map[string]interface{}, len(l.base)+len(fields))
	maps.Copy(child.base, l.base)
	maps.Copy(child.base, fields)
	return &child
}

// Enabled level のログが出力されるか
func (l *Logger) Enabled(level LogLevel) bool {
	return severities[level] >= severities[l.level]
}

// Log ログを出力
func (l *Logger) Log(ctx context.Context, level LogLevel, message string, fields map[string]interface{}) {
	l.write(ctx, level, message, nil, fields)
}

func (l *Logger) write(ctx context.Context, level LogLevel, message string, err error, fields map[string]interface{}) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     string(level),
		Service:   l.service,
		Message:   message,
	}
	if len(l.base)+len(fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(l.base)+len(fields))
		maps.Copy(entry.Fields, l.base)
		maps.Copy(entry.Fields, fields)
	}
	if err != nil {
		entry.Error = err.Error()
		entry.ErrorKind = errkind.Kind(err)
	}

	span := trace.SpanFromContext(ctx)
	if sc := span.SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	if span.IsRecording() && severities[level] >= severities[LogLevelWarn] {
		attrs := []attribute.KeyValue{attribute.String("log.severity", string(level))}
		if entry.ErrorKind != "" {
			attrs = append(attrs, attribute.String("error.kind", entry.ErrorKind))
		}
		span.AddEvent(message, trace.WithAttributes(attrs...))
	}

	b, merr := json.Marshal(entry)
	if merr != nil {
		log.Printf("failed to marshal log entry: %v", merr)
		return
	}
	log.Println(string(b))
}

// Debug Debugレベルのログを出力
func (l *Logger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(ctx, LogLevelDebug, message, nil, fields)
}

// Info Infoレベルのログを出力
func (l *Logger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(ctx, LogLevelInfo, message, nil, fields)
}

// Warn Warnレベルのログを出力
func (l *Logger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	l.write(ctx, LogLevelWarn, message, nil, fields)
}

// Error Errorレベルのログを出力（エラー分類を error_kind に付与）
func (l *Logger) Error(ctx context.Context, message string, err error, fields map[string]interface{}) {
	l.write(ctx, LogLevelError, message, err, fields)
}
