package logging

import (
	"context"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	ctx = WithRequestID(ctx, "req-123")
	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}

	ctx = WithSessionID(ctx, "session-xyz")
	if got := GetSessionID(ctx); got != "session-xyz" {
		t.Errorf("GetSessionID() = %q, want %q", got, "session-xyz")
	}

	ctx = WithPolicyID(ctx, "block-exfil")
	if got := GetPolicyID(ctx); got != "block-exfil" {
		t.Errorf("GetPolicyID() = %q, want %q", got, "block-exfil")
	}

	ctx = WithTraceID(ctx, "trace-abc")
	if got := GetTraceID(ctx); got != "trace-abc" {
		t.Errorf("GetTraceID() = %q, want %q", got, "trace-abc")
	}
}

func TestContextKeys_Empty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		get  func(context.Context) string
	}{
		{"RequestID", GetRequestID},
		{"SessionID", GetSessionID},
		{"PolicyID", GetPolicyID},
		{"TraceID", GetTraceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(ctx); got != "" {
				t.Errorf("Get%s() = %q, want empty string", tt.name, got)
			}
		})
	}
}

func TestExtractContextFields(t *testing.T) {
	tests := []struct {
		name       string
		setupCtx   func(context.Context) context.Context
		wantFields map[string]string
	}{
		{
			name:       "empty context",
			setupCtx:   func(ctx context.Context) context.Context { return ctx },
			wantFields: map[string]string{},
		},
		{
			name: "request ID only",
			setupCtx: func(ctx context.Context) context.Context {
				return WithRequestID(ctx, "req-123")
			},
			wantFields: map[string]string{"request_id": "req-123"},
		},
		{
			name: "all fields",
			setupCtx: func(ctx context.Context) context.Context {
				ctx = WithRequestID(ctx, "req-789")
				ctx = WithSessionID(ctx, "sess-1")
				ctx = WithPolicyID(ctx, "block-exfil")
				ctx = WithTraceID(ctx, "trace-1")
				return ctx
			},
			wantFields: map[string]string{
				"request_id": "req-789",
				"session_id": "sess-1",
				"policy_id":  "block-exfil",
				"trace_id":   "trace-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupCtx(context.Background())
			fields := extractContextFields(ctx)

			fieldsMap := make(map[string]string)
			for i := 0; i < len(fields); i += 2 {
				key := fields[i].(string)
				value := fields[i+1].(string)
				fieldsMap[key] = value
			}

			for key, expectedValue := range tt.wantFields {
				if gotValue, ok := fieldsMap[key]; !ok {
					t.Errorf("Expected field %q not found", key)
				} else if gotValue != expectedValue {
					t.Errorf("Field %q = %q, want %q", key, gotValue, expectedValue)
				}
			}

			if len(fieldsMap) != len(tt.wantFields) {
				t.Errorf("Got %d fields, want %d. Fields: %v",
					len(fieldsMap), len(tt.wantFields), fieldsMap)
			}
		})
	}
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-cl-1")
	ctx = WithSessionID(ctx, "session-1")

	logger, err := New(Config{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctxLogger := NewContextLogger(logger, ctx)
	if ctxLogger == nil {
		t.Fatal("NewContextLogger returned nil")
	}

	ctxLogger.Debug("debug message")
	ctxLogger.Info("info message")
	ctxLogger.Warn("warn message")
	ctxLogger.Error("error message")

	childLogger := ctxLogger.With("extra", "value")
	if childLogger == nil {
		t.Fatal("ContextLogger.With returned nil")
	}
	childLogger.Info("child message")
}

func TestContextLogger_With(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-with-1")

	logger, err := New(Config{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctxLogger := NewContextLogger(logger, ctx)
	childLogger := ctxLogger.With("key1", "value1", "key2", 42)
	if childLogger == nil {
		t.Fatal("ContextLogger.With returned nil")
	}
	childLogger.Info("test message")
}

func TestContextChaining(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-chain-1")
	ctx = WithSessionID(ctx, "sess1")
	ctx = WithPolicyID(ctx, "policy1")

	if got := GetRequestID(ctx); got != "req-chain-1" {
		t.Errorf("After chaining, GetRequestID() = %q, want %q", got, "req-chain-1")
	}
	if got := GetSessionID(ctx); got != "sess1" {
		t.Errorf("After chaining, GetSessionID() = %q, want %q", got, "sess1")
	}
	if got := GetPolicyID(ctx); got != "policy1" {
		t.Errorf("After chaining, GetPolicyID() = %q, want %q", got, "policy1")
	}

	ctx = WithTraceID(ctx, "trace1")
	if got := GetTraceID(ctx); got != "trace1" {
		t.Errorf("After more chaining, GetTraceID() = %q, want %q", got, "trace1")
	}

	if got := GetRequestID(ctx); got != "req-chain-1" {
		t.Errorf("Original value changed: GetRequestID() = %q, want %q", got, "req-chain-1")
	}
}

func TestContextOverwrite(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-old")

	if got := GetRequestID(ctx); got != "req-old" {
		t.Errorf("Initial GetRequestID() = %q, want %q", got, "req-old")
	}

	ctx = WithRequestID(ctx, "req-new")
	if got := GetRequestID(ctx); got != "req-new" {
		t.Errorf("After overwrite, GetRequestID() = %q, want %q", got, "req-new")
	}
}

func BenchmarkExtractContextFields(b *testing.B) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-bench")
	ctx = WithSessionID(ctx, "session-bench")
	ctx = WithPolicyID(ctx, "policy-bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = extractContextFields(ctx)
	}
}

func BenchmarkWithRequestID(b *testing.B) {
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = WithRequestID(ctx, "req-123")
	}
}

func BenchmarkGetRequestID(b *testing.B) {
	ctx := WithRequestID(context.Background(), "req-123")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetRequestID(ctx)
	}
}
