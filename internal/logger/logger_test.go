package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env     string
		level   string
		wantErr bool
		enabled zapcore.Level
	}{
		{env: "prod", enabled: zapcore.InfoLevel},
		{env: "local", enabled: zapcore.DebugLevel},
		{env: "docker", level: "warn", enabled: zapcore.WarnLevel},
		{env: "staging", wantErr: true},
		{env: "local", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			if !l.Core().Enabled(tt.enabled) {
				t.Errorf("level %v should be enabled", tt.enabled)
			}
			if tt.enabled > zapcore.DebugLevel && l.Core().Enabled(tt.enabled-1) {
				t.Errorf("level %v should be disabled", tt.enabled-1)
			}
		})
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("expected fallback logger for bare context")
	}

	scoped := zap.NewNop().Named("req")
	ctx := ContextWithLogger(context.Background(), scoped)
	if got := FromContextOr(ctx, fallback); got != scoped {
		t.Error("expected scoped logger")
	}
	if got := FromContext(ctx); got != scoped {
		t.Error("FromContext should return scoped logger")
	}
}
