package zerolog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		log       func(l *Logger)
		wantEmpty bool
		wantText  []string
	}{
		{
			name:     "info with fields",
			level:    "info",
			log:      func(l *Logger) { l.Info("Account created", "email", "admin@gmail.com") },
			wantText: []string{"INFO", "Account created", "email=admin@gmail.com", "service=seedkit"},
		},
		{
			name:      "debug suppressed at info",
			level:     "info",
			log:       func(l *Logger) { l.Debug("hidden") },
			wantEmpty: true,
		},
		{
			name:     "level is case insensitive",
			level:    "DEBUG",
			log:      func(l *Logger) { l.Debug("visible") },
			wantText: []string{"DEBUG", "visible"},
		},
		{
			name:     "errors rendered by message",
			level:    "info",
			log:      func(l *Logger) { l.Error("Seeding failed", "error", errors.New("boom")) },
			wantText: []string{"ERROR", "Seeding failed", "boom"},
		},
		{
			name:     "odd trailing key dropped",
			level:    "info",
			log:      func(l *Logger) { l.Warn("odd", "dangling") },
			wantText: []string{"WARN", "odd"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewZerologLoggerWithWriter("seedkit", &buf).(*Logger)
			l.SetLevel(tt.level)

			tt.log(l)

			if tt.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}
			for _, want := range tt.wantText {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("seedkit", &buf)

	child := l.WithContext(map[string]interface{}{"run_id": "abc123"})
	child.Info("hello")

	assert.Contains(t, buf.String(), "run_id=abc123")
	assert.Contains(t, buf.String(), "hello")
}
