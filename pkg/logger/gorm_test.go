package logger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	l := logrus.New()
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.JSONFormatter{})

	mu.Lock()
	prev := Logger
	Logger = l
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		Logger = prev
		mu.Unlock()
	})
	return buf
}

func sqlFunc(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		elapsed time.Duration
		err     error
		want    string
	}{
		{"failed query", gormlogger.Warn, 0, assert.AnError, "query failed"},
		{"record not found ignored", gormlogger.Warn, 0, gorm.ErrRecordNotFound, ""},
		{"slow query", gormlogger.Warn, time.Second, nil, "slow query"},
		{"fast query at warn", gormlogger.Warn, 0, nil, ""},
		{"silent", gormlogger.Silent, time.Second, assert.AnError, ""},
		{"info logs statement", gormlogger.Info, 0, nil, "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogger(t)
			l := NewGormLogger(gormlogger.Silent, 200*time.Millisecond).LogMode(tt.level)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), sqlFunc("SELECT 1"), tt.err)

			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), `"module":"gorm"`)
		})
	}
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	base := NewGormLogger(gormlogger.Warn, time.Second)
	_ = base.LogMode(gormlogger.Info)
	assert.Equal(t, gormlogger.Warn, base.level)
}
