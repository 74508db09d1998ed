package security

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kevin07696/card-gateway/internal/adapters/ports"
)

func TestMaskPAN(t *testing.T) {
	tests := []struct {
		name string
		pan  string
		want string
	}{
		{name: "visa", pan: "4111111111111111", want: "************1111"},
		{name: "amex", pan: "341111111111111", want: "***********1111"},
		{name: "last four only", pan: "1111", want: "****"},
		{name: "empty", pan: "", want: ""},
		{name: "surrounding spaces", pan: " 4111111111111111 ", want: "************1111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskPAN(tt.pan))
		})
	}
}

func TestZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Info("Submitting gateway transaction", ports.String("transaction_type", "AUTH_CAPTURE"))
	logger.Warn("slow gateway", ports.Int("elapsed_ms", 1200))
	logger.Error("Gateway connection failed", ports.Err(errors.New("connection refused")))
	logger.Debug("raw body", ports.Bool("sandbox", true))

	entries := logs.All()
	assert.Len(t, entries, 4)

	assert.Equal(t, "Submitting gateway transaction", entries[0].Message)
	assert.Equal(t, "AUTH_CAPTURE", entries[0].ContextMap()["transaction_type"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "connection refused", entries[2].ContextMap()["error"])

	assert.Equal(t, true, entries[3].ContextMap()["sandbox"])
}
