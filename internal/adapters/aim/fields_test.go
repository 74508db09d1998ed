package aim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRecognized(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{FieldAmount, true},
		{FieldCardNum, true},
		{FieldShipToState, true},
		{FieldAllowPartialAuth, true},
		{"bogus_field", false},
		{"Amount", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRecognized(tt.name))
		})
	}
}

func TestRecognizedFields(t *testing.T) {
	names := RecognizedFields()

	assert.Len(t, names, len(recognizedFields))
	assert.Contains(t, names, FieldExpDate)
	assert.Contains(t, names, FieldInvoiceNum)
	assert.NotEmpty(t, FieldRegistryVersion)
}

func TestSensitiveFieldsAreRegistered(t *testing.T) {
	for name := range sensitiveFields {
		assert.True(t, IsRecognized(name), "sensitive field %s must be in the registry", name)
		assert.True(t, isSensitive(name))
	}
	assert.False(t, isSensitive(FieldAmount))
}
