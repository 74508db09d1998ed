package util

import (
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceNumber_Deterministic(t *testing.T) {
	testCases := []struct {
		name string
		uuid string
	}{
		{name: "standard UUID", uuid: "12345678-1234-1234-1234-123456789abc"},
		{name: "different UUID", uuid: "a1b2c3d4-e5f6-7890-abcd-ef1234567890"},
		{name: "nil UUID", uuid: "00000000-0000-0000-0000-000000000000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := uuid.MustParse(tc.uuid)

			first := InvoiceNumber(id)
			second := InvoiceNumber(id)

			assert.Equal(t, first, second)
		})
	}
}

func TestInvoiceNumber_CaseInsensitiveInput(t *testing.T) {
	lower := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	upper := uuid.MustParse("AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE")

	assert.Equal(t, InvoiceNumber(lower), InvoiceNumber(upper))
}

func TestInvoiceNumber_NumericWithinTenDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		number := InvoiceNumber(uuid.New())

		require.LessOrEqual(t, len(number), 10)
		_, err := strconv.ParseUint(number, 10, 32)
		require.NoError(t, err, "invoice number %q must be a uint32", number)
	}
}

func TestInvoiceNumber_Distinct(t *testing.T) {
	a := InvoiceNumber(uuid.MustParse("12345678-1234-1234-1234-123456789abc"))
	b := InvoiceNumber(uuid.MustParse("12345678-1234-1234-1234-123456789abd"))

	assert.NotEqual(t, a, b)
}

func TestNewInvoiceNumber(t *testing.T) {
	id, number := NewInvoiceNumber()

	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, InvoiceNumber(id), number)
}
