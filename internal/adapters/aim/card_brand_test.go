package aim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCardBrand(t *testing.T) {
	tests := []struct {
		name string
		pan  string
		want CardBrand
	}{
		{name: "visa", pan: "4111111111111111", want: CardBrandVisa},
		{name: "mastercard 51", pan: "5105105105105100", want: CardBrandMasterCard},
		{name: "mastercard 55", pan: "5555555555554444", want: CardBrandMasterCard},
		{name: "mastercard 5500", pan: "5500000000000004", want: CardBrandMasterCard},
		{name: "maestro 50", pan: "5018000000000009", want: CardBrandMasterCard},
		{name: "jcb", pan: "3530111333300000", want: CardBrandJCB},
		{name: "amex 34", pan: "340000000000009", want: CardBrandAmex},
		{name: "amex 37", pan: "378282246310005", want: CardBrandAmex},
		{name: "amex 3411", pan: "341111111111111", want: CardBrandAmex},
		{name: "discover", pan: "6011111111111117", want: CardBrandDiscover},
		{name: "diners fallback", pan: "9999999999999995", want: CardBrandDiners},
		{name: "real diners prefix", pan: "30569309025904", want: CardBrandDiners},
		{name: "diners 300", pan: "30000000000004", want: CardBrandDiners},
		{name: "mastercard 2-series falls back", pan: "2223003122003222", want: CardBrandDiners},
		{name: "single digit", pan: "5", want: CardBrandDiners},
		{name: "last four only", pan: "1111", want: CardBrandDiners},
		{name: "empty", pan: "", want: CardBrandUnknown},
		{name: "whitespace", pan: "   ", want: CardBrandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCardBrand(tt.pan))
		})
	}
}
