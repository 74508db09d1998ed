package aim

import "strings"

// CardBrand is the card network inferred from the PAN prefix
type CardBrand string

const (
	CardBrandVisa       CardBrand = "Visa"
	CardBrandMasterCard CardBrand = "MasterCard"
	CardBrandJCB        CardBrand = "JCB"
	CardBrandAmex       CardBrand = "AMEX"
	CardBrandDiscover   CardBrand = "Discover"
	CardBrandDiners     CardBrand = "Diners Club"
	CardBrandUnknown    CardBrand = ""
)

// InferCardBrand derives the brand from the first one or two digits of pan.
// First match wins:
//
//	4        Visa
//	50-55    MasterCard
//	35       JCB
//	34, 37   AMEX
//	6        Discover
//	other    Diners Club
//
// Diners Club is the fallback for every unmatched prefix, not a real Diners
// detection (Diners prefixes are 30, 36 and 38). An empty PAN (void,
// prior-auth capture) yields CardBrandUnknown.
func InferCardBrand(pan string) CardBrand {
	pan = strings.TrimSpace(pan)
	if pan == "" {
		return CardBrandUnknown
	}

	if pan[0] == '4' {
		return CardBrandVisa
	}

	prefix := ""
	if len(pan) >= 2 {
		prefix = pan[:2]
	}

	switch {
	case prefix >= "50" && prefix <= "55":
		return CardBrandMasterCard
	case prefix == "35":
		return CardBrandJCB
	case prefix == "34" || prefix == "37":
		return CardBrandAmex
	case pan[0] == '6':
		return CardBrandDiscover
	default:
		return CardBrandDiners
	}
}
