package aim

import "strings"

// stateAbbreviations maps lower-cased US state, territory and military postal
// region names to their two-letter postal codes.
var stateAbbreviations = map[string]string{
	"alabama":              "AL",
	"alaska":               "AK",
	"arizona":              "AZ",
	"arkansas":             "AR",
	"california":           "CA",
	"colorado":             "CO",
	"connecticut":          "CT",
	"delaware":             "DE",
	"district of columbia": "DC",
	"florida":              "FL",
	"georgia":              "GA",
	"hawaii":               "HI",
	"idaho":                "ID",
	"illinois":             "IL",
	"indiana":              "IN",
	"iowa":                 "IA",
	"kansas":               "KS",
	"kentucky":             "KY",
	"louisiana":            "LA",
	"maine":                "ME",
	"maryland":             "MD",
	"massachusetts":        "MA",
	"michigan":             "MI",
	"minnesota":            "MN",
	"mississippi":          "MS",
	"missouri":             "MO",
	"montana":              "MT",
	"nebraska":             "NE",
	"nevada":               "NV",
	"new hampshire":        "NH",
	"new jersey":           "NJ",
	"new mexico":           "NM",
	"new york":             "NY",
	"north carolina":       "NC",
	"north dakota":         "ND",
	"ohio":                 "OH",
	"oklahoma":             "OK",
	"oregon":               "OR",
	"pennsylvania":         "PA",
	"rhode island":         "RI",
	"south carolina":       "SC",
	"south dakota":         "SD",
	"tennessee":            "TN",
	"texas":                "TX",
	"utah":                 "UT",
	"vermont":              "VT",
	"virginia":             "VA",
	"washington":           "WA",
	"west virginia":        "WV",
	"wisconsin":            "WI",
	"wyoming":              "WY",

	// Territories
	"american samoa":           "AS",
	"guam":                     "GU",
	"marshall islands":         "MH",
	"micronesia":               "FM",
	"northern mariana islands": "MP",
	"palau":                    "PW",
	"puerto rico":              "PR",
	"virgin islands":           "VI",

	// Military postal regions
	"armed forces americas":    "AA",
	"armed forces africa":      "AE",
	"armed forces canada":      "AE",
	"armed forces europe":      "AE",
	"armed forces middle east": "AE",
	"armed forces pacific":     "AP",
}

var knownAbbreviations = func() map[string]struct{} {
	m := make(map[string]struct{}, len(stateAbbreviations))
	for _, abbr := range stateAbbreviations {
		m[abbr] = struct{}{}
	}
	return m
}()

// StateAbbreviation returns the two-letter postal code for a full state name.
// Names are matched case-insensitively. A value that is already a known
// postal code is returned upper-cased. Anything else yields "".
func StateAbbreviation(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if abbr, ok := stateAbbreviations[key]; ok {
		return abbr
	}
	if upper := strings.ToUpper(key); len(upper) == 2 {
		if _, ok := knownAbbreviations[upper]; ok {
			return upper
		}
	}
	return ""
}
