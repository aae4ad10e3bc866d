package criteria

import "strings"

var stateNames = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR", "CALIFORNIA": "CA",
	"COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE", "FLORIDA": "FL", "GEORGIA": "GA",
	"HAWAII": "HI", "IDAHO": "ID", "ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA",
	"KANSAS": "KS", "KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD",
	"MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS", "MISSOURI": "MO",
	"MONTANA": "MT", "NEBRASKA": "NE", "NEVADA": "NV", "NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ",
	"NEW MEXICO": "NM", "NEW YORK": "NY", "NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH",
	"OKLAHOMA": "OK", "OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC",
	"SOUTH DAKOTA": "SD", "TENNESSEE": "TN", "TEXAS": "TX", "UTAH": "UT", "VERMONT": "VT",
	"VIRGINIA": "VA", "WASHINGTON": "WA", "WEST VIRGINIA": "WV", "WISCONSIN": "WI", "WYOMING": "WY",
	"DISTRICT OF COLUMBIA": "DC", "PUERTO RICO": "PR",
}

var stateCodes = func() map[string]bool {
	codes := make(map[string]bool, len(stateNames))
	for _, code := range stateNames {
		codes[code] = true
	}
	return codes
}()

// Only names and unambiguous codes are treated as countries inside free
// text. Two-letter ISO codes that collide with state codes (CA, DE, IN, ...)
// are read as states there.
var countryAliases = map[string]string{
	"US": "US", "USA": "US", "UNITED STATES": "US", "UNITED STATES OF AMERICA": "US",
	"CANADA": "CA",
	"MEXICO": "MX", "MX": "MX",
	"UK": "GB", "GB": "GB", "UNITED KINGDOM": "GB", "GREAT BRITAIN": "GB",
	"GERMANY": "DE", "CHINA": "CN", "TAIWAN": "TW", "JAPAN": "JP", "INDIA": "IN",
	"VIETNAM": "VN", "KOREA": "KR", "SOUTH KOREA": "KR",
}

const maxNameTokens = 4

// NormalizeState maps a two-letter code or a full state name to its code.
func NormalizeState(raw string) (string, bool) {
	key := strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(raw, ".", ""))), " ")
	if key == "" {
		return "", false
	}
	if stateCodes[key] {
		return key, true
	}
	code, ok := stateNames[key]
	return code, ok
}

// NormalizeCountry maps known aliases to their code and passes anything
// else through upper-cased.
func NormalizeCountry(raw string) string {
	key := strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(raw, ".", ""))), " ")
	if code, ok := countryAliases[key]; ok {
		return code
	}
	return key
}

// NormalizeStates maps each value to its state code, dropping values that
// are not states and repeats. Order of first appearance is kept.
func NormalizeStates(values []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(values))
	for _, v := range values {
		code, ok := NormalizeState(v)
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

func lookupCountry(key string) (string, bool) {
	code, ok := countryAliases[key]
	return code, ok
}

func tokenize(raw string) []string {
	upper := strings.ToUpper(strings.ReplaceAll(raw, ".", ""))
	return strings.FieldsFunc(upper, func(r rune) bool {
		switch r {
		case ',', '/', '|', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}

// ParseShipTo extracts a state and country from free text. Each token
// window is tested independently and the last match of each kind wins, so
// "City, State, Country" ordering resolves naturally.
func ParseShipTo(shipTo, postalCode string) (state, country *string) {
	st, ctry := scanTokens(tokenize(shipTo))

	if st == "" && strings.TrimSpace(postalCode) != "" && (ctry == "" || ctry == "US") {
		st, _ = scanTokens(tokenize(postalCode))
	}

	if st != "" {
		state = &st
	}
	if ctry != "" {
		country = &ctry
	}
	return state, country
}

func scanTokens(tokens []string) (state, country string) {
	for i := 0; i < len(tokens); {
		consumed := 0
		for n := maxNameTokens; n >= 1 && consumed == 0; n-- {
			if i+n > len(tokens) {
				continue
			}
			window := strings.Join(tokens[i:i+n], " ")
			if code, ok := NormalizeState(window); ok {
				state, consumed = code, n
			} else if code, ok := lookupCountry(window); ok {
				country, consumed = code, n
			}
		}
		if consumed == 0 {
			consumed = 1
		}
		i += consumed
	}
	return state, country
}
