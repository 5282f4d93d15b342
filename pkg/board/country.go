package board

import (
	"strings"

	"github.com/cardscan-dev/cardboard/pkg/api"
)

// countryNames maps the two-letter codes the OCR backend emits to display
// names. Anything outside this table normalizes to "Unknown".
var countryNames = map[string]string{
	"US": "United States",
	"IN": "India",
	"GB": "United Kingdom",
	"DE": "Germany",
	"FR": "France",
	"CA": "Canada",
	"AU": "Australia",
	"JP": "Japan",
	"CN": "China",
	"SG": "Singapore",
	"AE": "United Arab Emirates",
	"NL": "Netherlands",
	"CH": "Switzerland",
	"IT": "Italy",
	"ES": "Spain",
	"BR": "Brazil",
	"KR": "South Korea",
	"SE": "Sweden",
	"ZA": "South Africa",
	"MX": "Mexico",
}

// countryFlags carries the emoji for the codes the filter and preview panel
// display. This table doubles as the local fallback when /api/countries is
// unreachable.
var countryFlags = map[string]string{
	"US": "🇺🇸",
	"IN": "🇮🇳",
	"GB": "🇬🇧",
	"DE": "🇩🇪",
	"FR": "🇫🇷",
	"CA": "🇨🇦",
	"AU": "🇦🇺",
	"JP": "🇯🇵",
	"CN": "🇨🇳",
	"SG": "🇸🇬",
	"AE": "🇦🇪",
	"NL": "🇳🇱",
	"CH": "🇨🇭",
	"IT": "🇮🇹",
	"ES": "🇪🇸",
	"BR": "🇧🇷",
	"KR": "🇰🇷",
	"SE": "🇸🇪",
	"ZA": "🇿🇦",
	"MX": "🇲🇽",
}

// UnknownCountry is the display name for blank, UNKNOWN, or unmapped codes.
const UnknownCountry = "Unknown"

// NormalizeCountry maps a backend country code to its display name.
func NormalizeCountry(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == "UNKNOWN" {
		return UnknownCountry
	}

	if name, ok := countryNames[code]; ok {
		return name
	}

	return UnknownCountry
}

// CountryFlag returns the emoji for a code, or the globe for anything the
// table doesn't know.
func CountryFlag(code string) string {
	if flag, ok := countryFlags[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return flag
	}

	return "🌍"
}

// FallbackCountries returns the local (code, flag) pairs used when the
// countries endpoint fails, in a stable order.
func FallbackCountries() []api.Country {
	order := []string{"US", "IN", "GB", "DE", "FR", "CA", "AU", "JP", "CN", "SG"}

	countries := make([]api.Country, 0, len(order)+1)
	for _, code := range order {
		countries = append(countries, api.Country{Code: code, Flag: countryFlags[code]})
	}

	return append(countries, api.Country{Code: "UNKNOWN", Flag: "🌍"})
}

// CountryOptions converts (code, flag) pairs into the distinct display names
// the country filter cycles through.
func CountryOptions(countries []api.Country) []string {
	seen := map[string]bool{}

	var names []string

	for _, country := range countries {
		name := NormalizeCountry(country.Code)
		if !seen[name] {
			seen[name] = true

			names = append(names, name)
		}
	}

	return names
}
