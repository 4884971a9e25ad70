package translation

// providerCodes maps language display names to DeepL target codes. The
// chat based providers use the same table to decide which languages are
// supported.
var providerCodes = map[string]string{
	"Danish":         "DA",
	"Swedish":        "SV",
	"Norwegian":      "NB",
	"Finnish":        "FI",
	"German":         "DE",
	"Dutch":          "NL",
	"Belgian French": "FR",
	"Belgian Dutch":  "NL",
	"Spanish":        "ES",
}

// ProviderCode returns the provider target code for a display name
func ProviderCode(displayName string) (string, bool) {
	code, ok := providerCodes[displayName]
	return code, ok
}
