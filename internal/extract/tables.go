package extract

import "strings"

// knownStores maps a lowercase needle to the canonical store name. Matching
// is substring-based and the longest needle wins, so "home hardware" beats
// "home".
var knownStores = map[string]string{
	"home depot":      "Home Depot",
	"lowe's":          "Lowe's",
	"lowes":           "Lowe's",
	"rona":            "RONA",
	"home hardware":   "Home Hardware",
	"canadian tire":   "Canadian Tire",
	"roofmart":        "Roofmart",
	"kent":            "Kent",
	"castle":          "Castle",
	"ace hardware":    "Ace Hardware",
	"menards":         "Menards",
	"bmr":             "BMR",
	"beacon":          "Beacon",
	"abc supply":      "ABC Supply",
	"timber mart":     "Timber Mart",
	"windsor plywood": "Windsor Plywood",
	"gas station":     "Gas Station",
	"costco":          "Costco",
	"walmart":         "Walmart",
}

// constructionStores marks which known stores count as construction
// suppliers for category derivation.
var constructionStores = map[string]bool{
	"Home Depot":      true,
	"Lowe's":          true,
	"RONA":            true,
	"Home Hardware":   true,
	"Canadian Tire":   true,
	"Roofmart":        true,
	"Kent":            true,
	"Castle":          true,
	"Ace Hardware":    true,
	"Menards":         true,
	"BMR":             true,
	"Beacon":          true,
	"ABC Supply":      true,
	"Timber Mart":     true,
	"Windsor Plywood": true,
}

// knownMaterials are construction materials and tools recognized as items
// when no phrasing pattern resolves one. Longest match wins.
var knownMaterials = []string{
	"roofing nails",
	"framing nails",
	"underlayment",
	"insulation",
	"drywall screws",
	"shingles",
	"plywood",
	"drywall",
	"lumber",
	"siding",
	"screws",
	"nails",
	"paint",
	"primer",
	"caulk",
	"glue",
	"tar",
	"concrete",
	"rebar",
	"flashing",
	"tools",
	"drill",
	"saw blades",
	"sandpaper",
	"tape",
	"gas",
}

// matchKnownStore finds the most specific known store mentioned anywhere in
// the text. Returns the canonical name.
func matchKnownStore(text string) (string, bool) {
	lower := strings.ToLower(text)
	best := ""
	canonical := ""
	for needle, name := range knownStores {
		if strings.Contains(lower, needle) && len(needle) > len(best) {
			best = needle
			canonical = name
		}
	}
	return canonical, best != ""
}

// matchKnownMaterial finds the longest known material mentioned in the text.
func matchKnownMaterial(text string) (string, bool) {
	lower := strings.ToLower(text)
	best := ""
	for _, m := range knownMaterials {
		if strings.Contains(lower, m) && len(m) > len(best) {
			best = m
		}
	}
	return best, best != ""
}

// IsConstructionStore reports whether a resolved store is a construction
// supplier.
func IsConstructionStore(store string) bool {
	if constructionStores[store] {
		return true
	}
	canonical, ok := matchKnownStore(store)
	return ok && constructionStores[canonical]
}
