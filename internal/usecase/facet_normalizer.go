package usecase

import (
	"regexp"
	"strings"

	"github.com/beanery/storefront/internal/domain"
	"golang.org/x/text/cases"
)

// Compiled patterns for facet label normalization
var (
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	// Matches weight labels like "250g", "250 G", "1 kg", "1.5kg"
	weightLabelRegex = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(g|gr|gram|grams|kg|kilo|kilogram|kilograms)$`)
	// Raw numeric weights are grams
	numericLabelRegex = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// Normal is the additions sentinel meaning "no special processing"
const (
	NormalAddition   = "Normal"
	NormalAdditionAr = "عادي"
)

// weightOrder is the fixed display order for weight options.
// Labels that are not listed sort after these, in encounter order.
var weightOrder = map[string]int{
	"250g":  0,
	"500g":  1,
	"1kg":   2,
	"1000g": 2,
}

// normalizeFacetLabel trims and collapses whitespace in a facet label
func normalizeFacetLabel(label string) string {
	label = multipleSpacesRegex.ReplaceAllString(label, " ")
	return strings.TrimSpace(label)
}

// foldKey returns the case-folded comparison key of a label
func foldKey(label string) string {
	return cases.Fold().String(normalizeFacetLabel(label))
}

// sameLabel compares two labels case-insensitively
func sameLabel(a, b string) bool {
	return foldKey(a) == foldKey(b)
}

// isNormalAddition reports whether an additions label is the Normal sentinel
func isNormalAddition(label string) bool {
	return sameLabel(label, NormalAddition) || normalizeFacetLabel(label) == NormalAdditionAr
}

// normalAdditionValue is the facet value used when Normal is synthesized
func normalAdditionValue() domain.FacetValue {
	return domain.LocalizedLabel(domain.LocalizedName{
		Name:   NormalAddition,
		NameAr: NormalAdditionAr,
	})
}

// canonicalWeight turns "250 G" into "250g" and "1 Kilo" into "1kg".
// Labels that do not look like a weight are returned folded.
func canonicalWeight(label string) string {
	label = normalizeFacetLabel(label)
	m := weightLabelRegex.FindStringSubmatch(label)
	if m == nil {
		return foldKey(label)
	}
	unit := "g"
	if strings.HasPrefix(strings.ToLower(m[2]), "k") {
		unit = "kg"
	}
	return m[1] + unit
}

// weightRank returns the position of a weight value in the fixed ordering
// table, or len(weightOrder) when the value is not listed.
func weightRank(value domain.FacetValue, lang domain.Language) int {
	candidates := []string{
		value.Label(lang),
		value.Label(domain.LanguageEnglish),
	}
	if raw := value.Label(""); numericLabelRegex.MatchString(raw) {
		candidates = append(candidates, raw+"g")
	}
	for _, c := range candidates {
		if rank, ok := weightOrder[canonicalWeight(c)]; ok {
			return rank
		}
	}
	return len(weightOrder)
}
