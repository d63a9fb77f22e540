package usecase

import (
	"log"
	"sort"

	"github.com/beanery/storefront/internal/domain"
	"github.com/gosimple/slug"
)

// FacetOptions holds the distinct display values per facet
type FacetOptions struct {
	Weight    []string `json:"weight"`
	Beans     []string `json:"beans"`
	Additions []string `json:"additions"`
}

// Get returns the option list of a facet
func (o FacetOptions) Get(f domain.Facet) []string {
	switch f {
	case domain.FacetWeight:
		return o.Weight
	case domain.FacetBeans:
		return o.Beans
	case domain.FacetAdditions:
		return o.Additions
	}
	return nil
}

// VariationResolver maps a facet selection and a variation catalog to a
// purchasable variant. It is pure and safe for concurrent use.
type VariationResolver struct {
	enableDebugLogging bool
}

// NewVariationResolver creates a new resolver
func NewVariationResolver(enableDebugLogging bool) *VariationResolver {
	return &VariationResolver{enableDebugLogging: enableDebugLogging}
}

// Resolve returns the first catalog entry matching every selected facet.
// When nothing matches and an additions value is selected, a variant is
// synthesized from the first weight/beans match (or the first entry) with
// the requested additions. Returns nil when there is nothing to resolve.
func (r *VariationResolver) Resolve(sel domain.Selection, catalog []domain.Variant, lang domain.Language) *domain.Variant {
	if len(catalog) == 0 {
		return nil
	}

	for i := range catalog {
		if matchesSelection(sel, catalog[i], lang, domain.Facets) {
			v := catalog[i]
			if r.enableDebugLogging {
				log.Printf("[RESOLVE] %+v -> %s", sel, v.ID)
			}
			return &v
		}
	}

	requested := normalizeFacetLabel(sel.Additions)
	if requested == "" {
		if r.enableDebugLogging {
			log.Printf("[RESOLVE] %+v -> no match", sel)
		}
		return nil
	}

	base := &catalog[0]
	for i := range catalog {
		if matchesSelection(sel, catalog[i], lang, []domain.Facet{domain.FacetWeight, domain.FacetBeans}) {
			base = &catalog[i]
			break
		}
	}

	var additions domain.FacetValue
	if isNormalAddition(requested) {
		additions = normalAdditionValue()
	} else {
		additions = catalogFacetValue(catalog, domain.FacetAdditions, requested, lang)
	}

	v := synthesizeVariant(*base, additions)
	if r.enableDebugLogging {
		log.Printf("[RESOLVE] %+v -> synthesized %s from %s", sel, v.ID, base.ID)
	}
	return &v
}

// Options returns the distinct values of every facet across the catalog
func (r *VariationResolver) Options(catalog []domain.Variant, lang domain.Language) FacetOptions {
	weights := distinctFacetValues(catalog, domain.FacetWeight, lang)
	sort.SliceStable(weights, func(i, j int) bool {
		return weightRank(weights[i], lang) < weightRank(weights[j], lang)
	})

	options := FacetOptions{
		Weight:    labels(weights, lang),
		Beans:     labels(distinctFacetValues(catalog, domain.FacetBeans, lang), lang),
		Additions: []string{},
	}

	additions := distinctFacetValues(catalog, domain.FacetAdditions, lang)
	if len(additions) == 0 {
		return options
	}

	normal := normalAdditionValue().Label(lang)
	rest := make([]string, 0, len(additions))
	for _, v := range additions {
		label := v.Label(lang)
		if isNormalAddition(label) {
			normal = label
			continue
		}
		rest = append(rest, label)
	}
	options.Additions = append([]string{normal}, rest...)
	return options
}

// InitialSelection picks the first option of every facet. With an additions
// facet present this is always Normal, which Resolve synthesizes if needed.
func (r *VariationResolver) InitialSelection(catalog []domain.Variant, lang domain.Language) domain.Selection {
	options := r.Options(catalog, lang)
	var sel domain.Selection
	for _, f := range domain.Facets {
		if values := options.Get(f); len(values) > 0 {
			sel = sel.With(f, values[0])
		}
	}
	return sel
}

// matchesSelection checks the given facets. Unselected facets and facets
// the candidate does not carry act as wildcards.
func matchesSelection(sel domain.Selection, candidate domain.Variant, lang domain.Language, facets []domain.Facet) bool {
	for _, f := range facets {
		want := normalizeFacetLabel(sel.Get(f))
		if want == "" {
			continue
		}
		value := candidate.Facet(f)
		if value.IsZero() {
			continue
		}
		if !sameLabel(want, value.Label(lang)) {
			return false
		}
	}
	return true
}

// catalogFacetValue returns the catalog's own value for a label so the
// synthesized variant keeps its casing and translations.
func catalogFacetValue(catalog []domain.Variant, f domain.Facet, label string, lang domain.Language) domain.FacetValue {
	for _, v := range catalog {
		if value := v.Facet(f); !value.IsZero() && sameLabel(value.Label(lang), label) {
			return value
		}
	}
	return domain.PlainLabel(label)
}

// synthesizeVariant copies base with the additions facet overridden. The id
// is derived from the base id so repeated synthesis is stable.
func synthesizeVariant(base domain.Variant, additions domain.FacetValue) domain.Variant {
	suffix := slug.Make(additions.Label(domain.LanguageEnglish))
	if suffix == "" {
		suffix = "addition"
	}
	v := base
	v.ID = base.ID + "-" + suffix
	v.Additions = additions
	v.Synthetic = true
	return v
}

// distinctFacetValues returns the first occurrence of every distinct label
func distinctFacetValues(catalog []domain.Variant, f domain.Facet, lang domain.Language) []domain.FacetValue {
	seen := make(map[string]bool)
	var values []domain.FacetValue
	for _, v := range catalog {
		value := v.Facet(f)
		label := normalizeFacetLabel(value.Label(lang))
		if label == "" {
			continue
		}
		key := foldKey(label)
		if seen[key] {
			continue
		}
		seen[key] = true
		values = append(values, value)
	}
	return values
}

func labels(values []domain.FacetValue, lang domain.Language) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, normalizeFacetLabel(v.Label(lang)))
	}
	return out
}
