package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Language is a display language tag understood by the storefront
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// Facet identifies one selectable variant attribute
type Facet string

const (
	FacetWeight    Facet = "weight"
	FacetBeans     Facet = "beans"
	FacetAdditions Facet = "additions"
)

// Facets lists the facets in display order
var Facets = []Facet{FacetWeight, FacetBeans, FacetAdditions}

// LocalizedName is the structured form of a facet value carrying separate
// English and Arabic display names.
type LocalizedName struct {
	Name          string
	NameAr        string
	AltNameAr     string
	DisplayName   string
	DisplayNameAr string
	Raw           string
}

// FacetValue is either a plain label or a localized name. The zero value is
// an absent facet, which matches any selection.
type FacetValue struct {
	plain     string
	localized *LocalizedName
}

// PlainLabel builds a facet value from a single label
func PlainLabel(label string) FacetValue {
	return FacetValue{plain: strings.TrimSpace(label)}
}

// LocalizedLabel builds a facet value from a structured bilingual name
func LocalizedLabel(name LocalizedName) FacetValue {
	return FacetValue{localized: &name}
}

// IsZero reports whether the facet is absent
func (f FacetValue) IsZero() bool {
	return f.plain == "" && f.localized == nil
}

// IsLocalized reports whether the value carries a structured name
func (f FacetValue) IsLocalized() bool {
	return f.localized != nil
}

// Label reduces the value to a display string for the given language.
// Arabic names are tried in priority order before the non-localized names,
// and the raw value is the last resort.
func (f FacetValue) Label(lang Language) string {
	if f.localized == nil {
		return f.plain
	}
	n := f.localized
	if lang == LanguageArabic {
		for _, s := range []string{n.NameAr, n.AltNameAr, n.DisplayNameAr} {
			if s != "" {
				return s
			}
		}
	}
	if n.Name != "" {
		return n.Name
	}
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.Raw
}

// MarshalJSON writes plain labels as strings and localized names as objects
func (f FacetValue) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	if f.localized == nil {
		return json.Marshal(f.plain)
	}
	n := f.localized
	obj := map[string]string{}
	for key, value := range map[string]string{
		"name":          n.Name,
		"nameAr":        n.NameAr,
		"altNameAr":     n.AltNameAr,
		"displayName":   n.DisplayName,
		"displayNameAr": n.DisplayNameAr,
		"value":         n.Raw,
	} {
		if value != "" {
			obj[key] = value
		}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON accepts a string, a number or an object in any of the shapes
// the catalog has stored over time.
func (f *FacetValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = FacetValue{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = PlainLabel(s)
		return nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		name := LocalizedName{
			Name:          stringField(obj, "name"),
			NameAr:        stringField(obj, "nameAr"),
			AltNameAr:     stringField(obj, "altNameAr", "name_ar", "arabicName"),
			DisplayName:   stringField(obj, "displayName"),
			DisplayNameAr: stringField(obj, "displayNameAr"),
			Raw:           stringField(obj, "value", "raw"),
		}
		if name == (LocalizedName{}) {
			var compact bytes.Buffer
			if err := json.Compact(&compact, data); err != nil {
				return err
			}
			if compact.String() == "{}" {
				return nil
			}
			name.Raw = compact.String()
		}
		*f = LocalizedLabel(name)
		return nil
	default:
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("unsupported facet value %s: %w", string(data), err)
		}
		*f = PlainLabel(number.String())
		return nil
	}
}

// stringField returns the first non-empty key, stringifying numbers
func stringField(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	return ""
}
