package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacetValueLabel(t *testing.T) {
	tests := []struct {
		name  string
		value FacetValue
		lang  Language
		want  string
	}{
		{"plain label ignores language", PlainLabel(" 250g "), LanguageArabic, "250g"},
		{"arabic prefers nameAr", LocalizedLabel(LocalizedName{Name: "Cardamom", NameAr: "هيل", AltNameAr: "حبهان"}), LanguageArabic, "هيل"},
		{"arabic falls back to alternate name", LocalizedLabel(LocalizedName{Name: "Cardamom", AltNameAr: "حبهان"}), LanguageArabic, "حبهان"},
		{"arabic falls back to english", LocalizedLabel(LocalizedName{Name: "Cardamom"}), LanguageArabic, "Cardamom"},
		{"english ignores arabic names", LocalizedLabel(LocalizedName{Name: "Cardamom", NameAr: "هيل"}), LanguageEnglish, "Cardamom"},
		{"display name before raw", LocalizedLabel(LocalizedName{DisplayName: "Saffron", Raw: "saffron-01"}), LanguageEnglish, "Saffron"},
		{"raw is last resort", LocalizedLabel(LocalizedName{Raw: "saffron-01"}), LanguageEnglish, "saffron-01"},
		{"absent facet", FacetValue{}, LanguageEnglish, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Label(tt.lang))
		})
	}
}

func TestFacetValueUnmarshal(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var v FacetValue
		require.NoError(t, json.Unmarshal([]byte(`"Ethiopian"`), &v))
		assert.False(t, v.IsLocalized())
		assert.Equal(t, "Ethiopian", v.Label(LanguageEnglish))
	})

	t.Run("number", func(t *testing.T) {
		var v FacetValue
		require.NoError(t, json.Unmarshal([]byte(`500`), &v))
		assert.Equal(t, "500", v.Label(LanguageEnglish))
	})

	t.Run("null and empty object are absent", func(t *testing.T) {
		for _, input := range []string{`null`, `{}`} {
			var v FacetValue
			require.NoError(t, json.Unmarshal([]byte(input), &v))
			assert.True(t, v.IsZero(), input)
		}
	})

	t.Run("localized object with legacy arabic key", func(t *testing.T) {
		var v FacetValue
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Cardamom","name_ar":"هيل"}`), &v))
		assert.True(t, v.IsLocalized())
		assert.Equal(t, "هيل", v.Label(LanguageArabic))
		assert.Equal(t, "Cardamom", v.Label(LanguageEnglish))
	})

	t.Run("unknown object keeps its raw form", func(t *testing.T) {
		var v FacetValue
		require.NoError(t, json.Unmarshal([]byte(`{ "code": 7 }`), &v))
		assert.Equal(t, `{"code":7}`, v.Label(LanguageEnglish))
	})

	t.Run("arrays are rejected", func(t *testing.T) {
		var v FacetValue
		assert.Error(t, json.Unmarshal([]byte(`["a"]`), &v))
	})
}

func TestFacetValueMarshalKeepsShape(t *testing.T) {
	variant := struct {
		Weight    FacetValue `json:"weight"`
		Additions FacetValue `json:"additions"`
		Beans     FacetValue `json:"beans"`
	}{
		Weight:    PlainLabel("1kg"),
		Additions: LocalizedLabel(LocalizedName{Name: "Cardamom", NameAr: "هيل"}),
	}

	data, err := json.Marshal(variant)
	require.NoError(t, err)
	assert.JSONEq(t, `{"weight":"1kg","additions":{"name":"Cardamom","nameAr":"هيل"},"beans":null}`, string(data))
}
