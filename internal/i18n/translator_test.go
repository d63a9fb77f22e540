package i18n

import (
	"testing"

	"github.com/beanery/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		accept   string
		fallback domain.Language
		want     domain.Language
	}{
		{"explicit arabic", "ar", "en-US", domain.LanguageEnglish, domain.LanguageArabic},
		{"explicit regional arabic", "ar-SA", "", domain.LanguageEnglish, domain.LanguageArabic},
		{"accept-language arabic", "", "ar-EG,ar;q=0.9,en;q=0.8", domain.LanguageEnglish, domain.LanguageArabic},
		{"accept-language english", "", "en-GB,en;q=0.9", domain.LanguageArabic, domain.LanguageEnglish},
		{"unsupported language uses fallback", "", "fr-FR", domain.LanguageArabic, domain.LanguageArabic},
		{"invalid explicit uses header", "??", "ar", domain.LanguageEnglish, domain.LanguageArabic},
		{"nothing given", "", "", domain.LanguageEnglish, domain.LanguageEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Negotiate(tt.explicit, tt.accept, tt.fallback)
			assert.Equal(t, tt.want, got.Lang())
		})
	}
}

func TestPick(t *testing.T) {
	assert.Equal(t, "قهوة", Pick(domain.LanguageArabic, "Coffee", "قهوة"))
	assert.Equal(t, "Coffee", Pick(domain.LanguageArabic, "Coffee", ""))
	assert.Equal(t, "Coffee", Pick(domain.LanguageEnglish, "Coffee", "قهوة"))
	assert.Equal(t, "قهوة", Pick(domain.LanguageEnglish, "", "قهوة"))
}

func TestNotice(t *testing.T) {
	t.Run("formats the stock count", func(t *testing.T) {
		n := New(domain.LanguageEnglish).Notice(domain.Notice{Code: domain.NoticeInsufficientStock, Count: 3})
		assert.Equal(t, "Only 3 left in stock", n.Message)
	})

	t.Run("renders arabic", func(t *testing.T) {
		n := New(domain.LanguageArabic).Notice(domain.Notice{Code: domain.NoticeOutOfStock})
		assert.Equal(t, "غير متوفر في المخزون", n.Message)
	})

	t.Run("unknown code falls back to the code", func(t *testing.T) {
		n := New(domain.LanguageEnglish).Notice(domain.Notice{Code: "mystery"})
		assert.Equal(t, "mystery", n.Message)
	})
}
