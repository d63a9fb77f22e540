// Package i18n negotiates the display language and renders bilingual text.
package i18n

import (
	"fmt"
	"strings"

	"github.com/beanery/storefront/internal/domain"
	"golang.org/x/text/language"
)

// supported tags, English first so it wins ties
var (
	supported = []language.Tag{language.English, language.Arabic}
	matcher   = language.NewMatcher(supported)
)

// Translator picks between English and Arabic strings for one request
type Translator struct {
	lang domain.Language
}

// New creates a translator for a fixed language
func New(lang domain.Language) Translator {
	if lang != domain.LanguageArabic {
		lang = domain.LanguageEnglish
	}
	return Translator{lang: lang}
}

// Negotiate chooses the display language from an explicit ?lang= value,
// then the Accept-Language header, then the fallback.
func Negotiate(explicit, acceptLanguage string, fallback domain.Language) Translator {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			return New(fromTag(tag))
		}
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return New(fromTag(supported[index]))
			}
		}
	}
	return New(fallback)
}

func fromTag(tag language.Tag) domain.Language {
	base, _ := tag.Base()
	if base.String() == "ar" {
		return domain.LanguageArabic
	}
	return domain.LanguageEnglish
}

// Lang returns the active display language
func (t Translator) Lang() domain.Language {
	return t.lang
}

// Pick returns the string for the active language
func (t Translator) Pick(en, ar string) string {
	return Pick(t.lang, en, ar)
}

// Pick returns ar for Arabic when present, otherwise en, falling back to
// whichever of the two is non-empty.
func Pick(lang domain.Language, en, ar string) string {
	if lang == domain.LanguageArabic && ar != "" {
		return ar
	}
	if en != "" {
		return en
	}
	return ar
}

// Notice fills in the localized message of a notice
func (t Translator) Notice(n domain.Notice) domain.Notice {
	msg, ok := messages[n.Code]
	if !ok {
		n.Message = string(n.Code)
		return n
	}
	text := t.Pick(msg.en, msg.ar)
	if strings.Contains(text, "%d") {
		text = fmt.Sprintf(text, n.Count)
	}
	n.Message = text
	return n
}

// Notices localizes a list of notices
func (t Translator) Notices(notices []domain.Notice) []domain.Notice {
	out := make([]domain.Notice, 0, len(notices))
	for _, n := range notices {
		out = append(out, t.Notice(n))
	}
	return out
}
