package applier

import (
	"strings"
	"unicode"

	apperrors "github.com/applypilot/applypilot/internal/errors"
)

// Language identifies a supported description language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Marker words that rarely appear in the other language. Detection commits
// to a language only on at least three matches and a majority; anything else
// fails closed.
var (
	spanishMarkers = markerSet("el", "la", "los", "las", "un", "una", "unos", "unas",
		"trabajo", "años", "experiencia", "desarrollador",
		"empresa", "requisitos", "conocimientos")

	englishMarkers = markerSet("the", "we", "are", "is", "our", "you", "will",
		"requirements", "experience", "skills", "job",
		"responsibilities", "must", "have")
)

const minMarkerMatches = 3

func markerSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// DetectLanguage decides whether a description is English or Spanish by
// marker-word frequency. When neither language wins it returns a
// LanguageDetection error so the caller aborts the upload step instead of
// guessing.
func DetectLanguage(text string) (Language, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	var english, spanish int
	for _, w := range words {
		if _, ok := englishMarkers[w]; ok {
			english++
		}
		if _, ok := spanishMarkers[w]; ok {
			spanish++
		}
	}

	switch {
	case spanish > english && spanish >= minMarkerMatches:
		return LanguageSpanish, nil
	case english > spanish && english >= minMarkerMatches:
		return LanguageEnglish, nil
	default:
		return "", apperrors.LanguageDetection(
			"description language is not supported; only English and Spanish are supported")
	}
}

// resumeFilename returns the pre-built resume filename for a language.
func resumeFilename(lang Language) string {
	if lang == LanguageSpanish {
		return "cv_esp.pdf"
	}
	return "cv_eng.pdf"
}
