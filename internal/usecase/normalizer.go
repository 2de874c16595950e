package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/adega/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// stopWords are Portuguese prepositions and articles that never help ranking
var stopWords = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"para": true, "por": true, "com": true, "sem": true,
	"e": true, "a": true, "o": true,
}

// removeDiacritics decomposes the text and drops combining marks ("latão" -> "latao").
// A transform chain keeps internal state, so one is built per call.
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Normalize strips diacritics, lowercases, replaces anything outside [a-z0-9 ]
// with a space and collapses whitespace. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	result := strings.ToLower(removeDiacritics(text))
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Tokenize normalizes text and splits it into tokens, dropping stop words.
// Duplicates and order are kept.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	words := strings.Split(normalized, " ")
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// UniqueTokens deduplicates tokens into a set
func UniqueTokens(tokens []string) domain.TokenSet {
	return domain.NewTokenSet(tokens...)
}

// IsStopWord reports whether a normalized word is filtered by Tokenize
func IsStopWord(word string) bool {
	return stopWords[word]
}
