// Package casing converts component and member names between naming styles.
package casing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func title(word string) string {
	return cases.Title(language.Und, cases.NoLower).String(word)
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_'
}

// UpperCamel upper-cases the first letter and removes '-' and '_'
// separators, upper-casing the letter that follows each one.
//
//	my-component -> MyComponent
//	user_profile -> UserProfile
func UpperCamel(s string) string {
	var sb strings.Builder

	for _, word := range strings.FieldsFunc(s, isSeparator) {
		sb.WriteString(title(word))
	}

	return sb.String()
}

// WatchSuffix drops the sigil prefix, splits on '.' and upper-camel-cases
// each part: "$route.query" becomes "RouteQuery".
func WatchSuffix(key, sigil string) string {
	key = strings.TrimPrefix(key, sigil)

	var sb strings.Builder

	for _, part := range strings.Split(key, ".") {
		sb.WriteString(UpperCamel(part))
	}

	return sb.String()
}

// LowerCamel is UpperCamel with a lower-case first letter.
func LowerCamel(s string) string {
	upper := UpperCamel(s)
	if upper == "" {
		return ""
	}

	return strings.ToLower(upper[:1]) + upper[1:]
}
