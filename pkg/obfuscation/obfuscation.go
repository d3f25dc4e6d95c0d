// Package obfuscation builds matchers for symbol-substituted spellings of
// abusive words such as "f**k" or "m@d@r".
//
// Every word gets one pattern that keeps its first and last characters literal
// and lets each middle character be replaced by one or more obfuscation symbols.
// A pattern must match the whole token, which keeps the symbol wildcards from
// firing inside longer innocent words.
package obfuscation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// symbols is the class of characters accepted in place of a middle letter.
const symbols = `[*#x@$%&^!]+`

// separators tolerates filler before the middle section and before the last letter.
const separators = `[\W_]*`

// ErrInvalidWord is returned for words that cannot be turned into a pattern.
var ErrInvalidWord = fmt.Errorf("invalid abusive word")

// Pattern returns the expression source for word.
func Pattern(word string) (string, error) {
	if word == "" {
		return "", fmt.Errorf("%w: empty word", ErrInvalidWord)
	}
	if !utf8.ValidString(word) {
		return "", fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidWord, word)
	}

	runes := []rune(word)
	first, last := runes[0], runes[len(runes)-1]

	var middle strings.Builder
	if len(runes) > 2 {
		for _, r := range runes[1 : len(runes)-1] {
			fmt.Fprintf(&middle, "(?:%s|%s)+", regexp.QuoteMeta(string(r)), symbols)
		}
	}

	return fmt.Sprintf("(?i)^%s(?:%s%s)?%s%s$",
		regexp.QuoteMeta(string(first)),
		separators,
		middle.String(),
		separators,
		regexp.QuoteMeta(string(last)),
	), nil
}

type matcher struct {
	word string
	re   *regexp.Regexp
}

// Set holds one compiled matcher per abusive word, in list order.
// It is read-only after Compile and safe for concurrent use.
type Set struct {
	matchers []matcher
}

// Compile builds a matcher for each word. Any word that cannot be turned into
// a valid pattern fails the whole set.
func Compile(words []string) (*Set, error) {
	s := Set{matchers: make([]matcher, 0, len(words))}
	for _, w := range words {
		src, err := Pattern(w)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to compile pattern %q: %v", ErrInvalidWord, src, err)
		}
		s.matchers = append(s.matchers, matcher{word: w, re: re})
	}

	return &s, nil
}

// Len returns the number of compiled patterns.
func (s *Set) Len() int {
	return len(s.matchers)
}

// Match returns the first abusive word whose pattern matches the entire token.
func (s *Set) Match(token string) (string, bool) {
	for _, m := range s.matchers {
		if m.re.MatchString(token) {
			return m.word, true
		}
	}

	return "", false
}
