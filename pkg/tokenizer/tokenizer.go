// Package tokenizer splits raw feedback into tokens.
//
// Censor symbols stay attached to the word they hide, so "f***" is a single
// token, and emoji from the emoticon and pictograph blocks are tokens of their own.
package tokenizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"feedback/pkg/wordlist"
)

var tokenRe = regexp.MustCompile(`[a-z0-9@#*$%&^_]+|[\x{1F600}-\x{1F64F}]|[\x{1F300}-\x{1F5FF}]`)

// Tokenize lowercases text and extracts its tokens in order. Stopwords are
// dropped unless they are also positive or negative words.
// An empty result means the text carries nothing to classify.
//
// Combining marks are left in place and act as separators, so "fuck\u0301"
// still yields "fuck".
func Tokenize(text string, stop, pos, neg *wordlist.Set) []string {
	// A Caser keeps state between calls and is not safe to share.
	text = strings.TrimSpace(cases.Lower(language.Und).String(text))
	if text == "" {
		return []string{}
	}

	raw := tokenRe.FindAllString(text, -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if stop.Contains(t) && !pos.Contains(t) && !neg.Contains(t) {
			continue
		}
		tokens = append(tokens, t)
	}

	return tokens
}

// CollapseRepeats keeps at most two consecutive copies of any character,
// so "goooood" becomes "good" and "sooo" becomes "soo".
func CollapseRepeats(s string) string {
	if s == "" {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	var prev rune
	count := 0
	for i, r := range s {
		if i > 0 && r == prev {
			count++
		} else {
			prev = r
			count = 1
		}
		if count <= 2 {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
