// Package sentiment labels clean feedback as positive, negative or neutral by
// counting vocabulary hits. Tokens missing from both vocabularies fall back to
// fuzzy matching so that misspellings still count.
package sentiment

import (
	"github.com/pmezard/go-difflib/difflib"

	"feedback/pkg/tokenizer"
	"feedback/pkg/wordlist"
)

const (
	Positive = "Positive"
	Negative = "Negative"
	Neutral  = "Neutral"
)

// DefaultThreshold is the minimal similarity for a fuzzy match.
const DefaultThreshold = 0.8

type Match struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// TokenDetail explains how a single token was scored.
type TokenDetail struct {
	Token         string  `json:"token"`
	Normalized    string  `json:"normalized"`
	ExactPositive bool    `json:"exact_positive"`
	ExactNegative bool    `json:"exact_negative"`
	FuzzyPositive []Match `json:"fuzzy_positive_matches"`
	FuzzyNegative []Match `json:"fuzzy_negative_matches"`
}

type Analysis struct {
	Label         string        `json:"label"`
	PositiveCount int           `json:"positive_count"`
	NegativeCount int           `json:"negative_count"`
	Tokens        []TokenDetail `json:"token_details"`
}

type Scorer struct {
	pos       *wordlist.Set
	neg       *wordlist.Set
	threshold float64
}

type Option func(*Scorer)

// WithThreshold overrides DefaultThreshold.
func WithThreshold(th float64) Option {
	return func(s *Scorer) {
		s.threshold = th
	}
}

func New(pos, neg *wordlist.Set, opts ...Option) *Scorer {
	s := Scorer{pos: pos, neg: neg, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&s)
	}

	return &s
}

// Analyze scores every token. An exact hit in the positive list wins over the
// negative list and suppresses fuzzy matching for that token. A fuzzy token may
// count towards both sides.
func (s *Scorer) Analyze(tokens []string) Analysis {
	a := Analysis{Tokens: make([]TokenDetail, 0, len(tokens))}

	for _, token := range tokens {
		d := s.scoreToken(token)
		switch {
		case d.ExactPositive:
			a.PositiveCount++
		case d.ExactNegative:
			a.NegativeCount++
		default:
			if len(d.FuzzyPositive) > 0 {
				a.PositiveCount++
			}
			if len(d.FuzzyNegative) > 0 {
				a.NegativeCount++
			}
		}
		a.Tokens = append(a.Tokens, d)
	}

	a.Label = Label(a.PositiveCount, a.NegativeCount)
	return a
}

func (s *Scorer) scoreToken(token string) TokenDetail {
	norm := tokenizer.CollapseRepeats(token)
	d := TokenDetail{
		Token:         token,
		Normalized:    norm,
		FuzzyPositive: []Match{},
		FuzzyNegative: []Match{},
	}

	if s.pos.Contains(norm) {
		d.ExactPositive = true
		return d
	}
	if s.neg.Contains(norm) {
		d.ExactNegative = true
		return d
	}

	d.FuzzyPositive = s.fuzzy(norm, s.pos)
	d.FuzzyNegative = s.fuzzy(norm, s.neg)
	return d
}

func (s *Scorer) fuzzy(norm string, set *wordlist.Set) []Match {
	matches := []Match{}
	for _, w := range set.Words() {
		if score := Ratio(norm, w); score >= s.threshold {
			matches = append(matches, Match{Word: w, Score: score})
		}
	}

	return matches
}

// Label resolves the counts; ties, including no hits at all, are neutral.
func Label(pos, neg int) string {
	switch {
	case pos > neg:
		return Positive
	case neg > pos:
		return Negative
	default:
		return Neutral
	}
}

// Ratio is the sequence-matcher similarity of a and b in [0, 1]: twice the
// number of matched characters over the total length. Identical strings score 1.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(split(a), split(b)).Ratio()
}

func split(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
