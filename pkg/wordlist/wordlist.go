// Package wordlist holds the vocabularies the classifier is built from.
//
// Every list is loaded once at startup by a Source and never mutated afterwards,
// so a *Lists value can be shared by any number of goroutines without locking.
package wordlist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

var (
	ErrEmptyList     = fmt.Errorf("word list is empty")
	ErrUnknownSource = fmt.Errorf("unknown word list source")
)

// List names as used by the file, postgres and mongo sources.
const (
	Stopwords = "stopwords"
	Positive  = "positive"
	Negative  = "negative"
	Abusive   = "abusive"
	Safe      = "safe"
)

// Source loads the five vocabularies from some storage.
type Source interface {
	Load(ctx context.Context) (*Lists, error)
}

// Set is an immutable set of lowercase terms.
type Set struct {
	terms  map[string]struct{}
	sorted []string
}

// NewSet lowercases and trims every term and drops blank ones.
func NewSet(terms []string) *Set {
	s := Set{terms: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := s.terms[t]; ok {
			continue
		}
		s.terms[t] = struct{}{}
		s.sorted = append(s.sorted, t)
	}
	sort.Strings(s.sorted)

	return &s
}

func (s *Set) Contains(term string) bool {
	if s == nil {
		return false
	}
	_, ok := s.terms[term]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.terms)
}

// Words returns the terms in lexical order. The slice must not be modified.
func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	return s.sorted
}

// Lists is the complete vocabulary of the classifier.
//
// Abusive keeps the source order so the obfuscation patterns are compiled
// deterministically.
type Lists struct {
	Stopwords *Set
	Positive  *Set
	Negative  *Set
	Safe      *Set
	Abusive   []string
}

// New builds Lists from raw term slices keyed by list name.
func New(raw map[string][]string) *Lists {
	return &Lists{
		Stopwords: NewSet(raw[Stopwords]),
		Positive:  NewSet(raw[Positive]),
		Negative:  NewSet(raw[Negative]),
		Safe:      NewSet(raw[Safe]),
		Abusive:   dedupe(raw[Abusive]),
	}
}

// Validate refuses lists that would let the classifier run on empty vocabularies.
// The safe list is the only one allowed to be empty.
func (l *Lists) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: no lists provided", ErrEmptyList)
	}

	checks := []struct {
		name string
		n    int
	}{
		{Stopwords, l.Stopwords.Len()},
		{Positive, l.Positive.Len()},
		{Negative, l.Negative.Len()},
		{Abusive, len(l.Abusive)},
	}
	for _, c := range checks {
		if c.n == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyList, c.name)
		}
	}

	return nil
}

// Parse reads one term per line. Terms are lowercased and trimmed, blank lines
// are skipped and repeated terms keep their first position.
func Parse(r io.Reader) ([]string, error) {
	var terms []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		terms = append(terms, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return dedupe(terms), nil
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
