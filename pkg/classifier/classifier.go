// Package classifier decides whether a feedback text is abusive, clean or
// meaningless, and labels the sentiment of clean feedback.
package classifier

import (
	"fmt"

	"feedback/pkg/models"
	"feedback/pkg/obfuscation"
	"feedback/pkg/sentiment"
	"feedback/pkg/tokenizer"
	"feedback/pkg/trie"
	"feedback/pkg/wordlist"
)

const (
	Abusive     = "Abusive"
	Clean       = "Clean"
	Meaningless = "Please give meaningful feedback"
)

// Detectors reported in models.Reason.
const (
	DetectorTrie    = "trie"
	DetectorPattern = "pattern"
	DetectorEmoji   = "emoji"
)

// abusiveEmoji flags the whole text wherever it appears.
const abusiveEmoji = "🖕"

// Classifier is immutable after New, so a single instance serves concurrent
// requests without locking.
type Classifier struct {
	lists    *wordlist.Lists
	trie     *trie.Trie
	patterns *obfuscation.Set
	scorer   *sentiment.Scorer
}

// New builds the prefix trie and the obfuscation patterns from lists.
// It refuses incomplete vocabularies and words that cannot be compiled.
func New(lists *wordlist.Lists, opts ...sentiment.Option) (*Classifier, error) {
	if err := lists.Validate(); err != nil {
		return nil, err
	}

	patterns, err := obfuscation.Compile(lists.Abusive)
	if err != nil {
		return nil, fmt.Errorf("failed to compile obfuscation patterns: %w", err)
	}

	c := Classifier{
		lists:    lists,
		trie:     trie.New(lists.Abusive...),
		patterns: patterns,
		scorer:   sentiment.New(lists.Positive, lists.Negative, opts...),
	}

	return &c, nil
}

// Classify runs the full pipeline on text. Debug adds the token sequence and
// the per-token sentiment breakdown for clean text, and the detector that
// fired for abusive text.
func (c *Classifier) Classify(text string, debug bool) models.Result {
	tokens := c.Tokenize(text)
	if len(tokens) == 0 {
		return models.Result{Classification: Meaningless}
	}

	if reason, ok := c.abusive(tokens); ok {
		res := models.Result{Classification: Abusive}
		if debug {
			res.Reason = reason
		}
		return res
	}

	analysis := c.scorer.Analyze(tokens)
	res := models.Result{
		Classification: Clean,
		Sentiment:      analysis.Label,
	}
	if debug {
		res.Tokens = tokens
		res.Details = &analysis
	}

	return res
}

// Tokenize applies the classifier's stopword rules to text.
func (c *Classifier) Tokenize(text string) []string {
	return tokenizer.Tokenize(text, c.lists.Stopwords, c.lists.Positive, c.lists.Negative)
}

// abusive walks the tokens in order and stops at the first hit. Safe words are
// exempt from the trie and pattern checks only; they still count for sentiment.
func (c *Classifier) abusive(tokens []string) (*models.Reason, bool) {
	hasEmoji := false
	for _, t := range tokens {
		if t == abusiveEmoji {
			hasEmoji = true
			break
		}
	}

	for _, t := range tokens {
		if c.lists.Safe.Contains(t) {
			continue
		}
		if root, ok := c.trie.PrefixOf(t); ok {
			return &models.Reason{Detector: DetectorTrie, Token: t, Match: root}, true
		}
		if word, ok := c.patterns.Match(t); ok {
			return &models.Reason{Detector: DetectorPattern, Token: t, Match: word}, true
		}
		if hasEmoji {
			return &models.Reason{Detector: DetectorEmoji, Token: abusiveEmoji}, true
		}
	}

	return nil, false
}
