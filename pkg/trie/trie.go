// Package trie implements the prefix tree used to spot abusive roots at the
// start of a token.
package trie

import "unicode/utf8"

type node struct {
	children map[rune]*node
	isEnd    bool
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Trie is not safe for concurrent Insert, but once built any number of
// goroutines may query it.
type Trie struct {
	root *node
	size int
}

// New returns a trie holding words.
func New(words ...string) *Trie {
	t := Trie{root: newNode()}
	for _, w := range words {
		t.Insert(w)
	}

	return &t
}

// Insert adds word along its character path and marks the last node as a word end.
func (t *Trie) Insert(word string) {
	if word == "" {
		return
	}

	cur := t.root
	for _, r := range word {
		next, ok := cur.children[r]
		if !ok {
			next = newNode()
			cur.children[r] = next
		}
		cur = next
	}
	if !cur.isEnd {
		t.size++
	}
	cur.isEnd = true
}

// Len reports the number of distinct words stored.
func (t *Trie) Len() int {
	return t.size
}

// HasPrefixOf reports whether some stored word is a prefix of token, e.g.
// "chut" for "chutiya". It runs in O(len(token)).
func (t *Trie) HasPrefixOf(token string) bool {
	_, ok := t.PrefixOf(token)
	return ok
}

// PrefixOf returns the shortest stored word that prefixes token.
func (t *Trie) PrefixOf(token string) (string, bool) {
	cur := t.root
	for i, r := range token {
		next, ok := cur.children[r]
		if !ok {
			return "", false
		}
		cur = next
		if cur.isEnd {
			_, size := utf8.DecodeRuneInString(token[i:])
			return token[:i+size], true
		}
	}

	return "", false
}
