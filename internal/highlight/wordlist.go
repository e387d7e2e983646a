package highlight

import (
	"slices"
	"strings"
)

// WordList is an ordered list of distinct words. Its zero value is empty.
// Order decides which palette entry each word is drawn with.
type WordList struct {
	words []string
}

// ParseWordList reads the stored form: words separated by whitespace.
// Repeats after the first occurrence are dropped.
func ParseWordList(s string) WordList {
	var l WordList
	for _, w := range strings.Fields(s) {
		if !l.Contains(w) {
			l.words = append(l.words, w)
		}
	}
	return l
}

// NewWordList builds a list from words, dropping blanks and repeats.
func NewWordList(words ...string) WordList {
	var l WordList
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w != "" && !l.Contains(w) {
			l.words = append(l.words, w)
		}
	}
	return l
}

// String returns the stored form.
func (l WordList) String() string {
	return strings.Join(l.words, " ")
}

// Words returns a copy of the words in order.
func (l WordList) Words() []string {
	return slices.Clone(l.words)
}

// Len returns the number of words.
func (l WordList) Len() int {
	return len(l.words)
}

// Contains reports whether w is in the list. Comparison is case-sensitive.
func (l WordList) Contains(w string) bool {
	return slices.Contains(l.words, w)
}

// Toggle returns the list with w removed if present, appended otherwise, and
// whether w was added. l is not modified.
func (l WordList) Toggle(w string) (WordList, bool) {
	if i := slices.Index(l.words, w); i >= 0 {
		return WordList{words: slices.Delete(slices.Clone(l.words), i, i+1)}, false
	}
	return WordList{words: append(slices.Clone(l.words), w)}, true
}
