// Package pattern turns a word into a boundary-aware search pattern and
// compiles it.
//
// Patterns use look-behind and look-ahead, which Go's regexp package cannot
// express, so they are compiled with regexp2.
package pattern

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// CJK Unified Ideographs, the range the dictionary segmenter covers.
const (
	unsegmentedFirst = 0x4E00
	unsegmentedLast  = 0x9FD5
)

// IsUnsegmented reports whether r belongs to a script that is written
// without separators between words.
func IsUnsegmented(r rune) bool {
	return r >= unsegmentedFirst && r <= unsegmentedLast
}

// Options controls how Build anchors a word.
type Options struct {
	// WholeWord requires a boundary on each side of the match.
	WholeWord bool
	// Separators are the characters, besides whitespace, that end a word.
	Separators string
}

// Build returns the search pattern for word, or "" for an empty word.
//
// A whole-word pattern accepts a match only when it is preceded and followed
// by the buffer edge, whitespace, a separator, or any non-ASCII character.
// A side whose edge character is unsegmented script gets no assertion at
// all: next to another ideograph is a legitimate boundary there.
func Build(word string, opts Options) string {
	if word == "" {
		return ""
	}

	literal := regexp2.Escape(word)
	if !opts.WholeWord {
		return literal
	}

	class := escapeClass(opts.Separators)
	left := fmt.Sprintf(`(?<=\A|[\s%s]|[^\u0001-\u007f])`, class)
	right := fmt.Sprintf(`(?=\z|[\s%s]|[^\u0001-\u007f])`, class)

	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)
	if IsUnsegmented(first) {
		left = ""
	}
	if IsUnsegmented(last) {
		right = ""
	}

	return left + literal + right
}

// escapeClass renders separators for use inside a character class.
// Whitespace is dropped because the class already has \s. ASCII punctuation
// is backslash-escaped; word characters must stay bare because regexp2
// rejects escapes like \_ and \q.
func escapeClass(separators string) string {
	var b strings.Builder
	for _, r := range separators {
		switch {
		case unicode.IsSpace(r):
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04X`, r)
		case r < utf8.RuneSelf && !isWordRune(r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
