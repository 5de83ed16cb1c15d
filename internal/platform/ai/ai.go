// Package ai holds the text-generation contract shared by every model backend
// and the helpers for pulling structured data out of free-form model output.
package ai

import (
	"context"
	"errors"
	"strings"
)

// Generator is the single operation the wiki needs from a language model.
type Generator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, system, user string) (string, error)

func (f GeneratorFunc) GenerateText(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

var ErrNoJSON = errors.New("no json found in model output")

// ExtractJSON returns the first balanced substring opened by open ('{' or '[').
// Brackets inside JSON string literals are ignored.
func ExtractJSON(text string, open byte) (string, error) {
	var closeCh byte
	switch open {
	case '{':
		closeCh = '}'
	case '[':
		closeCh = ']'
	default:
		return "", errors.New("open must be '{' or '['")
	}

	for start := strings.IndexByte(text, open); start >= 0; {
		if end := matchBalanced(text, start, open, closeCh); end > start {
			return text[start : end+1], nil
		}
		next := strings.IndexByte(text[start+1:], open)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSON
}

func matchBalanced(text string, start int, open, closeCh byte) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
