// Package sentence packs whole sentences into chunks of a token budget.
package sentence

import (
	"regexp"
	"strings"
)

// Name is the registry name of the splitter.
const Name = "sentence"

// DefaultChunkSize is used when callers pass a non-positive size.
const DefaultChunkSize = 256

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// Splitter groups consecutive sentences until adding the next one would
// exceed the chunk size, counted in whitespace separated tokens.
// A sentence longer than the chunk size is cut on token boundaries.
type Splitter struct{}

// New creates a sentence splitter.
func New() *Splitter {
	return &Splitter{}
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return Name
}

// Split returns the chunks of text. Empty text produces no chunks.
func (s *Splitter) Split(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	n := 0
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			n = 0
		}
	}

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) > chunkSize {
			flush()
			for start := 0; start < len(words); start += chunkSize {
				end := min(start+chunkSize, len(words))
				chunks = append(chunks, strings.Join(words[start:end], " "))
			}
			continue
		}
		if n+len(words) > chunkSize {
			flush()
		}
		current = append(current, strings.Join(words, " "))
		n += len(words)
	}
	flush()

	return chunks
}

// Sentences splits text on terminal punctuation. Trailing text without a
// terminator is kept as the last sentence.
func Sentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		if trimmed := strings.TrimSpace(m); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}
