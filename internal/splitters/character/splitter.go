// Package character provides a fixed-size character window splitter.
package character

import "strings"

// Name is the registry name of the splitter.
const Name = "character"

// DefaultCharsPerToken converts the token budget to characters.
const DefaultCharsPerToken = 4

// DefaultOverlapRatio is the share of each window repeated in the next.
const DefaultOverlapRatio = 0.1

// Splitter splits text into windows of chunkSize*charsPerToken runes.
type Splitter struct {
	charsPerToken int
	overlapRatio  float64
}

// Option configures the character splitter.
type Option func(*Splitter)

// WithCharsPerToken sets how many characters count as one token.
func WithCharsPerToken(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.charsPerToken = n
		}
	}
}

// WithOverlapRatio sets the overlap between windows.
func WithOverlapRatio(ratio float64) Option {
	return func(s *Splitter) {
		if ratio >= 0 && ratio <= 0.5 {
			s.overlapRatio = ratio
		}
	}
}

// New creates a new character splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		charsPerToken: DefaultCharsPerToken,
		overlapRatio:  DefaultOverlapRatio,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return Name
}

// Split cuts text into rune windows. Windows never split a UTF-8 sequence.
func (s *Splitter) Split(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 256
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	// A budget of at least one rune per character can hold the whole text.
	if chunkSize >= len(runes) {
		return []string{string(runes)}
	}
	size := min(chunkSize*s.charsPerToken, len(runes))
	overlap := int(float64(size) * s.overlapRatio)
	step := size - overlap
	if step <= 0 {
		step = size
	}

	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
