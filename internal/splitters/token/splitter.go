// Package token cuts text into fixed windows of whitespace tokens.
package token

import "strings"

// Name is the registry name of the splitter.
const Name = "token"

// DefaultOverlapRatio is the share of each window repeated in the next.
const DefaultOverlapRatio = 0.1

// Splitter produces windows of chunkSize tokens that overlap by a ratio.
type Splitter struct {
	overlapRatio float64
}

// Option configures the token splitter.
type Option func(*Splitter)

// WithOverlapRatio sets the overlap ratio. Values outside [0, 0.5] are ignored.
func WithOverlapRatio(ratio float64) Option {
	return func(s *Splitter) {
		if ratio >= 0 && ratio <= 0.5 {
			s.overlapRatio = ratio
		}
	}
}

// New creates a token splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{overlapRatio: DefaultOverlapRatio}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return Name
}

// Split returns the windows of text.
func (s *Splitter) Split(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 256
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if chunkSize >= len(words) {
		return []string{strings.Join(words, " ")}
	}

	overlap := int(float64(chunkSize) * s.overlapRatio)
	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	chunks := make([]string, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := min(start+chunkSize, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
