package splitters

import (
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/splitters/character"
	"github.com/mhsabu/Neugrove/internal/splitters/sentence"
	"github.com/mhsabu/Neugrove/internal/splitters/token"
)

// RegisterDefaults registers all built-in splitters with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(sentence.Name, buildSentence)
	r.Register(token.Name, buildToken)
	r.Register(character.Name, buildCharacter)
}

// NewDefaultRegistry returns a registry with the built-in splitters, eagerly
// built so Get never writes after startup.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	for _, name := range r.Names() {
		_, _ = r.Get(name)
	}
	return r
}

func buildSentence(_ map[string]any) (driven.Splitter, error) {
	return sentence.New(), nil
}

// buildToken creates a token splitter from generic config.
// Supported config keys:
//   - overlap_ratio (float): Fraction of each window repeated in the next (default: 0.1)
func buildToken(cfg map[string]any) (driven.Splitter, error) {
	var opts []token.Option
	if ratio, ok := getFloatFromConfig(cfg, "overlap_ratio"); ok {
		opts = append(opts, token.WithOverlapRatio(ratio))
	}
	return token.New(opts...), nil
}

// buildCharacter creates a character splitter from generic config.
// Supported config keys:
//   - chars_per_token (int): Characters counted per token (default: 4)
//   - overlap_ratio (float): Fraction of each window repeated in the next (default: 0.1)
func buildCharacter(cfg map[string]any) (driven.Splitter, error) {
	var opts []character.Option
	if n := getIntFromConfig(cfg, "chars_per_token"); n > 0 {
		opts = append(opts, character.WithCharsPerToken(n))
	}
	if ratio, ok := getFloatFromConfig(cfg, "overlap_ratio"); ok {
		opts = append(opts, character.WithOverlapRatio(ratio))
	}
	return character.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func getFloatFromConfig(cfg map[string]any, key string) (float64, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
