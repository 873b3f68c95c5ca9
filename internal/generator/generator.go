// Package generator builds typing text sequences.
package generator

import (
	"fmt"
	"math/rand"
	"time"
	"unicode"

	"github.com/verte-zerg/rtyping/internal/model"
)

// Options controls word decoration.
type Options struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand overrides the random source.
func WithRand(rnd *rand.Rand) Option {
	return func(g *Generator) {
		g.rnd = rnd
	}
}

// WithOptions sets capitalization and punctuation rules.
func WithOptions(opts Options) Option {
	return func(g *Generator) {
		g.opts = opts
	}
}

// Generator produces randomized typing text from a dictionary.
type Generator struct {
	words []string
	opts  Options
	rnd   *rand.Rand
}

// New returns a Generator over words, seeded with the current time.
func New(words []string, opts ...Option) *Generator {
	g := &Generator{
		words: words,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate selects count words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: word count must be > 0, got %d", model.ErrConfig, count)
	}
	if len(g.words) == 0 {
		return nil, fmt.Errorf("%w: dictionary is empty", model.ErrConfig)
	}
	result := make([]string, 0, count)
	for len(result) < count {
		word := g.words[g.rnd.Intn(len(g.words))]
		if word == "" {
			continue
		}
		word = applyCaps(g.rnd, word, g.opts.CapsPct)
		word = applyPunct(g.rnd, word, g.opts.PunctPct, g.opts.PunctSet)
		result = append(result, word)
	}
	return result, nil
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
