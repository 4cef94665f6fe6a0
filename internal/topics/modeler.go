//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

// Package topics wraps the nlp library's topic models behind a single Modeler interface.
//
// Two models are on offer: Latent Dirichlet Allocation (the default) and Latent Semantic
// Analysis (tf-idf followed by a truncated SVD). Both hand back the same Model: one topic id per
// document plus a summary table whose rows are sorted by size so that topic 0 is the largest.
package topics

import (
	"context"
	"errors"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/gen"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

var (
	ErrInvalidInput  = errors.New("invalid input for the topic model")
	ErrNoConvergence = errors.New("topic model failed to converge")
	ErrUnknownModel  = errors.New("unknown topic model")
)

// termfinder - what the nlp CountVectoriser counts as a term
var termfinder = regexp.MustCompile(`[\p{L}]+`)

// Modeler - anything that can turn a slice of cleaned documents into topics
type Modeler interface {
	Fit(ctx context.Context, docs []string) (*Model, error)
}

// Settings - knobs shared by every Modeler
type Settings struct {
	Kind                   string
	Language               string
	NumTopics              int
	CalculateProbabilities bool
	TopWords               int
	RepresentativeDocs     int
	Iterations             int
	Workers                int
}

// TopicInfo - one row of the summary table
type TopicInfo struct {
	Topic              int
	Count              int
	Name               string
	Representation     []string
	Weights            []float64
	RepresentativeDocs []string
	Share              float64 // accumulated weight of the topic scaled against the heaviest topic
}

// Model - the output of a Fit
type Model struct {
	Kind          string
	Assignments   []int
	Info          []TopicInfo
	Probabilities [][]float64
	Vocabulary    int
}

// DefaultSettings - the values a fresh launch will use
func DefaultSettings() Settings {
	return Settings{
		Kind:                   vv.DEFAULTMODEL,
		Language:               vv.DEFAULTMODELLANGUAGE,
		NumTopics:              vv.NUMBEROFTOPICS,
		CalculateProbabilities: false,
		TopWords:               vv.TOPICWORDS,
		RepresentativeDocs:     vv.REPRESENTATIVEDOCS,
		Iterations:             vv.LDAITERATIONS,
		Workers:                1,
	}
}

// New - pick a Modeler by kind
func New(s Settings) (Modeler, error) {
	if s.Language == "" {
		s.Language = vv.DEFAULTMODELLANGUAGE
	}
	if !slices.Contains(vv.ModelLanguages, s.Language) {
		return nil, fmt.Errorf("%w: language %q", ErrUnknownModel, s.Language)
	}

	d := DefaultSettings()
	if s.NumTopics < 1 {
		s.NumTopics = d.NumTopics
	}
	if s.TopWords < 1 {
		s.TopWords = d.TopWords
	}
	if s.RepresentativeDocs < 1 {
		s.RepresentativeDocs = d.RepresentativeDocs
	}
	if s.Iterations < 1 {
		s.Iterations = d.Iterations
	}
	if s.Workers < 1 {
		s.Workers = d.Workers
	}

	switch s.Kind {
	case "lda", "":
		s.Kind = "lda"
		return &LDAModeler{Settings: s}, nil
	case "lsa":
		return &LSAModeler{Settings: s}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, s.Kind)
	}
}

// stripmarks - drop free-standing combining marks so that "كَتَبَ" and "كتب" count as the same term
func stripmarks(docs []string) []string {
	// NFC first: precomposed letters like "أ" or "é" keep their marks
	t := transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Mn)))
	stripped := make([]string, len(docs))
	for i, d := range docs {
		s, _, err := transform.String(t, d)
		if err != nil {
			s = d
		}
		stripped[i] = s
		t.Reset()
	}
	return stripped
}

// vocabsize - how many distinct terms the vectoriser will see once the stop words are gone
func vocabsize(docs []string, stops map[string]struct{}) int {
	seen := make(map[string]struct{})
	for _, d := range docs {
		for _, w := range termfinder.FindAllString(strings.ToLower(d), -1) {
			if _, s := stops[w]; s {
				continue
			}
			seen[w] = struct{}{}
		}
	}
	return len(seen)
}

// corpus - the documents as the vectoriser will see them
type corpus struct {
	docs  []string
	stops []string
	k     int
}

// prepare - shared checks and massaging before either model runs
func prepare(ctx context.Context, s Settings, docs []string) (*corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(docs) < 2 {
		return nil, fmt.Errorf("%w: %d documents", ErrInvalidInput, len(docs))
	}

	stopset := StopSet(s.Language)
	prepped := stripmarks(docs)

	vs := vocabsize(prepped, stopset)
	if vs == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary; perhaps every term is a stop word", ErrInvalidInput)
	}

	c := &corpus{
		docs:  prepped,
		stops: gen.StringMapKeysIntoSlice(stopset),
		k:     min(s.NumTopics, len(docs), vs),
	}
	return c, nil
}

// fitguard - turn a library panic into an error
func fitguard(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("topic model failed: %v", r)
	}
}
