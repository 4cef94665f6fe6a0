//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

// Package analysis runs one analyze request: column -> clean -> filter -> count check -> model -> empty check.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"github.com/e-gun/CSVTopicServer/internal/clean"
	"github.com/e-gun/CSVTopicServer/internal/ingest"
	"github.com/e-gun/CSVTopicServer/internal/topics"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"time"
)

var (
	ErrInsufficientTexts = errors.New("not enough valid texts")
	ErrNoTopics          = errors.New("no topics found")
)

// InsufficientTextsError - carries the numbers behind an ErrInsufficientTexts
type InsufficientTextsError struct {
	Valid int
	Need  int
}

func (e *InsufficientTextsError) Error() string {
	return fmt.Sprintf("%s: %d valid texts; need at least %d", ErrInsufficientTexts, e.Valid, e.Need)
}

func (e *InsufficientTextsError) Is(target error) bool {
	return target == ErrInsufficientTexts
}

// Stage - where a run is right now
type Stage string

const (
	StageColumn  Stage = "column"
	StageMissing Stage = "missing"
	StageClean   Stage = "clean"
	StageFilter  Stage = "filter"
	StageModel   Stage = "model"
	StageSummary Stage = "summary"
	StageDone    Stage = "done"
)

// Reporter - hears about each stage as it begins
type Reporter interface {
	Report(stage Stage, detail string)
}

// ReporterFunc - lets a plain function be a Reporter
type ReporterFunc func(stage Stage, detail string)

func (f ReporterFunc) Report(stage Stage, detail string) { f(stage, detail) }

type silent struct{}

func (silent) Report(Stage, string) {}

// Options - settings for a run
type Options struct {
	MinValidTexts int
}

// Result - everything a successful run produced
type Result struct {
	Column     string
	TotalRows  int
	NonMissing int
	Valid      int
	Texts      []string
	Model      *topics.Model
	Elapsed    time.Duration
}

// Run - execute the pipeline against one column of a Dataset
func Run(ctx context.Context, ds *ingest.Dataset, column string, m topics.Modeler, opt Options, rep Reporter) (*Result, error) {
	start := time.Now()

	if rep == nil {
		rep = silent{}
	}
	if opt.MinValidTexts < 1 {
		opt.MinValidTexts = vv.MINVALIDTEXTS
	}

	rep.Report(StageColumn, column)
	vals, err := ds.Column(column)
	if err != nil {
		return nil, err
	}

	// ds.Column() has already dropped the missing values
	rep.Report(StageMissing, fmt.Sprintf("%d of %d rows have a value", len(vals), len(ds.Rows)))

	rep.Report(StageClean, fmt.Sprintf("%d values", len(vals)))
	texts := make([]string, 0, len(vals))
	for _, v := range vals {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		c := clean.Clean(v)
		if clean.Valid(c) {
			texts = append(texts, c)
		}
	}

	rep.Report(StageFilter, fmt.Sprintf("%d valid texts", len(texts)))
	if len(texts) < opt.MinValidTexts {
		return nil, &InsufficientTextsError{Valid: len(texts), Need: opt.MinValidTexts}
	}

	rep.Report(StageModel, fmt.Sprintf("%d texts", len(texts)))
	model, err := m.Fit(ctx, texts)
	if err != nil {
		return nil, err
	}

	rep.Report(StageSummary, fmt.Sprintf("%d topics", len(model.Info)))
	if len(model.Info) == 0 {
		return nil, ErrNoTopics
	}

	res := &Result{
		Column:     column,
		TotalRows:  len(ds.Rows),
		NonMissing: len(vals),
		Valid:      len(texts),
		Texts:      texts,
		Model:      model,
		Elapsed:    time.Since(start),
	}

	rep.Report(StageDone, res.Elapsed.Round(time.Millisecond).String())
	return res, nil
}
