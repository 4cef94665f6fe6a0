//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"context"
	"fmt"
	"github.com/e-gun/nlp"
)

//see https://github.com/james-bowman/nlp/blob/26d441fa0ded/lda.go
//DefaultLDA = nlp.LatentDirichletAllocation{
//	Iterations:                    1000,
//	PerplexityTolerance:           1e-2,
//	PerplexityEvaluationFrequency: 30,
//	BatchSize:                     100,
//	K:                             k,
//	BurnInPasses:                  1,
//	TransformationPasses:          500,
//	MeanChangeTolerance:           1e-5,
//	ChangeEvaluationFrequency:     30,
//	Alpha:                         0.1,
//	Eta:                           0.01,
//	...
//	Processes: runtime.GOMAXPROCS(0),
//}

// LDAModeler - topics via Latent Dirichlet Allocation
type LDAModeler struct {
	Settings Settings
}

// Fit - vectorise the docs, model them, and summarize the result
func (l *LDAModeler) Fit(ctx context.Context, docs []string) (model *Model, err error) {
	defer fitguard(&err)

	c, err := prepare(ctx, l.Settings, docs)
	if err != nil {
		return nil, err
	}

	vectoriser := nlp.NewCountVectoriser(c.stops...)

	lda := nlp.NewLatentDirichletAllocation(c.k)
	lda.Processes = l.Settings.Workers
	lda.Iterations = l.Settings.Iterations
	lda.TransformationPasses = max(1, l.Settings.Iterations/2)

	pipeline := nlp.NewPipeline(vectoriser, lda)

	docsOverTopics, err := pipeline.FitTransform(c.docs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	if len(vectoriser.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrInvalidInput)
	}

	topicsOverWords := lda.Components()

	return summarize(l.Settings, docsOverTopics, topicsOverWords, vocabslice(vectoriser.Vocabulary), docs)
}
