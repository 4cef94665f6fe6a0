//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"context"
	"fmt"
	"github.com/e-gun/nlp"
	"gonum.org/v1/gonum/mat"
)

// LSAModeler - topics via Latent Semantic Analysis: tf-idf weighting and then a truncated SVD
type LSAModeler struct {
	Settings Settings
}

// Fit - vectorise the docs, factorise them, and summarize the result
func (l *LSAModeler) Fit(ctx context.Context, docs []string) (model *Model, err error) {
	defer fitguard(&err)

	c, err := prepare(ctx, l.Settings, docs)
	if err != nil {
		return nil, err
	}

	vectoriser := nlp.NewCountVectoriser(c.stops...)
	termsOverDocs, err := vectoriser.FitTransform(c.docs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if len(vectoriser.Vocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", ErrInvalidInput)
	}

	// a truncated svd cannot keep more dimensions than the smaller side of the matrix
	k := min(c.k, len(vectoriser.Vocabulary))

	tfidf := nlp.NewTfidfTransformer()
	weighted, err := tfidf.FitTransform(termsOverDocs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	svd := nlp.NewTruncatedSVD(k)
	docsOverTopics, err := svd.FitTransform(weighted)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	// the loadings carry an arbitrary sign: magnitude is what identifies a topic
	var topicsOverWords mat.Matrix = svd.Components
	if r, _ := topicsOverWords.Dims(); r == len(vectoriser.Vocabulary) {
		topicsOverWords = topicsOverWords.T()
	}

	return summarize(l.Settings, absolute(docsOverTopics), absolute(topicsOverWords), vocabslice(vectoriser.Vocabulary), docs)
}
