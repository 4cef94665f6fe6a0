//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"context"
	"errors"
	"github.com/e-gun/CSVTopicServer/internal/clean"
	"github.com/e-gun/CSVTopicServer/internal/vv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

var twosubjects = []string{
	"الطعام لذيذ في المطعم الجديد",
	"أحب الطعام الشهي والأرز واللحم",
	"المطعم يقدم الطعام والحلويات",
	"الطبخ في المطبخ يحتاج الطعام الطازج",
	"وجبة الغداء في المطعم كانت لذيذة",
	"فريق كرة القدم فاز بالمباراة",
	"اللاعب سجل هدفا في المباراة",
	"الرياضة مفيدة واللاعب يتدرب يوميا",
	"مباراة كرة القدم كانت حماسية",
	"الفريق يتدرب في الملعب قبل المباراة",
}

func cleaned(docs []string) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = clean.Clean(d)
	}
	return out
}

func TestNew(t *testing.T) {
	m, err := New(Settings{})
	require.NoError(t, err)
	lda, ok := m.(*LDAModeler)
	require.True(t, ok)
	assert.Equal(t, "lda", lda.Settings.Kind)
	assert.Equal(t, vv.DEFAULTMODELLANGUAGE, lda.Settings.Language)
	assert.Equal(t, vv.NUMBEROFTOPICS, lda.Settings.NumTopics)
	assert.Equal(t, vv.TOPICWORDS, lda.Settings.TopWords)

	m, err = New(Settings{Kind: "lsa", Language: "english", NumTopics: 4})
	require.NoError(t, err)
	lsa, ok := m.(*LSAModeler)
	require.True(t, ok)
	assert.Equal(t, 4, lsa.Settings.NumTopics)

	_, err = New(Settings{Kind: "bertopic"})
	assert.ErrorIs(t, err, ErrUnknownModel)

	_, err = New(Settings{Language: "klingon"})
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestSummarize(t *testing.T) {
	dot := mat.NewDense(3, 4, []float64{
		0.1, 0.1, 0.8, 0.2,
		0.8, 0.7, 0.1, 0.7,
		0.1, 0.2, 0.1, 0.1,
	})
	tow := mat.NewDense(3, 5, []float64{
		0.9, 0.1, 0.1, 0.1, 0.1,
		0.1, 0.5, 0.2, 0.9, 0.3,
		0.2, 0.2, 0.2, 0.2, 0.2,
	})
	vocab := []string{"aa", "bb", "cc", "dd", "ee"}
	docs := []string{"alpha", "beta", "gamma", "alpha"}

	s := Settings{Kind: "lda", TopWords: 3, RepresentativeDocs: 3, CalculateProbabilities: true}
	m, err := summarize(s, dot, tow, vocab, docs)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 0}, m.Assignments)
	require.Len(t, m.Info, 2)

	big := m.Info[0]
	assert.Equal(t, 0, big.Topic)
	assert.Equal(t, 3, big.Count)
	assert.Equal(t, "0_dd_bb_ee", big.Name)
	assert.Equal(t, []string{"dd", "bb", "ee"}, big.Representation)
	assert.Equal(t, []float64{0.9, 0.5, 0.3}, big.Weights)
	assert.Equal(t, []string{"alpha", "beta"}, big.RepresentativeDocs)
	assert.InDelta(t, 1.0, big.Share, 1e-9)

	small := m.Info[1]
	assert.Equal(t, 1, small.Topic)
	assert.Equal(t, 1, small.Count)
	assert.Equal(t, "1_aa_bb_cc", small.Name)
	assert.Equal(t, []string{"gamma"}, small.RepresentativeDocs)
	assert.InDelta(t, 1.2/2.3, small.Share, 1e-9)

	require.Len(t, m.Probabilities, 4)
	assert.InDelta(t, 0.8/0.9, m.Probabilities[0][0], 1e-9)
	assert.InDelta(t, 0.1/0.9, m.Probabilities[0][1], 1e-9)
	assert.Equal(t, 5, m.Vocabulary)
}

func TestSummarizeWithoutProbabilities(t *testing.T) {
	dot := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	tow := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	m, err := summarize(Settings{TopWords: 10, RepresentativeDocs: 3}, dot, tow, []string{"xx", "yy"}, []string{"xx", "yy"})
	require.NoError(t, err)
	assert.Nil(t, m.Probabilities)
	assert.Len(t, m.Info[0].Representation, 2)
}

func TestSummarizeRejectsNaN(t *testing.T) {
	dot := mat.NewDense(2, 2, []float64{math.NaN(), 0, 0, 1})
	tow := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	_, err := summarize(Settings{TopWords: 2}, dot, tow, []string{"xx", "yy"}, []string{"xx", "yy"})
	assert.ErrorIs(t, err, ErrNoConvergence)

	dot = mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	tow = mat.NewDense(2, 2, []float64{math.Inf(1), 0, 0, 1})
	_, err = summarize(Settings{TopWords: 2}, dot, tow, []string{"xx", "yy"}, []string{"xx", "yy"})
	assert.ErrorIs(t, err, ErrNoConvergence)
}

func TestDominantTiesGoLow(t *testing.T) {
	dot := mat.NewDense(3, 2, []float64{
		0.5, 0,
		0.5, 0,
		0, 0,
	})
	winners, counts := dominant(dot)
	assert.Equal(t, []int{0, 0}, winners)
	assert.Equal(t, []int{2, 0, 0}, counts)
}

func TestAccumulatedAllZero(t *testing.T) {
	assert.Equal(t, []float64{0, 0}, accumulated(mat.NewDense(2, 2, nil)))
}

func TestTopicName(t *testing.T) {
	assert.Equal(t, "2_a_b_c_d", topicname(2, []string{"a", "b", "c", "d", "e"}))
	assert.Equal(t, "0_a", topicname(0, []string{"a"}))
	assert.Equal(t, "3", topicname(3, nil))
}

func TestStripMarks(t *testing.T) {
	assert.Equal(t, []string{"كتب الدرس", "أحمد", "café"}, stripmarks([]string{"كَتَبَ الدَّرْسَ", "أَحمد", "café"}))
}

func TestStopSet(t *testing.T) {
	ar := StopSet("arabic")
	assert.Contains(t, ar, "في")
	assert.Contains(t, ar, clean.URLTOKEN)
	assert.Contains(t, ar, clean.NUMBERTOKEN)
	assert.NotContains(t, ar, "the")

	en := StopSet("english")
	assert.Contains(t, en, "the")
	assert.NotContains(t, en, "في")

	multi := StopSet("multilingual")
	assert.Contains(t, multi, "the")
	assert.Contains(t, multi, "في")
}

func TestReadStopConfig(t *testing.T) {
	defer resetstops()
	dir := t.TempDir()

	generated, err := ReadStopConfig(dir)
	require.NoError(t, err)
	assert.Len(t, generated, 2)
	assert.FileExists(t, filepath.Join(dir, vv.CONFIGSTOPSAR))

	require.NoError(t, os.WriteFile(filepath.Join(dir, vv.CONFIGSTOPSEN), []byte(`["banana"]`), 0644))
	generated, err = ReadStopConfig(dir)
	require.NoError(t, err)
	assert.Empty(t, generated)

	en := StopSet("english")
	assert.Contains(t, en, "banana")
	assert.NotContains(t, en, "the")

	require.NoError(t, os.WriteFile(filepath.Join(dir, vv.CONFIGSTOPSEN), []byte(`{not json`), 0644))
	_, err = ReadStopConfig(dir)
	assert.Error(t, err)
}

func TestStopSetFromFilesIsConcurrent(t *testing.T) {
	defer resetstops()
	dir := t.TempDir()

	// odd lengths leave spare capacity behind any append-built list
	ar := []byte(`["في", "من", "على", "عن", "مع"]`)
	en := []byte(`["the", "and"]`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, vv.CONFIGSTOPSAR), ar, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, vv.CONFIGSTOPSEN), en, 0644))
	_, err := ReadStopConfig(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	sets := make([]map[string]struct{}, 16)
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lang := "multilingual"
			if i%2 == 1 {
				lang = "arabic"
			}
			sets[i] = StopSet(lang)
		}(i)
	}
	wg.Wait()

	for i, ss := range sets {
		assert.Contains(t, ss, "في")
		assert.Contains(t, ss, clean.URLTOKEN)
		assert.Contains(t, ss, clean.NUMBERTOKEN)
		if i%2 == 0 {
			assert.Len(t, ss, 9)
			assert.Contains(t, ss, "the")
			assert.Contains(t, ss, "and")
		} else {
			assert.Len(t, ss, 7)
			assert.NotContains(t, ss, "the")
		}
	}

	// the stored lists are untouched by all that appending
	assert.Len(t, listfor("arabic"), 5)
	assert.Len(t, listfor("english"), 2)
}

func TestPrepare(t *testing.T) {
	s := DefaultSettings()

	_, err := prepare(context.Background(), s, []string{"lonely document"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = prepare(context.Background(), s, []string{"the and of", "في من على"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = prepare(ctx, s, []string{"first document", "second document"})
	assert.ErrorIs(t, err, context.Canceled)

	c, err := prepare(context.Background(), s, []string{"apple banana", "cherry apple"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.k)
}

func TestFitGuard(t *testing.T) {
	f := func() (err error) {
		defer fitguard(&err)
		panic("index out of range")
	}
	err := f()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index out of range")
	assert.False(t, errors.Is(err, ErrNoConvergence))
}

func TestLDAFindsTwoSubjects(t *testing.T) {
	m, err := New(DefaultSettings())
	require.NoError(t, err)

	docs := cleaned(twosubjects)
	model, err := m.Fit(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, "lda", model.Kind)
	assert.Len(t, model.Assignments, len(docs))
	assert.GreaterOrEqual(t, len(model.Info), 2)

	total := 0
	for i, ti := range model.Info {
		assert.Equal(t, i, ti.Topic)
		assert.Greater(t, ti.Count, 0)
		assert.NotEmpty(t, ti.Representation)
		assert.NotEmpty(t, ti.RepresentativeDocs)
		assert.LessOrEqual(t, len(ti.RepresentativeDocs), vv.REPRESENTATIVEDOCS)
		assert.NotContains(t, ti.Representation, clean.NUMBERTOKEN)
		if i > 0 {
			assert.GreaterOrEqual(t, model.Info[i-1].Count, ti.Count)
		}
		total += ti.Count
	}
	assert.Equal(t, len(docs), total)
	assert.Nil(t, model.Probabilities)
}

func TestLSAFindsTopics(t *testing.T) {
	s := DefaultSettings()
	s.Kind = "lsa"
	s.CalculateProbabilities = true
	m, err := New(s)
	require.NoError(t, err)

	docs := cleaned(twosubjects)
	model, err := m.Fit(context.Background(), docs)
	require.NoError(t, err)

	assert.Equal(t, "lsa", model.Kind)
	assert.Len(t, model.Assignments, len(docs))
	require.NotEmpty(t, model.Info)

	total := 0
	for _, ti := range model.Info {
		total += ti.Count
		for _, w := range ti.Weights {
			assert.GreaterOrEqual(t, w, 0.0)
		}
	}
	assert.Equal(t, len(docs), total)
	assert.Len(t, model.Probabilities, len(docs))
}

func TestFitRejectsStopWordsOnly(t *testing.T) {
	for _, kind := range vv.ModelKinds {
		s := DefaultSettings()
		s.Kind = kind
		m, err := New(s)
		require.NoError(t, err)

		_, err = m.Fit(context.Background(), []string{"في من على", "the of and", "رقم رابط"})
		assert.ErrorIs(t, err, ErrInvalidInput, kind)
	}
}
