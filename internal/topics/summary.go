//    CSVTopicServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
	"math"
	"sort"
	"strings"
)

const (
	NAMEWORDS = 4
)

type termweight struct {
	W string
	V float64
}

// vocabslice - invert the vectoriser's map[term]column
func vocabslice(vocabulary map[string]int) []string {
	vocab := make([]string, len(vocabulary))
	for k, v := range vocabulary {
		vocab[v] = k
	}
	return vocab
}

// sortedterms - the topn most significant words for each topic; topicsOverWords is topics x words
func sortedterms(topicsOverWords mat.Matrix, vocab []string, topn int) [][]termweight {
	tr, tc := topicsOverWords.Dims()
	top := min(topn, tc)

	tops := make([][]termweight, tr)
	for topic := 0; topic < tr; topic++ {
		tss := make([]termweight, tc)
		for word := 0; word < tc; word++ {
			tss[word] = termweight{
				W: vocab[word],
				V: topicsOverWords.At(topic, word),
			}
		}
		sort.SliceStable(tss, func(i, j int) bool {
			return tss[i].V > tss[j].V
		})
		tops[topic] = tss[0:top]
	}
	return tops
}

// dominant - the winning topic for each doc and the number of docs each topic wins; docsOverTopics is topics x docs
func dominant(docsOverTopics mat.Matrix) ([]int, []int) {
	dr, dc := docsOverTopics.Dims()
	winners := make([]int, dc)
	counter := make([]int, dr)
	for doc := 0; doc < dc; doc++ {
		// any given doc will look like
		// Topic #0=0.006009, Topic #1=0.006915, Topic #2=0.000688, Topic #3=0.449514, Topic #4=0.536875
		winner := 0
		mx := docsOverTopics.At(0, doc)
		for topic := 1; topic < dr; topic++ {
			if docsOverTopics.At(topic, doc) > mx {
				winner = topic
				mx = docsOverTopics.At(topic, doc)
			}
		}
		winners[doc] = winner
		counter[winner] += 1
	}
	return winners, counter
}

// accumulated - total weight of each topic across all docs, scaled against the heaviest topic
func accumulated(docsOverTopics mat.Matrix) []float64 {
	dr, dc := docsOverTopics.Dims()
	counter := make([]float64, dr)
	for doc := 0; doc < dc; doc++ {
		for topic := 0; topic < dr; topic++ {
			counter[topic] += docsOverTopics.At(topic, doc)
		}
	}

	high := 0.0
	for _, c := range counter {
		high = max(high, c)
	}

	scaled := make([]float64, dr)
	if high == 0 {
		return scaled
	}
	for i := range counter {
		scaled[i] = counter[i] / high
	}
	return scaled
}

// finite - no NaN or Inf anywhere in the matrix
func finite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// absolute - copy of m with every entry replaced by its magnitude
func absolute(m mat.Matrix) *mat.Dense {
	d := mat.DenseCopyOf(m)
	d.Apply(func(i, j int, v float64) float64 { return math.Abs(v) }, d)
	return d
}

// summarize - build the Model from the fitted matrices; both matrices must be non-negative
func summarize(s Settings, docsOverTopics mat.Matrix, topicsOverWords mat.Matrix, vocab []string, docs []string) (*Model, error) {
	if !finite(docsOverTopics) || !finite(topicsOverWords) {
		return nil, fmt.Errorf("%w: the fitted distributions contain NaN or Inf", ErrNoConvergence)
	}

	_, dc := docsOverTopics.Dims()
	if dc != len(docs) {
		return nil, fmt.Errorf("%w: %d documents in, %d documents out", ErrInvalidInput, len(docs), dc)
	}

	winners, counts := dominant(docsOverTopics)
	shares := accumulated(docsOverTopics)
	terms := sortedterms(topicsOverWords, vocab, s.TopWords)

	// renumber: biggest topic is 0; ties keep the model's own order; empty topics vanish
	var order []int
	for t, c := range counts {
		if c > 0 {
			order = append(order, t)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	remap := make(map[int]int, len(order))
	for n, t := range order {
		remap[t] = n
	}

	model := &Model{
		Kind:        s.Kind,
		Assignments: make([]int, len(winners)),
		Info:        make([]TopicInfo, len(order)),
		Vocabulary:  len(vocab),
	}

	for d, w := range winners {
		model.Assignments[d] = remap[w]
	}

	for n, t := range order {
		ti := TopicInfo{
			Topic: n,
			Count: counts[t],
			Share: shares[t],
		}
		for _, tw := range terms[t] {
			ti.Representation = append(ti.Representation, tw.W)
			ti.Weights = append(ti.Weights, tw.V)
		}
		ti.Name = topicname(n, ti.Representation)
		ti.RepresentativeDocs = representatives(t, docsOverTopics, winners, docs, s.RepresentativeDocs)
		model.Info[n] = ti
	}

	if s.CalculateProbabilities {
		model.Probabilities = probabilities(docsOverTopics, order)
	}

	return model, nil
}

// topicname - "0_food_restaurant_meal_delicious"
func topicname(id int, words []string) string {
	nw := words[:min(NAMEWORDS, len(words))]
	if len(nw) == 0 {
		return fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%d_%s", id, strings.Join(nw, "_"))
}

// representatives - the docs won by a topic that lean on it hardest; duplicates only count once
func representatives(topic int, docsOverTopics mat.Matrix, winners []int, docs []string, n int) []string {
	var mine []int
	for d, w := range winners {
		if w == topic {
			mine = append(mine, d)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return docsOverTopics.At(topic, mine[i]) > docsOverTopics.At(topic, mine[j])
	})

	seen := make(map[string]struct{}, n)
	var reps []string
	for _, d := range mine {
		if len(reps) == n {
			break
		}
		if _, ok := seen[docs[d]]; ok {
			continue
		}
		seen[docs[d]] = struct{}{}
		reps = append(reps, docs[d])
	}
	return reps
}

// probabilities - docs x topics in the renumbered order; each row sums to 1 unless the doc has no weight at all
func probabilities(docsOverTopics mat.Matrix, order []int) [][]float64 {
	_, dc := docsOverTopics.Dims()
	probs := make([][]float64, dc)
	for doc := 0; doc < dc; doc++ {
		row := make([]float64, len(order))
		sum := 0.0
		for n, t := range order {
			row[n] = docsOverTopics.At(t, doc)
			sum += row[n]
		}
		if sum > 0 {
			for n := range row {
				row[n] /= sum
			}
		}
		probs[doc] = row
	}
	return probs
}
