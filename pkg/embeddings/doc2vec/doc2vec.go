// Package doc2vec implements a locally-trained paragraph-vector embedder in
// the PV-DBOW style: document vectors are trained to predict their words via
// negative sampling, and inference trains a fresh vector against the frozen
// output weights.
//
// The model is fitted exactly once per process lifetime. Fit on an
// already-trained model is a no-op, so the vocabulary is whatever corpus the
// first Fit saw. Inference is stochastic: embedding the same text twice
// yields slightly different vectors. Both behaviors are part of the
// contract, not defects.
//
// Fit must not run concurrently with Embed or EmbedBatch; callers are
// expected to serialize mutation against reads. Embed and EmbedBatch are
// safe to call concurrently with each other.
package doc2vec

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/papershelf/papershelf/pkg/embeddings"
)

const (
	// DefaultVectorSize is the default embedding dimensionality.
	DefaultVectorSize = 300

	// DefaultMinCount is the default minimum corpus frequency for a word to
	// enter the vocabulary.
	DefaultMinCount = 2

	// DefaultEpochs is the default number of training and inference passes.
	DefaultEpochs = 20

	// negative is the number of noise words sampled per positive example.
	negative = 5

	// alpha and minAlpha bound the linearly-decayed learning rate.
	alpha    = 0.025
	minAlpha = 0.0001

	// noiseTableSize is the size of the precomputed unigram noise table.
	noiseTableSize = 1 << 20

	// noisePower dampens frequent words in the noise distribution.
	noisePower = 0.75

	// maxExp clips pre-sigmoid activations.
	maxExp = 6.0
)

// Config holds configuration for the doc2vec model.
type Config struct {
	// VectorSize is the embedding dimensionality. Defaults to DefaultVectorSize.
	VectorSize int

	// MinCount is the minimum corpus frequency for vocabulary words.
	// Defaults to DefaultMinCount.
	MinCount int

	// Epochs is the number of training and inference passes.
	// Defaults to DefaultEpochs.
	Epochs int

	// ModelPath is where the trained model is persisted. When empty the
	// model is memory-only.
	ModelPath string

	// Seed fixes the base RNG seed for reproducible training. Zero means
	// time-seeded. Inference remains stochastic across calls either way.
	Seed int64
}

// Model is a trainable paragraph-vector embedder.
type Model struct {
	cfg    Config
	logger *zap.Logger

	// vocab maps a word to its index in counts and syn1.
	vocab  map[string]int
	counts []int64

	// syn1 holds the output-layer weights, frozen after Fit.
	syn1 [][]float32

	// noise is the unigram sampling table, rebuilt from counts.
	noise []int32

	trained bool

	// seq derives a distinct RNG stream per inference call.
	seq atomic.Uint64
}

// New creates a doc2vec model. If cfg.ModelPath names a previously persisted
// model it is loaded; a missing or corrupt file leaves the model untrained
// and is not an error.
func New(cfg Config, logger *zap.Logger) *Model {
	if cfg.VectorSize <= 0 {
		cfg.VectorSize = DefaultVectorSize
	}
	if cfg.MinCount <= 0 {
		cfg.MinCount = DefaultMinCount
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = DefaultEpochs
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		cfg:    cfg,
		logger: logger,
	}

	if cfg.ModelPath != "" {
		if err := m.load(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.Warn("could not load embedding model, starting untrained",
					zap.String("path", cfg.ModelPath),
					zap.Error(err),
				)
			}
		} else {
			logger.Info("loaded trained embedding model",
				zap.String("path", cfg.ModelPath),
				zap.Int("vocab_size", len(m.vocab)),
			)
		}
	}

	return m
}

// Trained reports whether the model has been fitted.
func (m *Model) Trained() bool { return m.trained }

// Dimensions returns the embedding vector size.
func (m *Model) Dimensions() int { return m.cfg.VectorSize }

// VocabSize returns the number of words in the trained vocabulary.
func (m *Model) VocabSize() int { return len(m.vocab) }

// Fit trains the model using the given texts as its entire vocabulary and
// training corpus, then persists it. Fit on an already-trained model is a
// no-op that leaves the model and its vocabulary unchanged.
func (m *Model) Fit(_ context.Context, texts []string) error {
	if m.trained {
		return nil
	}

	docs := make([][]string, len(texts))
	freq := make(map[string]int64)
	for i, text := range texts {
		docs[i] = Preprocess(text)
		for _, tok := range docs[i] {
			freq[tok]++
		}
	}

	// Stable vocabulary ordering keeps training reproducible under a fixed seed.
	terms := make([]string, 0, len(freq))
	for term, n := range freq {
		if n >= int64(m.cfg.MinCount) {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return embeddings.ErrEmptyCorpus
	}

	m.vocab = make(map[string]int, len(terms))
	m.counts = make([]int64, len(terms))
	for i, term := range terms {
		m.vocab[term] = i
		m.counts[i] = freq[term]
	}
	m.noise = buildNoiseTable(m.counts)

	size := m.cfg.VectorSize
	m.syn1 = make([][]float32, len(terms))
	for i := range m.syn1 {
		m.syn1[i] = make([]float32, size)
	}

	rng := rand.New(rand.NewSource(m.cfg.Seed))

	// One in-vocabulary word-id sequence per document.
	ids := make([][]int, len(docs))
	for d, doc := range docs {
		for _, tok := range doc {
			if w, ok := m.vocab[tok]; ok {
				ids[d] = append(ids[d], w)
			}
		}
	}

	docvecs := make([][]float32, len(docs))
	for d := range docvecs {
		docvecs[d] = randomVector(size, rng)
	}

	work := make([]float32, size)
	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		lr := decayedAlpha(epoch, m.cfg.Epochs)
		for d, words := range ids {
			for _, w := range words {
				m.trainPair(docvecs[d], w, lr, true, rng, work)
			}
		}
	}

	m.trained = true
	m.logger.Info("trained embedding model",
		zap.Int("documents", len(docs)),
		zap.Int("vocab_size", len(terms)),
		zap.Int("vector_size", size),
		zap.Int("epochs", m.cfg.Epochs),
	)

	if m.cfg.ModelPath != "" {
		if err := m.save(); err != nil {
			return err
		}
	}

	return nil
}

// Embed produces an inferred vector for the given text via stochastic
// inference passes against the frozen output weights. Embedding the same
// text twice may yield slightly different vectors.
func (m *Model) Embed(_ context.Context, text string) ([]float32, error) {
	if !m.trained {
		return nil, embeddings.ErrNotTrained
	}

	var words []int
	for _, tok := range Preprocess(text) {
		if w, ok := m.vocab[tok]; ok {
			words = append(words, w)
		}
	}

	rng := m.newRNG()
	size := m.cfg.VectorSize
	vec := randomVector(size, rng)
	if len(words) == 0 {
		// No in-vocabulary words: the inference steps would be no-ops, so
		// the small random initialization is the result.
		return vec, nil
	}

	work := make([]float32, size)
	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		lr := decayedAlpha(epoch, m.cfg.Epochs)
		for _, w := range words {
			m.trainPair(vec, w, lr, false, rng, work)
		}
	}

	return vec, nil
}

// EmbedBatch produces one embedding per input in input order.
func (m *Model) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Close releases resources. The in-process model holds none.
func (m *Model) Close() error { return nil }

// trainPair runs one negative-sampling step: nudge l1 toward predicting the
// target word and away from sampled noise words. When updateOutput is true
// the output weights are trained too (fitting); otherwise they stay frozen
// (inference).
func (m *Model) trainPair(l1 []float32, target int, lr float32, updateOutput bool, rng *rand.Rand, work []float32) {
	for i := range work {
		work[i] = 0
	}

	for n := 0; n <= negative; n++ {
		word := target
		var label float32 = 1
		if n > 0 {
			word = int(m.noise[rng.Intn(len(m.noise))])
			if word == target {
				continue
			}
			label = 0
		}

		row := m.syn1[word]
		var f float32
		for i := range l1 {
			f += l1[i] * row[i]
		}

		var g float32
		switch {
		case f > maxExp:
			g = (label - 1) * lr
		case f < -maxExp:
			g = label * lr
		default:
			g = (label - sigmoid(f)) * lr
		}

		for i := range l1 {
			work[i] += g * row[i]
		}
		if updateOutput {
			for i := range l1 {
				row[i] += g * l1[i]
			}
		}
	}

	for i := range l1 {
		l1[i] += work[i]
	}
}

// newRNG returns a fresh RNG stream for one inference call. Streams are
// distinct across calls so concurrent Embeds never share state.
func (m *Model) newRNG() *rand.Rand {
	return rand.New(rand.NewSource(m.cfg.Seed + int64(m.seq.Add(1))))
}

func decayedAlpha(epoch, epochs int) float32 {
	return float32(alpha - (alpha-minAlpha)*float64(epoch)/float64(epochs))
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}

// randomVector returns a small random initialization, uniform in
// (-0.5/size, 0.5/size) per component.
func randomVector(size int, rng *rand.Rand) []float32 {
	v := make([]float32, size)
	for i := range v {
		v[i] = (rng.Float32() - 0.5) / float32(size)
	}
	return v
}

// buildNoiseTable precomputes the unigram sampling table with counts raised
// to noisePower.
func buildNoiseTable(counts []int64) []int32 {
	table := make([]int32, noiseTableSize)

	var total float64
	for _, n := range counts {
		total += math.Pow(float64(n), noisePower)
	}

	word := 0
	cum := math.Pow(float64(counts[0]), noisePower) / total
	for i := range table {
		table[i] = int32(word)
		if float64(i)/float64(noiseTableSize) > cum && word < len(counts)-1 {
			word++
			cum += math.Pow(float64(counts[word]), noisePower) / total
		}
	}

	return table
}

var (
	_ embeddings.Embedder  = (*Model)(nil)
	_ embeddings.Trainable = (*Model)(nil)
)
