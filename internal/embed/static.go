package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// StaticEmbedder generates embeddings using a hash-based bag-of-tokens
// approach: no network call, no model download, deterministic across
// runs. It is ember's only embedder backend — see DESIGN.md for why
// network-backed embedding backends were dropped.
type StaticEmbedder struct {
	mu     sync.RWMutex
	closed bool
}

// programmingStopWords are common keywords filtered before hashing, so
// a chunk's embedding is driven by its identifiers rather than syntax.
var programmingStopWords = map[string]bool{
	"func": true, "function": true, "def": true, "class": true,
	"return": true, "import": true, "const": true, "var": true,
	"let": true, "int": true, "string": true, "bool": true,
	"void": true, "true": true, "false": true, "nil": true,
	"null": true, "this": true, "self": true, "new": true,
}

const (
	tokenWeight = 0.7
	ngramWeight = 0.3
	ngramSize   = 3
)

var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

// NewStaticEmbedder creates a new static embedder.
func NewStaticEmbedder() *StaticEmbedder {
	return &StaticEmbedder{}
}

// Embed generates the embedding for a single text.
func (e *StaticEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, fmt.Errorf("embedder is closed")
	}
	e.mu.RUnlock()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return make([]float32, Dimensions), nil
	}
	return normalizeVector(e.generateVector(trimmed)), nil
}

// generateVector creates a hash-based vector from text: tokens
// (code-aware, camelCase/snake_case split) contribute at tokenWeight,
// character n-grams at ngramWeight, both bucketed by FNV-64 into the
// fixed-dimension vector.
func (e *StaticEmbedder) generateVector(text string) []float32 {
	vector := make([]float32, Dimensions)

	tokens := filterStopWords(tokenize(text))
	for _, token := range tokens {
		vector[hashToIndex(token, Dimensions)] += tokenWeight
	}

	ngrams := extractNgrams(normalizeForNgrams(text), ngramSize)
	for _, ngram := range ngrams {
		vector[hashToIndex(ngram, Dimensions)] += ngramWeight
	}

	return vector
}

func tokenize(text string) []string {
	var tokens []string
	for _, word := range tokenRegex.FindAllString(text, -1) {
		for _, t := range splitCodeToken(word) {
			if lower := strings.ToLower(t); lower != "" {
				tokens = append(tokens, lower)
			}
		}
	}
	return tokens
}

func splitCodeToken(token string) []string {
	if strings.Contains(token, "_") {
		var result []string
		for _, part := range strings.Split(token, "_") {
			if part != "" {
				result = append(result, splitCamelCase(part)...)
			}
		}
		return result
	}
	return splitCamelCase(token)
}

func splitCamelCase(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	var current strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevIsLower := unicode.IsLower(runes[i-1])
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevIsLower || nextIsLower {
				if current.Len() > 0 {
					result = append(result, current.String())
					current.Reset()
				}
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

func filterStopWords(tokens []string) []string {
	var filtered []string
	for _, t := range tokens {
		if !programmingStopWords[t] {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func normalizeForNgrams(text string) string {
	var result strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func extractNgrams(text string, n int) []string {
	if len(text) < n {
		return []string{}
	}
	ngrams := make([]string, 0, len(text)-n+1)
	for i := 0; i <= len(text)-n; i++ {
		ngrams = append(ngrams, text[i:i+n])
	}
	return ngrams
}

func hashToIndex(s string, size int) int {
	h := fnv.New64()
	_, _ = h.Write([]byte(s))
	return int(h.Sum64() % uint64(size))
}

// EmbedBatch generates embeddings for multiple texts, one call each —
// the static embedder has no batching advantage, but keeps the shape
// callers (chunkstore) depend on for every Embedder implementation.
func (e *StaticEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, fmt.Errorf("embedder is closed")
	}
	e.mu.RUnlock()

	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	results := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed text %d: %w", i, err)
		}
		results[i] = emb
	}
	return results, nil
}

// Dimensions returns the embedding dimension.
func (e *StaticEmbedder) Dimensions() int {
	return Dimensions
}

// Fingerprint identifies this model and its (fixed) configuration.
// Since the static embedder has no tunable parameters, the fingerprint
// is just a hash of its name, dimension, and n-gram size — stable across runs,
// changes only if the algorithm itself changes.
func (e *StaticEmbedder) Fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("static\x00%d\x00%d", Dimensions, ngramSize)))
	return "static-" + hex.EncodeToString(sum[:])[:12]
}

// Close releases resources.
func (e *StaticEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
