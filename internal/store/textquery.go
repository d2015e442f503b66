package store

import (
	"strings"

	"github.com/emberindex/ember/internal/errs"
)

// TextResult is one hit from the full-text side of a hybrid search.
type TextResult struct {
	ChunkID string
	Score   float64 // higher is better
}

// QueryText runs an FTS5 MATCH query against the chunks_fts virtual
// table and returns the top limit hits ranked by bm25(). FTS5's bm25()
// returns negative values where lower means a better match, so the
// score is negated to make "higher is better" hold across both sides
// of the RRF fusion.
func (s *Store) QueryText(query string, limit int) ([]TextResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT id, bm25(chunks_fts) AS score
		FROM chunks_fts
		WHERE chunks_fts MATCH ?
		ORDER BY score
		LIMIT ?
	`, ftsQuery(query), limit)
	if err != nil {
		if strings.Contains(err.Error(), "fts5") || strings.Contains(err.Error(), "syntax error") {
			return nil, nil
		}
		return nil, errs.New(errs.DatabaseError, "query full-text index", err)
	}
	defer rows.Close()

	var results []TextResult
	for rows.Next() {
		var r TextResult
		if err := rows.Scan(&r.ChunkID, &r.Score); err != nil {
			return nil, errs.New(errs.DatabaseError, "scan full-text result", err)
		}
		r.Score = -r.Score
		results = append(results, r)
	}
	return results, rows.Err()
}

// stopWords are filtered from the code-identifier expansion below, so
// a term like "getTheUser" adds no "the" alternative; a stop word typed
// as its own term is still matched literally.
var stopWords = BuildStopWordMap([]string{"the", "a", "an", "is", "of", "to", "in", "for"})

// ftsQuery quotes each whitespace-separated term so identifiers with
// underscores or punctuation (common in source code) are matched as
// literal tokens rather than parsed as FTS5 query syntax. Each term is
// additionally expanded into its camelCase/snake_case sub-tokens and
// OR'd alongside the literal term, so a query for "user id" also
// matches an identifier like "getUserID".
func ftsQuery(q string) string {
	fields := strings.Fields(q)
	clauses := make([]string, 0, len(fields))
	for _, f := range fields {
		literal := `"` + strings.ReplaceAll(f, `"`, `""`) + `"`

		expanded := FilterStopWords(TokenizeCode(f), stopWords)
		if len(expanded) <= 1 {
			clauses = append(clauses, literal)
			continue
		}
		terms := make([]string, len(expanded))
		for i, t := range expanded {
			terms[i] = `"` + t + `"`
		}
		clauses = append(clauses, "("+literal+" OR "+strings.Join(terms, " OR ")+")")
	}
	return strings.Join(clauses, " AND ")
}
