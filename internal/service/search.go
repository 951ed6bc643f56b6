package service

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/mpetrou/curio/internal/database/repository"
)

// SearchService ranks topics and content items for a term within a channel.
type SearchService struct {
	Topics   *repository.TopicRepo
	Contents *repository.ContentRepo
}

// SearchResult is one ranked hit. Exactly one of Topic/Content is set.
type SearchResult struct {
	Topic   *repository.Topic
	Content *repository.Content
	Score   float64
}

func (r SearchResult) Title() string {
	if r.Topic != nil {
		return r.Topic.Title
	}
	if r.Content != nil {
		return r.Content.Title
	}
	return ""
}

const candidateLimit = 200

// Search pulls LIKE-prefiltered candidates from the repos and orders them
// by normalized levenshtein similarity against the term. An empty term
// returns no results.
func (s *SearchService) Search(ctx context.Context, channelID, term string, limit int) ([]SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 25
	}

	var (
		topics   []repository.Topic
		contents []repository.Content
		seenT    = map[string]bool{}
		seenC    = map[string]bool{}
	)
	for _, pattern := range prefilterPatterns(term) {
		ts, err := s.Topics.Match(ctx, channelID, pattern, candidateLimit)
		if err != nil {
			return nil, err
		}
		for _, t := range ts {
			if !seenT[t.ID] {
				seenT[t.ID] = true
				topics = append(topics, t)
			}
		}
		cs, err := s.Contents.Match(ctx, channelID, pattern, candidateLimit)
		if err != nil {
			return nil, err
		}
		for _, c := range cs {
			if !seenC[c.ID] {
				seenC[c.ID] = true
				contents = append(contents, c)
			}
		}
	}

	results := make([]SearchResult, 0, len(topics)+len(contents))
	for i := range topics {
		t := topics[i]
		results = append(results, SearchResult{Topic: &t, Score: similarity(term, t.Title)})
	}
	for i := range contents {
		c := contents[i]
		score := similarity(term, c.Title)
		// Description-only hits rank below any title hit.
		if !strings.Contains(strings.ToUpper(c.Title), strings.ToUpper(term)) {
			score *= 0.5
		}
		results = append(results, SearchResult{Content: &c, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// similarity is 1 for an exact match, falling toward 0 with edit distance.
func similarity(term, title string) float64 {
	a := strings.ToUpper(strings.TrimSpace(term))
	b := strings.ToUpper(strings.TrimSpace(title))
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	score := 1 - float64(dist)/float64(maxlen)
	// A substring hit is always better than a near-miss of similar length.
	if strings.Contains(b, a) {
		boost := float64(len(a)) / float64(len(b))
		if boost > score {
			score = boost
		}
	}
	if score < 0 {
		return 0
	}
	return score
}

const prefilterPrefix = 4

// prefilterPatterns derives one LIKE pattern per term token. Tokens are
// truncated to a short prefix so near-misses ("waves" against "Wave
// interference") survive the prefilter and reach the ranking pass.
func prefilterPatterns(term string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tok := range strings.Fields(term) {
		r := []rune(tok)
		if len(r) > prefilterPrefix {
			r = r[:prefilterPrefix]
		}
		p := "%" + likeEscape(string(r)) + "%"
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// likeEscape backslash-escapes the LIKE metacharacters. The Match queries
// carry a matching ESCAPE clause.
func likeEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
