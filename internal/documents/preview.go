package documents

import (
	"sort"
	"strings"
	"unicode"
)

const previewRadius = 50

// SearchResult pairs a matching document with its match preview.
type SearchResult struct {
	Document
	MatchPreview string
}

// MatchPreview locates the first case-insensitive occurrence of query in
// text and returns it with up to previewRadius characters of context on each
// side, clamped to the text bounds. An empty string means no occurrence was
// found, which can happen when the indexed tier matched on token semantics
// looser than a literal substring.
func MatchPreview(text, query string) string {
	t := []rune(text)
	q := []rune(query)
	idx := indexFold(t, q)
	if idx < 0 {
		return ""
	}
	start := idx - previewRadius
	if start < 0 {
		start = 0
	}
	end := idx + len(q) + previewRadius
	if end > len(t) {
		end = len(t)
	}
	return string(t[start:end])
}

// rankResults computes previews and applies the two-key stable sort: results
// whose preview contains the query first, then most recent upload first.
func rankResults(docs []Document, query string) []SearchResult {
	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, SearchResult{
			Document:     doc,
			MatchPreview: MatchPreview(doc.ExtractedText, query),
		})
	}

	lowered := strings.ToLower(query)
	sort.SliceStable(results, func(i, j int) bool {
		iHas := strings.Contains(strings.ToLower(results[i].MatchPreview), lowered)
		jHas := strings.Contains(strings.ToLower(results[j].MatchPreview), lowered)
		if iHas != jHas {
			return iHas
		}
		return results[i].UploadedAt.After(results[j].UploadedAt)
	})
	return results
}

func indexFold(t, q []rune) int {
	if len(q) == 0 || len(q) > len(t) {
		return -1
	}
	for i := 0; i+len(q) <= len(t); i++ {
		match := true
		for j := range q {
			if unicode.ToLower(t[i+j]) != unicode.ToLower(q[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
