// Package keywords reduces natural-language queries to content-keyword
// strings for web search. Stop-words and punctuation tokens are
// dropped; everything else passes through in order.
package keywords

import "strings"

// stopwords is a static English stop-word set. Comparisons are
// case-insensitive; the original token casing is preserved in output.
var stopwords = map[string]struct{}{}

func init() {
	list := []string{
		"a", "about", "above", "after", "again", "against", "all", "am",
		"an", "and", "any", "are", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by", "can",
		"could", "did", "do", "does", "doing", "down", "during", "each",
		"few", "for", "from", "further", "had", "has", "have", "having",
		"he", "her", "here", "hers", "him", "his", "how", "i", "if", "in",
		"into", "is", "it", "its", "just", "me", "more", "most", "my",
		"no", "nor", "not", "now", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "out", "over", "own", "same", "she",
		"should", "so", "some", "such", "than", "that", "the", "their",
		"theirs", "them", "then", "there", "these", "they", "this",
		"those", "through", "to", "too", "under", "until", "up", "very",
		"was", "we", "were", "what", "when", "where", "which", "while",
		"who", "whom", "why", "will", "with", "would", "you", "your",
		"yours",
	}
	for _, w := range list {
		stopwords[w] = struct{}{}
	}
}

// Extract returns the content keywords of a sentence joined by single
// spaces. Tokens are split on whitespace; leading and trailing
// punctuation is stripped before the stop-word check. A token that is
// pure punctuation is dropped.
func Extract(sentence string) string {
	fields := strings.Fields(sentence)
	keywords := make([]string, 0, len(fields))

	for _, field := range fields {
		token := strings.TrimFunc(field, isPunct)
		if token == "" {
			continue
		}
		if _, stop := stopwords[strings.ToLower(token)]; stop {
			continue
		}
		keywords = append(keywords, token)
	}

	return strings.Join(keywords, " ")
}

func isPunct(r rune) bool {
	return strings.ContainsRune(".,;:!?\"'()[]{}<>", r)
}
