package tokenize

// stopWords is the fixed ~160-word English function-word list used for
// query-mode tokenization. Entries containing an apostrophe never match a
// token post-extraction (tokens are restricted to [a-zA-Z0-9]+), but are
// kept verbatim rather than trimmed, since the list itself is the contract.
var stopWords = buildStopWords()

func buildStopWords() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are",
		"aren't", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both",
		"but", "by", "can", "can't", "cannot", "com", "could", "couldn't", "did", "didn't", "do",
		"does", "doesn't", "doing", "don't", "down", "during", "each", "else", "ever", "few", "for",
		"from", "further", "get", "had", "hadn't", "has", "hasn't", "have", "haven't", "having", "he",
		"her", "here", "here's", "hers", "herself", "him", "himself", "his", "how", "how's", "i", "i'm",
		"if", "in", "into", "is", "isn't", "it", "it's", "its", "itself", "let's", "me", "more", "most",
		"mustn't", "my", "myself", "no", "nor", "not", "of", "off", "on", "once", "only", "or", "other",
		"ought", "our", "ours", "ourselves", "out", "over", "own", "same", "shan't", "she", "she'd",
		"she'll", "she's", "should", "shouldn't", "so", "some", "such", "than", "that", "that's", "the",
		"their", "theirs", "them", "themselves", "then", "there", "there's", "these", "they",
		"they'd", "they'll", "they're", "they've", "this", "those", "through", "to", "too", "under",
		"until", "up", "very", "was", "wasn't", "we", "we'd", "we'll", "we're", "we've", "were",
		"weren't", "what", "what's", "when", "when's", "where", "where's", "which", "while",
		"who", "who's", "whom", "why", "why's", "with", "won't", "would", "wouldn't", "you",
		"you'd", "you'll", "you're", "you've", "your", "yours", "yourself", "yourselves",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether w is a member of the fixed stop-word set.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
