package tokenizer

import (
	"strings"
)

// Tokenize splits text into whitespace-delimited tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// CountWords returns the number of whitespace-delimited words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateTokens returns a token count estimate for text. It currently uses
// the same whitespace split as CountWords, so the two always agree.
// TODO: back this with a real subword tokenizer so the estimate tracks what
// embedding models actually bill for.
func EstimateTokens(text string) int {
	return len(Tokenize(text))
}
