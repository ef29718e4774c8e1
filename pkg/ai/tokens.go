package ai

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// EstimateTokens counts tokens for the given texts with the model's encoding.
// Unknown models fall back to cl100k_base rather than failing the request.
func EstimateTokens(model string, texts ...string) (int, error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tkm, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return 0, fmt.Errorf("encoding for model: %w", err)
		}
	}

	var numTokens int
	for _, text := range texts {
		numTokens += len(tkm.Encode(text, nil, nil))
	}
	return numTokens, nil
}
