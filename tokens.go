package gemkit

import (
	"context"
	"time"
)

// TokenCount is the result of a countTokens call.
type TokenCount struct {
	TotalTokens             *int32 `json:"totalTokens,omitempty"`
	CachedContentTokenCount *int32 `json:"cachedContentTokenCount,omitempty"`
}

// Total returns the total token count, or 0 when the service omitted it.
func (t *TokenCount) Total() int32 {
	if t == nil || t.TotalTokens == nil {
		return 0
	}
	return *t.TotalTokens
}

// countTokensRequest wraps the generation request for the countTokens
// endpoint, which takes the contents but not the generation config.
type countTokensRequest struct {
	Contents          []Content `json:"contents"`
	SystemInstruction *Content  `json:"systemInstruction,omitempty"`
	Tools             []Tool    `json:"tools,omitempty"`
}

// CountTokens reports how many tokens a pre-built request consumes,
// without generating.
func (c *Client) CountTokens(ctx context.Context, model string, req *GenerateContentRequest) (*TokenCount, error) {
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "countTokens", Model: model, Start: start})

	in := countTokensRequest{
		Contents:          req.Contents,
		SystemInstruction: req.SystemInstruction,
		Tools:             req.Tools,
	}
	var out TokenCount
	err := c.postJSON(ctx, c.modelURL(model, "countTokens"), in, &out)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "countTokens", Model: model,
		Start: start, End: time.Now(), Err: err,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
