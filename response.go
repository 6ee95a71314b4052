package gemkit

import "strings"

// FinishReason explains why a candidate stopped generating. Declared as a
// string so future reasons decode without error.
type FinishReason string

const (
	FinishReasonUnspecified           FinishReason = "FINISH_REASON_UNSPECIFIED"
	FinishReasonStop                  FinishReason = "STOP"
	FinishReasonMaxTokens             FinishReason = "MAX_TOKENS"
	FinishReasonSafety                FinishReason = "SAFETY"
	FinishReasonRecitation            FinishReason = "RECITATION"
	FinishReasonLanguage              FinishReason = "LANGUAGE"
	FinishReasonOther                 FinishReason = "OTHER"
	FinishReasonBlocklist             FinishReason = "BLOCKLIST"
	FinishReasonProhibitedContent     FinishReason = "PROHIBITED_CONTENT"
	FinishReasonSPII                  FinishReason = "SPII"
	FinishReasonMalformedFunctionCall FinishReason = "MALFORMED_FUNCTION_CALL"
)

// Candidate is one generated answer. Content may be entirely absent, for
// example when generation stopped for SAFETY or RECITATION before any
// payload was produced.
type Candidate struct {
	Content          *Content          `json:"content,omitempty"`
	FinishReason     FinishReason      `json:"finishReason,omitempty"`
	SafetyRatings    []SafetyRating    `json:"safetyRatings,omitempty"`
	CitationMetadata *CitationMetadata `json:"citationMetadata,omitempty"`
	TokenCount       *int32            `json:"tokenCount,omitempty"`
	Index            *int32            `json:"index,omitempty"`
}

// UsageMetadata reports token accounting for the exchange. Fields are
// pointers because which counts the service populates varies per model and
// configuration; absent means "not reported", not zero.
type UsageMetadata struct {
	PromptTokenCount        *int32 `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount    *int32 `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount         *int32 `json:"totalTokenCount,omitempty"`
	ThoughtsTokenCount      *int32 `json:"thoughtsTokenCount,omitempty"`
	CachedContentTokenCount *int32 `json:"cachedContentTokenCount,omitempty"`
}

// GenerationResponse is a decoded generateContent response, or one
// fragment of a streamed response. All derived views tolerate sparse
// payloads: a blocked or truncated candidate degrades to empty results,
// never a panic.
type GenerationResponse struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
	ResponseID     string          `json:"responseId,omitempty"`
}

// FirstCandidate returns the first candidate, or nil if there are none.
func (r *GenerationResponse) FirstCandidate() *Candidate {
	if r == nil || len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

// Text concatenates the text parts of the first candidate in part order,
// excluding thought summaries. Returns "" when candidates, content, or
// parts are absent.
func (r *GenerationResponse) Text() string {
	return candidateText(r.FirstCandidate())
}

// AllText concatenates the text of every candidate, newline-joined, for
// multi-candidate requests. Candidates without text contribute nothing.
func (r *GenerationResponse) AllText() string {
	if r == nil {
		return ""
	}
	var texts []string
	for i := range r.Candidates {
		if t := candidateText(&r.Candidates[i]); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, "\n")
}

// FunctionCalls returns the function calls of the first candidate in part
// order. Empty when there are none.
func (r *GenerationResponse) FunctionCalls() []FunctionCall {
	candidate := r.FirstCandidate()
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	var calls []FunctionCall
	for _, part := range candidate.Content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, *part.FunctionCall)
		}
	}
	return calls
}

// Thoughts returns the thought summaries of the first candidate in part
// order. Empty unless thinking was requested with thoughts included.
func (r *GenerationResponse) Thoughts() []string {
	candidate := r.FirstCandidate()
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	var thoughts []string
	for _, part := range candidate.Content.Parts {
		if part.IsThought() && part.Text != "" {
			thoughts = append(thoughts, part.Text)
		}
	}
	return thoughts
}

// candidateText joins the non-thought text parts of one candidate.
func candidateText(c *Candidate) string {
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range c.Content.Parts {
		if part.IsThought() {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
