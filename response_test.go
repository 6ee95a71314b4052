package gemkit

import (
	"encoding/json"
	"testing"
)

func TestResponseViewsNilSafety(t *testing.T) {
	tests := []struct {
		name string
		resp *GenerationResponse
	}{
		{"nil receiver", nil},
		{"empty response", &GenerationResponse{}},
		{"candidate without content", &GenerationResponse{
			Candidates: []Candidate{{FinishReason: FinishReasonSafety}},
		}},
		{"content without parts", &GenerationResponse{
			Candidates: []Candidate{{Content: &Content{Role: RoleModel}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Text(); got != "" {
				t.Errorf("Text() = %q, want \"\"", got)
			}
			if got := tt.resp.AllText(); got != "" {
				t.Errorf("AllText() = %q, want \"\"", got)
			}
			if got := tt.resp.FunctionCalls(); got != nil {
				t.Errorf("FunctionCalls() = %v, want nil", got)
			}
			if got := tt.resp.Thoughts(); got != nil {
				t.Errorf("Thoughts() = %v, want nil", got)
			}
		})
	}
}

func TestTextSkipsThoughtsAndJoinsInOrder(t *testing.T) {
	resp := &GenerationResponse{
		Candidates: []Candidate{{
			Content: &Content{
				Role: RoleModel,
				Parts: []Part{
					ThoughtPart("let me think", "sig1"),
					TextPart("The answer "),
					ThoughtPart("checking", ""),
					TextPart("is 4."),
				},
			},
		}},
	}

	if got := resp.Text(); got != "The answer is 4." {
		t.Errorf("Text() = %q", got)
	}

	thoughts := resp.Thoughts()
	if len(thoughts) != 2 || thoughts[0] != "let me think" || thoughts[1] != "checking" {
		t.Errorf("Thoughts() = %v", thoughts)
	}
}

func TestAllTextJoinsCandidates(t *testing.T) {
	resp := &GenerationResponse{
		Candidates: []Candidate{
			{Content: &Content{Parts: []Part{TextPart("alpha")}}},
			{FinishReason: FinishReasonSafety}, // contributes nothing
			{Content: &Content{Parts: []Part{TextPart("beta")}}},
		},
	}
	if got := resp.AllText(); got != "alpha\nbeta" {
		t.Errorf("AllText() = %q, want \"alpha\\nbeta\"", got)
	}
}

func TestFunctionCallsInPartOrder(t *testing.T) {
	resp := &GenerationResponse{
		Candidates: []Candidate{{
			Content: &Content{Parts: []Part{
				FunctionCallPart("get_weather", json.RawMessage(`{"city":"Oslo"}`)),
				TextPart("and also"),
				FunctionCallPart("get_time", nil),
			}},
		}},
	}

	calls := resp.FunctionCalls()
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if calls[0].Name != "get_weather" || calls[1].Name != "get_time" {
		t.Errorf("call order = %q, %q", calls[0].Name, calls[1].Name)
	}
	if string(calls[0].Args) != `{"city":"Oslo"}` {
		t.Errorf("args = %s, want verbatim JSON", calls[0].Args)
	}
}

func TestSparseUsageMetadata(t *testing.T) {
	raw := `{"usageMetadata":{"promptTokenCount":7}}`

	var resp GenerationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	u := resp.UsageMetadata
	if u.PromptTokenCount == nil || *u.PromptTokenCount != 7 {
		t.Errorf("PromptTokenCount = %+v, want 7", u.PromptTokenCount)
	}
	// Absent counts stay nil, distinguishing "not reported" from zero.
	if u.CandidatesTokenCount != nil {
		t.Errorf("CandidatesTokenCount = %v, want nil", *u.CandidatesTokenCount)
	}
	if u.ThoughtsTokenCount != nil {
		t.Errorf("ThoughtsTokenCount = %v, want nil", *u.ThoughtsTokenCount)
	}
}

func TestPromptFeedbackDecodes(t *testing.T) {
	raw := `{
	  "promptFeedback": {
	    "blockReason": "SAFETY",
	    "safetyRatings": [
	      {"category": "HARM_CATEGORY_DANGEROUS_CONTENT", "probability": "HIGH", "blocked": true}
	    ]
	  }
	}`

	var resp GenerationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	fb := resp.PromptFeedback
	if fb == nil || fb.BlockReason != BlockReasonSafety {
		t.Fatalf("PromptFeedback = %+v", fb)
	}
	rating := fb.SafetyRatings[0]
	if rating.Category != HarmCategoryDangerousContent || rating.Probability != ProbabilityHigh {
		t.Errorf("rating = %+v", rating)
	}
	if rating.Blocked == nil || !*rating.Blocked {
		t.Errorf("Blocked = %+v, want true", rating.Blocked)
	}
}
