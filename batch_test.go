package gemkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBatchSubmitAndPoll(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost:
			if r.URL.Path != "/v1beta/models/gemini-2.5-flash:batchGenerateContent" {
				t.Errorf("path = %q", r.URL.Path)
			}

			var body BatchGenerateContentRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if body.Batch.DisplayName == "" {
				t.Error("displayName not defaulted")
			}
			reqs := body.Batch.InputConfig.Requests.Requests
			if len(reqs) != 2 {
				t.Fatalf("requests = %d, want 2", len(reqs))
			}
			if reqs[0].Metadata.Key != "0" || reqs[1].Metadata.Key != "1" {
				t.Errorf("keys = %q,%q, want 0,1", reqs[0].Metadata.Key, reqs[1].Metadata.Key)
			}

			json.NewEncoder(w).Encode(map[string]any{
				"name": "batches/abc123",
				"metadata": map[string]any{
					"state": "BATCH_STATE_PENDING",
					"batchStats": map[string]any{
						"requestCount":        "2",
						"pendingRequestCount": "2",
					},
				},
				"done": false,
			})

		case r.Method == http.MethodGet:
			if r.URL.Path != "/v1beta/batches/abc123" {
				t.Errorf("path = %q", r.URL.Path)
			}
			polls++
			json.NewEncoder(w).Encode(map[string]any{
				"name": "batches/abc123",
				"metadata": map[string]any{
					"state": "BATCH_STATE_SUCCEEDED",
					"batchStats": map[string]any{
						"requestCount":          "2",
						"completedRequestCount": "2",
					},
				},
				"done": true,
				"response": map[string]any{
					"inlinedResponses": map[string]any{
						"inlinedResponses": []any{
							// Completion order differs from submission order.
							map[string]any{
								"metadata": map[string]any{"key": "1"},
								"response": map[string]any{
									"candidates": []any{map[string]any{
										"content": map[string]any{"parts": []any{map[string]any{"text": "second"}}},
									}},
								},
							},
							map[string]any{
								"metadata": map[string]any{"key": "0"},
								"response": map[string]any{
									"candidates": []any{map[string]any{
										"content": map[string]any{"parts": []any{map[string]any{"text": "first"}}},
									}},
								},
							},
						},
					},
				},
			})
		}
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	req1, _ := client.Generate().User("question one").Build()
	req2, _ := client.Generate().User("question two").Build()

	batch, err := client.BatchGenerate().Requests(req1, req2).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}

	if batch.Name() != "batches/abc123" {
		t.Errorf("Name() = %q", batch.Name())
	}
	op := batch.Operation()
	if op.State() != BatchStatePending {
		t.Errorf("initial state = %q, want PENDING", op.State())
	}
	if op.Metadata.BatchStats.RequestCount != 2 {
		t.Errorf("requestCount = %d, want 2 (decoded from string)", op.Metadata.BatchStats.RequestCount)
	}
	if op.Metadata.BatchStats.PendingRequestCount == nil || *op.Metadata.BatchStats.PendingRequestCount != 2 {
		t.Errorf("pendingRequestCount = %+v, want 2", op.Metadata.BatchStats.PendingRequestCount)
	}

	op, err = batch.Get(context.Background())
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if op.State() != BatchStateSucceeded || !op.State().Terminal() {
		t.Errorf("state = %q, want terminal SUCCEEDED", op.State())
	}

	results := op.InlineResults()
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	// Sorted by key, matching submission order.
	if results[0].Key() != "0" || results[0].Response.Text() != "first" {
		t.Errorf("result 0 = key %q text %q", results[0].Key(), results[0].Response.Text())
	}
	if results[1].Key() != "1" || results[1].Response.Text() != "second" {
		t.Errorf("result 1 = key %q text %q", results[1].Key(), results[1].Response.Text())
	}

	if polls != 1 {
		t.Errorf("polls = %d, want 1", polls)
	}
}

func TestBatchBuildRequiresRequests(t *testing.T) {
	_, err := testClient().BatchGenerate().Build()
	if !errors.Is(err, ErrNoRequests) {
		t.Errorf("Build() error = %v, want ErrNoRequests", err)
	}
}

func TestBatchCancelObservesTerminalState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v1beta/batches/abc123:cancel":
			// Cancel arrives after completion.
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"cannot cancel completed batch","status":"FAILED_PRECONDITION"}}`))
		case r.URL.Path == "/v1beta/batches/abc123":
			json.NewEncoder(w).Encode(map[string]any{
				"name":     "batches/abc123",
				"metadata": map[string]any{"state": "BATCH_STATE_SUCCEEDED"},
				"done":     true,
				"response": map[string]any{
					"inlinedResponses": map[string]any{"inlinedResponses": []any{}},
				},
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	batch := &Batch{client: client, op: BatchOperation{Name: "batches/abc123"}}
	op, err := batch.Cancel(context.Background())
	if err != nil {
		t.Fatalf("Cancel error = %v, want observed terminal state", err)
	}
	if op.State() != BatchStateSucceeded {
		t.Errorf("state = %q, want SUCCEEDED", op.State())
	}
}

func TestBatchStateTerminal(t *testing.T) {
	tests := []struct {
		state BatchState
		want  bool
	}{
		{BatchStatePending, false},
		{BatchStateRunning, false},
		{BatchStateSucceeded, true},
		{BatchStateFailed, true},
		{BatchStateCancelled, true},
		{BatchStateExpired, true},
		{BatchState("BATCH_STATE_SOMETHING_NEW"), false},
	}
	for _, tt := range tests {
		if got := tt.state.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestInt64String(t *testing.T) {
	tests := []struct {
		in   string
		want Int64String
	}{
		{`"42"`, 42},
		{`42`, 42},
		{`"9007199254740993"`, 9007199254740993},
		{`"0"`, 0},
	}
	for _, tt := range tests {
		var v Int64String
		if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if v != tt.want {
			t.Errorf("unmarshal %s = %d, want %d", tt.in, v, tt.want)
		}
	}

	out, err := json.Marshal(Int64String(7))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"7"` {
		t.Errorf("marshal = %s, want \"7\"", out)
	}

	var v Int64String
	if err := json.Unmarshal([]byte(`"not a number"`), &v); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestListBatchesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("pageToken") {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"operations":    []any{map[string]any{"name": "batches/a"}},
				"nextPageToken": "page2",
			})
		case "page2":
			json.NewEncoder(w).Encode(map[string]any{
				"operations": []any{map[string]any{"name": "batches/b"}},
			})
		default:
			t.Errorf("unexpected token %q", r.URL.Query().Get("pageToken"))
		}
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	all, err := client.ListAllBatches(context.Background())
	if err != nil {
		t.Fatalf("ListAllBatches error = %v", err)
	}
	if len(all) != 2 || all[0].Name != "batches/a" || all[1].Name != "batches/b" {
		t.Errorf("operations = %+v, want batches/a then batches/b", all)
	}
}
