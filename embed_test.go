package gemkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/text-embedding-004:embedContent" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req EmbedContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "models/text-embedding-004" {
			t.Errorf("model = %q, want models/text-embedding-004", req.Model)
		}
		if req.Content.Parts[0].Text != "hello world" {
			t.Errorf("text = %q", req.Content.Parts[0].Text)
		}
		if req.TaskType != TaskTypeRetrievalQuery {
			t.Errorf("taskType = %q, want RETRIEVAL_QUERY", req.TaskType)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(EmbedContentResponse{
			Embedding: ContentEmbedding{Values: []float32{0.1, -0.2, 0.3}},
		})
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	resp, err := client.Embed().
		Text("hello world").
		TaskType(TaskTypeRetrievalQuery).
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute error = %v", err)
	}
	if len(resp.Embedding.Values) != 3 || resp.Embedding.Values[1] != -0.2 {
		t.Errorf("Values = %v", resp.Embedding.Values)
	}
}

func TestEmbedExecuteInputValidation(t *testing.T) {
	_, err := testClient().Embed().Execute(context.Background())
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("no texts: error = %v, want ErrNoInput", err)
	}

	_, err = testClient().Embed().Texts("a", "b").Execute(context.Background())
	if !errors.Is(err, ErrMultipleInputs) {
		t.Errorf("two texts: error = %v, want ErrMultipleInputs", err)
	}

	_, err = testClient().Embed().ExecuteBatch(context.Background())
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("empty batch: error = %v, want ErrNoInput", err)
	}
}

func TestEmbedExecuteBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/text-embedding-004:batchEmbedContents" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req batchEmbedContentsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(req.Requests) != 2 {
			t.Fatalf("requests = %d, want 2", len(req.Requests))
		}
		// Every item repeats the model and shared options.
		for i, item := range req.Requests {
			if item.Model != "models/text-embedding-004" {
				t.Errorf("request %d model = %q", i, item.Model)
			}
			if item.OutputDimensionality == nil || *item.OutputDimensionality != 256 {
				t.Errorf("request %d dimensionality = %+v, want 256", i, item.OutputDimensionality)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(BatchEmbedContentsResponse{
			Embeddings: []ContentEmbedding{
				{Values: []float32{1}},
				{Values: []float32{2}},
			},
		})
	}))
	defer server.Close()

	client := New("test-api-key", WithBaseURL(server.URL))

	resp, err := client.Embed().
		Texts("first", "second").
		OutputDimensionality(256).
		ExecuteBatch(context.Background())
	if err != nil {
		t.Fatalf("ExecuteBatch error = %v", err)
	}
	if len(resp.Embeddings) != 2 {
		t.Fatalf("embeddings = %d, want 2", len(resp.Embeddings))
	}
	if resp.Embeddings[0].Values[0] != 1 || resp.Embeddings[1].Values[0] != 2 {
		t.Errorf("embeddings out of order: %v", resp.Embeddings)
	}
}
