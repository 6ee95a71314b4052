package gemkit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// BatchGenerateContentRequest is the wire envelope for batch submission.
type BatchGenerateContentRequest struct {
	Batch BatchConfig `json:"batch"`
}

// BatchConfig names the batch and carries its input.
type BatchConfig struct {
	DisplayName string      `json:"displayName"`
	InputConfig InputConfig `json:"inputConfig"`
}

// InputConfig selects the batch input source. Inline requests and a
// pre-uploaded file are mutually exclusive.
type InputConfig struct {
	Requests *RequestsContainer `json:"requests,omitempty"`
	FileName string             `json:"fileName,omitempty"`
}

// RequestsContainer wraps the inline request list.
type RequestsContainer struct {
	Requests []BatchRequestItem `json:"requests"`
}

// BatchBuilder assembles a batch of generation requests for asynchronous
// processing. Obtain one from Client.BatchGenerate.
type BatchBuilder struct {
	client      *Client
	model       string
	displayName string
	items       []BatchRequestItem
	fileName    string
}

// BatchGenerate starts a batch submission against the client's default
// model.
func (c *Client) BatchGenerate() *BatchBuilder {
	return &BatchBuilder{client: c, model: c.config.Model}
}

// Model overrides the model the whole batch runs against.
func (b *BatchBuilder) Model(model string) *BatchBuilder {
	b.model = model
	return b
}

// DisplayName sets a human-readable batch name. When unset, Build
// generates one.
func (b *BatchBuilder) DisplayName(name string) *BatchBuilder {
	b.displayName = name
	return b
}

// Request adds one request. Its correlation key is the zero-based position
// in the batch, so results can be re-ordered to match submission order.
func (b *BatchBuilder) Request(req *GenerateContentRequest) *BatchBuilder {
	key := strconv.Itoa(len(b.items))
	b.items = append(b.items, BatchRequestItem{
		Request:  req,
		Metadata: &RequestMetadata{Key: key},
	})
	return b
}

// Requests adds several requests in order.
func (b *BatchBuilder) Requests(reqs ...*GenerateContentRequest) *BatchBuilder {
	for _, req := range reqs {
		b.Request(req)
	}
	return b
}

// InputFile submits the batch from a previously uploaded JSONL file
// instead of inline requests.
func (b *BatchBuilder) InputFile(fileName string) *BatchBuilder {
	b.fileName = fileName
	return b
}

// Build finalizes the submission envelope. Returns ErrNoRequests when
// neither inline requests nor an input file were provided.
func (b *BatchBuilder) Build() (*BatchGenerateContentRequest, error) {
	if len(b.items) == 0 && b.fileName == "" {
		return nil, ErrNoRequests
	}

	name := b.displayName
	if name == "" {
		name = "batch-" + uuid.NewString()
	}

	cfg := BatchConfig{DisplayName: name}
	if b.fileName != "" {
		cfg.InputConfig.FileName = b.fileName
	} else {
		cfg.InputConfig.Requests = &RequestsContainer{
			Requests: append([]BatchRequestItem(nil), b.items...),
		}
	}
	return &BatchGenerateContentRequest{Batch: cfg}, nil
}

// Execute submits the batch and returns a handle to the new operation.
// Processing is asynchronous; poll the handle for progress.
func (b *BatchBuilder) Execute(ctx context.Context) (*Batch, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}

	c := b.client
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "batchGenerateContent", Model: b.model, Start: start})

	var op BatchOperation
	callErr := c.postJSON(ctx, c.modelURL(b.model, "batchGenerateContent"), req, &op)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "batchGenerateContent", Model: b.model,
		Start: start, End: time.Now(), Err: callErr,
	})
	if callErr != nil {
		return nil, callErr
	}
	return &Batch{client: c, op: op}, nil
}
