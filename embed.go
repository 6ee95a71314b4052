package gemkit

import (
	"context"
	"time"
)

// TaskType tells the embedding model what the vector will be used for,
// which shifts the embedding space accordingly.
type TaskType string

const (
	TaskTypeUnspecified        TaskType = "TASK_TYPE_UNSPECIFIED"
	TaskTypeRetrievalQuery     TaskType = "RETRIEVAL_QUERY"
	TaskTypeRetrievalDocument  TaskType = "RETRIEVAL_DOCUMENT"
	TaskTypeSemanticSimilarity TaskType = "SEMANTIC_SIMILARITY"
	TaskTypeClassification     TaskType = "CLASSIFICATION"
	TaskTypeClustering         TaskType = "CLUSTERING"
	TaskTypeQuestionAnswering  TaskType = "QUESTION_ANSWERING"
	TaskTypeFactVerification   TaskType = "FACT_VERIFICATION"
	TaskTypeCodeRetrievalQuery TaskType = "CODE_RETRIEVAL_QUERY"
)

// EmbedContentRequest is the wire form of a single embedding request. The
// Model field repeats the qualified model name, as the batch endpoint
// requires it on every item.
type EmbedContentRequest struct {
	Model                string   `json:"model,omitempty"`
	Content              Content  `json:"content"`
	TaskType             TaskType `json:"taskType,omitempty"`
	Title                string   `json:"title,omitempty"`
	OutputDimensionality *int32   `json:"outputDimensionality,omitempty"`
}

// ContentEmbedding is one embedding vector.
type ContentEmbedding struct {
	Values []float32 `json:"values"`
}

// EmbedContentResponse is the result of embedding one text.
type EmbedContentResponse struct {
	Embedding ContentEmbedding `json:"embedding"`
}

// BatchEmbedContentsResponse is the result of embedding several texts; the
// embeddings arrive in request order.
type BatchEmbedContentsResponse struct {
	Embeddings []ContentEmbedding `json:"embeddings"`
}

type batchEmbedContentsRequest struct {
	Requests []EmbedContentRequest `json:"requests"`
}

// EmbedBuilder assembles an embedding request. Obtain one from
// Client.Embed.
type EmbedBuilder struct {
	client *Client
	model  string
	texts  []string
	task   TaskType
	title  string
	dims   *int32
}

// Embed starts an embedding request against the default embedding model.
func (c *Client) Embed() *EmbedBuilder {
	return &EmbedBuilder{client: c, model: DefaultEmbeddingModel}
}

// Model overrides the embedding model.
func (b *EmbedBuilder) Model(model string) *EmbedBuilder {
	b.model = model
	return b
}

// Text adds one text to embed.
func (b *EmbedBuilder) Text(text string) *EmbedBuilder {
	b.texts = append(b.texts, text)
	return b
}

// Texts adds several texts to embed, in order.
func (b *EmbedBuilder) Texts(texts ...string) *EmbedBuilder {
	b.texts = append(b.texts, texts...)
	return b
}

// TaskType sets the intended use of the embeddings.
func (b *EmbedBuilder) TaskType(task TaskType) *EmbedBuilder {
	b.task = task
	return b
}

// Title sets the document title, meaningful for RETRIEVAL_DOCUMENT tasks.
func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.title = title
	return b
}

// OutputDimensionality truncates the returned vectors to n dimensions.
func (b *EmbedBuilder) OutputDimensionality(n int32) *EmbedBuilder {
	b.dims = &n
	return b
}

func (b *EmbedBuilder) request(text string) EmbedContentRequest {
	return EmbedContentRequest{
		Model:                qualifyModel(b.model),
		Content:              Text(text),
		TaskType:             b.task,
		Title:                b.title,
		OutputDimensionality: b.dims,
	}
}

// Execute embeds exactly one text. Returns ErrNoInput when no text was
// added and ErrMultipleInputs when more than one was; use ExecuteBatch
// for multiple texts.
func (b *EmbedBuilder) Execute(ctx context.Context) (*EmbedContentResponse, error) {
	switch {
	case len(b.texts) == 0:
		return nil, ErrNoInput
	case len(b.texts) > 1:
		return nil, ErrMultipleInputs
	}

	c := b.client
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "embedContent", Model: b.model, Start: start})

	var out EmbedContentResponse
	err := c.postJSON(ctx, c.modelURL(b.model, "embedContent"), b.request(b.texts[0]), &out)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "embedContent", Model: b.model,
		Start: start, End: time.Now(), Err: err,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteBatch embeds every added text in one call. Returns ErrNoInput
// when no texts were added.
func (b *EmbedBuilder) ExecuteBatch(ctx context.Context) (*BatchEmbedContentsResponse, error) {
	if len(b.texts) == 0 {
		return nil, ErrNoInput
	}

	in := batchEmbedContentsRequest{Requests: make([]EmbedContentRequest, len(b.texts))}
	for i, text := range b.texts {
		in.Requests[i] = b.request(text)
	}

	c := b.client
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "batchEmbedContents", Model: b.model, Start: start})

	var out BatchEmbedContentsResponse
	err := c.postJSON(ctx, c.modelURL(b.model, "batchEmbedContents"), in, &out)

	c.telemetry.OnRequestEnd(RequestEndEvent{
		Operation: "batchEmbedContents", Model: b.model,
		Start: start, End: time.Now(), Err: err,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
