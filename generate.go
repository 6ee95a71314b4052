package gemkit

import (
	"context"
	"encoding/json"
	"time"
)

// GenerateContentRequest is the wire form of a generation request. Most
// callers assemble it through GenerateBuilder, but the struct is exported
// so requests can be built directly, stored, or replayed (batch items
// carry them verbatim).
type GenerateContentRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	SafetySettings    []SafetySetting   `json:"safetySettings,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
	ToolConfig        *ToolConfig       `json:"toolConfig,omitempty"`
	CachedContent     string            `json:"cachedContent,omitempty"`
}

// GenerateBuilder assembles a generation request step by step. The zero
// value is not usable; obtain one from Client.Generate. Builders are not
// safe for concurrent use, but the requests they produce are detached:
// mutating the builder after Build does not affect requests already built.
type GenerateBuilder struct {
	client *Client
	model  string
	req    GenerateContentRequest
}

// Generate starts a generation request against the client's default model.
func (c *Client) Generate() *GenerateBuilder {
	return &GenerateBuilder{client: c, model: c.config.Model}
}

// Model overrides the model for this request.
func (b *GenerateBuilder) Model(model string) *GenerateBuilder {
	b.model = model
	return b
}

// System sets the system instruction. Calling it again replaces the
// previous instruction rather than appending.
func (b *GenerateBuilder) System(text string) *GenerateBuilder {
	content := Content{Parts: []Part{TextPart(text)}}
	b.req.SystemInstruction = &content
	return b
}

// User appends a user turn with the given text.
func (b *GenerateBuilder) User(text string) *GenerateBuilder {
	b.req.Contents = append(b.req.Contents, Text(text).WithRole(RoleUser))
	return b
}

// ModelTurn appends a model turn with the given text, for seeding
// multi-turn history.
func (b *GenerateBuilder) ModelTurn(text string) *GenerateBuilder {
	b.req.Contents = append(b.req.Contents, Text(text).WithRole(RoleModel))
	return b
}

// Message appends one conversation turn as-is.
func (b *GenerateBuilder) Message(content Content) *GenerateBuilder {
	b.req.Contents = append(b.req.Contents, content)
	return b
}

// Messages appends conversation turns in order.
func (b *GenerateBuilder) Messages(contents ...Content) *GenerateBuilder {
	b.req.Contents = append(b.req.Contents, contents...)
	return b
}

// FunctionResponse appends a function-role turn feeding an executed call's
// result back to the model.
func (b *GenerateBuilder) FunctionResponse(name string, response json.RawMessage) *GenerateBuilder {
	content := Content{
		Role:  RoleFunction,
		Parts: []Part{FunctionResponsePart(name, response)},
	}
	b.req.Contents = append(b.req.Contents, content)
	return b
}

// InlineData attaches base64-encoded media to the current user turn. If
// the last turn is not a user turn, a new one is created, so media can
// lead a message and the following User call still lands in its own turn.
func (b *GenerateBuilder) InlineData(mimeType, data string) *GenerateBuilder {
	b.appendToUserTurn(InlineDataPart(mimeType, data))
	return b
}

// FileRef attaches previously uploaded file content to the current user
// turn, creating one if needed.
func (b *GenerateBuilder) FileRef(mimeType, fileURI string) *GenerateBuilder {
	b.appendToUserTurn(FileDataPart(mimeType, fileURI))
	return b
}

// appendToUserTurn adds a part to the most recent user turn, creating one
// when the conversation is empty or ends with a non-user turn.
func (b *GenerateBuilder) appendToUserTurn(part Part) {
	n := len(b.req.Contents)
	if n > 0 && b.req.Contents[n-1].Role == RoleUser {
		b.req.Contents[n-1].Parts = append(b.req.Contents[n-1].Parts, part)
		return
	}
	b.req.Contents = append(b.req.Contents, Content{Role: RoleUser, Parts: []Part{part}})
}

// Function declares one callable function, merged into a single function
// tool alongside any previously declared functions.
func (b *GenerateBuilder) Function(decl FunctionDeclaration) *GenerateBuilder {
	for i := range b.req.Tools {
		if b.req.Tools[i].FunctionDeclarations != nil {
			b.req.Tools[i].FunctionDeclarations = append(b.req.Tools[i].FunctionDeclarations, decl)
			return b
		}
	}
	b.req.Tools = append(b.req.Tools, NewFunctionTool(decl))
	return b
}

// Tool adds a tool to the request. Tools are sent in the order added; the
// service decides which combinations it accepts.
func (b *GenerateBuilder) Tool(tool Tool) *GenerateBuilder {
	b.req.Tools = append(b.req.Tools, tool)
	return b
}

// ToolConfig sets request-level tool behavior.
func (b *GenerateBuilder) ToolConfig(cfg ToolConfig) *GenerateBuilder {
	b.req.ToolConfig = &cfg
	return b
}

// FunctionCallingMode is shorthand for a tool config with just the calling
// mode set.
func (b *GenerateBuilder) FunctionCallingMode(mode FunctionCallingMode) *GenerateBuilder {
	return b.ToolConfig(ToolConfig{
		FunctionCallingConfig: &FunctionCallingConfig{Mode: mode},
	})
}

// GenerationConfig replaces the whole generation config. Knob helpers
// called afterwards mutate the new config.
func (b *GenerateBuilder) GenerationConfig(cfg GenerationConfig) *GenerateBuilder {
	b.req.GenerationConfig = &cfg
	return b
}

func (b *GenerateBuilder) genConfig() *GenerationConfig {
	if b.req.GenerationConfig == nil {
		b.req.GenerationConfig = &GenerationConfig{}
	}
	return b.req.GenerationConfig
}

// Temperature sets the sampling temperature.
func (b *GenerateBuilder) Temperature(t float32) *GenerateBuilder {
	b.genConfig().Temperature = &t
	return b
}

// TopP sets the nucleus sampling threshold.
func (b *GenerateBuilder) TopP(p float32) *GenerateBuilder {
	b.genConfig().TopP = &p
	return b
}

// TopK sets the top-k sampling cutoff.
func (b *GenerateBuilder) TopK(k int32) *GenerateBuilder {
	b.genConfig().TopK = &k
	return b
}

// MaxOutputTokens caps the response length.
func (b *GenerateBuilder) MaxOutputTokens(n int32) *GenerateBuilder {
	b.genConfig().MaxOutputTokens = &n
	return b
}

// CandidateCount requests multiple independent candidates.
func (b *GenerateBuilder) CandidateCount(n int32) *GenerateBuilder {
	b.genConfig().CandidateCount = &n
	return b
}

// StopSequences sets the sequences that end generation.
func (b *GenerateBuilder) StopSequences(seqs ...string) *GenerateBuilder {
	b.genConfig().StopSequences = seqs
	return b
}

// ResponseMIMEType sets the output MIME type, e.g. "application/json".
func (b *GenerateBuilder) ResponseMIMEType(mimeType string) *GenerateBuilder {
	b.genConfig().ResponseMIMEType = mimeType
	return b
}

// ResponseSchema constrains structured output to a JSON Schema fragment,
// passed through verbatim.
func (b *GenerateBuilder) ResponseSchema(schema json.RawMessage) *GenerateBuilder {
	b.genConfig().ResponseSchema = schema
	return b
}

// JSONResponse asks for JSON output conforming to the given schema. Pass
// nil to request JSON without a schema.
func (b *GenerateBuilder) JSONResponse(schema json.RawMessage) *GenerateBuilder {
	cfg := b.genConfig()
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = schema
	return b
}

// ResponseModalities selects the output modalities.
func (b *GenerateBuilder) ResponseModalities(modalities ...Modality) *GenerateBuilder {
	b.genConfig().ResponseModalities = modalities
	return b
}

// MediaResolution selects vision input detail.
func (b *GenerateBuilder) MediaResolution(res MediaResolution) *GenerateBuilder {
	b.genConfig().MediaResolution = res
	return b
}

// SafetySetting sets the block threshold for one harm category. The
// request carries at most one setting per category; a repeated category
// overwrites the earlier threshold.
func (b *GenerateBuilder) SafetySetting(category HarmCategory, threshold HarmBlockThreshold) *GenerateBuilder {
	for i := range b.req.SafetySettings {
		if b.req.SafetySettings[i].Category == category {
			b.req.SafetySettings[i].Threshold = threshold
			return b
		}
	}
	b.req.SafetySettings = append(b.req.SafetySettings, SafetySetting{Category: category, Threshold: threshold})
	return b
}

func (b *GenerateBuilder) thinkingConfig() *ThinkingConfig {
	cfg := b.genConfig()
	if cfg.ThinkingConfig == nil {
		cfg.ThinkingConfig = &ThinkingConfig{}
	}
	return cfg.ThinkingConfig
}

// ThinkingBudget sets the reasoning token budget for models that take one.
func (b *GenerateBuilder) ThinkingBudget(tokens int32) *GenerateBuilder {
	b.thinkingConfig().ThinkingBudget = &tokens
	return b
}

// DynamicThinking lets the model choose its own reasoning budget.
func (b *GenerateBuilder) DynamicThinking() *GenerateBuilder {
	return b.ThinkingBudget(-1)
}

// ThinkingLevel sets the coarse reasoning effort for models that take a
// level instead of a budget.
func (b *GenerateBuilder) ThinkingLevel(level ThinkingLevel) *GenerateBuilder {
	b.thinkingConfig().ThinkingLevel = level
	return b
}

// IncludeThoughts asks the service to return thought summaries alongside
// the answer.
func (b *GenerateBuilder) IncludeThoughts() *GenerateBuilder {
	include := true
	b.thinkingConfig().IncludeThoughts = &include
	return b
}

// Voice requests audio output spoken by one prebuilt voice.
func (b *GenerateBuilder) Voice(voiceName string) *GenerateBuilder {
	cfg := b.genConfig()
	cfg.ResponseModalities = []Modality{ModalityAudio}
	cfg.SpeechConfig = SingleVoice(voiceName)
	return b
}

// MultiSpeakerVoices requests audio output with per-speaker voices.
func (b *GenerateBuilder) MultiSpeakerVoices(speakers ...SpeakerVoiceConfig) *GenerateBuilder {
	cfg := b.genConfig()
	cfg.ResponseModalities = []Modality{ModalityAudio}
	cfg.SpeechConfig = MultiSpeaker(speakers...)
	return b
}

// CachedContent references a cached-content resource whose prefix the
// service prepends server-side.
func (b *GenerateBuilder) CachedContent(name string) *GenerateBuilder {
	b.req.CachedContent = name
	return b
}

// Build finalizes the request. The returned request owns fresh slices, so
// continuing to mutate the builder cannot alias into it. Returns
// ErrNoContent when no conversation turns were added.
func (b *GenerateBuilder) Build() (*GenerateContentRequest, error) {
	if len(b.req.Contents) == 0 {
		return nil, ErrNoContent
	}

	req := b.req
	req.Contents = make([]Content, len(b.req.Contents))
	for i, c := range b.req.Contents {
		req.Contents[i] = c
		req.Contents[i].Parts = append([]Part(nil), c.Parts...)
	}
	req.SafetySettings = append([]SafetySetting(nil), b.req.SafetySettings...)
	req.Tools = append([]Tool(nil), b.req.Tools...)
	if b.req.GenerationConfig != nil {
		cfg := *b.req.GenerationConfig
		req.GenerationConfig = &cfg
	}
	if b.req.SystemInstruction != nil {
		sys := *b.req.SystemInstruction
		sys.Parts = append([]Part(nil), b.req.SystemInstruction.Parts...)
		req.SystemInstruction = &sys
	}
	if b.req.ToolConfig != nil {
		tc := *b.req.ToolConfig
		req.ToolConfig = &tc
	}
	return &req, nil
}

// Execute builds the request and performs a blocking generateContent call.
func (b *GenerateBuilder) Execute(ctx context.Context) (*GenerationResponse, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.client.GenerateContent(ctx, b.model, req)
}

// ExecuteStream builds the request and opens a streaming generation. The
// caller must drain or close the returned stream.
func (b *GenerateBuilder) ExecuteStream(ctx context.Context) (*Stream, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.client.GenerateContentStream(ctx, b.model, req)
}

// CountTokens builds the request and asks the service how many tokens it
// consumes, without generating.
func (b *GenerateBuilder) CountTokens(ctx context.Context) (*TokenCount, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.client.CountTokens(ctx, b.model, req)
}

// GenerateContent performs one blocking generation exchange with a
// pre-built request.
func (c *Client) GenerateContent(ctx context.Context, model string, req *GenerateContentRequest) (*GenerationResponse, error) {
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "generateContent", Model: model, Start: start})

	var resp GenerationResponse
	err := c.postJSON(ctx, c.modelURL(model, "generateContent"), req, &resp)

	end := RequestEndEvent{Operation: "generateContent", Model: model, Start: start, End: time.Now(), Err: err}
	if err == nil {
		end.Usage = resp.UsageMetadata
	}
	c.telemetry.OnRequestEnd(end)

	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateContentStream opens a streaming generation with a pre-built
// request. Fragments arrive through the returned Stream.
func (c *Client) GenerateContentStream(ctx context.Context, model string, req *GenerateContentRequest) (*Stream, error) {
	start := time.Now()
	c.telemetry.OnRequestStart(RequestStartEvent{Operation: "streamGenerateContent", Model: model, Start: start})

	u := c.modelURL(model, "streamGenerateContent") + "?alt=sse"
	body, err := c.postStream(ctx, u, req)
	if err != nil {
		c.telemetry.OnRequestEnd(RequestEndEvent{
			Operation: "streamGenerateContent", Model: model,
			Start: start, End: time.Now(), Err: err,
		})
		return nil, err
	}

	stream := newStream(body)
	stream.onDone = func(usage *UsageMetadata, streamErr error) {
		c.telemetry.OnRequestEnd(RequestEndEvent{
			Operation: "streamGenerateContent", Model: model,
			Start: start, End: time.Now(), Usage: usage, Err: streamErr,
		})
	}
	return stream, nil
}
