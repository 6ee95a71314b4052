package gemkit

import "encoding/json"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser     Role = "user"
	RoleModel    Role = "model"
	RoleFunction Role = "function"
)

// Content is a single conversation turn: an ordered list of parts plus an
// optional role. Both fields are optional on the wire; the service omits
// content entirely for safety-blocked candidates, and absence is distinct
// from an empty part list.
type Content struct {
	Parts []Part `json:"parts,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

// Text creates a content value holding a single text part.
func Text(text string) Content {
	return Content{Parts: []Part{TextPart(text)}}
}

// WithRole returns a copy of the content with the role set.
func (c Content) WithRole(role Role) Content {
	c.Role = role
	return c
}

// Part is one element of a turn. Exactly one of the payload fields is
// populated per instance; the constructors below uphold that invariant.
// Unknown keys in a wire part are ignored rather than failing the decode,
// so API additions do not break older clients.
type Part struct {
	Text             string               `json:"text,omitempty"`
	Thought          *bool                `json:"thought,omitempty"`
	ThoughtSignature string               `json:"thoughtSignature,omitempty"`
	InlineData       *Blob                `json:"inlineData,omitempty"`
	FileData         *FileData            `json:"fileData,omitempty"`
	FunctionCall     *FunctionCall        `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse    `json:"functionResponse,omitempty"`
	ExecutableCode   *ExecutableCode      `json:"executableCode,omitempty"`
	CodeExecution    *CodeExecutionResult `json:"codeExecutionResult,omitempty"`
}

// TextPart creates a plain text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ThoughtPart creates a thought-marked text part with an optional
// signature, as returned by thinking-enabled models.
func ThoughtPart(text, signature string) Part {
	thought := true
	return Part{Text: text, Thought: &thought, ThoughtSignature: signature}
}

// InlineDataPart creates a part carrying inline base64 media.
func InlineDataPart(mimeType, data string) Part {
	return Part{InlineData: &Blob{MIMEType: mimeType, Data: data}}
}

// FileDataPart creates a part referencing uploaded media by handle.
func FileDataPart(mimeType, fileURI string) Part {
	return Part{FileData: &FileData{MIMEType: mimeType, FileURI: fileURI}}
}

// FunctionCallPart creates a part holding a model-issued function call.
func FunctionCallPart(name string, args json.RawMessage) Part {
	return Part{FunctionCall: &FunctionCall{Name: name, Args: args}}
}

// FunctionResponsePart creates a part holding the result of executing a
// function call.
func FunctionResponsePart(name string, response json.RawMessage) Part {
	return Part{FunctionResponse: &FunctionResponse{Name: name, Response: response}}
}

// IsThought reports whether the part is a thought summary.
func (p Part) IsThought() bool {
	return p.Thought != nil && *p.Thought
}

// Blob is inline binary data carried in a part, base64-encoded.
type Blob struct {
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// FileData references previously uploaded media by handle URI.
type FileData struct {
	MIMEType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

// ExecutableCode is code the model generated for the code-execution tool.
type ExecutableCode struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code,omitempty"`
}

// CodeExecutionResult is the outcome of running model-generated code.
type CodeExecutionResult struct {
	Outcome Outcome `json:"outcome,omitempty"`
	Output  string  `json:"output,omitempty"`
}

// Outcome classifies a code execution result. Unrecognized wire values are
// preserved as-is.
type Outcome string

const (
	OutcomeOK               Outcome = "OUTCOME_OK"
	OutcomeFailed           Outcome = "OUTCOME_FAILED"
	OutcomeDeadlineExceeded Outcome = "OUTCOME_DEADLINE_EXCEEDED"
)

// CitationMetadata lists the sources cited by generated content.
type CitationMetadata struct {
	CitationSources []CitationSource `json:"citationSources,omitempty"`
}

// CitationSource describes one cited source.
type CitationSource struct {
	URI        string `json:"uri,omitempty"`
	Title      string `json:"title,omitempty"`
	StartIndex *int32 `json:"startIndex,omitempty"`
	EndIndex   *int32 `json:"endIndex,omitempty"`
	License    string `json:"license,omitempty"`
}
