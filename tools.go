package gemkit

import "encoding/json"

// Tool declares a capability the model may use while generating. Exactly
// one of the fields is populated per tool; the constructors below uphold
// that. The request carries tools in caller order and the service is the
// arbiter of combinations it accepts (for example at most one
// retrieval-style built-in per request); no local validation is applied.
type Tool struct {
	FunctionDeclarations  []FunctionDeclaration  `json:"functionDeclarations,omitempty"`
	GoogleSearch          *GoogleSearch          `json:"googleSearch,omitempty"`
	GoogleSearchRetrieval *GoogleSearchRetrieval `json:"googleSearchRetrieval,omitempty"`
	GoogleMaps            *GoogleMaps            `json:"googleMaps,omitempty"`
	URLContext            *URLContext            `json:"urlContext,omitempty"`
	CodeExecution         *CodeExecution         `json:"codeExecution,omitempty"`
	FileSearch            *FileSearchTool        `json:"fileSearch,omitempty"`
}

// NewFunctionTool wraps one or more function declarations as a tool.
func NewFunctionTool(declarations ...FunctionDeclaration) Tool {
	return Tool{FunctionDeclarations: declarations}
}

// GoogleSearchTool enables grounding through Google Search.
func GoogleSearchTool() Tool {
	return Tool{GoogleSearch: &GoogleSearch{}}
}

// GoogleMapsTool enables grounding through Google Maps, optionally biased
// toward a location.
func GoogleMapsTool(latLng *LatLng) Tool {
	return Tool{GoogleMaps: &GoogleMaps{LatLng: latLng}}
}

// URLContextTool lets the model fetch URLs mentioned in the prompt.
func URLContextTool() Tool {
	return Tool{URLContext: &URLContext{}}
}

// CodeExecutionTool lets the model write and run code.
func CodeExecutionTool() Tool {
	return Tool{CodeExecution: &CodeExecution{}}
}

// FileSearchStoreTool enables retrieval over previously imported
// file-search stores.
func FileSearchStoreTool(storeNames ...string) Tool {
	return Tool{FileSearch: &FileSearchTool{FileSearchStoreNames: storeNames}}
}

// GoogleSearchRetrievalTool enables the legacy dynamic-retrieval form of
// search grounding used by Gemini 1.5 models. Threshold below which the
// model retrieves is optional.
func GoogleSearchRetrievalTool(threshold *float32) Tool {
	t := &GoogleSearchRetrieval{}
	if threshold != nil {
		t.DynamicRetrievalConfig = &DynamicRetrievalConfig{
			Mode:             DynamicRetrievalModeDynamic,
			DynamicThreshold: threshold,
		}
	}
	return Tool{GoogleSearchRetrieval: t}
}

// GoogleSearch configures the Google Search built-in. It carries no
// options today.
type GoogleSearch struct{}

// GoogleSearchRetrieval configures legacy search grounding.
type GoogleSearchRetrieval struct {
	DynamicRetrievalConfig *DynamicRetrievalConfig `json:"dynamicRetrievalConfig,omitempty"`
}

// DynamicRetrievalConfig controls when dynamic retrieval runs.
type DynamicRetrievalConfig struct {
	Mode             DynamicRetrievalMode `json:"mode,omitempty"`
	DynamicThreshold *float32             `json:"dynamicThreshold,omitempty"`
}

// DynamicRetrievalMode selects the dynamic-retrieval policy.
type DynamicRetrievalMode string

const (
	DynamicRetrievalModeUnspecified DynamicRetrievalMode = "MODE_UNSPECIFIED"
	DynamicRetrievalModeDynamic     DynamicRetrievalMode = "MODE_DYNAMIC"
)

// GoogleMaps configures the Google Maps built-in.
type GoogleMaps struct {
	LatLng *LatLng `json:"latLng,omitempty"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// URLContext configures the URL-context built-in. It carries no options
// today.
type URLContext struct{}

// CodeExecution configures the code-execution built-in. It carries no
// options today.
type CodeExecution struct{}

// FileSearchTool configures retrieval over file-search stores.
type FileSearchTool struct {
	FileSearchStoreNames []string `json:"fileSearchStoreNames,omitempty"`
}

// Behavior selects how the model waits for a function response.
type Behavior string

const (
	BehaviorBlocking    Behavior = "BLOCKING"
	BehaviorNonBlocking Behavior = "NON_BLOCKING"
)

// FunctionDeclaration describes a caller-provided function the model may
// call. Parameters and Response are JSON Schema fragments passed through
// verbatim.
type FunctionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Behavior    Behavior        `json:"behavior,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
}

// FunctionCall is a call the model wants executed. Args preserves the raw
// JSON the service produced, without reformatting.
type FunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// FunctionResponse feeds the result of an executed call back to the model.
type FunctionResponse struct {
	Name     string          `json:"name"`
	Response json.RawMessage `json:"response,omitempty"`
}

// ToolConfig carries request-level tool behavior.
type ToolConfig struct {
	FunctionCallingConfig *FunctionCallingConfig `json:"functionCallingConfig,omitempty"`
}

// FunctionCallingConfig restricts when and which functions may be called.
type FunctionCallingConfig struct {
	Mode                 FunctionCallingMode `json:"mode,omitempty"`
	AllowedFunctionNames []string            `json:"allowedFunctionNames,omitempty"`
}

// FunctionCallingMode selects the function-calling policy.
type FunctionCallingMode string

const (
	FunctionCallingAuto FunctionCallingMode = "AUTO"
	FunctionCallingAny  FunctionCallingMode = "ANY"
	FunctionCallingNone FunctionCallingMode = "NONE"
)
