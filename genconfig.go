package gemkit

import "encoding/json"

// GenerationConfig holds the optional sampling and output knobs for a
// generation request. Every field is optional; an absent field means "use
// the API default" and is never serialized as a zero value.
type GenerationConfig struct {
	Temperature        *float32        `json:"temperature,omitempty"`
	TopP               *float32        `json:"topP,omitempty"`
	TopK               *int32          `json:"topK,omitempty"`
	CandidateCount     *int32          `json:"candidateCount,omitempty"`
	MaxOutputTokens    *int32          `json:"maxOutputTokens,omitempty"`
	StopSequences      []string        `json:"stopSequences,omitempty"`
	ResponseMIMEType   string          `json:"responseMimeType,omitempty"`
	ResponseSchema     json.RawMessage `json:"responseSchema,omitempty"`
	ResponseModalities []Modality      `json:"responseModalities,omitempty"`
	MediaResolution    MediaResolution `json:"mediaResolution,omitempty"`
	ThinkingConfig     *ThinkingConfig `json:"thinkingConfig,omitempty"`
	SpeechConfig       *SpeechConfig   `json:"speechConfig,omitempty"`
}

// Modality names an output modality the caller requests.
type Modality string

const (
	ModalityText  Modality = "TEXT"
	ModalityImage Modality = "IMAGE"
	ModalityAudio Modality = "AUDIO"
)

// MediaResolution selects how much detail vision inputs are processed at.
type MediaResolution string

const (
	MediaResolutionLow    MediaResolution = "MEDIA_RESOLUTION_LOW"
	MediaResolutionMedium MediaResolution = "MEDIA_RESOLUTION_MEDIUM"
	MediaResolutionHigh   MediaResolution = "MEDIA_RESOLUTION_HIGH"
)

// ThinkingConfig controls the model's reasoning phase. Gemini 2.5 models
// take a token budget (-1 lets the model decide); Gemini 3 models take a
// level string instead.
type ThinkingConfig struct {
	ThinkingBudget  *int32        `json:"thinkingBudget,omitempty"`
	ThinkingLevel   ThinkingLevel `json:"thinkingLevel,omitempty"`
	IncludeThoughts *bool         `json:"includeThoughts,omitempty"`
}

// ThinkingLevel is the coarse reasoning-effort setting for models that do
// not take a token budget.
type ThinkingLevel string

const (
	ThinkingMinimal ThinkingLevel = "minimal"
	ThinkingLow     ThinkingLevel = "low"
	ThinkingMedium  ThinkingLevel = "medium"
	ThinkingHigh    ThinkingLevel = "high"
)

// SpeechConfig selects voices for audio output. Exactly one of the two
// fields is set.
type SpeechConfig struct {
	VoiceConfig             *VoiceConfig             `json:"voiceConfig,omitempty"`
	MultiSpeakerVoiceConfig *MultiSpeakerVoiceConfig `json:"multiSpeakerVoiceConfig,omitempty"`
}

// SingleVoice builds a speech config using one prebuilt voice.
func SingleVoice(voiceName string) *SpeechConfig {
	return &SpeechConfig{
		VoiceConfig: &VoiceConfig{
			PrebuiltVoiceConfig: &PrebuiltVoiceConfig{VoiceName: voiceName},
		},
	}
}

// MultiSpeaker builds a speech config assigning voices to named speakers.
func MultiSpeaker(speakers ...SpeakerVoiceConfig) *SpeechConfig {
	return &SpeechConfig{
		MultiSpeakerVoiceConfig: &MultiSpeakerVoiceConfig{SpeakerVoiceConfigs: speakers},
	}
}

// VoiceConfig wraps a single voice selection.
type VoiceConfig struct {
	PrebuiltVoiceConfig *PrebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

// PrebuiltVoiceConfig names one of the service's stock voices.
type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName,omitempty"`
}

// MultiSpeakerVoiceConfig assigns voices per speaker for dialogue output.
type MultiSpeakerVoiceConfig struct {
	SpeakerVoiceConfigs []SpeakerVoiceConfig `json:"speakerVoiceConfigs,omitempty"`
}

// SpeakerVoiceConfig binds one speaker label to a voice.
type SpeakerVoiceConfig struct {
	Speaker     string      `json:"speaker"`
	VoiceConfig VoiceConfig `json:"voiceConfig"`
}
