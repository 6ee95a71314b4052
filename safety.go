package gemkit

// HarmCategory names a class of potentially harmful content. Declared as a
// string so future categories decode without error.
type HarmCategory string

const (
	HarmCategoryUnspecified      HarmCategory = "HARM_CATEGORY_UNSPECIFIED"
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategoryCivicIntegrity   HarmCategory = "HARM_CATEGORY_CIVIC_INTEGRITY"
)

// HarmBlockThreshold controls how aggressively a category is filtered.
type HarmBlockThreshold string

const (
	ThresholdUnspecified         HarmBlockThreshold = "HARM_BLOCK_THRESHOLD_UNSPECIFIED"
	ThresholdBlockLowAndAbove    HarmBlockThreshold = "BLOCK_LOW_AND_ABOVE"
	ThresholdBlockMediumAndAbove HarmBlockThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	ThresholdBlockOnlyHigh       HarmBlockThreshold = "BLOCK_ONLY_HIGH"
	ThresholdBlockNone           HarmBlockThreshold = "BLOCK_NONE"
	ThresholdOff                 HarmBlockThreshold = "OFF"
)

// HarmProbability is the model's assessment of how likely content is to be
// harmful in a given category.
type HarmProbability string

const (
	ProbabilityUnspecified HarmProbability = "HARM_PROBABILITY_UNSPECIFIED"
	ProbabilityNegligible  HarmProbability = "NEGLIGIBLE"
	ProbabilityLow         HarmProbability = "LOW"
	ProbabilityMedium      HarmProbability = "MEDIUM"
	ProbabilityHigh        HarmProbability = "HIGH"
)

// SafetyRating is the service's per-category assessment of a candidate or
// prompt.
type SafetyRating struct {
	Category    HarmCategory    `json:"category,omitempty"`
	Probability HarmProbability `json:"probability,omitempty"`
	Blocked     *bool           `json:"blocked,omitempty"`
}

// SafetySetting asks the service to filter one harm category at a given
// threshold. A request carries at most one setting per category.
type SafetySetting struct {
	Category  HarmCategory       `json:"category"`
	Threshold HarmBlockThreshold `json:"threshold"`
}

// BlockReason explains why a prompt was rejected outright.
type BlockReason string

const (
	BlockReasonUnspecified       BlockReason = "BLOCK_REASON_UNSPECIFIED"
	BlockReasonSafety            BlockReason = "SAFETY"
	BlockReasonOther             BlockReason = "OTHER"
	BlockReasonBlocklist         BlockReason = "BLOCKLIST"
	BlockReasonProhibitedContent BlockReason = "PROHIBITED_CONTENT"
	BlockReasonImageSafety       BlockReason = "IMAGE_SAFETY"
)

// PromptFeedback reports safety findings about the prompt itself.
type PromptFeedback struct {
	BlockReason   BlockReason    `json:"blockReason,omitempty"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
}
