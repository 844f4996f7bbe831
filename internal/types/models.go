package types

// VerbType classifies verbs for urgency scoring. Empty for non-verbs and
// for tokens produced by the fallback tokenizer.
type VerbType string

const (
	VerbState  VerbType = "state"
	VerbAction VerbType = "action"
)

// TokenDetail is one morpheme of the analyzed text. Start is the byte
// offset of Surface in the normalized text.
type TokenDetail struct {
	Surface   string   `json:"surface"`
	POS       string   `json:"pos"`
	POSDetail string   `json:"pos_detail"`
	BaseForm  string   `json:"base_form"`
	VerbType  VerbType `json:"verb_type,omitempty"`
	Start     int      `json:"start"`
}

// DetectedWord is a dictionary hit inside the input text.
type DetectedWord struct {
	Surface  string  `json:"surface"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
	Position int     `json:"position"`
}

type EmotionCategory string

const (
	EmotionAnger        EmotionCategory = "anger"
	EmotionFrustration  EmotionCategory = "frustration"
	EmotionAnxiety      EmotionCategory = "anxiety"
	EmotionSatisfaction EmotionCategory = "satisfaction"
	EmotionNeutral      EmotionCategory = "neutral"
)

// EmotionCategories lists every category in report order.
func EmotionCategories() []EmotionCategory {
	return []EmotionCategory{EmotionAnger, EmotionFrustration, EmotionAnxiety, EmotionSatisfaction, EmotionNeutral}
}

// Valid reports whether c is one of the closed set.
func (c EmotionCategory) Valid() bool {
	for _, v := range EmotionCategories() {
		if c == v {
			return true
		}
	}
	return false
}

// Negative is true for categories that raise the triage score.
func (c EmotionCategory) Negative() bool {
	return c == EmotionAnger || c == EmotionFrustration || c == EmotionAnxiety
}

type EmotionSignal struct {
	Category      EmotionCategory `json:"category"`
	Intensity     float64         `json:"intensity"`
	DetectedWords []DetectedWord  `json:"detected_words"`
}

type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

func UrgencyLevels() []UrgencyLevel {
	return []UrgencyLevel{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}
}

// Rank orders levels low=0 .. critical=3; unknown values rank -1.
func (l UrgencyLevel) Rank() int {
	for i, v := range UrgencyLevels() {
		if l == v {
			return i
		}
	}
	return -1
}

type UrgencySignal struct {
	Level         UrgencyLevel   `json:"level"`
	Score         float64        `json:"score"`
	DetectedWords []DetectedWord `json:"detected_words"`
}

type CertaintyLevel string

const (
	CertaintyUncertain CertaintyLevel = "uncertain"
	CertaintyHedged    CertaintyLevel = "hedged"
	CertaintyCertain   CertaintyLevel = "certain"
)

type CertaintySignal struct {
	Level         CertaintyLevel `json:"level"`
	Score         float64        `json:"score"`
	DetectedWords []DetectedWord `json:"detected_words"`
}

type PolitenessLevel string

const (
	PolitenessBlunt   PolitenessLevel = "blunt"
	PolitenessCasual  PolitenessLevel = "casual"
	PolitenessNeutral PolitenessLevel = "neutral"
	PolitenessPolite  PolitenessLevel = "polite"
	PolitenessFormal  PolitenessLevel = "formal"
)

func PolitenessLevels() []PolitenessLevel {
	return []PolitenessLevel{PolitenessBlunt, PolitenessCasual, PolitenessNeutral, PolitenessPolite, PolitenessFormal}
}

// EndingForm is the register of a sentence-final pattern.
type EndingForm string

const (
	FormFormal EndingForm = "formal"
	FormPlain  EndingForm = "plain"
	FormBlunt  EndingForm = "blunt"
)

type EndingPattern struct {
	Pattern string     `json:"pattern"`
	Form    EndingForm `json:"form"`
}

type PolitenessSignal struct {
	Level         PolitenessLevel `json:"level"`
	Score         float64         `json:"score"`
	EndingPattern *EndingPattern  `json:"ending_pattern"`
	Markers       []DetectedWord  `json:"markers"`
}

type SignalSet struct {
	Emotion    EmotionSignal    `json:"emotion"`
	Urgency    UrgencySignal    `json:"urgency"`
	Certainty  CertaintySignal  `json:"certainty"`
	Politeness PolitenessSignal `json:"politeness"`
}

type OverallScore struct {
	Value               float64  `json:"value"`
	ContributingSignals []string `json:"contributing_signals"`
}

type RecommendedAction string

const (
	ActionNone            RecommendedAction = "no-action"
	ActionAutoAcknowledge RecommendedAction = "auto-acknowledge"
	ActionRouteToHuman    RecommendedAction = "route-to-human"
	ActionEscalateUrgent  RecommendedAction = "escalate-urgent"
)

func RecommendedActions() []RecommendedAction {
	return []RecommendedAction{ActionNone, ActionAutoAcknowledge, ActionRouteToHuman, ActionEscalateUrgent}
}

type Recommendation struct {
	Action    RecommendedAction `json:"action"`
	Rationale []string          `json:"rationale"`
}

type AnalysisInput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type AnalysisOutput struct {
	ID                 string            `json:"id"`
	Text               string            `json:"text"`
	Tokens             []TokenDetail     `json:"tokens"`
	Signals            SignalSet         `json:"signals"`
	OverallScore       OverallScore      `json:"overall_score"`
	Recommendation     Recommendation    `json:"recommendation"`
	DictionaryVersions map[string]string `json:"dictionary_versions"`
}

// BatchItem is the slot for one batch input. Exactly one of Output and
// Error is set.
type BatchItem struct {
	ID     string          `json:"id"`
	Output *AnalysisOutput `json:"output,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type BatchSummary struct {
	Total            int            `json:"total"`
	Analyzed         int            `json:"analyzed"`
	Failed           int            `json:"failed"`
	ByUrgency        map[string]int `json:"by_urgency"`
	ByEmotion        map[string]int `json:"by_emotion"`
	ByAction         map[string]int `json:"by_action"`
	MeanOverallScore float64        `json:"mean_overall_score"`
}

type BatchAnalysisOutput struct {
	Items   []BatchItem  `json:"items"`
	Summary BatchSummary `json:"summary"`
}
