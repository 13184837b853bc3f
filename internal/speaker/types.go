// Package speaker maps diarized voice spans and transcript segments to
// per-speaker transcripts, assigns operator/client roles, and computes the
// speaking balance between them.
package speaker

// Semantic roles. Only two are modeled.
const (
	RoleOperator = "operator"
	RoleClient   = "client"
)

// Role-inference strategies recorded on a RoleMapping.
const (
	StrategyNoData        = "no_data"
	StrategySingleSpeaker = "single_speaker"
	StrategyCueAndOrder   = "cue_and_order"
	StrategyStereoChannel = "stereo_channel_mapping"
)

// Speaker labels used by the stereo path.
const (
	ChannelLeft  = "channel_left"
	ChannelRight = "channel_right"
)

// AlignedSegment is a transcript segment attributed to a diarized speaker.
type AlignedSegment struct {
	Speaker    string  `json:"speaker"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Transcript is the accumulated speech of one speaker.
type Transcript struct {
	Speaker   string  `json:"speaker"`
	Role      string  `json:"role,omitempty"`
	Text      string  `json:"text"`
	Duration  float64 `json:"duration"`
	WordCount int     `json:"word_count"`
}

// RoleMapping assigns the operator and client roles to speaker labels.
// Operator and Client are nil when no speaker could take the role.
type RoleMapping struct {
	Operator   *string `json:"operator"`
	Client     *string `json:"client"`
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy"`
	Uncertain  bool    `json:"uncertain,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// Balance is the relative share of words between the two roles.
type Balance struct {
	OperatorPercentage float64 `json:"operator_percentage"`
	ClientPercentage   float64 `json:"client_percentage"`
	OperatorWords      int     `json:"operator_words"`
	ClientWords        int     `json:"client_words"`
	Quality            string  `json:"balance_quality"`
}

// Balance quality classifications.
const (
	BalanceNoData     = "no_data"
	BalanceBalanced   = "balanced"
	BalanceImbalanced = "imbalanced"
)
