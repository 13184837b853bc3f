package speaker

import (
	"fmt"
	"sort"
	"strings"
)

// RoleConfig holds the cue phrases and weights driving role inference. The
// lists are injected configuration, not embedded constants, so deployments
// can localize them and tests can pin them.
type RoleConfig struct {
	OperatorCues     []string `yaml:"operator_cues"`
	ClientCues       []string `yaml:"client_cues"`
	FirstSpeakerBias float64  `yaml:"first_speaker_bias"`
	CueWeight        float64  `yaml:"cue_weight"`
}

// DefaultRoleConfig returns the production cue lists (Spanish collection
// calls: greetings and self-identification for operators, distress and
// complaint phrases for clients).
func DefaultRoleConfig() RoleConfig {
	return RoleConfig{
		OperatorCues: []string{
			"lo llamo de",
			"buenos dias",
			"buenos días",
			"mi nombre es",
			"habla con",
			"en que puedo ayudar",
			"soy del",
		},
		ClientCues: []string{
			"no puedo pagar",
			"estoy sin trabajo",
			"necesito ayuda",
			"no me cobraron bien",
			"no tengo dinero",
			"no estoy de acuerdo",
		},
		FirstSpeakerBias: 0.3,
		CueWeight:        0.2,
	}
}

// InferRoles assigns operator/client roles to the diarized speakers. It is a
// pure function of the transcripts, their iteration order, and the cue
// configuration. Speakers beyond the top two scorers are left unassigned;
// only two roles are modeled.
func InferRoles(transcripts []Transcript, cfg RoleConfig) RoleMapping {
	if len(transcripts) == 0 {
		return RoleMapping{Strategy: StrategyNoData}
	}

	if len(transcripts) == 1 {
		return RoleMapping{
			Operator:   &transcripts[0].Speaker,
			Confidence: 0.4,
			Strategy:   StrategySingleSpeaker,
			Notes:      "only one speaker detected",
		}
	}

	type scored struct {
		speaker string
		score   float64
	}
	scores := make([]scored, len(transcripts))
	for idx, entry := range transcripts {
		text := strings.ToLower(entry.Text)
		score := 0.0
		// Operators conventionally open the call.
		if idx == 0 {
			score += cfg.FirstSpeakerBias
		}
		for _, cue := range cfg.OperatorCues {
			if strings.Contains(text, strings.ToLower(cue)) {
				score += cfg.CueWeight
			}
		}
		for _, cue := range cfg.ClientCues {
			if strings.Contains(text, strings.ToLower(cue)) {
				score -= cfg.CueWeight
			}
		}
		scores[idx] = scored{speaker: entry.Speaker, score: score}
	}

	// Stable sort keeps iteration order on ties, so the first speaker wins
	// an otherwise even call.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	operator := scores[0]
	client := scores[1]

	confidence := clamp(operator.score-client.score, 0.2, 0.95)

	mapping := RoleMapping{
		Operator:   &operator.speaker,
		Client:     &client.speaker,
		Confidence: confidence,
		Strategy:   StrategyCueAndOrder,
		Uncertain:  confidence < 0.5,
	}
	if len(transcripts) > 2 {
		// No policy exists for the remainder; record the limitation.
		mapping.Notes = fmt.Sprintf("%d speakers detected; only the top two scorers were assigned roles", len(transcripts))
	}

	return mapping
}

// StereoRoleMapping is the fixed business convention for two-channel calls:
// the telephony stack records the operator on the left channel and the
// client on the right.
func StereoRoleMapping() RoleMapping {
	left := ChannelLeft
	right := ChannelRight
	return RoleMapping{
		Operator:   &left,
		Client:     &right,
		Confidence: 0.95,
		Strategy:   StrategyStereoChannel,
		Notes:      "left channel mapped to operator by recording convention",
	}
}

// ApplyMapping stamps the inferred roles onto the matching transcripts.
func ApplyMapping(transcripts []Transcript, mapping RoleMapping) {
	for i := range transcripts {
		switch {
		case mapping.Operator != nil && transcripts[i].Speaker == *mapping.Operator:
			transcripts[i].Role = RoleOperator
		case mapping.Client != nil && transcripts[i].Speaker == *mapping.Client:
			transcripts[i].Role = RoleClient
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
