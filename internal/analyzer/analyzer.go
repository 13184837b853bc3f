// Package analyzer is the speaker separation and role assignment facade. It
// routes two-channel recordings through per-channel transcription and mono
// recordings through energy diarization, then assembles the per-speaker
// transcripts, role mapping, speaking balance, and sentiment into one result.
package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/daialabs/callaudit/internal/audio"
	"github.com/daialabs/callaudit/internal/diarize"
	"github.com/daialabs/callaudit/internal/sentiment"
	"github.com/daialabs/callaudit/internal/speaker"
	"github.com/daialabs/callaudit/internal/transcribe"
)

// Processing stages reported through the OnStage hook.
const (
	StageProfiling    = "profiling"
	StageSplitting    = "splitting channels"
	StageDiarizing    = "diarizing"
	StageTranscribing = "transcribing"
	StageAligning     = "aligning speakers"
	StageClassifying  = "classifying sentiment"
)

// Diarizer segments a single-channel recording into speaker spans.
type Diarizer interface {
	Diarize(path string) ([]diarize.Segment, error)
}

// Options wires the facade. Transcriber is required; Classifier may be nil
// when no sentiment service is configured.
type Options struct {
	Transcriber transcribe.Transcriber
	Classifier  sentiment.Classifier
	Diarizer    Diarizer
	Roles       speaker.RoleConfig
	Balance     speaker.BalanceConfig
	Logger      *logrus.Logger

	// OnStage, when set, is invoked as processing enters each stage.
	OnStage func(stage string)
}

// Analyzer is the end-to-end speaker and role analysis facade. All state is
// call-scoped; one Analyzer may serve concurrent Process calls.
type Analyzer struct {
	transcriber transcribe.Transcriber
	classifier  sentiment.Classifier
	diarizer    Diarizer
	roles       speaker.RoleConfig
	balance     speaker.BalanceConfig
	log         *logrus.Logger
	onStage     func(stage string)

	// Indirections over the audio package, replaceable in tests.
	profile func(path string) (*audio.Profile, error)
	split   func(path string) (*audio.ChannelFiles, error)
}

// New builds an Analyzer from the options.
func New(opts Options) *Analyzer {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	d := opts.Diarizer
	if d == nil {
		d = diarize.New(diarize.DefaultConfig())
	}
	return &Analyzer{
		transcriber: opts.Transcriber,
		classifier:  opts.Classifier,
		diarizer:    d,
		roles:       opts.Roles,
		balance:     opts.Balance,
		log:         log,
		onStage:     opts.OnStage,
		profile:     audio.DetectProfile,
		split:       audio.SplitChannels,
	}
}

// Process analyzes the recording at audioPath. Collaborator and decoding
// errors propagate unmodified; degenerate (silent) audio is not an error.
func (a *Analyzer) Process(ctx context.Context, audioPath string) (*Result, error) {
	a.stage(StageProfiling)
	profile, err := a.profile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to profile %s: %w", audioPath, err)
	}

	a.log.WithFields(logrus.Fields{
		"file":     filepath.Base(audioPath),
		"channels": profile.Channels,
		"rate":     profile.SampleRate,
		"duration": profile.DurationSeconds,
	}).Info("audio profile detected")

	if profile.IsStereo() {
		return a.processStereo(ctx, audioPath, profile)
	}
	return a.processMono(ctx, audioPath, profile)
}

// processStereo relies on channel purity: each channel is one speaker, so no
// diarization or alignment is needed and roles follow the fixed channel
// convention.
func (a *Analyzer) processStereo(ctx context.Context, audioPath string, profile *audio.Profile) (*Result, error) {
	a.log.Info("stereo call: left channel=operator, right channel=client")

	a.stage(StageSplitting)
	channels, err := a.split(audioPath)
	if err != nil {
		return nil, err
	}
	// The temp artifacts must not outlive the call, whatever fails below.
	defer channels.Remove()

	a.stage(StageTranscribing)
	operatorTx, err := a.transcriber.Transcribe(ctx, channels.Left, false)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe left channel: %w", err)
	}
	clientTx, err := a.transcriber.Transcribe(ctx, channels.Right, false)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe right channel: %w", err)
	}

	transcripts := []speaker.Transcript{
		channelTranscript(speaker.ChannelLeft, speaker.RoleOperator, operatorTx, profile),
		channelTranscript(speaker.ChannelRight, speaker.RoleClient, clientTx, profile),
	}

	mapping := speaker.StereoRoleMapping()
	combined := labeledTranscript(transcripts)

	a.stage(StageClassifying)
	byRole, err := a.sentimentByRole(ctx, transcripts, combined)
	if err != nil {
		return nil, err
	}

	balance := speaker.ComputeBalance(transcripts, a.balance)

	language := operatorTx.Language
	if language == "" {
		language = clientTx.Language
	}

	return a.assemble(audioPath, profile, assembly{
		combined:    combined,
		language:    language,
		duration:    profile.DurationSeconds,
		segments:    []speaker.AlignedSegment{},
		transcripts: transcripts,
		mapping:     mapping,
		balance:     balance,
		sentiment:   byRole,
	}), nil
}

// processMono diarizes the single channel, aligns the timestamped transcript
// onto the speaker spans, and infers roles from cue phrases and order.
func (a *Analyzer) processMono(ctx context.Context, audioPath string, profile *audio.Profile) (*Result, error) {
	a.log.Info("mono call: diarizing and inferring roles")

	a.stage(StageDiarizing)
	diarized, err := a.diarizer.Diarize(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to diarize %s: %w", audioPath, err)
	}
	a.log.WithField("segments", len(diarized)).Debug("diarization complete")

	a.stage(StageTranscribing)
	tx, err := a.transcriber.Transcribe(ctx, audioPath, true)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe %s: %w", audioPath, err)
	}

	a.stage(StageAligning)
	aligned := speaker.Align(tx.Segments, diarized)
	transcripts := speaker.Aggregate(aligned)

	mapping := speaker.InferRoles(transcripts, a.roles)
	speaker.ApplyMapping(transcripts, mapping)

	a.log.WithFields(logrus.Fields{
		"strategy":   mapping.Strategy,
		"confidence": mapping.Confidence,
		"uncertain":  mapping.Uncertain,
	}).Info("roles inferred")

	combined := labeledTranscript(transcripts)

	a.stage(StageClassifying)
	byRole, err := a.sentimentByRole(ctx, transcripts, combined)
	if err != nil {
		return nil, err
	}

	balance := speaker.ComputeBalance(transcripts, a.balance)

	duration := tx.DurationSeconds
	if duration == 0 {
		duration = profile.DurationSeconds
	}

	return a.assemble(audioPath, profile, assembly{
		combined:    combined,
		language:    tx.Language,
		duration:    duration,
		segments:    aligned,
		transcripts: transcripts,
		mapping:     mapping,
		balance:     balance,
		sentiment:   byRole,
	}), nil
}

// assembly carries the per-path intermediate products into assemble.
type assembly struct {
	combined    string
	language    string
	duration    float64
	segments    []speaker.AlignedSegment
	transcripts []speaker.Transcript
	mapping     speaker.RoleMapping
	balance     speaker.Balance
	sentiment   SentimentByRole
}

func (a *Analyzer) assemble(audioPath string, profile *audio.Profile, parts assembly) *Result {
	language := parts.language
	if language == "" {
		language = "es"
	}

	return &Result{
		Transcript: TranscriptResult{
			Filename:            filepath.Base(audioPath),
			Text:                parts.combined,
			Language:            language,
			Duration:            parts.duration,
			CharCount:           len(parts.combined),
			Segments:            parts.segments,
			TranscriptBySpeaker: parts.transcripts,
			RoleMapping:         parts.mapping,
			SpeakingBalance:     parts.balance,
			SentimentByRole:     parts.sentiment,
		},
		AudioProfile: profile,
		SpeakerSummary: SpeakerSummary{
			Speakers:        parts.transcripts,
			RoleMapping:     parts.mapping,
			SentimentByRole: parts.sentiment,
			SpeakingBalance: parts.balance,
			AudioProfile:    profile,
		},
	}
}

// channelTranscript builds the transcript entry for one stereo channel. When
// the transcriber reports no duration the channel is assumed to cover half
// the call.
func channelTranscript(label, role string, tx *transcribe.Result, profile *audio.Profile) speaker.Transcript {
	duration := tx.DurationSeconds
	if duration == 0 {
		duration = profile.DurationSeconds / 2
	}
	return speaker.Transcript{
		Speaker:   label,
		Role:      role,
		Text:      tx.Text,
		Duration:  duration,
		WordCount: len(strings.Fields(tx.Text)),
	}
}

// labeledTranscript renders one "[ROLE] text" line per non-empty speaker
// group, in group order. Speakers without an assigned role keep their label.
func labeledTranscript(transcripts []speaker.Transcript) string {
	var lines []string
	for _, entry := range transcripts {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		label := entry.Role
		if label == "" {
			label = entry.Speaker
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(label), text))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (a *Analyzer) stage(stage string) {
	if a.onStage != nil {
		a.onStage(stage)
	}
}
