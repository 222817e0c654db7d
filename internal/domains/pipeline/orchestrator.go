package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xpanvictor/emovox/internal/domains/audiocache"
	"github.com/xpanvictor/emovox/internal/domains/emotion"
	"github.com/xpanvictor/emovox/internal/domains/language"
	"github.com/xpanvictor/emovox/internal/domains/session"
	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/stt"
	"github.com/xpanvictor/emovox/pkg/io/translate"
	"github.com/xpanvictor/emovox/pkg/io/tts"
)

type Deps struct {
	Transcriber stt.Transcriber
	Detector    emotion.Detector
	Translator  translate.Translator
	Synthesizer tts.Synthesizer
	Sessions    session.Store
	Cache       audiocache.Cache // optional
}

type Limits struct {
	MaxAudioBytes    int64
	MaxChunkBytes    int64
	SupportedFormats []string
}

// Orchestrator sequences transcription, emotion detection, translation and
// synthesis for whole clips, streamed chunks and the two-phase chunk protocol.
type Orchestrator struct {
	deps  Deps
	clip  audio.Validator
	chunk audio.Validator
	log   *Logger.Logger
}

func New(deps Deps, limits Limits, logger *Logger.Logger) *Orchestrator {
	if deps.Cache == nil {
		deps.Cache = audiocache.Noop{}
	}
	return &Orchestrator{
		deps:  deps,
		clip:  audio.Validator{MaxBytes: limits.MaxAudioBytes, Extensions: limits.SupportedFormats},
		chunk: audio.Validator{MaxBytes: limits.MaxChunkBytes, Extensions: limits.SupportedFormats},
		log:   logger.Named("pipeline"),
	}
}

func allStages() []Stage {
	return []Stage{StageValidation, StageTranscription, StageEmotion, StageTranslation, StageAudioGeneration}
}

func (o *Orchestrator) validate(tr *Tracker, v audio.Validator, clip audio.Blob, tooLarge error) error {
	out := runStage(tr, StageValidation, func() (struct{}, error) {
		return struct{}{}, v.Validate(clip)
	})
	if out.Status == OutcomeFailed {
		kind := ErrInvalidAudio
		if tooLarge != nil && errors.Is(out.Err, audio.ErrTooLarge) {
			kind = tooLarge
		}
		return &StageError{Stage: StageValidation, Err: fmt.Errorf("%w: %w", kind, out.Err)}
	}
	return nil
}

func (o *Orchestrator) transcribe(ctx context.Context, tr *Tracker, clip audio.Blob) Outcome[stt.Result] {
	return runStage(tr, StageTranscription, func() (stt.Result, error) {
		return o.deps.Transcriber.Transcribe(ctx, clip)
	})
}

// detectEmotion never fails the run: errors degrade to the neutral default.
func (o *Orchestrator) detectEmotion(ctx context.Context, tr *Tracker, clip audio.Blob) Outcome[emotion.Result] {
	out := runStage(tr, StageEmotion, func() (emotion.Result, error) {
		return o.deps.Detector.Detect(ctx, clip)
	})
	if out.Status == OutcomeFailed {
		o.log.Warnf("emotion detection failed, using neutral: %v", out.Err)
		return degraded(emotion.NeutralDefault(), out.Err)
	}
	return out
}

func (o *Orchestrator) translateText(ctx context.Context, tr *Tracker, text, source string) Outcome[translate.Result] {
	return runStage(tr, StageTranslation, func() (translate.Result, error) {
		return o.deps.Translator.Translate(ctx, translate.Request{
			Text:   text,
			Source: source,
			Target: language.Target(source),
		})
	})
}

func (o *Orchestrator) synthesize(ctx context.Context, tr *Tracker, text, target string, emo emotion.Result) Outcome[[]byte] {
	return runStage(tr, StageAudioGeneration, func() ([]byte, error) {
		return o.deps.Synthesizer.Synthesize(ctx, tts.Request{
			Text:     text,
			Language: target,
			Style:    emotion.VoiceStyleFor(emo),
		})
	})
}

// analyze runs transcription and emotion detection side by side. A failing
// transcription does not cancel emotion detection and vice versa.
func (o *Orchestrator) analyze(ctx context.Context, tr *Tracker, clip audio.Blob) (Outcome[stt.Result], Outcome[emotion.Result]) {
	var (
		g          errgroup.Group
		transcript Outcome[stt.Result]
		emo        Outcome[emotion.Result]
	)
	g.Go(func() error {
		transcript = o.transcribe(ctx, tr, clip)
		return nil
	})
	g.Go(func() error {
		emo = o.detectEmotion(ctx, tr, clip)
		return nil
	})
	_ = g.Wait()
	return transcript, emo
}

func (o *Orchestrator) fail(tr *Tracker, op string, err error) error {
	o.log.Errorf("%s failed after %.2fs: %v [%s]", op, tr.Elapsed().Seconds(), err, tr)
	return err
}

func preview(s string) string {
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}

// ProcessClip runs the whole pipeline on one clip, strictly in order. Only a
// failed emotion stage is tolerated; any other failure aborts with no partial result.
func (o *Orchestrator) ProcessClip(ctx context.Context, clip audio.Blob) (*ClipResult, error) {
	tr := NewTracker(allStages()...)
	o.log.Infof("pipeline start: %s (%d bytes)", clip.Filename, clip.Size())

	if err := o.validate(tr, o.clip, clip, nil); err != nil {
		return nil, o.fail(tr, "pipeline", err)
	}

	if key, err := o.deps.Cache.Put(ctx, clip.Data); err != nil {
		o.log.Warnf("audio cache unavailable: %v", err)
	} else if key != "" {
		defer func() {
			// the request context may already be done
			if err := o.deps.Cache.Delete(context.Background(), key); err != nil {
				o.log.Warnf("failed to drop cached audio %s: %v", key, err)
			}
		}()
	}

	transcript := o.transcribe(ctx, tr, clip)
	if transcript.Status == OutcomeFailed {
		return nil, o.fail(tr, "pipeline", &StageError{Stage: StageTranscription, Err: transcript.Err})
	}
	t := transcript.Value
	o.log.Infof("transcribed (%s): %s", t.LanguageCode, preview(t.Text))

	emo := o.detectEmotion(ctx, tr, clip)

	res := &ClipResult{
		OriginalText:     t.Text,
		OriginalLanguage: t.Language,
		SourceLanguage:   t.LanguageCode,
		TargetLanguage:   language.Target(t.LanguageCode),
		Emotion:          emo.Value,
		EmotionStatus:    emo.Status,
	}

	if strings.TrimSpace(t.Text) == "" {
		o.log.Warnf("empty transcript, nothing to translate")
		tr.Skip(StageTranslation)
		tr.Skip(StageAudioGeneration)
		return o.finishClip(tr, res), nil
	}

	translated := o.translateText(ctx, tr, t.Text, t.LanguageCode)
	switch translated.Status {
	case OutcomeFailed:
		return nil, o.fail(tr, "pipeline", &StageError{Stage: StageTranslation, Err: translated.Err})
	case OutcomeOK, OutcomeDegraded:
		res.TranslatedText = translated.Value.TranslatedText
		res.TargetLanguage = translated.Value.TargetLanguage
	}

	synthesized := o.synthesize(ctx, tr, res.TranslatedText, res.TargetLanguage, emo.Value)
	switch synthesized.Status {
	case OutcomeFailed:
		return nil, o.fail(tr, "pipeline", &StageError{Stage: StageAudioGeneration, Err: synthesized.Err})
	case OutcomeOK, OutcomeDegraded:
		res.Audio = synthesized.Value
	}

	return o.finishClip(tr, res), nil
}

func (o *Orchestrator) finishClip(tr *Tracker, res *ClipResult) *ClipResult {
	res.Stages = tr.Reports()
	res.ProcessingTime = tr.Elapsed().Seconds()
	o.log.Infof("pipeline completed in %.2fs [%s]", res.ProcessingTime, tr)
	return res
}

// ProcessChunk handles one chunk end to end with no session. The chunk size
// ceiling applies, and only the supported languages are accepted.
func (o *Orchestrator) ProcessChunk(ctx context.Context, in ChunkInput) (*ChunkResult, error) {
	tr := NewTracker(allStages()...)
	op := fmt.Sprintf("chunk %d", in.ChunkIndex)

	if in.ChunkIndex < 0 {
		return nil, ErrInvalidChunkIndex
	}
	if err := o.validate(tr, o.chunk, in.Clip, ErrChunkTooLarge); err != nil {
		return nil, o.fail(tr, op, err)
	}

	transcript, emo := o.analyze(ctx, tr, in.Clip)
	if transcript.Status == OutcomeFailed {
		return nil, o.fail(tr, op, &StageError{Stage: StageTranscription, Err: transcript.Err})
	}
	t := transcript.Value

	res := &ChunkResult{
		ChunkIndex:     in.ChunkIndex,
		IsFinal:        in.IsFinal,
		Transcription:  t.Text,
		SourceLanguage: t.LanguageCode,
		TargetLanguage: language.Target(t.LanguageCode),
		Emotion:        emo.Value,
		EmotionStatus:  emo.Status,
	}

	if strings.TrimSpace(t.Text) == "" {
		tr.Skip(StageTranslation)
		tr.Skip(StageAudioGeneration)
		return o.finishChunk(tr, op, res), nil
	}
	if !language.Supported(t.LanguageCode) {
		return nil, o.fail(tr, op, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, t.LanguageCode))
	}

	translated := o.translateText(ctx, tr, t.Text, t.LanguageCode)
	if translated.Status == OutcomeFailed {
		return nil, o.fail(tr, op, &StageError{Stage: StageTranslation, Err: translated.Err})
	}
	res.TranslatedText = translated.Value.TranslatedText
	res.TargetLanguage = translated.Value.TargetLanguage

	synthesized := o.synthesize(ctx, tr, res.TranslatedText, res.TargetLanguage, emo.Value)
	if synthesized.Status == OutcomeFailed {
		return nil, o.fail(tr, op, &StageError{Stage: StageAudioGeneration, Err: synthesized.Err})
	}
	res.Audio = synthesized.Value

	return o.finishChunk(tr, op, res), nil
}

func (o *Orchestrator) finishChunk(tr *Tracker, op string, res *ChunkResult) *ChunkResult {
	res.Stages = tr.Reports()
	res.ProcessingTime = tr.Elapsed().Seconds()
	o.log.Infof("%s completed in %.2fs [%s]", op, res.ProcessingTime, tr)
	return res
}

// PreprocessChunk is phase one of the two-phase protocol: transcribe, classify and
// translate now, store the outcome under (session, chunk), and synthesize nothing.
func (o *Orchestrator) PreprocessChunk(ctx context.Context, in PreprocessInput) (*PreprocessResult, error) {
	tr := NewTracker(StageValidation, StageTranscription, StageEmotion, StageTranslation, StageStorage)

	if in.ChunkIndex < 0 {
		return nil, ErrInvalidChunkIndex
	}
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = session.NewID()
		o.log.Infof("minted session %s", sessionID)
	}
	op := fmt.Sprintf("pre-process %s/%d", sessionID, in.ChunkIndex)

	if err := o.validate(tr, o.clip, in.Clip, nil); err != nil {
		return nil, o.fail(tr, op, err)
	}

	transcript, emo := o.analyze(ctx, tr, in.Clip)
	if transcript.Status == OutcomeFailed {
		return nil, o.fail(tr, op, &StageError{Stage: StageTranscription, Err: transcript.Err})
	}
	t := transcript.Value

	if strings.TrimSpace(t.Text) == "" {
		return nil, o.fail(tr, op, ErrNoSpeech)
	}
	if !language.Supported(t.LanguageCode) {
		return nil, o.fail(tr, op, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, t.LanguageCode))
	}

	translated := o.translateText(ctx, tr, t.Text, t.LanguageCode)
	if translated.Status == OutcomeFailed {
		return nil, o.fail(tr, op, &StageError{Stage: StageTranslation, Err: translated.Err})
	}

	rec := session.Record{
		ChunkIndex:     in.ChunkIndex,
		Transcription:  t.Text,
		SourceLanguage: t.LanguageCode,
		TranslatedText: translated.Value.TranslatedText,
		TargetLanguage: translated.Value.TargetLanguage,
		Emotion:        emo.Value.Label,
		Attributes:     emo.Value.Attributes.Clone(),
		IsFinal:        in.IsFinal,
		CreatedAt:      time.Now().UTC(),
	}
	stored := runStage(tr, StageStorage, func() (struct{}, error) {
		return struct{}{}, o.deps.Sessions.Put(ctx, sessionID, rec)
	})
	if stored.Status == OutcomeFailed {
		return nil, o.fail(tr, op, &StageError{Stage: StageStorage, Err: stored.Err})
	}

	res := &PreprocessResult{
		SessionID:      sessionID,
		ChunkIndex:     in.ChunkIndex,
		IsFinal:        in.IsFinal,
		Transcription:  rec.Transcription,
		SourceLanguage: rec.SourceLanguage,
		TranslatedText: rec.TranslatedText,
		TargetLanguage: rec.TargetLanguage,
		Emotion:        emo.Value,
		EmotionStatus:  emo.Status,
		Stages:         tr.Reports(),
		ProcessingTime: tr.Elapsed().Seconds(),
	}
	o.log.Infof("%s stored in %.2fs [%s]", op, res.ProcessingTime, tr)
	return res, nil
}

// GenerateAudio is phase two: synthesize a stored chunk. The record is kept, so
// repeated calls produce audio from the same inputs.
func (o *Orchestrator) GenerateAudio(ctx context.Context, sessionID string, chunkIndex int) (*GenerateResult, error) {
	tr := NewTracker(StageAudioGeneration)
	op := fmt.Sprintf("generate %s/%d", sessionID, chunkIndex)

	rec, err := o.deps.Sessions.Get(ctx, sessionID, chunkIndex)
	if err != nil {
		o.log.Warnf("%s: %v", op, err)
		return nil, err
	}

	emo := emotion.Result{Label: rec.Emotion, Attributes: rec.Attributes}
	synthesized := o.synthesize(ctx, tr, rec.TranslatedText, rec.TargetLanguage, emo)
	if synthesized.Status == OutcomeFailed {
		return nil, o.fail(tr, op, &StageError{Stage: StageAudioGeneration, Err: synthesized.Err})
	}

	res := &GenerateResult{
		SessionID:      sessionID,
		ChunkIndex:     chunkIndex,
		Audio:          synthesized.Value,
		Emotion:        rec.Emotion,
		TargetLanguage: rec.TargetLanguage,
		ProcessingTime: tr.Elapsed().Seconds(),
	}
	o.log.Infof("%s: %d bytes in %.2fs", op, len(res.Audio), res.ProcessingTime)
	return res, nil
}

// CloseSession drops every stored chunk of a session.
func (o *Orchestrator) CloseSession(ctx context.Context, sessionID string) error {
	if err := o.deps.Sessions.Close(ctx, sessionID); err != nil {
		return err
	}
	o.log.Infof("session %s closed", sessionID)
	return nil
}
