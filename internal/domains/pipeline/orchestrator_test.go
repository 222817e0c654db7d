package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/xpanvictor/emovox/internal/domains/emotion"
	"github.com/xpanvictor/emovox/internal/domains/session"
	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
	"github.com/xpanvictor/emovox/pkg/io/stt"
	"github.com/xpanvictor/emovox/pkg/io/translate"
	"github.com/xpanvictor/emovox/pkg/io/tts"
)

type fakeTranscriber struct {
	result stt.Result
	err    error
}

func (f *fakeTranscriber) Transcribe(context.Context, audio.Blob) (stt.Result, error) {
	return f.result, f.err
}

type fakeDetector struct {
	result emotion.Result
	err    error
}

func (f *fakeDetector) Detect(context.Context, audio.Blob) (emotion.Result, error) {
	return f.result, f.err
}

type transcriberFunc func(clip audio.Blob) (stt.Result, error)

func (f transcriberFunc) Transcribe(_ context.Context, clip audio.Blob) (stt.Result, error) {
	return f(clip)
}

type fakeTranslator struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeTranslator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeTranslator) Translate(_ context.Context, req translate.Request) (translate.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return translate.Result{}, f.err
	}
	return translate.Result{TranslatedText: "[" + req.Target + "] " + req.Text, SourceLanguage: req.Source, TargetLanguage: req.Target}, nil
}

type fakeSynth struct {
	mu       sync.Mutex
	err      error
	requests []tts.Request
}

func (f *fakeSynth) Synthesize(_ context.Context, req tts.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio:" + req.Text), nil
}

type fakeCache struct {
	puts, deletes int
}

func (f *fakeCache) Put(context.Context, []byte) (string, error) { f.puts++; return "audio:k", nil }
func (f *fakeCache) Delete(context.Context, string) error        { f.deletes++; return nil }

type harness struct {
	stt   *fakeTranscriber
	det   *fakeDetector
	tr    *fakeTranslator
	synth *fakeSynth
	cache *fakeCache
	store *session.MemoryStore
	orch  *Orchestrator
}

func newHarness() *harness {
	h := &harness{
		stt:   &fakeTranscriber{result: stt.Result{Text: "hola amigo", Language: "Spanish", LanguageCode: "es"}},
		det:   &fakeDetector{result: emotion.Result{Label: emotion.Happy, Attributes: emotion.Attributes{"pitch_mean": 31, "pitch_std": 0.35}}},
		tr:    &fakeTranslator{},
		synth: &fakeSynth{},
		cache: &fakeCache{},
		store: session.NewMemoryStore(time.Hour, Logger.NewNop()),
	}
	h.orch = New(Deps{
		Transcriber: h.stt,
		Detector:    h.det,
		Translator:  h.tr,
		Synthesizer: h.synth,
		Sessions:    h.store,
		Cache:       h.cache,
	}, Limits{MaxAudioBytes: 1 << 20, MaxChunkBytes: 256, SupportedFormats: []string{".wav", ".mp3"}}, Logger.NewNop())
	return h
}

func wav(n int) audio.Blob {
	return audio.Blob{Data: audio.EncodeWAV(make([]byte, n), audio.DefaultPCM), MIMEType: "audio/wav", Filename: "clip.wav"}
}

func stateOf(reports []StageReport, s Stage) StageState {
	for _, r := range reports {
		if r.Stage == s {
			return r.Status
		}
	}
	return ""
}

func TestProcessClipHappyPath(t *testing.T) {
	h := newHarness()
	res, err := h.orch.ProcessClip(context.Background(), wav(64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OriginalText != "hola amigo" || res.SourceLanguage != "es" || res.TargetLanguage != "en" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.TranslatedText != "[en] hola amigo" || string(res.Audio) != "audio:[en] hola amigo" {
		t.Errorf("unexpected translation/audio %q %q", res.TranslatedText, res.Audio)
	}
	if res.Emotion.Label != emotion.Happy || res.EmotionStatus != OutcomeOK {
		t.Errorf("unexpected emotion %+v (%s)", res.Emotion, res.EmotionStatus)
	}
	if h.cache.puts != 1 || h.cache.deletes != 1 {
		t.Errorf("expected cache put+delete, got %d/%d", h.cache.puts, h.cache.deletes)
	}
	for _, s := range allStages() {
		if got := stateOf(res.Stages, s); got != StateCompleted {
			t.Errorf("stage %s = %s", s, got)
		}
	}
	if len(h.synth.requests) != 1 || h.synth.requests[0].Language != "en" {
		t.Errorf("unexpected synth requests %+v", h.synth.requests)
	}
}

func TestProcessClipValidationFailure(t *testing.T) {
	h := newHarness()
	_, err := h.orch.ProcessClip(context.Background(), audio.Blob{Filename: "x.wav"})

	var se *StageError
	if !errors.As(err, &se) || se.Stage != StageValidation {
		t.Fatalf("expected validation StageError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidAudio) || !IsClientError(err) {
		t.Errorf("expected a client error, got %v", err)
	}
	if h.cache.puts != 0 {
		t.Error("validation failure must not touch the cache")
	}
}

func TestProcessClipEmotionFailureDegrades(t *testing.T) {
	h := newHarness()
	h.det.err = errors.New("extractor down")

	res, err := h.orch.ProcessClip(context.Background(), wav(64))
	if err != nil {
		t.Fatalf("emotion failure must not abort: %v", err)
	}
	if res.EmotionStatus != OutcomeDegraded || res.Emotion.Label != emotion.Neutral {
		t.Errorf("expected degraded neutral, got %+v (%s)", res.Emotion, res.EmotionStatus)
	}
	want := emotion.NeutralDefault().Attributes
	for k, v := range want {
		if res.Emotion.Attributes[k] != v {
			t.Errorf("attribute %s = %v, want %v", k, res.Emotion.Attributes[k], v)
		}
	}
	if stateOf(res.Stages, StageEmotion) != StateFailed {
		t.Errorf("expected emotion stage failed, got %s", stateOf(res.Stages, StageEmotion))
	}
}

func TestProcessClipFatalStages(t *testing.T) {
	cases := []struct {
		name  string
		setup func(h *harness)
		stage Stage
	}{
		{"transcription", func(h *harness) { h.stt.err = errors.New("deepgram 500") }, StageTranscription},
		{"translation", func(h *harness) { h.tr.err = errors.New("deepl 456") }, StageTranslation},
		{"synthesis", func(h *harness) { h.synth.err = errors.New("quota") }, StageAudioGeneration},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			tc.setup(h)
			res, err := h.orch.ProcessClip(context.Background(), wav(64))
			if res != nil {
				t.Error("expected no partial result")
			}
			var se *StageError
			if !errors.As(err, &se) || se.Stage != tc.stage {
				t.Fatalf("expected %s StageError, got %v", tc.stage, err)
			}
			if IsClientError(err) {
				t.Error("stage failures are not client errors")
			}
			if h.cache.deletes != 1 {
				t.Error("cached audio must be dropped on failure")
			}
		})
	}
}

func TestProcessClipEmptyTranscript(t *testing.T) {
	h := newHarness()
	h.stt.result = stt.Result{Text: "", Language: "English", LanguageCode: "en"}

	res, err := h.orch.ProcessClip(context.Background(), wav(64))
	if err != nil {
		t.Fatalf("empty transcript must not fail the clip workflow: %v", err)
	}
	if res.OriginalText != "" || res.Audio != nil {
		t.Errorf("expected empty result, got %+v", res)
	}
	if h.tr.Calls() != 0 || len(h.synth.requests) != 0 {
		t.Error("translation and synthesis must be skipped")
	}
	if stateOf(res.Stages, StageTranslation) != StateSkipped {
		t.Errorf("expected translation skipped")
	}
}

func TestProcessChunk(t *testing.T) {
	h := newHarness()
	res, err := h.orch.ProcessChunk(context.Background(), ChunkInput{Clip: wav(64), ChunkIndex: 2, IsFinal: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ChunkIndex != 2 || !res.IsFinal || len(res.Audio) == 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestProcessChunkRejections(t *testing.T) {
	h := newHarness()
	_, err := h.orch.ProcessChunk(context.Background(), ChunkInput{Clip: wav(1024)})
	if !errors.Is(err, ErrChunkTooLarge) || !errors.Is(err, audio.ErrTooLarge) {
		t.Errorf("expected ErrChunkTooLarge, got %v", err)
	}

	h.stt.result = stt.Result{Text: "bonjour", Language: "English", LanguageCode: "fr"}
	_, err = h.orch.ProcessChunk(context.Background(), ChunkInput{Clip: wav(64)})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}

	_, err = h.orch.ProcessChunk(context.Background(), ChunkInput{Clip: wav(64), ChunkIndex: -1})
	if !errors.Is(err, ErrInvalidChunkIndex) {
		t.Errorf("expected ErrInvalidChunkIndex, got %v", err)
	}
}

func TestEmptySpeechStreamingVersusPreprocess(t *testing.T) {
	h := newHarness()
	h.stt.result = stt.Result{Text: "  ", LanguageCode: "en", Language: "English"}

	res, err := h.orch.ProcessChunk(context.Background(), ChunkInput{Clip: wav(64)})
	if err != nil {
		t.Fatalf("streaming chunk must accept empty text: %v", err)
	}
	if res.TranslatedText != "" || res.Audio != nil {
		t.Errorf("expected empty streaming result, got %+v", res)
	}

	_, err = h.orch.PreprocessChunk(context.Background(), PreprocessInput{Clip: wav(64)})
	if !errors.Is(err, ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}
}

func TestTranscriptionFailureDoesNotCancelEmotion(t *testing.T) {
	h := newHarness()
	h.stt.err = errors.New("boom")
	detected := make(chan struct{}, 1)
	h.orch.deps.Detector = detectorFunc(func(ctx context.Context) (emotion.Result, error) {
		time.Sleep(10 * time.Millisecond)
		if ctx.Err() != nil {
			t.Error("emotion branch saw a cancelled context")
		}
		detected <- struct{}{}
		return emotion.NeutralDefault(), nil
	})

	if _, err := h.orch.ProcessChunk(context.Background(), ChunkInput{Clip: wav(64)}); err == nil {
		t.Fatal("expected transcription failure")
	}
	select {
	case <-detected:
	default:
		t.Error("emotion branch did not run to completion")
	}
}

type detectorFunc func(ctx context.Context) (emotion.Result, error)

func (f detectorFunc) Detect(ctx context.Context, _ audio.Blob) (emotion.Result, error) { return f(ctx) }

func TestTwoPhaseRoundTrip(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	pre, err := h.orch.PreprocessChunk(ctx, PreprocessInput{Clip: wav(64), ChunkIndex: 0, SessionID: "S"})
	if err != nil {
		t.Fatalf("pre-process: %v", err)
	}
	if pre.SessionID != "S" || pre.TranslatedText != "[en] hola amigo" || pre.Emotion.Label != emotion.Happy {
		t.Fatalf("unexpected pre-process result %+v", pre)
	}
	if len(h.synth.requests) != 0 {
		t.Fatal("pre-process must not synthesize")
	}

	// a different chunk in between must not disturb chunk 0
	h.stt.result = stt.Result{Text: "buenas noches", Language: "Spanish", LanguageCode: "es"}
	h.det.result = emotion.Result{Label: emotion.Sad, Attributes: emotion.Attributes{"pitch_mean": 22}}
	if _, err := h.orch.PreprocessChunk(ctx, PreprocessInput{Clip: wav(64), ChunkIndex: 1, SessionID: "S"}); err != nil {
		t.Fatalf("pre-process chunk 1: %v", err)
	}

	for i := 0; i < 2; i++ {
		gen, err := h.orch.GenerateAudio(ctx, "S", 0)
		if err != nil {
			t.Fatalf("generate #%d: %v", i, err)
		}
		if string(gen.Audio) != "audio:[en] hola amigo" || gen.Emotion != emotion.Happy {
			t.Errorf("generate #%d used the wrong record: %+v", i, gen)
		}
	}

	want := emotion.VoiceStyleFor(emotion.Result{Label: emotion.Happy, Attributes: emotion.Attributes{"pitch_mean": 31, "pitch_std": 0.35}})
	for _, req := range h.synth.requests {
		if req.Text != "[en] hola amigo" || req.Language != "en" || req.Style != want {
			t.Errorf("unexpected synthesis request %+v", req)
		}
	}
}

func TestStoredEmotionIsDetachedFromResult(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	pre, err := h.orch.PreprocessChunk(ctx, PreprocessInput{Clip: wav(64), ChunkIndex: 0, SessionID: "S"})
	if err != nil {
		t.Fatalf("pre-process: %v", err)
	}
	pre.Emotion.Attributes["pitch_std"] = 2.0
	h.det.result.Attributes["pitch_mean"] = 99

	if _, err := h.orch.GenerateAudio(ctx, "S", 0); err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := emotion.VoiceStyleFor(emotion.Result{Label: emotion.Happy, Attributes: emotion.Attributes{"pitch_mean": 31, "pitch_std": 0.35}})
	if got := h.synth.requests[0].Style; got != want {
		t.Errorf("expected style captured at pre-process %+v, got %+v", want, got)
	}
}

func TestPreprocessChunksConcurrentlyOutOfOrder(t *testing.T) {
	h := newHarness()
	h.orch.deps.Transcriber = transcriberFunc(func(clip audio.Blob) (stt.Result, error) {
		return stt.Result{Text: fmt.Sprintf("parte %d", len(clip.Data)), Language: "Spanish", LanguageCode: "es"}, nil
	})
	ctx := context.Background()

	const chunks = 8
	clips := make([]audio.Blob, chunks)
	for i := range clips {
		clips[i] = wav(64 + 2*i)
	}

	var wg sync.WaitGroup
	errs := make(chan error, chunks)
	for i := chunks - 1; i >= 0; i-- {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := h.orch.PreprocessChunk(ctx, PreprocessInput{Clip: clips[idx], ChunkIndex: idx, SessionID: "S", IsFinal: idx == chunks-1})
			if err != nil {
				errs <- fmt.Errorf("chunk %d: %w", idx, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if h.tr.Calls() != chunks {
		t.Errorf("expected %d translations, got %d", chunks, h.tr.Calls())
	}

	for i := 0; i < chunks; i++ {
		gen, err := h.orch.GenerateAudio(ctx, "S", i)
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		want := fmt.Sprintf("audio:[en] parte %d", len(clips[i].Data))
		if string(gen.Audio) != want {
			t.Errorf("chunk %d: got %q, want %q", i, gen.Audio, want)
		}
	}
}

func TestPreprocessMintsSession(t *testing.T) {
	h := newHarness()
	pre, err := h.orch.PreprocessChunk(context.Background(), PreprocessInput{Clip: wav(64), ChunkIndex: 3, IsFinal: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pre.SessionID == "" || !pre.IsFinal {
		t.Errorf("unexpected result %+v", pre)
	}
	rec, err := h.store.Get(context.Background(), pre.SessionID, 3)
	if err != nil || !rec.IsFinal || rec.Emotion != emotion.Happy {
		t.Errorf("stored record %+v, err %v", rec, err)
	}
}

func TestPreprocessRejectsUnsupportedLanguage(t *testing.T) {
	h := newHarness()
	h.stt.result = stt.Result{Text: "guten tag", LanguageCode: "de", Language: "English"}
	_, err := h.orch.PreprocessChunk(context.Background(), PreprocessInput{Clip: wav(64), SessionID: "S"})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if h.store.Len() != 0 {
		t.Error("nothing should be stored")
	}
}

func TestGenerateUnknownSessionOrChunk(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	if _, err := h.orch.GenerateAudio(ctx, "nope", 0); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := h.orch.PreprocessChunk(ctx, PreprocessInput{Clip: wav(64), SessionID: "S"}); err != nil {
		t.Fatalf("pre-process: %v", err)
	}
	res, err := h.orch.GenerateAudio(ctx, "S", 9)
	if !errors.Is(err, session.ErrChunkNotFound) || res != nil {
		t.Errorf("expected ErrChunkNotFound and no result, got %v %v", res, err)
	}
	if len(h.synth.requests) != 0 {
		t.Error("lookups that miss must not synthesize")
	}
}

func TestCloseSession(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.orch.PreprocessChunk(ctx, PreprocessInput{Clip: wav(64), SessionID: "S"})

	if err := h.orch.CloseSession(ctx, "S"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := h.orch.GenerateAudio(ctx, "S", 0); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expected closed session, got %v", err)
	}
}
