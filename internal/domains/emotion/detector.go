package emotion

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/xpanvictor/emovox/pkg/Logger"
	"github.com/xpanvictor/emovox/pkg/io/audio"
)

// eGeMAPSv02 functional names carrying the four measurements.
const (
	FeaturePitchMean    = "F0semitoneFrom27.5Hz_sma3nz_amean"
	FeaturePitchStd     = "F0semitoneFrom27.5Hz_sma3nz_stddevNorm"
	FeatureLoudnessMean = "loudness_sma3_amean"
	FeatureLoudnessStd  = "loudness_sma3_stddevNorm"
)

var ErrNoFeatures = errors.New("extractor returned none of the required features")

// FunctionalsExtractor returns named acoustic functionals for one clip.
type FunctionalsExtractor interface {
	Functionals(ctx context.Context, clip audio.Blob) (map[string]float64, error)
}

func FromFunctionals(f map[string]float64) (FeatureVector, error) {
	found := 0
	pick := func(key string) float64 {
		v, ok := f[key]
		if ok {
			found++
		}
		return v
	}
	v := FeatureVector{
		PitchMean:    pick(FeaturePitchMean),
		PitchStd:     pick(FeaturePitchStd),
		LoudnessMean: pick(FeatureLoudnessMean),
		LoudnessStd:  pick(FeatureLoudnessStd),
	}
	if found == 0 {
		return FeatureVector{}, ErrNoFeatures
	}
	return v, nil
}

// AcousticDetector extracts features and runs the rule classifier.
type AcousticDetector struct {
	extractor  FunctionalsExtractor
	classifier *Classifier
	logger     *Logger.Logger
}

func NewAcousticDetector(extractor FunctionalsExtractor, classifier *Classifier, logger *Logger.Logger) *AcousticDetector {
	return &AcousticDetector{extractor: extractor, classifier: classifier, logger: logger.Named("emotion")}
}

func (d *AcousticDetector) Detect(ctx context.Context, clip audio.Blob) (Result, error) {
	functionals, err := d.extractor.Functionals(ctx, clip)
	if err != nil {
		return Result{}, fmt.Errorf("feature extraction: %w", err)
	}
	v, err := FromFunctionals(functionals)
	if err != nil {
		return Result{}, err
	}
	decision := d.classifier.Classify(v)
	return Result{Label: decision.Label, Attributes: v.Attributes()}, nil
}

// HashDetector derives a stable label from the audio digest. It stands in when no
// feature extractor is configured and is the only source of Surprised.
type HashDetector struct {
	logger *Logger.Logger
}

func NewHashDetector(logger *Logger.Logger) *HashDetector {
	return &HashDetector{logger: logger.Named("emotion")}
}

var hashLabels = []Label{Happy, Sad, Angry, Neutral, Surprised}

func (d *HashDetector) Detect(_ context.Context, clip audio.Blob) (Result, error) {
	sum := md5.Sum(clip.Data)
	prefix, err := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 64)
	if err != nil {
		return Result{}, err
	}
	h := float64(prefix) / float64(uint64(1)<<32)
	label := hashLabels[int(h*float64(len(hashLabels)))]

	d.logger.Warnf("no feature extractor configured, using digest-based emotion %q", label)
	return Result{
		Label: label,
		Attributes: Attributes{
			"pitch_mean":    0.5 + (h-0.5)*0.3,
			"energy":        0.5 + (h-0.5)*0.4,
			"speaking_rate": 0.5,
		},
	}, nil
}
