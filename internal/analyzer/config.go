package analyzer

import (
	"errors"
	"fmt"

	"context-signals-go/internal/extractor"
)

// Weights scale each signal's contribution to the overall score.
type Weights struct {
	Urgency    float64 `yaml:"urgency"`
	Emotion    float64 `yaml:"emotion"`
	Certainty  float64 `yaml:"certainty"`
	Politeness float64 `yaml:"politeness"`
}

// Config holds every tunable of the analysis. The defaults are the
// calibrated values; config.yaml may override any of them.
type Config struct {
	Emotion    extractor.EmotionConfig    `yaml:"emotion"`
	Urgency    extractor.UrgencyConfig    `yaml:"urgency"`
	Certainty  extractor.CertaintyConfig  `yaml:"certainty"`
	Politeness extractor.PolitenessConfig `yaml:"politeness"`
	Weights    Weights                    `yaml:"weights"`
	// MinContribution is the contribution a signal needs to be listed
	// among the overall score's contributing signals.
	MinContribution  float64 `yaml:"min_contribution"`
	MaxTextRunes     int     `yaml:"max_text_runes"`
	BatchConcurrency int     `yaml:"batch_concurrency"`
}

func DefaultConfig() Config {
	return Config{
		Emotion:    extractor.DefaultEmotionConfig(),
		Urgency:    extractor.DefaultUrgencyConfig(),
		Certainty:  extractor.DefaultCertaintyConfig(),
		Politeness: extractor.DefaultPolitenessConfig(),
		Weights: Weights{
			Urgency:    0.40,
			Emotion:    0.30,
			Certainty:  0.15,
			Politeness: 0.15,
		},
		MinContribution:  0.20,
		MaxTextRunes:     10000,
		BatchConcurrency: 4,
	}
}

// Validate rejects configurations that would break the score invariants.
func (c Config) Validate() error {
	var errs []error
	weights := []struct {
		name string
		w    float64
	}{
		{SignalUrgency, c.Weights.Urgency},
		{SignalEmotion, c.Weights.Emotion},
		{SignalCertainty, c.Weights.Certainty},
		{SignalPoliteness, c.Weights.Politeness},
	}
	for _, w := range weights {
		if w.w < 0 {
			errs = append(errs, fmt.Errorf("weight %s must not be negative", w.name))
		}
	}
	if sum := c.Weights.Urgency + c.Weights.Emotion + c.Weights.Certainty + c.Weights.Politeness; sum <= 0 {
		errs = append(errs, errors.New("weights must not all be zero"))
	}
	u := c.Urgency.Thresholds
	if !(u.Medium > 0 && u.Medium < u.High && u.High < u.Critical && u.Critical <= 1) {
		errs = append(errs, errors.New("urgency thresholds must ascend within (0,1]"))
	}
	ct := c.Certainty.Thresholds
	if !(ct.Hedged > 0 && ct.Hedged < ct.Certain && ct.Certain <= 1) {
		errs = append(errs, errors.New("certainty thresholds must ascend within (0,1]"))
	}
	p := c.Politeness.Thresholds
	if !(p.Casual > 0 && p.Casual < p.Neutral && p.Neutral < p.Polite && p.Polite < p.Formal && p.Formal <= 1) {
		errs = append(errs, errors.New("politeness thresholds must ascend within (0,1]"))
	}
	if c.Emotion.Saturation <= 0 {
		errs = append(errs, errors.New("emotion saturation must be positive"))
	}
	if c.MaxTextRunes <= 0 {
		errs = append(errs, errors.New("max_text_runes must be positive"))
	}
	if c.BatchConcurrency <= 0 {
		errs = append(errs, errors.New("batch_concurrency must be positive"))
	}
	return errors.Join(errs...)
}
