package quiz

import (
	"fmt"
	"time"
)

// Config holds the capture timings and limits of a quiz session.
type Config struct {
	// CountdownFrom is the first value shown by the countdown.
	CountdownFrom int `yaml:"countdown_from"`

	// CountdownTick is the time between countdown values.
	CountdownTick time.Duration `yaml:"countdown_tick"`

	// RecordingSeconds is the length of the recording window in ticks.
	RecordingSeconds int `yaml:"recording_seconds"`

	// RecordingTick is the time between recording counter updates.
	RecordingTick time.Duration `yaml:"recording_tick"`

	// SampleInterval is the time between frame samples while recording.
	SampleInterval time.Duration `yaml:"sample_interval"`

	// MaxFrames caps the frames buffered by one recording.
	MaxFrames int `yaml:"max_frames"`

	// FrameScale is the downscale factor applied before encoding.
	FrameScale float64 `yaml:"frame_scale"`

	// FrameQuality is the JPEG quality in (0,1].
	FrameQuality float64 `yaml:"frame_quality"`

	// SubmitTimeout bounds a whole submission, retries included.
	SubmitTimeout time.Duration `yaml:"submit_timeout"`

	// CameraTimeout bounds camera acquisition.
	CameraTimeout time.Duration `yaml:"camera_timeout"`

	// ExcellentRatio is the lowest score ratio graded excellent.
	ExcellentRatio float64 `yaml:"excellent_ratio"`

	// GoodRatio is the lowest score ratio graded good.
	GoodRatio float64 `yaml:"good_ratio"`
}

// DefaultConfig returns a 3 s countdown, a 3 s recording sampled every
// 300 ms and at most 10 frames at half scale and quality, graded with
// DefaultTiers.
func DefaultConfig() Config {
	return Config{
		CountdownFrom:    3,
		CountdownTick:    time.Second,
		RecordingSeconds: 3,
		RecordingTick:    time.Second,
		SampleInterval:   300 * time.Millisecond,
		MaxFrames:        10,
		FrameScale:       0.5,
		FrameQuality:     0.5,
		SubmitTimeout:    90 * time.Second,
		CameraTimeout:    10 * time.Second,
		ExcellentRatio:   0.8,
		GoodRatio:        0.6,
	}
}

// Validate checks the timings and limits.
func (c Config) Validate() error {
	if c.CountdownFrom < 0 {
		return fmt.Errorf("quiz countdown_from must not be negative")
	}
	if c.CountdownFrom > 0 && c.CountdownTick <= 0 {
		return fmt.Errorf("quiz countdown_tick must be positive")
	}
	if c.RecordingSeconds < 1 || c.RecordingTick <= 0 {
		return fmt.Errorf("quiz recording window must be positive")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("quiz sample_interval must be positive")
	}
	if c.MaxFrames < 1 {
		return fmt.Errorf("quiz max_frames must be at least 1")
	}
	if c.FrameScale <= 0 || c.FrameScale > 1 {
		return fmt.Errorf("quiz frame_scale must be in (0,1]")
	}
	if c.FrameQuality <= 0 || c.FrameQuality > 1 {
		return fmt.Errorf("quiz frame_quality must be in (0,1]")
	}
	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("quiz submit_timeout must be positive")
	}
	if c.CameraTimeout <= 0 {
		return fmt.Errorf("quiz camera_timeout must be positive")
	}
	if c.GoodRatio <= 0 || c.GoodRatio > c.ExcellentRatio || c.ExcellentRatio > 1 {
		return fmt.Errorf("quiz tier ratios must satisfy 0 < good_ratio <= excellent_ratio <= 1")
	}
	return nil
}

// Tiers returns the grading bounds.
func (c Config) Tiers() Tiers {
	return Tiers{Excellent: c.ExcellentRatio, Good: c.GoodRatio}
}
