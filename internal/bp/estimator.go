package bp

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// Bands a reading is clamped to.
const (
	MinSystolic  = 90
	MaxSystolic  = 190
	MinDiastolic = 60
	MaxDiastolic = 110

	baseSystolic  = 120
	baseDiastolic = 80
)

// ErrNilFrame is returned when a caller required a frame and supplied none.
var ErrNilFrame = errors.New("frame is required")

type Reading struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

func (r Reading) String() string {
	return fmt.Sprintf("%d/%d", r.Systolic, r.Diastolic)
}

// Clamp pulls both values into the physiological bands.
func Clamp(systolic, diastolic int) Reading {
	return Reading{
		Systolic:  min(max(systolic, MinSystolic), MaxSystolic),
		Diastolic: min(max(diastolic, MinDiastolic), MaxDiastolic),
	}
}

// Estimator produces a reading from a frame. A nil frame is allowed and gets
// a simulated reading. Implementations never fail; a real model can replace
// the placeholder heuristics without touching callers.
type Estimator interface {
	Estimate(frame image.Image) Reading
}

// RequireFrame is the strict entry point for callers that must have an image.
func RequireFrame(e Estimator, frame image.Image) (Reading, error) {
	if frame == nil {
		return Reading{}, ErrNilFrame
	}
	return e.Estimate(frame), nil
}

// Source is the part of *rand.Rand the simulations draw from.
type Source interface {
	Float64() float64
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// DefaultSource draws from the runtime's goroutine-safe generator.
func DefaultSource() Source { return globalSource{} }

// SimulatedEstimator ignores the frame and perturbs a 120/80 baseline.
type SimulatedEstimator struct {
	Rand Source
}

func (s SimulatedEstimator) Estimate(image.Image) Reading {
	rng := s.Rand
	if rng == nil {
		rng = DefaultSource()
	}
	variation := -15 + 30*rng.Float64()
	return Clamp(int(baseSystolic+variation), int(baseDiastolic+variation*0.7))
}

// BrightnessEstimator derives a reading from the mean pixel brightness. It is
// a placeholder heuristic, not a photoplethysmography model.
type BrightnessEstimator struct {
	Rand Source
	Log  zerolog.Logger
}

func NewBrightnessEstimator(rng Source, log zerolog.Logger) *BrightnessEstimator {
	if rng == nil {
		rng = DefaultSource()
	}
	return &BrightnessEstimator{Rand: rng, Log: log}
}

func (b *BrightnessEstimator) Estimate(frame image.Image) (reading Reading) {
	if frame == nil {
		return SimulatedEstimator{Rand: b.rng()}.Estimate(nil)
	}

	defer func() {
		if r := recover(); r != nil {
			b.Log.Warn().Interface("panic", r).Msg("frame analysis panicked, using simulated reading")
			reading = b.fallback()
		}
	}()

	brightness, err := MeanBrightness(frame)
	if err != nil {
		b.Log.Warn().Err(err).Msg("frame analysis failed, using simulated reading")
		return b.fallback()
	}
	return FromBrightness(brightness)
}

// FromBrightness maps a mean brightness on the 0-255 scale to a reading.
func FromBrightness(brightness float64) Reading {
	return Clamp(
		int(baseSystolic+(brightness-128)/12),
		int(baseDiastolic+(brightness-128)/18),
	)
}

func (b *BrightnessEstimator) fallback() Reading {
	return FallbackReading(b.rng())
}

// FallbackReading is the uniform replacement used after a processing failure:
// systolic 100-140, diastolic 65-90.
func FallbackReading(rng Source) Reading {
	if rng == nil {
		rng = DefaultSource()
	}
	return Clamp(100+rng.IntN(41), 65+rng.IntN(26))
}

func (b *BrightnessEstimator) rng() Source {
	if b.Rand == nil {
		return DefaultSource()
	}
	return b.Rand
}

// MeanBrightness averages the 8-bit R, G and B channels over every pixel.
func MeanBrightness(frame image.Image) (float64, error) {
	bounds := frame.Bounds()
	if bounds.Empty() {
		return 0, errors.New("frame has no pixels")
	}

	var sum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, bl, _ := frame.At(x, y).RGBA()
			sum += uint64(r>>8) + uint64(g>>8) + uint64(bl>>8)
		}
	}
	pixels := uint64(bounds.Dx()) * uint64(bounds.Dy())
	return float64(sum) / float64(pixels*3), nil
}
