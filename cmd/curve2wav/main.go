// Command curve2wav renders a procedural curve as audible audio, a
// quick way to hear the shape of an ease or spring motion. The curve
// value modulates the frequency of a sine tone, so a spring becomes a
// wobbling pitch that settles onto its target.
//
// Usage:
//
//	curve2wav -curve spring -period 0.5 -bias 0.3 spring.wav
//	curve2wav -curve ease -duration 2 ease.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	spline "github.com/tphakala/go-spline"
	"github.com/tphakala/simd/f64"
)

const (
	sampleRate     = 44100
	bitDepth       = 16
	monoChannels   = 1
	wavAudioFormat = 1 // PCM

	maxInt16 = 32767.0

	// Tone parameters: the curve value in [0, 1] sweeps the tone
	// between these frequencies.
	baseFrequencyHz  = 220.0
	sweepFrequencyHz = 440.0

	// CLI defaults
	defaultDuration = 2.0
	defaultPeriod   = 0.5
	defaultBias     = 0.3
	defaultGain     = 0.8
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	curveKind := flag.String("curve", "ease", "Curve to render: ease, spring")
	duration := flag.Float64("duration", defaultDuration, "Output duration in seconds")
	period := flag.Float64("period", defaultPeriod, "Spring oscillation period in seconds")
	bias := flag.Float64("bias", defaultBias, "Spring bias (peak decay ratio per half-cycle)")
	gain := flag.Float64("gain", defaultGain, "Output amplitude in [0, 1]")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] output.wav\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		return fmt.Errorf("no output file given")
	}
	outputPath := flag.Arg(0)

	numSamples := int(*duration * sampleRate)
	values := make([]float64, numSamples)
	if err := sampleCurve(*curveKind, *duration, *period, *bias, values); err != nil {
		return err
	}

	if *verbose {
		log.Printf("rendering %s curve: %d samples at %d Hz", *curveKind, numSamples, sampleRate)
	}

	samples := synthesize(values, *gain)
	return writeWAV(outputPath, samples)
}

// sampleCurve fills values with len(values) evenly spaced samples of
// the selected curve over [0, duration].
func sampleCurve(kind string, duration, period, bias float64, values []float64) error {
	dt := duration / float64(len(values))
	switch kind {
	case "ease":
		startAbs, endAbs := spline.CalculateSecondDerivativesFromTypicalCurve(1, duration, bias)
		curve := spline.CalculateQuadraticEaseInEaseOut(0, 0, startAbs, 1, 0, endAbs, duration)
		for i := range values {
			values[i] = curve.Evaluate(dt * float64(i))
		}
	case "spring":
		spring := spline.NewQuadraticSpring(1, 0, period, bias)
		ctx := spring.ContextAt(0)
		for i := range values {
			values[i] = spring.EvaluateWithContext(&ctx, dt*float64(i))
		}
	default:
		return fmt.Errorf("unknown curve %q: want ease or spring", kind)
	}
	return nil
}

// synthesize turns curve values into a frequency-modulated sine tone.
func synthesize(values []float64, gain float64) []float64 {
	samples := make([]float64, len(values))
	phase := 0.0
	for i, v := range values {
		frequency := baseFrequencyHz + sweepFrequencyHz*v
		phase += 2 * math.Pi * frequency / sampleRate
		samples[i] = math.Sin(phase)
	}
	f64.Scale(samples, samples, gain)
	return samples
}

// writeWAV writes mono float64 samples as 16-bit PCM.
func writeWAV(path string, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, monoChannels, wavAudioFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: monoChannels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		buf.Data[i] = int(math.Round(s * maxInt16))
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return enc.Close()
}
