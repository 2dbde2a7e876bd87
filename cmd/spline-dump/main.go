// Command spline-dump samples a compact spline and prints the result
// as CSV, for plotting or diffing curve authoring changes.
//
// Usage:
//
//	spline-dump -keys "0:0:0,1:0.8:0.2,2:1:0" -samples 100
//	spline-dump -demo
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	spline "github.com/tphakala/go-spline"
)

const (
	defaultSamples = 100
	minKeyFields   = 2
	maxKeyFields   = 3
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	keys := flag.String("keys", "", "Comma-separated keys as x:y[:derivative]")
	rangeMin := flag.Float64("range-min", 0, "Minimum of the spline's value range")
	rangeMax := flag.Float64("range-max", 1, "Maximum of the spline's value range")
	granularity := flag.Float64("granularity", 0, "X granularity (0 picks the recommended value)")
	samples := flag.Int("samples", defaultSamples, "Number of samples to print")
	output := flag.String("output", "", "Output CSV file (default stdout)")
	withDerivatives := flag.Bool("derivatives", false, "Include a derivative column")
	verbose := flag.Bool("v", false, "Verbose output")
	demo := flag.Bool("demo", false, "Dump a built-in demonstration spline")
	flag.Parse()

	var parsed []spline.SplineKey
	if *demo {
		parsed = []spline.SplineKey{
			{X: 0, Y: 0.1},
			{X: 1, Y: 0.4},
			{X: 4, Y: 0.2},
			{X: 40, Y: 0.2},
			{X: 100, Y: 1.0},
		}
	} else {
		if *keys == "" {
			fmt.Fprintf(os.Stderr, "Usage: %s -keys \"x:y[:d],...\" [options]\n\nOptions:\n", os.Args[0])
			flag.PrintDefaults()
			return fmt.Errorf("no keys given")
		}
		var err error
		parsed, err = parseKeys(*keys)
		if err != nil {
			return err
		}
	}

	s, err := spline.SplineFromKeys(parsed,
		spline.NewRange(*rangeMin, *rangeMax), *granularity)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("spline: %d nodes (from %d keys), x domain [%g, %g], granularity %g",
			s.NodeCount(), len(parsed), s.StartX(), s.EndX(), s.XGranularity())
	}

	if *samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", *samples)
	}
	deltaX := s.LengthX() / float64(*samples-1)
	ys := make([]float64, *samples)
	s.Ys(s.StartX(), deltaX, ys)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("could not create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	header := []string{"x", "y"}
	if *withDerivatives {
		header = append(header, "derivative")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	ev := spline.NewBulkSplineEvaluator()
	ev.SetNumIndices(1)
	ev.SetYRange(0, s.YRange(), false)
	playback := spline.NewSplinePlayback()
	playback.StartX = s.StartX()
	ev.SetSpline(0, s, playback)
	for i := 0; i < *samples; i++ {
		x := s.StartX() + deltaX*float64(i)
		record := []string{
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(ys[i], 'g', -1, 64),
		}
		if *withDerivatives {
			if i > 0 {
				ev.AdvanceFrame(deltaX)
			}
			record = append(record, strconv.FormatFloat(ev.Derivative(0), 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// parseKeys parses "x:y[:derivative]" triples separated by commas.
func parseKeys(s string) ([]spline.SplineKey, error) {
	parts := strings.Split(s, ",")
	keys := make([]spline.SplineKey, 0, len(parts))
	for _, part := range parts {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) < minKeyFields || len(fields) > maxKeyFields {
			return nil, fmt.Errorf("bad key %q: want x:y[:derivative]", part)
		}
		var key spline.SplineKey
		var err error
		if key.X, err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil, fmt.Errorf("bad key %q: %w", part, err)
		}
		if key.Y, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("bad key %q: %w", part, err)
		}
		if len(fields) == maxKeyFields {
			if key.Derivative, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("bad key %q: %w", part, err)
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}
