package deform

import (
	"context"
	"fmt"

	"github.com/kbukum/augment/errors"
	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/stream"
)

// TimeStretchName is recorded in document history by TimeStretch.
const TimeStretchName = "TimeStretch"

// TimeStretch rescales annotation timing. A rate above 1 speeds the
// recording up, shortening every time and duration.
type TimeStretch struct {
	rates []float64
}

// NewTimeStretch builds a TimeStretch yielding one variant per rate.
func NewTimeStretch(rates ...float64) (*TimeStretch, error) {
	if len(rates) == 0 {
		return nil, errors.InvalidArgument("rates", "at least one rate is required")
	}
	for _, r := range rates {
		if !(r > 0) {
			return nil, errors.InvalidArgument("rates", fmt.Sprintf("rate must be positive, got %v", r))
		}
	}
	out := make([]float64, len(rates))
	copy(out, rates)
	return &TimeStretch{rates: out}, nil
}

// Rates returns a copy of the configured rates.
func (ts *TimeStretch) Rates() []float64 {
	out := make([]float64, len(ts.rates))
	copy(out, ts.rates)
	return out
}

// Transform yields a stretched copy of doc for each rate. doc is not
// modified.
func (ts *TimeStretch) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	return stream.Map(stream.FromSlice(ts.rates), func(_ context.Context, rate float64) (*jams.Document, error) {
		return stretch(doc, rate), nil
	})
}

func stretch(doc *jams.Document, rate float64) *jams.Document {
	out := doc.Clone()
	out.File.Duration /= rate
	for _, ann := range out.Annotations {
		if ann == nil {
			continue
		}
		for i := range ann.Data {
			ann.Data[i].Time /= rate
			ann.Data[i].Duration /= rate
		}
	}
	out.AppendHistory(TimeStretchName, map[string]any{"rate": rate})
	return out
}
