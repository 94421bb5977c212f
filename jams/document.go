package jams

import "maps"

// FileMetadata describes the audio the annotations refer to.
type FileMetadata struct {
	Title    string  `json:"title" mapstructure:"title"`
	Artist   string  `json:"artist" mapstructure:"artist"`
	Duration float64 `json:"duration" mapstructure:"duration" validate:"gte=0"`
}

// Observation is one time-stamped annotation value.
type Observation struct {
	Time       float64 `json:"time"`
	Duration   float64 `json:"duration"`
	Value      any     `json:"value"`
	Confidence any     `json:"confidence"`
}

// Annotation groups observations under a namespace such as "beat" or "chord".
type Annotation struct {
	Namespace string        `json:"namespace"`
	Data      []Observation `json:"data"`
}

// HistoryEntry records one deformation applied to a document.
type HistoryEntry struct {
	Transformer string         `json:"transformer"`
	State       map[string]any `json:"state"`
}

// Sandbox holds augmentation bookkeeping.
type Sandbox struct {
	History []HistoryEntry `json:"history"`
}

// Document is an annotated audio document.
type Document struct {
	File        FileMetadata  `json:"file_metadata"`
	Annotations []*Annotation `json:"annotations"`
	Sandbox     Sandbox       `json:"sandbox"`
}

// New returns an empty document for a recording of the given duration in
// seconds.
func New(title string, duration float64) *Document {
	return &Document{
		File: FileMetadata{Title: title, Duration: duration},
	}
}

// AddAnnotation appends an annotation with the given observations and
// returns it.
func (d *Document) AddAnnotation(namespace string, obs ...Observation) *Annotation {
	ann := &Annotation{Namespace: namespace, Data: obs}
	d.Annotations = append(d.Annotations, ann)
	return ann
}

// Clone returns a deep copy of d. Observation values and confidences are
// copied by assignment.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{File: d.File}
	if d.Annotations != nil {
		c.Annotations = make([]*Annotation, len(d.Annotations))
		for i, a := range d.Annotations {
			c.Annotations[i] = a.clone()
		}
	}
	if d.Sandbox.History != nil {
		c.Sandbox.History = make([]HistoryEntry, len(d.Sandbox.History))
		for i, h := range d.Sandbox.History {
			c.Sandbox.History[i] = HistoryEntry{Transformer: h.Transformer, State: maps.Clone(h.State)}
		}
	}
	return c
}

// AppendHistory records a deformation on d.
func (d *Document) AppendHistory(transformer string, state map[string]any) {
	d.Sandbox.History = append(d.Sandbox.History, HistoryEntry{
		Transformer: transformer,
		State:       maps.Clone(state),
	})
}

// History returns a copy of the recorded deformation chain.
func (d *Document) History() []HistoryEntry {
	out := make([]HistoryEntry, len(d.Sandbox.History))
	copy(out, d.Sandbox.History)
	return out
}

func (a *Annotation) clone() *Annotation {
	if a == nil {
		return nil
	}
	c := &Annotation{Namespace: a.Namespace}
	if a.Data != nil {
		c.Data = make([]Observation, len(a.Data))
		copy(c.Data, a.Data)
	}
	return c
}
