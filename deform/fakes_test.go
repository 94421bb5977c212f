package deform_test

import (
	"context"
	"fmt"

	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/stream"
)

// recordingTransformer yields the given number of tagged clones of its input
// and then fails with err, if set.
type recordingTransformer struct {
	name     string
	count    int
	err      error
	infinite bool
	calls    int
	iters    []*trackedIter
}

func (r *recordingTransformer) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	r.calls++
	it := &trackedIter{parent: r, doc: doc}
	r.iters = append(r.iters, it)
	return it
}

type trackedIter struct {
	parent *recordingTransformer
	doc    *jams.Document
	index  int
	pulls  int
	closed bool
}

func (it *trackedIter) Next(_ context.Context) (*jams.Document, bool, error) {
	it.pulls++
	if it.parent.infinite || it.index < it.parent.count {
		out := it.doc.Clone()
		out.AppendHistory(it.parent.name, map[string]any{"index": it.index})
		it.index++
		return out, true, nil
	}
	return nil, false, it.parent.err
}

func (it *trackedIter) Close() error {
	it.closed = true
	return nil
}

func newDoc() *jams.Document {
	doc := jams.New("test", 10)
	doc.AddAnnotation("beat",
		jams.Observation{Time: 1, Duration: 0.5, Value: 1},
		jams.Observation{Time: 2, Duration: 0.5, Value: 2},
	)
	return doc
}

// chain renders the history of doc as "A0>B1".
func chain(doc *jams.Document) string {
	s := ""
	for i, h := range doc.History() {
		if i > 0 {
			s += ">"
		}
		s += fmt.Sprintf("%s%v", h.Transformer, h.State["index"])
	}
	return s
}

func chains(docs []*jams.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = chain(d)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
