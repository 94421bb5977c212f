package deform

import (
	"reflect"

	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/stream"
)

// Transformer produces document variants.
//
// Transform must not do work itself; the returned iterator performs the
// deformation as values are pulled. Every call returns a fresh, independent
// sequence.
type Transformer interface {
	Transform(doc *jams.Document) stream.Iterator[*jams.Document]
}

// Func adapts an ordinary function to a Transformer.
type Func func(doc *jams.Document) stream.Iterator[*jams.Document]

// Transform calls f(doc).
func (f Func) Transform(doc *jams.Document) stream.Iterator[*jams.Document] {
	return f(doc)
}

// Identity yields its input once.
var Identity Transformer = Func(func(doc *jams.Document) stream.Iterator[*jams.Document] {
	return stream.Of(doc)
})

// isNil reports whether t is a nil interface or wraps a nil pointer, map,
// func, chan, or slice.
func isNil(t Transformer) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
