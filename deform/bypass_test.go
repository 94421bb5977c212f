package deform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/augment/deform"
	apperrors "github.com/kbukum/augment/errors"
	"github.com/kbukum/augment/jams"
	"github.com/kbukum/augment/stream"
)

func TestNewBypass_Valid(t *testing.T) {
	inner := &recordingTransformer{name: "A", count: 1}
	b, err := deform.NewBypass(inner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Transformer() != deform.Transformer(inner) {
		t.Error("expected wrapped transformer to be retained")
	}
	if inner.calls != 0 {
		t.Error("construction must not call the wrapped transformer")
	}
}

func TestNewBypass_Rejects(t *testing.T) {
	var typedNil *recordingTransformer
	var nilFunc deform.Func

	tests := []struct {
		name string
		t    deform.Transformer
	}{
		{"nil interface", nil},
		{"typed nil pointer", typedNil},
		{"nil func", nilFunc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := deform.NewBypass(tt.t)
			if b != nil {
				t.Error("expected no Bypass on failure")
			}
			assertInvalidTransformer(t, err)
		})
	}
}

func TestBypassOf_Rejects(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"number", 42},
		{"string", "stretch"},
		{"nil", nil},
		{"struct without capability", struct{ Name string }{"x"}},
		{"typed nil transformer", (*recordingTransformer)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := deform.BypassOf(tt.v)
			if b != nil {
				t.Error("expected no Bypass on failure")
			}
			assertInvalidTransformer(t, err)
		})
	}
}

func TestBypassOf_Valid(t *testing.T) {
	var v any = &recordingTransformer{name: "A"}
	b, err := deform.BypassOf(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Transformer() != v {
		t.Error("expected wrapped value to be retained")
	}
}

func assertInvalidTransformer(t *testing.T, err error) {
	t.Helper()
	appErr, ok := apperrors.As(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != apperrors.ErrCodeInvalidArgument {
		t.Errorf("expected INVALID_ARGUMENT, got %s", appErr.Code)
	}
	if appErr.Message != "wrapped value is not a valid Transformer" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestBypass_InputFirstThenInnerInOrder(t *testing.T) {
	inner := &recordingTransformer{name: "A", count: 3}
	b, _ := deform.NewBypass(inner)
	doc := newDoc()

	got, err := stream.Collect(context.Background(), b.Transform(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 outputs, got %d", len(got))
	}
	if got[0] != doc {
		t.Error("first output must be the input document itself")
	}
	want := []string{"", "A0", "A1", "A2"}
	if c := chains(got); !equalStrings(c, want) {
		t.Errorf("got %v, want %v", c, want)
	}
	if len(doc.History()) != 0 {
		t.Error("input document must not be modified")
	}
}

func TestBypass_EmptyInner(t *testing.T) {
	b, _ := deform.NewBypass(&recordingTransformer{name: "A"})
	doc := newDoc()

	got, err := stream.Collect(context.Background(), b.Transform(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != doc {
		t.Errorf("expected exactly the input, got %v", got)
	}
}

func TestBypass_ErrorPropagatesUnchanged(t *testing.T) {
	sentinel := errors.New("inner broke")
	inner := &recordingTransformer{name: "A", count: 2, err: sentinel}
	b, _ := deform.NewBypass(inner)
	doc := newDoc()

	got, err := stream.Collect(context.Background(), b.Transform(doc))
	if err != sentinel {
		t.Fatalf("expected the inner error itself, got %v", err)
	}
	if len(got) != 3 || got[0] != doc {
		t.Errorf("expected input plus 2 variants before the error, got %v", chains(got))
	}
}

func TestBypass_ErrorOnFirstInnerPull(t *testing.T) {
	sentinel := errors.New("fails immediately")
	b, _ := deform.NewBypass(&recordingTransformer{name: "A", err: sentinel})
	doc := newDoc()
	it := b.Transform(doc)
	defer it.Close()

	first, ok, err := it.Next(context.Background())
	if err != nil || !ok || first != doc {
		t.Fatalf("expected input first, got %v %v %v", first, ok, err)
	}
	if _, _, err := it.Next(context.Background()); err != sentinel {
		t.Errorf("expected sentinel on second pull, got %v", err)
	}
}

func TestBypass_InnerInvokedLazily(t *testing.T) {
	inner := &recordingTransformer{name: "A", count: 2}
	b, _ := deform.NewBypass(inner)
	doc := newDoc()

	it := b.Transform(doc)
	if inner.calls != 0 {
		t.Fatal("Transform must not call the wrapped transformer")
	}
	if _, _, err := it.Next(context.Background()); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 0 {
		t.Error("pulling the input must not call the wrapped transformer")
	}
	if _, _, err := it.Next(context.Background()); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("expected wrapped transformer called once, got %d", inner.calls)
	}
	if inner.iters[0].pulls != 1 {
		t.Errorf("expected one pull on the wrapped sequence, got %d", inner.iters[0].pulls)
	}
	_ = it.Close()
	if !inner.iters[0].closed {
		t.Error("expected wrapped sequence closed")
	}
}

func TestBypass_CloseBeforeInnerStarts(t *testing.T) {
	inner := &recordingTransformer{name: "A", count: 2}
	b, _ := deform.NewBypass(inner)

	it := b.Transform(newDoc())
	_, _, _ = it.Next(context.Background())
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 0 {
		t.Error("closing after the first value must not call the wrapped transformer")
	}
}

func TestBypass_IndependentSequences(t *testing.T) {
	inner := &recordingTransformer{name: "A", count: 2}
	b, _ := deform.NewBypass(inner)
	doc := newDoc()
	ctx := context.Background()

	first := b.Transform(doc)
	second := b.Transform(doc)

	a0, _, _ := first.Next(ctx)
	a1, _, _ := first.Next(ctx)
	b0, _, _ := second.Next(ctx)
	if a0 != doc || b0 != doc {
		t.Error("each sequence must start with the input")
	}
	if chain(a1) != "A0" {
		t.Errorf("unexpected first variant %q", chain(a1))
	}

	rest, err := stream.Collect(ctx, second)
	if err != nil {
		t.Fatal(err)
	}
	if c := chains(rest); !equalStrings(c, []string{"A0", "A1"}) {
		t.Errorf("second sequence affected by the first: %v", c)
	}
	_ = first.Close()
}

func TestBypass_Restartable(t *testing.T) {
	b, _ := deform.NewBypass(&recordingTransformer{name: "A", count: 1})
	doc := newDoc()
	for i := 0; i < 3; i++ {
		got, err := stream.Collect(context.Background(), b.Transform(doc))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("run %d: expected 2 outputs, got %d", i, len(got))
		}
	}
}

func TestBypass_InfiniteInner(t *testing.T) {
	inner := &recordingTransformer{name: "A", infinite: true}
	b, _ := deform.NewBypass(inner)
	doc := newDoc()
	it := b.Transform(doc)
	defer it.Close()

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		v, ok, err := it.Next(ctx)
		if err != nil || !ok {
			t.Fatalf("pull %d: ok=%v err=%v", i, ok, err)
		}
		if i == 0 && v != doc {
			t.Fatal("first value must be the input")
		}
	}
	if inner.iters[0].pulls != 99 {
		t.Errorf("expected 99 inner pulls, got %d", inner.iters[0].pulls)
	}
}

func TestBypass_Nested(t *testing.T) {
	inner := &recordingTransformer{name: "A", count: 1}
	b1, _ := deform.NewBypass(inner)
	b2, _ := deform.NewBypass(b1)
	doc := newDoc()

	got, err := stream.Collect(context.Background(), b2.Transform(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != doc || got[1] != doc {
		t.Errorf("expected [doc doc A0], got %v", chains(got))
	}
}

func TestBypass_WithFunc(t *testing.T) {
	f := deform.Func(func(doc *jams.Document) stream.Iterator[*jams.Document] {
		c := doc.Clone()
		c.File.Title = "changed"
		return stream.Of(c)
	})
	b, err := deform.NewBypass(f)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := stream.Collect(context.Background(), b.Transform(newDoc()))
	if len(got) != 2 || got[0].File.Title != "test" || got[1].File.Title != "changed" {
		t.Errorf("unexpected outputs %v", got)
	}
}
