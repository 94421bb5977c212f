package deform

import "context"

// Middleware wraps a Transformer with cross-cutting behavior.
type Middleware func(Transformer) Transformer

// Chain composes middlewares. The first middleware is outermost.
//
// Chain(a, b, c)(t) is equivalent to a(b(c(t))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Transformer) Transformer {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Sequence outcomes reported by middleware.
const (
	statusOK     = "ok"
	statusError  = "error"
	statusClosed = "closed"
)

type callIDKey struct{}

// withCallID tags ctx with the id of the Transform call pulling through it.
func withCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

func callIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(callIDKey{}).(string)
	return id, ok && id != ""
}
