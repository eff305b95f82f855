package http

import "net/http"

type Middleware interface {
	Decorate(http.Handler) http.Handler
}

// MiddlewareFunc adapts a plain function to Middleware.
type MiddlewareFunc func(http.Handler) http.Handler

func (f MiddlewareFunc) Decorate(h http.Handler) http.Handler {
	return f(h)
}

// Chain wraps h so that middlewares[0] sees the request first.
func Chain(middlewares []Middleware, h http.Handler) http.Handler {
	ret := h

	if len(middlewares) == 0 {
		return ret
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		ret = middlewares[i].Decorate(ret)
	}

	return ret
}
