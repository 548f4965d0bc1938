package router

import (
	"net/http"
)

// Chain wraps an endpoint handler with middleware.
type Chain struct {
	handler     http.Handler
	middlewares []func(http.Handler) http.Handler
}

// NewChain panics on a nil handler.
func NewChain(h http.Handler) *Chain {
	if h == nil {
		panic("chain handler cannot be nil")
	}
	return &Chain{handler: h}
}

// WithMiddleware adds middlewares. They run in the order given, the first
// being the outermost:
//
//	NewChain(h).WithMiddleware(mw1, mw2) // mw1 -> mw2 -> h
//
// Successive calls append inner middlewares.
func (c *Chain) WithMiddleware(middlewares ...func(http.Handler) http.Handler) *Chain {
	c.middlewares = append(c.middlewares, middlewares...)
	return c
}

// Handler returns the handler with all middlewares applied.
func (c *Chain) Handler() http.Handler {
	handler := c.handler
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		handler = c.middlewares[i](handler)
	}
	return handler
}
