// CLAUDE:SUMMARY Endpoint abstraction and middleware chain shared by every tool transport.
// Package kit holds the service plumbing shared by getweb's transports:
// the Endpoint function shape, middleware chaining, request context keys
// and MCP tool registration.
package kit

import "context"

// Endpoint is the transport-neutral shape of one tool operation.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(next Endpoint) Endpoint

// Chain composes middlewares so the first argument is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
