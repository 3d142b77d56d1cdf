// CLAUDE:SUMMARY HTTP hardening middleware for the streamable MCP transport: headers, body cap, per-IP rate limiting.
// Package shield provides HTTP middleware for the streamable MCP
// transport: security headers, request body limits and per-IP token
// bucket rate limiting.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
//	r.Use(shield.MaxBody(1 << 20))
//	rl := shield.NewRateLimiter(shield.RateLimitConfig{RatePerSecond: 5, Burst: 10})
//	r.With(rl.Middleware).Handle("/mcp", handler)
package shield
