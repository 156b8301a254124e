// Package push implements the HTTP trigger for the relay.
//
// New(processor, Options) returns an http.Handler that serves:
//
//	POST {Options.Path}  Pub/Sub push delivery; 204 when every card was delivered
//	GET  /healthz        liveness, {"status":"ok"}
//	GET  /metrics        Prometheus exposition, when Options.Metrics is set
//
// Push responses map relay errors to status codes: 400 for bodies or
// payloads that can never succeed (malformed JSON, *finding.DecodeError,
// *finding.MissingFieldError), 502 for *dispatch.TransportError and 500 for
// anything else. Error bodies are {"error": "..."}.
//
// Unlike the Kafka trigger, which commits and skips records it cannot decode,
// the push endpoint rejects them with 400. Pub/Sub redelivers every non-2xx
// response, so a subscription serving this endpoint should set a dead-letter
// policy (max delivery attempts) to move such messages aside. The 400 keeps
// them visible in the subscription's delivery metrics instead of being
// acknowledged silently.
//
// Options.Middleware, typically auth.TokenMiddleware, wraps the push route only.
// No external HTTP framework is used.
package push
