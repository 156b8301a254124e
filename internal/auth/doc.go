// Package auth provides shared-token authentication for the push endpoint.
//
// TokenMiddleware(mode, header, token) wraps an http.Handler:
//   - mode "none" or "" passes every request through
//   - mode "token" requires the token in the configured header or in the
//     "token" query parameter (Pub/Sub push subscriptions can only attach
//     query parameters to the endpoint URL)
//
// Tokens are compared in constant time. A missing or wrong token yields
// 401 with a JSON error body.
package auth
