// Package dispatch delivers notification cards to chat webhooks.
//
// A Dispatcher owns one destination URL and issues exactly one JSON POST per
// Send call. There is no retry: the response status is logged and any
// failure (empty URL, transport error, non-2xx status) is returned as a
// *TransportError so callers can choose their own policy.
package dispatch
