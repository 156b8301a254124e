// Package relay wires decode, format and dispatch together.
//
// Relay.Handle processes one inbound event synchronously: it decodes the
// event, builds one card per configured target and only then delivers each
// card once. A card that cannot be built prevents every delivery for that
// event. The target set can be swapped at runtime with Reload.
package relay
