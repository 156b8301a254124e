// Package card turns decoded findings into Microsoft Teams MessageCard
// payloads.
//
// A Profile is an ordered selection of facts. Two profiles ship with the
// relay: Full (every fact, including the resource and contacts) and Summary
// (the reduced card for a secondary channel). Build resolves every fact of
// the profile and fails with *finding.MissingFieldError if the finding or
// resource lacks a field the profile reads; facts are never skipped.
package card
