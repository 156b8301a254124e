// Package finding decodes Security Command Center notifications.
//
// An inbound Event carries the notification as base64 text in its data
// field. Decode turns it into a Message holding the finding and resource
// objects. Members of both objects are decoded on access (Text, Contacts) so
// that a missing field surfaces as a *MissingFieldError at the point it is
// needed instead of being defaulted.
package finding
