package finding

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

// Event is one inbound notification as delivered by Pub/Sub, either inside a
// push request or as a Kafka record value.
type Event struct {
	Data        string            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId,omitempty"`
	PublishTime string            `json:"publishTime,omitempty"`
}

// Message is the decoded notification payload.
type Message struct {
	Finding                Finding  `json:"finding"`
	Resource               Resource `json:"resource"`
	NotificationConfigName string   `json:"notificationConfigName,omitempty"`

	// Raw is the decoded JSON text, kept for logging.
	Raw json.RawMessage `json:"-"`
}

// Decode base64-decodes ev.Data and parses the result as a notification.
// The finding and resource members are required and must be JSON objects.
func Decode(ev Event) (*Message, error) {
	raw, err := decodeBase64(ev.Data)
	if err != nil {
		return nil, &DecodeError{Stage: "base64", Err: err}
	}
	if !utf8.Valid(raw) {
		return nil, &DecodeError{Stage: "utf8", Err: errors.New("payload is not valid UTF-8")}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &DecodeError{Stage: "json", Err: err}
	}
	if top == nil {
		return nil, &DecodeError{Stage: "json", Err: errors.New("payload is not a JSON object")}
	}

	msg := &Message{Raw: json.RawMessage(bytes.TrimSpace(raw))}

	f, err := requireObject(top, "finding")
	if err != nil {
		return nil, err
	}
	r, err := requireObject(top, "resource")
	if err != nil {
		return nil, err
	}
	msg.Finding, msg.Resource = Finding(f), Resource(r)

	if v, ok := top["notificationConfigName"]; ok {
		// Informational only; a non-string value is ignored.
		_ = json.Unmarshal(v, &msg.NotificationConfigName)
	}
	return msg, nil
}

// Encode is the inverse of Decode's base64 step: it wraps a JSON payload in
// an Event.
func Encode(payload []byte) Event {
	return Event{Data: base64.StdEncoding.EncodeToString(payload)}
}

// decodeBase64 accepts standard encoding first and falls back to the
// URL-safe and unpadded alphabets.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("data is empty")
	}
	out, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return out, nil
	}
	for _, enc := range []*base64.Encoding{base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if alt, altErr := enc.DecodeString(s); altErr == nil {
			return alt, nil
		}
	}
	return nil, err
}

func requireObject(top map[string]json.RawMessage, key string) (Object, error) {
	v, ok := top[key]
	if !ok || isNull(v) {
		return nil, &MissingFieldError{Path: key}
	}
	var obj Object
	if err := json.Unmarshal(v, &obj); err != nil {
		return nil, &DecodeError{Stage: "json", Err: errors.New(key + " is not a JSON object")}
	}
	return obj, nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
