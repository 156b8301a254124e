package finding

import "fmt"

// DecodeError reports an inbound event whose payload could not be decoded.
// Stage is one of "base64", "utf8" or "json".
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("finding: decode %s", e.Stage)
	}
	return fmt.Sprintf("finding: decode %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MissingFieldError reports a required field that is absent from the
// decoded message. Path is dotted from the message root, e.g.
// "finding.sourceProperties.Explanation".
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("finding: required field %q is missing", e.Path)
}
