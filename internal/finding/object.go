package finding

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Object is a JSON object whose members stay encoded until they are read.
type Object map[string]json.RawMessage

// Finding is the "finding" member of a notification.
type Finding Object

// Resource is the "resource" member of a notification.
type Resource Object

// Text returns the finding member at path rendered as text.
func (f Finding) Text(path ...string) (string, error) {
	return Object(f).text("finding", path)
}

// Contacts returns the optional "contacts" member. An absent member, or one
// holding an empty value (null, false, 0, "", [] or {}), yields no contacts
// and no error.
func (f Finding) Contacts() (Contacts, error) {
	v, ok := f["contacts"]
	if !ok || empty(gjson.ParseBytes(v)) {
		return nil, nil
	}
	return ParseContacts(v)
}

// Text returns the resource member at path rendered as text.
func (r Resource) Text(path ...string) (string, error) {
	return Object(r).text("resource", path)
}

// lookup walks path through nested objects. Any absent step, or a step that
// is not an object, is reported as missing with the full dotted path.
func (o Object) lookup(root string, path []string) (gjson.Result, error) {
	full := root
	if len(path) > 0 {
		full += "." + strings.Join(path, ".")
	}
	missing := &MissingFieldError{Path: full}
	if len(path) == 0 {
		return gjson.Result{}, missing
	}

	v, ok := o[path[0]]
	if !ok {
		return gjson.Result{}, missing
	}
	cur := gjson.ParseBytes(v)
	for _, key := range path[1:] {
		if !cur.IsObject() {
			return gjson.Result{}, missing
		}
		cur = cur.Get(gjson.Escape(key))
		if !cur.Exists() {
			return gjson.Result{}, missing
		}
	}
	return cur, nil
}

func (o Object) text(root string, path []string) (string, error) {
	v, err := o.lookup(root, path)
	if err != nil {
		return "", err
	}
	return render(v), nil
}

// render turns a JSON value into display text: strings lose their quotes,
// null becomes empty and everything else is compact JSON.
func render(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	}
	return string(pretty.Ugly([]byte(v.Raw)))
}

// empty reports whether v is a JSON value with no content.
func empty(v gjson.Result) bool {
	switch {
	case v.Type == gjson.Null, v.Type == gjson.False:
		return true
	case v.Type == gjson.String:
		return v.Str == ""
	case v.Type == gjson.Number:
		return v.Num == 0
	case v.IsArray():
		return len(v.Array()) == 0
	case v.IsObject():
		return len(v.Map()) == 0
	}
	return false
}
