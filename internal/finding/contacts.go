package finding

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Contacts is the ordered content of a finding's "contacts" member: one
// group per contact type, in the order the types appear in the JSON.
type Contacts []ContactGroup

// ContactGroup holds the contacts listed under one contact type.
type ContactGroup struct {
	Type     string
	Contacts []Contact
}

// Contact is one contact's attributes in their JSON order.
type Contact []Attribute

// Attribute is a single key/value pair of a contact.
type Attribute struct {
	Key   string
	Value string
}

// ParseContacts decodes a contacts object of the form
//
//	{"<type>": {"contacts": [{"<key>": <value>, ...}, ...]}, ...}
//
// keeping member order at every level. Groups without a "contacts" list, or
// with a null one, are kept with no contacts; other group members are ignored.
func ParseContacts(data []byte) (Contacts, error) {
	if !gjson.ValidBytes(data) {
		return nil, contactsError(errors.New("invalid JSON"))
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, contactsError(fmt.Errorf("want object, got %s", kind(root)))
	}

	var (
		out Contacts
		err error
	)
	root.ForEach(func(typ, group gjson.Result) bool {
		if !group.IsObject() {
			err = fmt.Errorf("%s: want object, got %s", typ.Str, kind(group))
			return false
		}
		g := ContactGroup{Type: typ.Str}
		list := group.Get("contacts")
		if list.Exists() && list.Type != gjson.Null {
			if !list.IsArray() {
				err = fmt.Errorf("%s.contacts: want array, got %s", typ.Str, kind(list))
				return false
			}
			list.ForEach(func(_, entry gjson.Result) bool {
				if !entry.IsObject() {
					err = fmt.Errorf("%s.contacts: want object entries, got %s", typ.Str, kind(entry))
					return false
				}
				var c Contact
				entry.ForEach(func(key, value gjson.Result) bool {
					c = append(c, Attribute{Key: key.Str, Value: render(value)})
					return true
				})
				g.Contacts = append(g.Contacts, c)
				return true
			})
			if err != nil {
				return false
			}
		}
		out = append(out, g)
		return true
	})
	if err != nil {
		return nil, contactsError(err)
	}
	return out, nil
}

func contactsError(err error) error {
	return &DecodeError{Stage: "json", Err: fmt.Errorf("contacts: %w", err)}
}

// kind names a JSON value's type for error messages.
func kind(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	case v.Type == gjson.True, v.Type == gjson.False:
		return "boolean"
	}
	return v.Type.String()
}
