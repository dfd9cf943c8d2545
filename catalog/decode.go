package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/fwojciec/schemadex"
)

// member is one key/value pair of a JSON object.
type member struct {
	Key   string
	Value json.RawMessage
}

// object is a JSON object with its keys in document order. A repeated key
// keeps its first position and its last value.
type object []member

var errNotObject = errors.New("not a JSON object")

// get returns the raw value stored under key.
func (o object) get(key string) (json.RawMessage, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// decodeObject decodes raw as a JSON object, preserving key order.
func decodeObject(raw []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	var obj object
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if i, ok := index[key]; ok {
			obj[i].Value = v
			continue
		}
		index[key] = len(obj)
		obj = append(obj, member{Key: key, Value: v})
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return obj, nil
}

// parseDocument validates cleaned file text and decodes its top level.
// A valid document whose top level is not an object decodes as empty.
func parseDocument(text string) (object, error) {
	data := []byte(text)
	if !json.Valid(data) {
		// Run the decoder for a descriptive syntax error.
		var v any
		err := json.Unmarshal(data, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, schemadex.Errorf(schemadex.EPARSE, "%v", err)
	}
	obj, err := decodeObject(data)
	if errors.Is(err, errNotObject) {
		return nil, nil
	} else if err != nil {
		return nil, schemadex.Errorf(schemadex.EPARSE, "%v", err)
	}
	return obj, nil
}

// parseEntity decodes one entry of a "classes" table. Missing or malformed
// parts are left empty.
func parseEntity(name string, raw json.RawMessage) *schemadex.Entity {
	e := &schemadex.Entity{Name: name}
	obj, err := decodeObject(raw)
	if err != nil {
		return e
	}

	if v, ok := obj.get("parent"); ok {
		e.Parent = jsonString(v)
	}
	if v, ok := obj.get("fields"); ok {
		fields, _ := decodeObject(v)
		for _, m := range fields {
			e.Fields = append(e.Fields, parseField(m.Key, m.Value))
		}
	}
	if v, ok := obj.get("methods"); ok {
		methods, _ := decodeObject(v)
		for _, m := range methods {
			e.Methods = append(e.Methods, parseMethod(m.Key, m.Value))
		}
	}
	return e
}

// parseField decides the field shape once: an object carrying an "offsets"
// key is grouped, anything else is simple.
func parseField(name string, raw json.RawMessage) schemadex.Field {
	f := schemadex.Field{Name: name, Kind: schemadex.FieldSimple}
	obj, err := decodeObject(raw)
	if err != nil {
		f.Value = schemadex.ValueFromJSON(raw)
		return f
	}

	if v, ok := obj.get("type_name"); ok {
		f.TypeName = jsonString(v)
	}
	if v, ok := obj.get("enum_values"); ok {
		f.EnumValues = namedValues(v)
	}
	if v, ok := obj.get("offsets"); ok && !isNull(v) {
		f.Kind = schemadex.FieldGrouped
		f.Offsets = namedValues(v)
		return f
	}
	if v, ok := obj.get("offset"); ok {
		f.Value = schemadex.ValueFromJSON(v)
	}
	return f
}

func parseMethod(name string, raw json.RawMessage) schemadex.Method {
	m := schemadex.Method{Name: name}
	obj, err := decodeObject(raw)
	if err != nil {
		return m
	}
	if v, ok := obj.get("return_type"); ok {
		m.ReturnType = jsonString(v)
	}
	if v, ok := obj.get("args"); ok {
		var args []json.RawMessage
		if err := json.Unmarshal(v, &args); err != nil {
			return m
		}
		for _, a := range args {
			arg := schemadex.Arg{}
			if argObj, err := decodeObject(a); err == nil {
				if tn, ok := argObj.get("type_name"); ok {
					arg.TypeName = jsonString(tn)
				}
				if n, ok := argObj.get("name"); ok {
					arg.Name = jsonString(n)
				}
			}
			m.Args = append(m.Args, arg)
		}
	}
	return m
}

// namedValues decodes a name-to-value table. Anything but an object yields nil.
func namedValues(raw json.RawMessage) []schemadex.NamedValue {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil
	}
	out := make([]schemadex.NamedValue, 0, len(obj))
	for _, m := range obj {
		out = append(out, schemadex.NamedValue{Name: m.Key, Value: schemadex.ValueFromJSON(m.Value)})
	}
	return out
}

// jsonString returns raw as a string if it is a JSON string, else "".
func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
