package om

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

var (
	jsonMarshal   func(v any) ([]byte, error)
	jsonUnmarshal func(data []byte, v any) error
)

// SetDefaultJSONMarshal sets the JSON serialization and deserialization
// functions used for values. If not set, the standard library is used
// by default.
func SetDefaultJSONMarshal(marshal func(v any) ([]byte, error), unmarshal func(data []byte, v any) error) {
	jsonMarshal, jsonUnmarshal = marshal, unmarshal
}

// MarshalJSON implements json.Marshaler. The object is emitted in
// chronological order, oldest entry first, so that a marshal,
// unmarshal, marshal round trip reproduces the document byte for byte.
//
// Keys follow the encoding/json map key rules: string kinds are used
// directly, encoding.TextMarshaler keys are rendered as text, and
// integer kinds are rendered in base 10.
func (m *LinkedMapOf[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	n := 0
	m.rangeEntryBackward(func(e *EntryOf[K, V]) bool {
		var name string
		if name, err = resolveKeyName(e.Key); err != nil {
			return false
		}
		var kb, vb []byte
		if kb, err = json.Marshal(name); err != nil {
			return false
		}
		if jsonMarshal != nil {
			vb, err = jsonMarshal(e.Value)
		} else {
			vb, err = json.Marshal(e.Value)
		}
		if err != nil {
			return false
		}
		if n > 0 {
			buf.WriteByte(',')
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		n++
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, storing pairs in document
// order so the incoming order becomes the chronological order. Pairs
// merge into the existing contents the way encoding/json unmarshals
// into a non-empty Go map; duplicate keys keep the last value.
func (m *LinkedMapOf[K, V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // JSON null, no-op like encoding/json on maps
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("om: cannot unmarshal %v into LinkedMapOf", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("om: unexpected key token %v", keyTok)
		}
		var key K
		if err := resolveKeyValue(name, &key); err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var value V
		if jsonUnmarshal != nil {
			err = jsonUnmarshal(raw, &value)
		} else {
			err = json.Unmarshal(raw, &value)
		}
		if err != nil {
			return err
		}
		m.Store(key, value)
	}
	_, err = dec.Token() // closing brace
	return err
}

// resolveKeyName renders a map key the way encoding/json does.
func resolveKeyName(key any) (string, error) {
	rv := reflect.ValueOf(key)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	if tm, ok := key.(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		return string(b), err
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	}
	return "", fmt.Errorf("om: unsupported JSON key type %T", key)
}

// resolveKeyValue parses an object key back into K, mirroring
// encoding/json's map key decoding.
func resolveKeyValue[K comparable](name string, key *K) error {
	if tu, ok := any(key).(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(name))
	}
	rv := reflect.ValueOf(key).Elem()
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(name)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(name, 10, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("om: invalid integer key %q: %w", name, err)
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(name, 10, rv.Type().Bits())
		if err != nil {
			return fmt.Errorf("om: invalid integer key %q: %w", name, err)
		}
		rv.SetUint(n)
		return nil
	}
	return fmt.Errorf("om: unsupported JSON key type %T", *key)
}
