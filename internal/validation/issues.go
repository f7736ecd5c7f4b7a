package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// Issues maps a column or rule name to a description of what is wrong with
// it. Entries keep the order they were recorded in, both in memory and in
// their JSON encoding.
type Issues struct {
	entries []issue
}

type issue struct {
	key     string
	message string
}

// Set records message under key, replacing any earlier message in place.
func (i *Issues) Set(key, message string) {
	for n := range i.entries {
		if i.entries[n].key == key {
			i.entries[n].message = message
			return
		}
	}
	i.entries = append(i.entries, issue{key: key, message: message})
}

// Get returns the message recorded under key.
func (i Issues) Get(key string) (string, bool) {
	for _, e := range i.entries {
		if e.key == key {
			return e.message, true
		}
	}
	return "", false
}

// Len returns the number of recorded issues.
func (i Issues) Len() int {
	return len(i.entries)
}

// Keys returns the issue keys in recorded order.
func (i Issues) Keys() []string {
	keys := make([]string, len(i.entries))
	for n, e := range i.entries {
		keys[n] = e.key
	}
	return keys
}

// All iterates over key and message pairs in recorded order.
func (i Issues) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range i.entries {
			if !yield(e.key, e.message) {
				return
			}
		}
	}
}

// MarshalJSON encodes the issues as a JSON object in recorded order.
func (i Issues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, e := range i.entries {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.message)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping document order.
func (i *Issues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		i.entries = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("issues: expected object, got %v", tok)
	}

	i.entries = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("issues: expected key, got %v", tok)
		}

		var message string
		if err := dec.Decode(&message); err != nil {
			return fmt.Errorf("issues: value for %s: %w", key, err)
		}
		i.Set(key, message)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
