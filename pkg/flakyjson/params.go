package flakyjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Param is one key/value pair of a run's parameters. Value holds a string,
// bool, float64, nil, or json.RawMessage for nested objects and arrays.
type Param struct {
	Key   string
	Value any
}

// Params is an insertion-ordered parameter mapping. Order is part of the
// contract: configuration names list extra parameters in this order.
type Params struct {
	entries []Param
}

// NewParams builds Params from pairs. A repeated key keeps its first
// position and takes the last value.
func NewParams(pairs ...Param) Params {
	var p Params
	for _, kv := range pairs {
		p.Set(kv.Key, kv.Value)
	}
	return p
}

// Len returns the number of parameters.
func (p Params) Len() int { return len(p.entries) }

// Get returns the value for key.
func (p Params) Get(key string) (any, bool) {
	if i := p.index(key); i >= 0 {
		return p.entries[i].Value, true
	}
	return nil, false
}

// Entries returns a copy of the pairs in insertion order.
func (p Params) Entries() []Param {
	out := make([]Param, len(p.entries))
	copy(out, p.entries)
	return out
}

// Keys returns the keys in insertion order.
func (p Params) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, kv := range p.entries {
		keys[i] = kv.Key
	}
	return keys
}

// Clone returns a copy that shares no backing storage with p.
func (p Params) Clone() Params {
	return Params{entries: p.Entries()}
}

// Set replaces the value of an existing key in place, or appends a new key.
func (p *Params) Set(key string, value any) {
	if i := p.index(key); i >= 0 {
		p.entries[i].Value = value
		return
	}
	p.entries = append(p.entries, Param{Key: key, Value: value})
}

// Delete removes key if present.
func (p *Params) Delete(key string) {
	if i := p.index(key); i >= 0 {
		p.entries = append(p.entries[:i:i], p.entries[i+1:]...)
	}
}

func (p Params) index(key string) int {
	for i, kv := range p.entries {
		if kv.Key == key {
			return i
		}
	}
	return -1
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (p *Params) UnmarshalJSON(data []byte) error {
	p.entries = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading parameters: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("parameters: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading parameter key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("parameters: expected string key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("reading parameter %q: %w", key, err)
		}
		value, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", key, err)
		}
		p.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("closing parameters: %w", err)
	}
	return nil
}

// MarshalJSON encodes the parameters as a JSON object in insertion order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range p.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding parameter %q: %w", kv.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case 'n':
		return nil, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	case '{', '[':
		return append(json.RawMessage(nil), raw...), nil
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", raw, err)
		}
		return f, nil
	}
}
