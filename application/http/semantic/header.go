package semantic

import "bytes"

// Field is a single header line. A nil Value means the line carried no value.
type Field struct {
	Name  string
	Value []byte
}

// Headers maps field names to optional values.
// Names are matched exactly. Fields keep the order they were first set in,
// and setting an existing name replaces its value in place.
// The zero value is an empty, usable Headers.
type Headers struct {
	fields []Field
	index  map[string]int
}

func NewHeaders(fields ...Field) Headers {
	var h Headers
	for _, f := range fields {
		h.Set(f.Name, f.Value)
	}
	return h
}

// Set stores value under name. If name was already present,
// the discarded value is returned with replaced set to true.
func (h *Headers) Set(name string, value []byte) (prev []byte, replaced bool) {
	if h.index == nil {
		h.index = make(map[string]int)
	}

	if idx, ok := h.index[name]; ok {
		prev = h.fields[idx].Value
		h.fields[idx].Value = value
		return prev, true
	}

	h.index[name] = len(h.fields)
	h.fields = append(h.fields, Field{Name: name, Value: value})
	return nil, false
}

func (h *Headers) Get(name string) (value []byte, ok bool) {
	idx, ok := h.index[name]
	if !ok {
		return nil, false
	}
	return h.fields[idx].Value, true
}

func (h *Headers) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

func (h *Headers) Del(name string) {
	idx, ok := h.index[name]
	if !ok {
		return
	}

	h.fields = append(h.fields[:idx], h.fields[idx+1:]...)
	delete(h.index, name)
	for i := idx; i < len(h.fields); i++ {
		h.index[h.fields[i].Name] = i
	}
}

func (h *Headers) Len() int { return len(h.fields) }

// Fields returns the fields in order. Values are shared with h.
func (h *Headers) Fields() []Field {
	fields := make([]Field, len(h.fields))
	copy(fields, h.fields)
	return fields
}

// Clone deep-copies names and values.
func (h *Headers) Clone() Headers {
	var clone Headers
	for _, f := range h.fields {
		clone.Set(f.Name, bytes.Clone(f.Value))
	}
	return clone
}
