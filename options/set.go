package options

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Pair is a single option rendered for the wire.
type Pair struct {
	Name  string
	Value string
}

// Set is a bag of delivery options. Values are checked against the known
// keys by Validate; a Set must validate before it can be rendered with Pairs.
//
// A Set is not safe for concurrent use.
type Set struct {
	values    map[string]any
	validated bool
}

// New returns a Set holding a copy of values. Nothing is checked until Validate.
func New(values map[string]any) *Set {
	s := &Set{values: make(map[string]any, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Set stores v under key, replacing any previous value, and clears the
// validated state.
func (s *Set) Set(key string, v any) *Set {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = v
	s.validated = false
	return s
}

// Get returns the raw value stored for key.
func (s *Set) Get(key Key) (any, bool) {
	v, ok := s.values[string(key)]
	return v, ok
}

// Len returns the number of stored values.
func (s *Set) Len() int {
	return len(s.values)
}

// Clone returns an independent copy, including the validated state.
func (s *Set) Clone() *Set {
	return &Set{
		values:    maps.Clone(s.values),
		validated: s.validated,
	}
}

// Validate checks every stored value and every required key. forMetadataOutput
// selects which keys apply: download-link keys are only accepted, and then
// required, when the result is a metadata document.
//
// All problems are reported at once in a ValidationError.
func (s *Set) Validate(forMetadataOutput bool) error {
	s.validated = false

	var fields ValidationError
	fail := func(key, msg string) {
		fields = append(fields, FieldError{Key: key, Err: msg})
	}

	for _, key := range order {
		def := definitions[key]
		raw, present := s.values[string(key)]

		if def.metadataOnly && !forMetadataOutput {
			if present {
				fail(string(key), "only applies to xml output")
			}
			continue
		}

		if !present {
			if def.required {
				fail(string(key), "is required")
			}
			continue
		}

		value, ok := normalize(raw, def.kind)
		if !ok {
			fail(string(key), fmt.Sprintf("must be of kind %s, got %T", def.kind, raw))
			continue
		}

		if msg := checkRule(def, value); msg != "" {
			fail(string(key), msg)
		}
	}

	if !s.hasCustomer() {
		fail(string(CustomerName), "customername or customeremailaddress is required")
	}

	for _, name := range slices.Sorted(maps.Keys(s.values)) {
		if _, known := definitions[Key(name)]; !known {
			fail(name, "unknown option")
		}
	}

	if len(fields) > 0 {
		return fields
	}

	s.validated = true

	return nil
}

// Pairs renders the options in canonical key order. Integers are decimal,
// booleans are "1"/"0" or, for presence-style keys, "1" or left out.
//
// Pairs panics if the Set has not been validated since its last change.
func (s *Set) Pairs() []Pair {
	if !s.validated {
		panic("options: Pairs called before a successful Validate")
	}

	pairs := make([]Pair, 0, len(s.values))
	for _, key := range order {
		raw, ok := s.values[string(key)]
		if !ok {
			continue
		}

		def := definitions[key]
		value, _ := normalize(raw, def.kind)

		switch v := value.(type) {
		case string:
			pairs = append(pairs, Pair{Name: string(key), Value: v})
		case int64:
			pairs = append(pairs, Pair{Name: string(key), Value: strconv.FormatInt(v, 10)})
		case bool:
			switch {
			case v:
				pairs = append(pairs, Pair{Name: string(key), Value: "1"})
			case def.bools == boolDigit:
				pairs = append(pairs, Pair{Name: string(key), Value: "0"})
			}
		}
	}

	return pairs
}

func (s *Set) hasCustomer() bool {
	for _, key := range []Key{CustomerName, CustomerEmail} {
		if v, ok := s.values[string(key)].(string); ok && v != "" {
			return true
		}
	}
	return false
}

// normalize returns raw as the canonical Go type for kind: string, int64 or
// bool. Any integer type is accepted for Int.
func normalize(raw any, kind Kind) (any, bool) {
	switch kind {
	case String:
		v, ok := raw.(string)
		return v, ok
	case Bool:
		v, ok := raw.(bool)
		return v, ok
	case Int:
		return toInt64(raw)
	}
	return nil, false
}

func toInt64(raw any) (any, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return nil, false
		}
		return int64(v), true
	}
	return nil, false
}
