package core

import (
	"strconv"
	"strings"
)

// Object represents a PDF object.
type Object interface {
	String() string
}

// Null represents a PDF null object.
type Null struct{}

func (n Null) String() string { return "null" }

// Bool represents a PDF boolean.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int represents a PDF integer.
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number.
type Real float64

func (r Real) String() string { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String represents a PDF string.
type String string

func (s String) String() string { return string(s) }

// Name represents a PDF name.
type Name string

func (n Name) String() string { return "/" + string(n) }

// Array represents a PDF array.
type Array []Object

func (a Array) String() string {
	parts := make([]string, 0, len(a))
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Get retrieves the element at index, or nil when out of range.
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// Dict represents a PDF dictionary.
type Dict map[string]Object

func (d Dict) String() string {
	var sb strings.Builder
	sb.WriteString("<<")
	for k, v := range d {
		sb.WriteString(" /" + k + " " + v.String())
	}
	sb.WriteString(" >>")
	return sb.String()
}

// Get retrieves a value by key, or nil when absent.
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName retrieves a name value by key.
func (d Dict) GetName(key string) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// GetInt retrieves an integer value by key.
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetDict retrieves a dictionary value by key.
func (d Dict) GetDict(key string) (Dict, bool) {
	sub, ok := d[key].(Dict)
	return sub, ok
}

// GetArray retrieves an array value by key.
func (d Dict) GetArray(key string) (Array, bool) {
	a, ok := d[key].(Array)
	return a, ok
}

// Has reports whether key is present.
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Number converts an Int or Real object to float64.
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	default:
		return 0, false
	}
}

// IndirectRef represents a reference to an indirect object.
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) String() string {
	return strconv.Itoa(r.Number) + " " + strconv.Itoa(r.Generation) + " R"
}

// Stream represents a PDF stream object: a dictionary plus raw (still
// encoded) data.
type Stream struct {
	Dict Dict
	Raw  []byte
}

func (s *Stream) String() string {
	return s.Dict.String() + " stream"
}
