package props

import (
	"sort"
	"strconv"
	"sync/atomic"
)

// kind discriminates the stored representation of a property value.
type kind uint8

const (
	kindInt kind = iota
	kindInt64
	kindFloat
	kindString
	kindData
)

// property is a single stored value. Scalar kinds use the matching field;
// kindData uses data/size/dtor.
type property struct {
	kind kind
	i    int64
	f    float64
	s    string
	data any
	size int
	dtor func()
}

// clear releases a data value's resources. Scalar kinds have none.
func (p *property) clear() {
	if p.kind == kindData && p.dtor != nil {
		dtor := p.dtor
		p.dtor = nil
		p.data = nil
		dtor()
	}
}

// Properties is a reference-counted dictionary of typed values keyed by
// string. The zero value is not usable; call New.
type Properties struct {
	refs   atomic.Int32
	values map[string]*property
}

// New creates an empty dictionary holding one reference.
func New() *Properties {
	p := &Properties{values: make(map[string]*property)}
	p.refs.Store(1)
	return p
}

// IncRef adds a reference and returns the new count.
func (p *Properties) IncRef() int32 {
	return p.refs.Add(1)
}

// RefCount returns the current reference count.
func (p *Properties) RefCount() int32 {
	return p.refs.Load()
}

// Close drops one reference. When the last reference is dropped, every data
// value's destructor runs and the dictionary empties. Further operations on
// a fully closed dictionary are no-ops.
func (p *Properties) Close() {
	if p.refs.Add(-1) > 0 {
		return
	}
	for _, v := range p.values {
		v.clear()
	}
	p.values = nil
}

// set installs a value, releasing whatever the key held before.
func (p *Properties) set(key string, v *property) {
	if p.values == nil {
		return
	}
	if old, ok := p.values[key]; ok {
		old.clear()
	}
	p.values[key] = v
}

// SetInt stores an integer value.
func (p *Properties) SetInt(key string, value int) {
	p.set(key, &property{kind: kindInt, i: int64(value)})
}

// SetInt64 stores a 64-bit integer value. Frame positions use this.
func (p *Properties) SetInt64(key string, value int64) {
	p.set(key, &property{kind: kindInt64, i: value})
}

// SetFloat stores a floating point value.
func (p *Properties) SetFloat(key string, value float64) {
	p.set(key, &property{kind: kindFloat, f: value})
}

// SetString stores a string value.
func (p *Properties) SetString(key, value string) {
	p.set(key, &property{kind: kindString, s: value})
}

// SetData stores an opaque value with an optional destructor. The
// destructor runs exactly once, when the value is replaced, deleted, or
// the dictionary closes. Storing a nil value with a nil destructor is the
// idiom for reserving a key.
func (p *Properties) SetData(key string, value any, size int, destructor func()) {
	p.set(key, &property{kind: kindData, data: value, size: size, dtor: destructor})
}

// GetInt reads a value as an int, converting from other scalar kinds.
// Missing keys and data values read as 0.
func (p *Properties) GetInt(key string) int {
	return int(p.GetInt64(key))
}

// GetInt64 reads a value as an int64, converting from other scalar kinds.
func (p *Properties) GetInt64(key string) int64 {
	v, ok := p.values[key]
	if !ok {
		return 0
	}
	switch v.kind {
	case kindInt, kindInt64:
		return v.i
	case kindFloat:
		return int64(v.f)
	case kindString:
		n, _ := strconv.ParseInt(v.s, 10, 64)
		return n
	default:
		return 0
	}
}

// GetFloat reads a value as a float64, converting from other scalar kinds.
func (p *Properties) GetFloat(key string) float64 {
	v, ok := p.values[key]
	if !ok {
		return 0
	}
	switch v.kind {
	case kindInt, kindInt64:
		return float64(v.i)
	case kindFloat:
		return v.f
	case kindString:
		f, _ := strconv.ParseFloat(v.s, 64)
		return f
	default:
		return 0
	}
}

// GetString reads a value as a string, formatting scalar kinds. Missing
// keys and data values read as "".
func (p *Properties) GetString(key string) string {
	v, ok := p.values[key]
	if !ok {
		return ""
	}
	switch v.kind {
	case kindInt, kindInt64:
		return strconv.FormatInt(v.i, 10)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case kindString:
		return v.s
	default:
		return ""
	}
}

// GetData reads an opaque value and its recorded size. Non-data kinds and
// missing keys return (nil, 0).
func (p *Properties) GetData(key string) (any, int) {
	v, ok := p.values[key]
	if !ok || v.kind != kindData {
		return nil, 0
	}
	return v.data, v.size
}

// Has reports whether the key holds any value, including a nil data value.
func (p *Properties) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Delete removes a key, running a data value's destructor.
func (p *Properties) Delete(key string) {
	if v, ok := p.values[key]; ok {
		v.clear()
		delete(p.values, key)
	}
}

// Count returns the number of stored keys.
func (p *Properties) Count() int {
	return len(p.values)
}

// Keys returns the stored keys in sorted order.
func (p *Properties) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
