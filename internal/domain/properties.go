package domain

// Properties is a key/value mapping that remembers insertion order, so a
// merged file lists template keys first and added keys in the order they were
// merged. Overwriting a key keeps its original position.
type Properties struct {
	keys []string
	vals map[string]string
}

// NewProperties returns an empty mapping.
func NewProperties() *Properties {
	return &Properties{vals: map[string]string{}}
}

// PropertiesFromVars builds a mapping from vars in sorted key order.
func PropertiesFromVars(vars Vars) *Properties {
	p := NewProperties()
	for _, k := range SortedKeys(vars) {
		p.Set(k, vars[k])
	}
	return p
}

// Set inserts or overwrites key.
func (p *Properties) Set(key, value string) {
	if p.vals == nil {
		p.vals = map[string]string{}
	}
	if _, ok := p.vals[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.vals[key] = value
}

// Get returns the value for key and whether it exists.
func (p *Properties) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len reports the number of keys.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Clone returns an independent copy.
func (p *Properties) Clone() *Properties {
	out := NewProperties()
	if p == nil {
		return out
	}
	for _, k := range p.keys {
		out.Set(k, p.vals[k])
	}
	return out
}

// Vars returns the mapping as an unordered Vars copy.
func (p *Properties) Vars() Vars {
	out := Vars{}
	if p == nil {
		return out
	}
	for k, v := range p.vals {
		out[k] = v
	}
	return out
}
