package core

// Schema is the ordered set of field names discovered during one parse.
// Names keep the order of their first occurrence and are never removed.
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema returns a schema holding names in order, duplicates ignored.
func NewSchema(names ...string) *Schema {
	s := &Schema{index: make(map[string]int)}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add registers name if it is not yet known. It reports whether name was new.
func (s *Schema) Add(name string) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	return true
}

// Index returns the column position of name, or -1.
func (s *Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Contains reports whether name is registered.
func (s *Schema) Contains(name string) bool {
	return s.Index(name) >= 0
}

// Len returns the number of names.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns a copy of the names in first-seen order.
func (s *Schema) Names() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
