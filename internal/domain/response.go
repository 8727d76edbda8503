package domain

// ResponseRecord is one row of the attendance export.
//
// At most one field is expected to be populated; an empty string means the
// cell was missing.
type ResponseRecord struct {
	Attendees string
	Maybe     string
	No        string
}

// ResponseMap maps trimmed respondent names to categories.
//
// Keys keep their first insertion order. Set is last-write-wins: assigning an
// existing name replaces its category but not its position. After Freeze the
// map rejects writes.
type ResponseMap struct {
	order  []string
	byName map[string]Category
	frozen bool
}

func NewResponseMap() *ResponseMap {
	return &ResponseMap{byName: make(map[string]Category)}
}

// Set records name → c. It panics on a frozen map.
func (m *ResponseMap) Set(name string, c Category) {
	if m.frozen {
		panic("domain: Set on frozen ResponseMap")
	}
	if _, ok := m.byName[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byName[name] = c
}

// Freeze makes the map read-only and returns it.
func (m *ResponseMap) Freeze() *ResponseMap {
	m.frozen = true
	return m
}

// Lookup returns the category recorded for name.
func (m *ResponseMap) Lookup(name string) (Category, bool) {
	if m == nil {
		return "", false
	}
	c, ok := m.byName[name]
	return c, ok
}

// Len is the number of distinct respondent names.
func (m *ResponseMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Names returns respondent names in insertion order.
func (m *ResponseMap) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Count returns how many respondents fall into c.
func (m *ResponseMap) Count(c Category) int {
	if m == nil {
		return 0
	}
	n := 0
	for _, v := range m.byName {
		if v == c {
			n++
		}
	}
	return n
}
