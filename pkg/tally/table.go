// Package tally counts username mentions.
package tally

// Entry is one username and its mention count
type Entry struct {
	Username string
	Count    int
}

// Table maps usernames to mention counts. Iteration order is the order in
// which each username was first added. The zero value is ready to use.
type Table struct {
	index   map[string]int
	entries []Entry
}

// New returns an empty Table
func New() *Table {
	return &Table{}
}

// FromMentions folds a mention list into a new Table, one increment per
// occurrence.
func FromMentions(mentions []string) *Table {
	t := New()
	for _, m := range mentions {
		t.Add(m)
	}
	return t
}

// Add increments username's count by one
func (t *Table) Add(username string) {
	t.AddN(username, 1)
}

// AddN increments username's count by n. Non-positive n is ignored.
func (t *Table) AddN(username string, n int) {
	if n <= 0 {
		return
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[username]; ok {
		t.entries[i].Count += n
		return
	}
	t.index[username] = len(t.entries)
	t.entries = append(t.entries, Entry{Username: username, Count: n})
}

// Count returns the count for username, zero if it was never added
func (t *Table) Count(username string) int {
	if i, ok := t.index[username]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Len returns the number of distinct usernames
func (t *Table) Len() int {
	return len(t.entries)
}

// Total returns the sum of all counts
func (t *Table) Total() int {
	total := 0
	for _, e := range t.entries {
		total += e.Count
	}
	return total
}

// Entries returns a copy of the entries in insertion order
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Map returns the counts as a plain map
func (t *Table) Map() map[string]int {
	out := make(map[string]int, len(t.entries))
	for _, e := range t.entries {
		out[e.Username] = e.Count
	}
	return out
}
