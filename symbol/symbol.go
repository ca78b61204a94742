// Package symbol interns variable names so that identical variables
// compare and hash in constant time.
package symbol

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Assumptions is a set of domain assumptions attached to a symbol when
// it is first interned.
type Assumptions uint8

const (
	Real Assumptions = 1 << iota
	Positive
	NonNegative
	Integer
	NonZero
)

// Has reports whether every assumption in b is also in a.
func (a Assumptions) Has(b Assumptions) bool {
	return a&b == b
}

var assumptionNames = []struct {
	a    Assumptions
	name string
}{
	{Real, "real"},
	{Positive, "positive"},
	{NonNegative, "nonnegative"},
	{Integer, "integer"},
	{NonZero, "nonzero"},
}

// String lists the assumptions in a fixed order.
func (a Assumptions) String() string {
	var s []string
	for _, n := range assumptionNames {
		if a.Has(n.a) {
			s = append(s, n.name)
		}
	}
	return strings.Join(s, ",")
}

// ParseAssumption converts a name such as "positive" into its
// assumption bit.
func ParseAssumption(name string) (Assumptions, error) {
	for _, n := range assumptionNames {
		if n.name == strings.ToLower(name) {
			return n.a, nil
		}
	}
	return 0, fmt.Errorf("unknown assumption %q", name)
}

// normalize closes an assumption set under implication.
func normalize(a Assumptions) Assumptions {
	if a.Has(Positive) {
		a |= NonNegative | NonZero | Real
	}
	if a&(NonNegative|Integer) != 0 {
		a |= Real
	}
	return a
}

// Symbol is an opaque handle to an interned name. The zero Symbol is
// not a valid symbol.
type Symbol uint32

var (
	// ErrAssumptionConflict is returned by New when the name is
	// already interned with other assumptions.
	ErrAssumptionConflict = errors.New("symbol already interned with different assumptions")
	// ErrBadName rejects empty names.
	ErrBadName = errors.New("invalid symbol name")
)

type entry struct {
	name   string
	assume Assumptions
}

// table is the process-wide interning table. Entry zero is reserved.
type table struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]Symbol
}

var (
	once   sync.Once
	global *table
)

func tab() *table {
	once.Do(func() {
		global = &table{
			entries: []entry{{}},
			index:   make(map[string]Symbol),
		}
	})
	return global
}

// New interns name with the given assumptions. If name is already
// interned with a different set of assumptions, the existing symbol is
// returned along with ErrAssumptionConflict.
func New(name string, as ...Assumptions) (Symbol, error) {
	if name == "" {
		return 0, ErrBadName
	}
	var a Assumptions
	for _, x := range as {
		a |= x
	}
	a = normalize(a)
	t := tab()

	t.mu.RLock()
	s, ok := t.index[name]
	var have Assumptions
	if ok {
		have = t.entries[s].assume
	}
	t.mu.RUnlock()
	if ok {
		if len(as) != 0 && have != a {
			return s, fmt.Errorf("%q is %q: %w", name, have, ErrAssumptionConflict)
		}
		return s, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.index[name]; ok {
		if len(as) != 0 && t.entries[s].assume != a {
			return s, fmt.Errorf("%q is %q: %w", name, t.entries[s].assume, ErrAssumptionConflict)
		}
		return s, nil
	}
	s = Symbol(len(t.entries))
	t.entries = append(t.entries, entry{name: name, assume: a})
	t.index[name] = s
	return s, nil
}

// Intern returns the symbol for name, creating it with the given
// assumptions if it does not yet exist. Assumptions supplied for an
// existing name are ignored. Intern panics on an empty name.
func Intern(name string, as ...Assumptions) Symbol {
	s, err := New(name, as...)
	if err != nil && !errors.Is(err, ErrAssumptionConflict) {
		panic(err)
	}
	return s
}

// Lookup finds an already interned symbol.
func Lookup(name string) (Symbol, bool) {
	t := tab()
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.index[name]
	return s, ok
}

func (s Symbol) entry() entry {
	t := tab()
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(s) >= len(t.entries) {
		return entry{}
	}
	return t.entries[s]
}

// Name returns the interned name of s.
func (s Symbol) Name() string {
	return s.entry().name
}

// String is the same as Name.
func (s Symbol) String() string {
	if s == 0 {
		return "<nosym>"
	}
	return s.Name()
}

// Assumptions returns the assumptions fixed when s was interned.
func (s Symbol) Assumptions() Assumptions {
	return s.entry().assume
}

// Valid indicates s was produced by the interning table.
func (s Symbol) Valid() bool {
	return s != 0 && s.entry().name != ""
}

// Compare orders symbols by name, so orderings never depend on the
// order in which symbols were interned.
func Compare(a, b Symbol) int {
	if a == b {
		return 0
	}
	return strings.Compare(a.Name(), b.Name())
}

// Sort sorts a list of symbols by name.
func Sort(ss []Symbol) {
	sort.Slice(ss, func(i, j int) bool { return Compare(ss[i], ss[j]) < 0 })
}
