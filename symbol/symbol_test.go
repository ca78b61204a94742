package symbol

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestIntern(t *testing.T) {
	a := Intern("alpha")
	b := Intern("alpha")
	if a != b {
		t.Errorf("interning twice: got=%d want=%d", b, a)
	}
	if a.Name() != "alpha" {
		t.Errorf("got=%q want=%q", a.Name(), "alpha")
	}
	if c := Intern("beta"); c == a {
		t.Errorf("distinct names share handle %d", c)
	}
	if s, ok := Lookup("alpha"); !ok || s != a {
		t.Errorf("lookup failed: %d %v", s, ok)
	}
	if _, ok := Lookup("never-interned"); ok {
		t.Error("lookup of missing name succeeded")
	}
}

func TestAssumptions(t *testing.T) {
	p, err := New("posvar", Positive)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if a := p.Assumptions(); !a.Has(Positive | NonZero | NonNegative | Real) {
		t.Errorf("positive did not imply the rest: %q", a)
	}
	if _, err := New("posvar", Integer); !errors.Is(err, ErrAssumptionConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
	if s := Intern("posvar", Integer); s != p {
		t.Errorf("Intern returned a new handle %d", s)
	}
	if _, err := New(""); !errors.Is(err, ErrBadName) {
		t.Errorf("empty name accepted: %v", err)
	}
	if a, err := ParseAssumption("Integer"); err != nil || a != Integer {
		t.Errorf("got=%v,%v", a, err)
	}
}

func TestCompareByName(t *testing.T) {
	z := Intern("zz_order")
	a := Intern("aa_order")
	ss := []Symbol{z, a}
	Sort(ss)
	if ss[0] != a || ss[1] != z {
		t.Errorf("got=%v want=[aa_order zz_order]", ss)
	}
}

func TestConcurrentIntern(t *testing.T) {
	var wg sync.WaitGroup
	got := make([][]Symbol, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				got[w] = append(got[w], Intern(fmt.Sprint("c", i)))
			}
		}(w)
	}
	wg.Wait()
	for w := 1; w < 8; w++ {
		for i := range got[w] {
			if got[w][i] != got[0][i] {
				t.Fatalf("[%d,%d] got=%d want=%d", w, i, got[w][i], got[0][i])
			}
		}
	}
}
