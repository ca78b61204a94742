package groebner

import (
	"container/heap"

	"zappem.net/pub/math/algsolve/poly"
)

// pair is a critical pair of basis indices, i < j.
type pair struct {
	i, j int
	lcm  poly.Monomial
}

// queue orders pending pairs by the lcm of their leading monomials,
// smallest first, then by indices.
type queue struct {
	ring    *poly.Ring
	items   []pair
	pending map[[2]int]bool
}

func newQueue(r *poly.Ring) *queue {
	return &queue{ring: r, pending: make(map[[2]int]bool)}
}

func (q *queue) Len() int { return len(q.items) }

func (q *queue) Less(a, b int) bool {
	x, y := q.items[a], q.items[b]
	if c := q.ring.Compare(x.lcm, y.lcm); c != 0 {
		return c < 0
	}
	if x.j != y.j {
		return x.j < y.j
	}
	return x.i < y.i
}

func (q *queue) Swap(a, b int) { q.items[a], q.items[b] = q.items[b], q.items[a] }

func (q *queue) Push(x any) { q.items = append(q.items, x.(pair)) }

func (q *queue) Pop() any {
	n := len(q.items) - 1
	p := q.items[n]
	q.items = q.items[:n]
	return p
}

func (q *queue) add(p pair) {
	q.pending[[2]int{p.i, p.j}] = true
	heap.Push(q, p)
}

func (q *queue) next() pair {
	p := heap.Pop(q).(pair)
	delete(q.pending, [2]int{p.i, p.j})
	return p
}

// waiting reports whether the pair {i, j} is still queued.
func (q *queue) waiting(i, j int) bool {
	if i > j {
		i, j = j, i
	}
	return q.pending[[2]int{i, j}]
}
