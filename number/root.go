package number

import (
	"math/big"
)

// IntRoot returns the integer k-th root of a non-negative n and
// whether it is exact.
func IntRoot(n *big.Int, k int) (*big.Int, bool) {
	if n.Sign() < 0 || k < 1 {
		return nil, false
	}
	if k == 1 || n.Sign() == 0 || n.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int).Set(n), true
	}
	if k == 2 {
		r := new(big.Int).Sqrt(n)
		return r, new(big.Int).Mul(r, r).Cmp(n) == 0
	}
	// Bisection on [0, 2^(bits/k + 1)].
	lo := big.NewInt(0)
	hi := new(big.Int).Lsh(big.NewInt(1), uint(n.BitLen()/k+1))
	ek := big.NewInt(int64(k))
	one := big.NewInt(1)
	for lo.Cmp(hi) < 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Add(mid, one)
		mid.Rsh(mid, 1)
		if new(big.Int).Exp(mid, ek, nil).Cmp(n) <= 0 {
			lo = mid
		} else {
			hi = mid.Sub(mid, one)
		}
	}
	return lo, new(big.Int).Exp(lo, ek, nil).Cmp(n) == 0
}

// trialLimit bounds the prime search in ExtractPower.
const trialLimit = 1 << 14

// ExtractPower splits a positive integer m into a^k * c where a is as
// large as trial division up to a fixed bound can discover. Factors
// beyond the bound stay in c, which keeps the split deterministic.
func ExtractPower(m *big.Int, k int) (a, c *big.Int) {
	a = big.NewInt(1)
	c = new(big.Int).Set(m)
	if m.Sign() <= 0 || k < 2 {
		return a, c
	}
	if r, ok := IntRoot(c, k); ok {
		return r, big.NewInt(1)
	}
	q, rem := new(big.Int), new(big.Int)
	for p := int64(2); p < trialLimit; p++ {
		bp := big.NewInt(p)
		if new(big.Int).Mul(bp, bp).Cmp(c) > 0 {
			break
		}
		n := 0
		for {
			q.QuoRem(c, bp, rem)
			if rem.Sign() != 0 {
				break
			}
			c.Set(q)
			n++
		}
		for ; n >= k; n -= k {
			a.Mul(a, new(big.Int).Exp(bp, big.NewInt(int64(k)), nil))
		}
		// a currently holds p^(k*j); convert to p^j below.
		for ; n > 0; n-- {
			c.Mul(c, bp)
		}
	}
	// a accumulated k-th powers: take its exact root.
	r, _ := IntRoot(a, k)
	if rr, ok := IntRoot(c, k); ok {
		return r.Mul(r, rr), big.NewInt(1)
	}
	return r, c
}
