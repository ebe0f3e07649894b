// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

// References:
//   [HAC]: Handbook of Applied Cryptography (Menezes, van Oorschot, Vanstone)
//
//   [GECC]: Guide to Elliptic Curve Cryptography (Hankerson, Menezes, Vanstone)

import (
	"fmt"
	"math/big"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// modInverse returns the multiplicative inverse of a modulo m and a boolean
// indicating whether the inverse exists, which is the case exactly when
// gcd(a, m) = 1.
func modInverse(a, m *big.Int) (*big.Int, bool) {
	inv := new(big.Int).ModInverse(a, m)
	return inv, inv != nil
}

// squareRootModPrime returns b such that b^2 ≡ a (mod p) for an odd prime p,
// or an error with kind ErrNonResidue when a is not a quadratic residue
// modulo p.
//
// The value 0 maps to 0 and the value 1 maps to 1.  For primes congruent to
// 3 modulo 4 the root is computed directly as a^((p+1)/4) mod p, otherwise
// the Tonelli-Shanks algorithm is used.  See algorithm 3.34 and 3.36 in
// [HAC].
func squareRootModPrime(a, p *big.Int) (*big.Int, error) {
	a = new(big.Int).Mod(a, p)
	if a.Sign() == 0 || a.Cmp(bigOne) == 0 {
		return a, nil
	}

	// Euler's criterion: a is a residue iff a^((p-1)/2) ≡ 1 (mod p).
	pMinusOne := new(big.Int).Sub(p, bigOne)
	legendreExp := new(big.Int).Rsh(pMinusOne, 1)
	if new(big.Int).Exp(a, legendreExp, p).Cmp(bigOne) != 0 {
		str := fmt.Sprintf("%x is not a square modulo %x", a, p)
		return nil, makeError(ErrNonResidue, str)
	}

	// Primes congruent to 3 modulo 4 admit the direct solution
	// b = a^((p+1)/4) mod p.
	if p.Bit(0) == 1 && p.Bit(1) == 1 {
		exp := new(big.Int).Add(p, bigOne)
		exp.Rsh(exp, 2)
		return new(big.Int).Exp(a, exp, p), nil
	}

	// Tonelli-Shanks.  Write p-1 = q*2^s with q odd.
	s := 0
	q := new(big.Int).Set(pMinusOne)
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	// Find a quadratic non-residue z by brute force.  Half of all values
	// qualify, so the search terminates quickly.
	z := new(big.Int).Set(bigTwo)
	for new(big.Int).Exp(z, legendreExp, p).Cmp(pMinusOne) != 0 {
		z.Add(z, bigOne)
	}

	m := s
	c := new(big.Int).Exp(z, q, p)
	t := new(big.Int).Exp(a, q, p)
	qPlusOneHalf := new(big.Int).Add(q, bigOne)
	qPlusOneHalf.Rsh(qPlusOneHalf, 1)
	r := new(big.Int).Exp(a, qPlusOneHalf, p)

	for t.Cmp(bigOne) != 0 {
		// Find the least i in (0, m) with t^(2^i) ≡ 1 (mod p).
		i := 0
		t2i := new(big.Int).Set(t)
		for t2i.Cmp(bigOne) != 0 {
			t2i.Mul(t2i, t2i).Mod(t2i, p)
			i++
			if i == m {
				// Unreachable for residues, which were established above.
				str := fmt.Sprintf("%x is not a square modulo %x", a, p)
				return nil, makeError(ErrNonResidue, str)
			}
		}

		// b = c^(2^(m-i-1)) mod p
		b := new(big.Int).Set(c)
		for j := 0; j < m-i-1; j++ {
			b.Mul(b, b).Mod(b, p)
		}

		m = i
		c.Mul(b, b).Mod(c, p)
		t.Mul(t, c).Mod(t, p)
		r.Mul(r, b).Mod(r, p)
	}

	return r, nil
}
