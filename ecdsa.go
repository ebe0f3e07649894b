// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

// References:
//   [GECC]: Guide to Elliptic Curve Cryptography (Hankerson, Menezes, Vanstone)
//
//   [SEC1]: Elliptic Curve Cryptography (May 31, 2009, Version 2.0)
//     https://www.secg.org/sec1-v2.pdf

import (
	"math/big"
)

// signNumber generates an ECDSA signature over the given curve for the
// number e (the digest converted per hashToNumber) using the secret scalar
// d and the per-message nonce k, and returns the (r, s) pair.
//
// The nonce must be in [1, N-1]; violating that is a programming error on
// the part of the caller and causes a panic.  An error with kind
// ErrRSIsZero is returned in the rare event the nonce leads to an r or s of
// zero, in which case the caller is expected to retry with a fresh nonce.
func signNumber(curve *Curve, d, k, e *big.Int) (*big.Int, *big.Int, error) {
	// The algorithm for producing an ECDSA signature is given as algorithm
	// 4.29 in [GECC].
	//
	// G = curve generator
	// N = curve order
	// d = private key
	// e = number derived from the message digest
	// r, s = signature
	//
	// 1. Compute kG
	// 2. r = kG.x mod N
	//    Fail if r = 0
	// 3. s = k^-1(e + dr) mod N
	//    Fail if s = 0
	// 4. Return (r,s)

	if k.Sign() <= 0 || k.Cmp(curve.N) >= 0 {
		panic("ecdsa: nonce outside of [1, N-1]")
	}

	// Step 1.
	//
	// Compute kG
	kG := curve.Generator().Mul(k)

	// Step 2.
	//
	// r = kG.x mod N
	// Fail if r = 0
	r := kG.X()
	r.Mod(r, curve.N)
	if r.Sign() == 0 {
		return nil, nil, makeError(ErrRSIsZero, "calculated R is zero")
	}

	// Step 3.
	//
	// s = k^-1(e + dr) mod N
	// Fail if s = 0
	kInv, _ := modInverse(k, curve.N)
	s := new(big.Int).Mul(r, d)
	s.Add(s, e)
	s.Mul(s, kInv)
	s.Mod(s, curve.N)
	if s.Sign() == 0 {
		return nil, nil, makeError(ErrRSIsZero, "calculated S is zero")
	}

	// Step 4.
	//
	// Return (r,s)
	return r, s, nil
}

// verifyNumber returns whether or not the signature (r, s) is valid for the
// number e against the public point Q.
func verifyNumber(pub *Point, e, r, s *big.Int) bool {
	// The algorithm for verifying an ECDSA signature is given as algorithm
	// 4.30 in [GECC].
	//
	// 1. Fail if R and S are not in [1, N-1]
	// 2. w = S^-1 mod N
	// 3. u1 = e * w mod N
	//    u2 = R * w mod N
	// 4. X = u1G + u2Q
	// 5. Fail if X is the point at infinity
	// 6. x = X.x mod N
	// 7. Verified if x == R

	curve := pub.curve

	// Step 1.
	//
	// Fail if R and S are not in [1, N-1].
	if r.Sign() <= 0 || r.Cmp(curve.N) >= 0 {
		return false
	}
	if s.Sign() <= 0 || s.Cmp(curve.N) >= 0 {
		return false
	}

	// Step 2.
	//
	// w = S^-1 mod N
	w, _ := modInverse(s, curve.N)

	// Step 3.
	//
	// u1 = e * w mod N
	// u2 = R * w mod N
	u1 := new(big.Int).Mul(e, w)
	u1.Mod(u1, curve.N)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, curve.N)

	// Step 4.
	//
	// X = u1G + u2Q
	X := curve.Generator().Mul(u1).Add(pub.Mul(u2))

	// Step 5.
	//
	// Fail if X is the point at infinity.
	if X.IsAtInfinity() {
		return false
	}

	// Steps 6 and 7.
	//
	// Verified if X.x mod N == R
	x := X.X()
	x.Mod(x, curve.N)
	return x.Cmp(r) == 0
}

// recoverPublicPoints returns the public points that verify the signature
// (r, s) over the number e, in a deterministic order.
func recoverPublicPoints(curve *Curve, e, r, s *big.Int) []*Point {
	// The equation to recover a public key candidate from an ECDSA
	// signature is given in section 4.1.6 of [SEC1]:
	//
	// Q = r^-1(sR - eG)
	//
	// where R is the random point used when creating the signature.  Only
	// the x coordinate of R is conveyed by the signature, reduced modulo N,
	// so each candidate x coordinate in [0, P) congruent to r modulo N is
	// tried with both of the y coordinates that solve the curve equation.
	// Since the registry curves have N < 2P, the candidate x coordinates
	// are r and r+N, the latter only when it still fits the field.  For
	// each candidate R the recovered point is only kept when it is a valid
	// group element and the signature actually verifies against it.
	//
	// Candidate order is fixed: (r, even y), (r, odd y), (r+N, even y),
	// (r+N, odd y), with out-of-field x coordinates skipped.

	rInv, ok := modInverse(r, curve.N)
	if !ok {
		return nil
	}

	var recovered []*Point
	for j := 0; j < 2; j++ {
		x := new(big.Int).Set(r)
		if j == 1 {
			x.Add(x, curve.N)
		}
		if x.Cmp(curve.P) >= 0 {
			continue
		}

		evenY, err := curve.decompressY(x, false)
		if err != nil {
			// No curve point has this x coordinate.
			continue
		}
		oddY := new(big.Int).Sub(curve.P, evenY)
		oddY.Mod(oddY, curve.P)

		for _, y := range []*big.Int{evenY, oddY} {
			R := NewPoint(curve, x, y)

			// Q = r^-1(sR - eG)
			sR := R.Mul(s)
			eG := curve.Generator().Mul(e)
			Q := sR.Add(eG.Negate()).Mul(rInv)

			if Q.IsAtInfinity() {
				continue
			}
			if !PointIsValid(curve.Generator(), Q.x, Q.y) {
				continue
			}
			if !verifyNumber(Q, e, r, s) {
				continue
			}
			recovered = append(recovered, Q)
		}
	}
	return recovered
}
