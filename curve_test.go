// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"math/big"
	"testing"
)

// TestGeneratorOnCurve ensures the base point of every registry curve
// satisfies its curve equation and has the registered order.
func TestGeneratorOnCurve(t *testing.T) {
	for _, curve := range Curves() {
		if !curve.IsOnCurve(curve.Gx, curve.Gy) {
			t.Errorf("%s: generator not on curve", curve.Name)
			continue
		}
		if !PointIsValid(curve.Generator(), curve.Gx, curve.Gy) {
			t.Errorf("%s: generator not a valid group element", curve.Name)
			continue
		}
	}
}

// TestGroupLaws ensures the identity, inverse, commutativity, and
// associativity properties of the group law on a couple of derived points.
func TestGroupLaws(t *testing.T) {
	for _, curve := range []*Curve{P256, SECP256k1} {
		g := curve.Generator()
		p := g.Mul(big.NewInt(1234567))
		q := g.Mul(big.NewInt(7654321))

		// P + ∞ = P and ∞ + P = P.
		inf := infinity(curve)
		if !p.Add(inf).IsEqual(p) || !inf.Add(p).IsEqual(p) {
			t.Errorf("%s: identity is not neutral", curve.Name)
		}

		// P + (-P) = ∞.
		if !p.Add(p.Negate()).IsAtInfinity() {
			t.Errorf("%s: P + (-P) != infinity", curve.Name)
		}

		// P + Q = Q + P.
		if !p.Add(q).IsEqual(q.Add(p)) {
			t.Errorf("%s: addition is not commutative", curve.Name)
		}

		// (P + Q) + G = P + (Q + G).
		if !p.Add(q).Add(g).IsEqual(p.Add(q.Add(g))) {
			t.Errorf("%s: addition is not associative", curve.Name)
		}

		// P + P = 2P via the doubling path.
		if !p.Add(p).IsEqual(p.Double()) {
			t.Errorf("%s: add and double disagree", curve.Name)
		}
	}
}

// TestScalarMult ensures scalar multiplication agrees with repeated
// addition for small scalars and handles the identity cases.
func TestScalarMult(t *testing.T) {
	curve := P256
	g := curve.Generator()

	sum := infinity(curve)
	for k := int64(0); k <= 10; k++ {
		got := g.Mul(big.NewInt(k))
		if !got.IsEqual(sum) {
			t.Fatalf("k=%d: scalar mult disagrees with repeated addition", k)
		}
		sum = sum.Add(g)
	}

	// 0*P and k*∞ are the identity.
	if !g.Mul(new(big.Int)).IsAtInfinity() {
		t.Fatal("0*G != infinity")
	}
	if !infinity(curve).Mul(big.NewInt(5)).IsAtInfinity() {
		t.Fatal("5*infinity != infinity")
	}

	// Scalars reduce modulo the order, so N*G = 0*G = ∞ and
	// (N+1)*G = G.
	if !g.Mul(curve.N).IsAtInfinity() {
		t.Fatal("N*G != infinity")
	}
	nPlusOne := new(big.Int).Add(curve.N, big.NewInt(1))
	if !g.Mul(nPlusOne).IsEqual(g) {
		t.Fatal("(N+1)*G != G")
	}
}

// TestScalarMultDistributes ensures (a+b)*G = a*G + b*G for a pair of
// large scalars on each registry curve.
func TestScalarMultDistributes(t *testing.T) {
	a := fromHex("54aa39f33ecc712dd6a3d2de3ee0b8c176d3786deb0b1f7ab9b84a3b2a2b6e15")
	b := fromHex("0fd13f2e0c2ed2b5e1bce124f0c9ec2284a5cae02fcb48e0b3c5cf2b6a5e0cbd")
	for _, curve := range Curves() {
		g := curve.Generator()
		lhs := g.Mul(new(big.Int).Add(a, b))
		rhs := g.Mul(a).Add(g.Mul(b))
		if !lhs.IsEqual(rhs) {
			t.Errorf("%s: (a+b)*G != a*G + b*G", curve.Name)
		}
	}
}

// TestPointIsValid ensures range violations and off-curve coordinates are
// rejected.
func TestPointIsValid(t *testing.T) {
	curve := P256
	g := curve.Generator()
	p := g.Mul(big.NewInt(99))

	tests := []struct {
		name string
		x, y *big.Int
		want bool
	}{{
		name: "valid derived point",
		x:    p.X(),
		y:    p.Y(),
		want: true,
	}, {
		name: "y flipped off the curve",
		x:    p.X(),
		y:    new(big.Int).Add(p.Y(), bigOne),
		want: false,
	}, {
		name: "x out of range",
		x:    new(big.Int).Add(curve.P, bigOne),
		y:    p.Y(),
		want: false,
	}, {
		name: "negative y",
		x:    p.X(),
		y:    new(big.Int).Neg(p.Y()),
		want: false,
	}}

	for _, test := range tests {
		if got := PointIsValid(g, test.x, test.y); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
			continue
		}
	}
}

// TestDecompressY ensures y coordinate recovery matches the original
// coordinates of derived points for both parities.
func TestDecompressY(t *testing.T) {
	for _, curve := range Curves() {
		p := curve.Generator().Mul(big.NewInt(987654321))
		x, y := p.X(), p.Y()

		got, err := curve.decompressY(x, y.Bit(0) == 1)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", curve.Name, err)
			continue
		}
		if got.Cmp(y) != 0 {
			t.Errorf("%s: decompressed y mismatch", curve.Name)
			continue
		}

		// The other parity is the field negation.
		other, err := curve.decompressY(x, y.Bit(0) == 0)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", curve.Name, err)
			continue
		}
		wantOther := new(big.Int).Sub(curve.P, y)
		if other.Cmp(wantOther) != 0 {
			t.Errorf("%s: negated y mismatch", curve.Name)
			continue
		}
	}
}
