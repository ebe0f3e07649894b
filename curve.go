// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

// References:
//   [SEC1]: Elliptic Curve Cryptography (May 31, 2009, Version 2.0)
//     https://www.secg.org/sec1-v2.pdf
//
//   [GECC]: Guide to Elliptic Curve Cryptography (Hankerson, Menezes, Vanstone)

// All group operations are performed in affine coordinates over math/big
// integers using the standard short-Weierstrass formulas from section 3.1 of
// [GECC].  The point at infinity, which cannot be represented as an (x, y)
// pair, is modeled by a Point with nil coordinates and acts as the neutral
// element of the group law.

import (
	"encoding/asn1"
	"math/big"
)

// Curve describes a short-Weierstrass curve y^2 = x^3 + A*x + B over the
// prime field of order P, together with a base point (Gx, Gy) generating a
// subgroup of prime order N with cofactor H.
//
// Curve values are created once at package initialization, registered by
// name and object identifier, and never mutated.  Two keys are compatible
// exactly when they reference the same Curve value; curves are compared by
// identity, not structurally.
type Curve struct {
	P      *big.Int
	A      *big.Int
	B      *big.Int
	Gx, Gy *big.Int
	N      *big.Int
	H      int

	// Name is the canonical SEC2/NIST name the curve is registered under.
	Name string

	// oid identifies the curve in DER key structures.
	oid asn1.ObjectIdentifier

	// baseLen is the byte length of a serialized coordinate or scalar and
	// is provided for convenience since it is needed repeatedly.  It is
	// ceil(bitlen(N)/8).
	baseLen int
}

// BaseLen returns the fixed byte length of a serialized coordinate or
// scalar for the curve.
func (curve *Curve) BaseLen() int {
	return curve.baseLen
}

// OID returns the ASN.1 object identifier the curve is registered under.
func (curve *Curve) OID() asn1.ObjectIdentifier {
	return curve.oid
}

// Generator returns the base point of the curve group.
func (curve *Curve) Generator() *Point {
	return &Point{curve: curve, x: curve.Gx, y: curve.Gy}
}

// IsOnCurve returns whether or not the affine point (x, y) satisfies the
// curve equation.  The point at infinity is not an affine point and is not
// accepted here.
func (curve *Curve) IsOnCurve(x, y *big.Int) bool {
	// y^2 = x^3 + A*x + B
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, curve.P)

	return curve.rhs(x).Cmp(y2) == 0
}

// rhs evaluates the right-hand side x^3 + A*x + B of the curve equation
// modulo P.
func (curve *Curve) rhs(x *big.Int) *big.Int {
	x3 := new(big.Int).Mul(x, x)
	x3.Mul(x3, x)

	ax := new(big.Int).Mul(curve.A, x)
	x3.Add(x3, ax)
	x3.Add(x3, curve.B)
	x3.Mod(x3, curve.P)
	return x3
}

// decompressY computes the y coordinate with the given oddness for the
// provided x coordinate.  It returns an error with kind ErrNonResidue when
// no curve point exists with the given x coordinate.
func (curve *Curve) decompressY(x *big.Int, odd bool) (*big.Int, error) {
	y, err := squareRootModPrime(curve.rhs(x), curve.P)
	if err != nil {
		return nil, err
	}
	if y.Bit(0) != b2u(odd) {
		y.Sub(curve.P, y)
	}
	return y, nil
}

// b2u converts a bool to a uint for bit comparisons.
func b2u(b bool) uint {
	if b {
		return 1
	}
	return 0
}

// Point represents either the point at infinity or an affine point (x, y)
// on a specific curve.  Points are immutable; every group operation returns
// a new Point.  The zero value is not a valid Point.
type Point struct {
	curve *Curve
	x, y  *big.Int
}

// NewPoint returns the affine point (x, y) on the given curve.  The
// coordinates are NOT checked against the curve equation; use
// PointIsValid when the inputs are untrusted.
func NewPoint(curve *Curve, x, y *big.Int) *Point {
	return &Point{curve: curve, x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
}

// infinity returns the point at infinity for the given curve.
func infinity(curve *Curve) *Point {
	return &Point{curve: curve}
}

// Curve returns the curve the point belongs to.
func (p *Point) Curve() *Curve {
	return p.curve
}

// IsAtInfinity returns whether or not the point is the point at infinity.
func (p *Point) IsAtInfinity() bool {
	return p.x == nil
}

// X returns a copy of the x coordinate of the point.  It must not be called
// on the point at infinity.
func (p *Point) X() *big.Int {
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate of the point.  It must not be called
// on the point at infinity.
func (p *Point) Y() *big.Int {
	return new(big.Int).Set(p.y)
}

// IsEqual compares this Point instance to the one passed, returning true if
// both points represent the same group element of the same curve.
func (p *Point) IsEqual(other *Point) bool {
	if p.curve != other.curve {
		return false
	}
	if p.IsAtInfinity() || other.IsAtInfinity() {
		return p.IsAtInfinity() && other.IsAtInfinity()
	}
	return p.x.Cmp(other.x) == 0 && p.y.Cmp(other.y) == 0
}

// Negate returns the additive inverse of the point, which is the reflection
// (x, -y) for affine points and the point at infinity for itself.
func (p *Point) Negate() *Point {
	if p.IsAtInfinity() {
		return infinity(p.curve)
	}
	negY := new(big.Int).Sub(p.curve.P, p.y)
	negY.Mod(negY, p.curve.P)
	return &Point{curve: p.curve, x: new(big.Int).Set(p.x), y: negY}
}

// Add returns the sum of the two points according to the group law.
func (p *Point) Add(other *Point) *Point {
	curve := p.curve

	// The point at infinity is the identity according to the group law.
	// Thus, ∞ + P = P and P + ∞ = P.
	if p.IsAtInfinity() {
		return other
	}
	if other.IsAtInfinity() {
		return p
	}

	// When the x coordinates are the same for two points on the curve, the
	// y coordinates either must be the same, in which case it is point
	// doubling, or they are opposite and the result is the point at
	// infinity per the group law.
	if p.x.Cmp(other.x) == 0 {
		if p.y.Cmp(other.y) == 0 {
			return p.Double()
		}
		return infinity(curve)
	}

	// lambda = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(other.y, p.y)
	den := new(big.Int).Sub(other.x, p.x)
	den.Mod(den, curve.P)
	denInv, ok := modInverse(den, curve.P)
	if !ok {
		// Impossible for distinct x coordinates modulo a prime.
		return infinity(curve)
	}
	lambda := num.Mul(num, denInv)
	lambda.Mod(lambda, curve.P)

	return p.chord(other.x, lambda)
}

// Double returns 2*P.
func (p *Point) Double() *Point {
	curve := p.curve

	// Doubling the point at infinity is still infinity.  The same applies
	// to points with y = 0 since the tangent there is vertical.
	if p.IsAtInfinity() || p.y.Sign() == 0 {
		return infinity(curve)
	}

	// lambda = (3*x^2 + A) / (2*y)
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, big.NewInt(3))
	num.Add(num, curve.A)
	den := new(big.Int).Lsh(p.y, 1)
	den.Mod(den, curve.P)
	denInv, _ := modInverse(den, curve.P)
	lambda := num.Mul(num, denInv)
	lambda.Mod(lambda, curve.P)

	return p.chord(p.x, lambda)
}

// chord completes an addition or doubling given the x coordinate of the
// second addend and the slope of the chord (or tangent) through the points:
// x3 = lambda^2 - x1 - x2, y3 = lambda*(x1 - x3) - y1.
func (p *Point) chord(x2, lambda *big.Int) *Point {
	curve := p.curve

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.x)
	x3.Sub(x3, x2)
	x3.Mod(x3, curve.P)

	y3 := new(big.Int).Sub(p.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.y)
	y3.Mod(y3, curve.P)

	return &Point{curve: curve, x: x3, y: y3}
}

// Mul returns k*P for a non-negative integer k using a double-and-add chain
// over the bits of the scalar.  The scalar is first reduced modulo the
// group order since P generates a subgroup of order N.
//
// Note that this implementation is not constant time, so it leaks timing
// information about the scalar.  Callers targeting adversarial environments
// where the scalar is secret and the attacker can take fine-grained timing
// measurements should take that into account.
func (p *Point) Mul(k *big.Int) *Point {
	return p.mulScalar(new(big.Int).Mod(k, p.curve.N))
}

// mulScalar computes k*P by double-and-add without reducing the scalar.
// The unreduced variant exists so that validity checks can compute N*P,
// which must be the point at infinity for group elements and would be
// trivially so if the scalar were reduced first.
func (p *Point) mulScalar(k *big.Int) *Point {
	curve := p.curve

	if k.Sign() <= 0 || p.IsAtInfinity() {
		return infinity(curve)
	}

	result := infinity(curve)
	for i := k.BitLen() - 1; i >= 0; i-- {
		result = result.Double()
		if k.Bit(i) == 1 {
			result = result.Add(p)
		}
	}
	return result
}

// PointIsValid returns true iff (x, y) is a valid public point for the
// curve of the provided generator: both coordinates are in [0, P), the
// point satisfies the curve equation, and multiplying it by the group order
// yields the point at infinity.
//
// The order-multiplication check is what makes validation cost a scalar
// multiplication; callers that trust their inputs can skip it.
func PointIsValid(generator *Point, x, y *big.Int) bool {
	curve := generator.curve
	if x.Sign() < 0 || x.Cmp(curve.P) >= 0 {
		return false
	}
	if y.Sign() < 0 || y.Cmp(curve.P) >= 0 {
		return false
	}
	if !curve.IsOnCurve(x, y) {
		return false
	}
	return NewPoint(curve, x, y).mulScalar(curve.N).IsAtInfinity()
}
