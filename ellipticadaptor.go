// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	stdecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"math/big"
)

// ellipticCurve adapts a registry Curve to the crypto/elliptic Curve
// interface so the curves can be used with other packages in the standard
// library.  The standard interface represents the point at infinity as the
// pair (0, 0).
type ellipticCurve struct {
	curve  *Curve
	params *elliptic.CurveParams
}

// ToElliptic returns the curve adapted to the crypto/elliptic Curve
// interface.
//
// Note that the adaptor performs the generic arithmetic of this package
// rather than the specialized constant-time implementations the standard
// library uses for its own curves.
func (curve *Curve) ToElliptic() elliptic.Curve {
	return &ellipticCurve{
		curve: curve,
		params: &elliptic.CurveParams{
			P:       curve.P,
			N:       curve.N,
			B:       curve.B,
			Gx:      curve.Gx,
			Gy:      curve.Gy,
			BitSize: curve.N.BitLen(),
			Name:    curve.Name,
		},
	}
}

// Params returns the parameters for the curve.
//
// This is part of the elliptic.Curve interface implementation.
func (ec *ellipticCurve) Params() *elliptic.CurveParams {
	return ec.params
}

// IsOnCurve returns whether or not the affine point (x,y) is on the curve.
//
// This is part of the elliptic.Curve interface implementation.  This
// function differs from the crypto/elliptic algorithm since the a
// coefficient is taken from the curve rather than assumed to be -3.
func (ec *ellipticCurve) IsOnCurve(x, y *big.Int) bool {
	return ec.curve.IsOnCurve(x, y)
}

// toPoint converts the standard library affine representation, where the
// pair (0, 0) stands in for the point at infinity, to a Point.
func (ec *ellipticCurve) toPoint(x, y *big.Int) *Point {
	if x.Sign() == 0 && y.Sign() == 0 {
		return infinity(ec.curve)
	}
	return NewPoint(ec.curve, x, y)
}

// fromPoint converts a Point back to the standard library representation.
func fromPoint(p *Point) (*big.Int, *big.Int) {
	if p.IsAtInfinity() {
		return new(big.Int), new(big.Int)
	}
	return p.X(), p.Y()
}

// Add returns the sum of (x1,y1) and (x2,y2).
//
// This is part of the elliptic.Curve interface implementation.
func (ec *ellipticCurve) Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	return fromPoint(ec.toPoint(x1, y1).Add(ec.toPoint(x2, y2)))
}

// Double returns 2*(x1,y1).
//
// This is part of the elliptic.Curve interface implementation.
func (ec *ellipticCurve) Double(x1, y1 *big.Int) (*big.Int, *big.Int) {
	return fromPoint(ec.toPoint(x1, y1).Double())
}

// ScalarMult returns k*(Bx, By) where k is a big endian integer.
//
// This is part of the elliptic.Curve interface implementation.
func (ec *ellipticCurve) ScalarMult(bx, by *big.Int, k []byte) (*big.Int, *big.Int) {
	return fromPoint(ec.toPoint(bx, by).Mul(new(big.Int).SetBytes(k)))
}

// ScalarBaseMult returns k*G where G is the base point of the group and k
// is a big endian integer.
//
// This is part of the elliptic.Curve interface implementation.
func (ec *ellipticCurve) ScalarBaseMult(k []byte) (*big.Int, *big.Int) {
	return fromPoint(ec.curve.Generator().Mul(new(big.Int).SetBytes(k)))
}

// ToECDSA returns the verifying key as a *ecdsa.PublicKey from the
// standard library.
func (vk *VerifyingKey) ToECDSA() *stdecdsa.PublicKey {
	return &stdecdsa.PublicKey{
		Curve: vk.curve.ToElliptic(),
		X:     vk.point.X(),
		Y:     vk.point.Y(),
	}
}

// ToECDSA returns the signing key as a *ecdsa.PrivateKey from the standard
// library.
func (sk *SigningKey) ToECDSA() *stdecdsa.PrivateKey {
	return &stdecdsa.PrivateKey{
		PublicKey: *sk.pub.ToECDSA(),
		D:         sk.SecretExponent(),
	}
}
