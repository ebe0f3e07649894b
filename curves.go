// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

// References:
//   [SECG]: Recommended Elliptic Curve Domain Parameters
//     https://www.secg.org/sec2-v2.pdf
//
//   [FIPS 186-4]: Digital Signature Standard, appendix D.1.2

import (
	"encoding/asn1"
	"fmt"
	"math/big"
)

// fromHex converts the passed hex string into a big integer pointer and will
// panic if there is an error.  This is only provided for the hard-coded
// constants so errors in the source code can be detected. It will only (and
// must only) be called for initialization purposes.
func fromHex(s string) *big.Int {
	r, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex in source file: " + s)
	}
	return r
}

// newCurve bundles curve parameters and derives the serialized coordinate
// length from the bit length of the group order.
func newCurve(name string, oid asn1.ObjectIdentifier, p, a, b, gx, gy, n *big.Int, h int) *Curve {
	return &Curve{
		P:       p,
		A:       a,
		B:       b,
		Gx:      gx,
		Gy:      gy,
		N:       n,
		H:       h,
		Name:    name,
		oid:     oid,
		baseLen: (n.BitLen() + 7) / 8,
	}
}

// pMinus3 returns p-3, the a coefficient shared by all the NIST prime
// curves.
func pMinus3(p *big.Int) *big.Int {
	return new(big.Int).Sub(p, big.NewInt(3))
}

// Registry curve parameters taken from [SECG] section 2 and [FIPS 186-4]
// appendix D.1.2.
var (
	p192Prime = fromHex("fffffffffffffffffffffffffffffffeffffffffffffffff")

	// P192 is the NIST P-192 (secp192r1, prime192v1) curve.
	P192 = newCurve("NIST192p",
		asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 1},
		p192Prime,
		pMinus3(p192Prime),
		fromHex("64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1"),
		fromHex("188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012"),
		fromHex("07192b95ffc8da78631011ed6b24cdd573f977a11e794811"),
		fromHex("ffffffffffffffffffffffff99def836146bc9b1b4d22831"),
		1)

	p224Prime = fromHex("ffffffffffffffffffffffffffffffff000000000000000000000001")

	// P224 is the NIST P-224 (secp224r1) curve.
	P224 = newCurve("NIST224p",
		asn1.ObjectIdentifier{1, 3, 132, 0, 33},
		p224Prime,
		pMinus3(p224Prime),
		fromHex("b4050a850c04b3abf54132565044b0b7d7bfd8ba270b39432355ffb4"),
		fromHex("b70e0cbd6bb4bf7f321390b94a03c1d356c21122343280d6115c1d21"),
		fromHex("bd376388b5f723fb4c22dfe6cd4375a05a07476444d5819985007e34"),
		fromHex("ffffffffffffffffffffffffffff16a2e0b8f03e13dd29455c5c2a3d"),
		1)

	p256Prime = fromHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")

	// P256 is the NIST P-256 (secp256r1, prime256v1) curve.
	P256 = newCurve("NIST256p",
		asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7},
		p256Prime,
		pMinus3(p256Prime),
		fromHex("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b"),
		fromHex("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"),
		fromHex("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"),
		fromHex("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"),
		1)

	p384Prime = fromHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe" +
		"ffffffff0000000000000000ffffffff")

	// P384 is the NIST P-384 (secp384r1) curve.
	P384 = newCurve("NIST384p",
		asn1.ObjectIdentifier{1, 3, 132, 0, 34},
		p384Prime,
		pMinus3(p384Prime),
		fromHex("b3312fa7e23ee7e4988e056be3f82d19181d9c6efe8141120314088f5013875a"+
			"c656398d8a2ed19d2a85c8edd3ec2aef"),
		fromHex("aa87ca22be8b05378eb1c71ef320ad746e1d3b628ba79b9859f741e082542a38"+
			"5502f25dbf55296c3a545e3872760ab7"),
		fromHex("3617de4a96262c6f5d9e98bf9292dc29f8f41dbd289a147ce9da3113b5f0b8c0"+
			"0a60b1ce1d7e819d7a431d7c90ea0e5f"),
		fromHex("ffffffffffffffffffffffffffffffffffffffffffffffffc7634d81f4372ddf"+
			"581a0db248b0a77aecec196accc52973"),
		1)

	p521Prime = fromHex("01ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff" +
		"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

	// P521 is the NIST P-521 (secp521r1) curve.
	P521 = newCurve("NIST521p",
		asn1.ObjectIdentifier{1, 3, 132, 0, 35},
		p521Prime,
		pMinus3(p521Prime),
		fromHex("0051953eb9618e1c9a1f929a21a0b68540eea2da725b99b315f3b8b489918ef1"+
			"09e156193951ec7e937b1652c0bd3bb1bf073573df883d2c34f1ef451fd46b503f00"),
		fromHex("00c6858e06b70404e9cd9e3ecb662395b4429c648139053fb521f828af606b4d"+
			"3dbaa14b5e77efe75928fe1dc127a2ffa8de3348b3c1856a429bf97e7e31c2e5bd66"),
		fromHex("011839296a789a3bc0045c8a5fb42c7d1bd998f54449579b446817afbd17273e"+
			"662c97ee72995ef42640c550b9013fad0761353c7086a272c24088be94769fd16650"),
		fromHex("01ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"+
			"fffa51868783bf2f966b7fcc0148f709a5d03bb5c9b8899c47aebb6fb71e91386409"),
		1)

	// SECP256k1 is the Koblitz curve used by Bitcoin and Decred.
	SECP256k1 = newCurve("SECP256k1",
		asn1.ObjectIdentifier{1, 3, 132, 0, 10},
		fromHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
		new(big.Int),
		big.NewInt(7),
		fromHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
		fromHex("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"),
		fromHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"),
		1)
)

// Curves returns the curves in the registry.  The returned slice is a copy;
// the curves themselves are shared immutable singletons.
func Curves() []*Curve {
	return []*Curve{P192, P224, P256, P384, P521, SECP256k1}
}

// CurveByName returns the registry curve with the given canonical name.
func CurveByName(name string) (*Curve, error) {
	for _, curve := range Curves() {
		if curve.Name == name {
			return curve, nil
		}
	}
	str := fmt.Sprintf("no curve registered with name %q", name)
	return nil, makeError(ErrUnknownCurve, str)
}

// CurveByOID returns the registry curve identified by the given ASN.1
// object identifier.
func CurveByOID(oid asn1.ObjectIdentifier) (*Curve, error) {
	for _, curve := range Curves() {
		if curve.oid.Equal(oid) {
			return curve, nil
		}
	}
	str := fmt.Sprintf("no curve registered with object identifier %v", oid)
	return nil, makeError(ErrUnknownCurve, str)
}
