// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

// References:
//   [SEC1]: Elliptic Curve Cryptography (May 31, 2009, Version 2.0),
//     appendix C.4 (ECPrivateKey)
//
//   [RFC5480]: Elliptic Curve Cryptography Subject Public Key Information

import (
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// oidECPublicKey is the id-ecPublicKey algorithm identifier (1.2.840.10045.2.1)
// from [RFC5480] that marks a SubjectPublicKeyInfo as an elliptic curve key.
var oidECPublicKey = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

// PEM labels for the supported key structures.
const (
	pemLabelPublicKey    = "PUBLIC KEY"
	pemLabelECPrivateKey = "EC PRIVATE KEY"
	pemLabelECParameters = "EC PARAMETERS"
)

// ecPrivateKeyVersion is the version INTEGER required at the start of a
// SEC1 ECPrivateKey structure.
const ecPrivateKeyVersion = 1

// marshalSubjectPublicKeyInfo returns the X.509 SubjectPublicKeyInfo DER
// structure for the public point:
//
//	SEQUENCE {
//	    SEQUENCE { OID id-ecPublicKey, OID namedCurve }
//	    BIT STRING <serialized point>
//	}
func marshalSubjectPublicKeyInfo(p *Point, encoding PointEncoding) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidECPublicKey)
			b.AddASN1ObjectIdentifier(p.curve.oid)
		})
		b.AddASN1BitString(SerializePoint(p, encoding))
	})
	return b.Bytes()
}

// parseSubjectPublicKeyInfo parses an X.509 SubjectPublicKeyInfo structure,
// determines the curve from the embedded object identifier, and returns the
// public point it carries.  The point is validated as a group element.
func parseSubjectPublicKeyInfo(der []byte) (*Point, error) {
	input := cryptobyte.String(der)
	var inner, algo cryptobyte.String
	var oidPK, oidCurve asn1.ObjectIdentifier
	var pointBits asn1.BitString
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1(&algo, cbasn1.SEQUENCE) ||
		!algo.ReadASN1ObjectIdentifier(&oidPK) ||
		!algo.ReadASN1ObjectIdentifier(&oidCurve) ||
		!algo.Empty() ||
		!inner.ReadASN1BitString(&pointBits) ||
		!inner.Empty() {
		str := "malformed public key: invalid SubjectPublicKeyInfo structure"
		return nil, makeError(ErrKeyEncoding, str)
	}
	if !oidPK.Equal(oidECPublicKey) {
		str := fmt.Sprintf("malformed public key: unexpected algorithm %v", oidPK)
		return nil, makeError(ErrKeyEncoding, str)
	}
	curve, err := CurveByOID(oidCurve)
	if err != nil {
		return nil, err
	}
	if pointBits.BitLength%8 != 0 {
		str := "malformed public key: point is not a whole number of bytes"
		return nil, makeError(ErrKeyEncoding, str)
	}

	// The raw encoding has no format prefix and is not valid inside DER
	// structures; everything else is dispatched by ParsePoint.
	pointBytes := pointBits.Bytes
	if len(pointBytes) == 2*curve.baseLen {
		str := "malformed public key: point carries no format byte"
		return nil, makeError(ErrKeyEncoding, str)
	}
	return ParsePoint(pointBytes, curve, true)
}

// marshalECPrivateKey returns the SEC1 ECPrivateKey DER structure for the
// secret scalar:
//
//	SEQUENCE {
//	    INTEGER 1
//	    OCTET STRING <d, fixed width>
//	    [0] OID namedCurve
//	    [1] BIT STRING <public point, in the requested encoding>
//	}
func marshalECPrivateKey(d *big.Int, pub *Point, encoding PointEncoding) ([]byte, error) {
	curve := pub.curve
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(ecPrivateKeyVersion)
		b.AddASN1OctetString(intToOctets(d, curve.baseLen))
		b.AddASN1(cbasn1.Tag(0).Constructed().ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(curve.oid)
		})
		b.AddASN1(cbasn1.Tag(1).Constructed().ContextSpecific(), func(b *cryptobyte.Builder) {
			b.AddASN1BitString(SerializePoint(pub, encoding))
		})
	})
	return b.Bytes()
}

// parseECPrivateKey parses a SEC1 ECPrivateKey structure and returns the
// fixed-width secret scalar bytes along with the curve named by the [0]
// element.  Private key octet strings shorter than the curve's base length
// are tolerated and left-padded with zeros; the optional [1] public key
// element is tolerated and ignored since the public point is rederived
// from the scalar.
func parseECPrivateKey(der []byte) ([]byte, *Curve, error) {
	input := cryptobyte.String(der)
	var inner, curveOuter cryptobyte.String
	var version int64
	var privOctets cryptobyte.String
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&version) ||
		!inner.ReadASN1(&privOctets, cbasn1.OCTET_STRING) ||
		!inner.ReadASN1(&curveOuter, cbasn1.Tag(0).Constructed().ContextSpecific()) {
		str := "malformed private key: invalid ECPrivateKey structure"
		return nil, nil, makeError(ErrKeyEncoding, str)
	}
	if version != ecPrivateKeyVersion {
		str := fmt.Sprintf("malformed private key: version %d != %d",
			version, ecPrivateKeyVersion)
		return nil, nil, makeError(ErrKeyEncoding, str)
	}

	var oidCurve asn1.ObjectIdentifier
	if !curveOuter.ReadASN1ObjectIdentifier(&oidCurve) || !curveOuter.Empty() {
		str := "malformed private key: invalid named curve element"
		return nil, nil, makeError(ErrKeyEncoding, str)
	}
	curve, err := CurveByOID(oidCurve)
	if err != nil {
		return nil, nil, err
	}

	// The [1] public key element is emitted by this package and others but
	// carries no information the scalar does not.
	var pubOuter cryptobyte.String
	var hasPub bool
	if !inner.ReadOptionalASN1(&pubOuter, &hasPub, cbasn1.Tag(1).Constructed().ContextSpecific()) ||
		!inner.Empty() {
		str := "malformed private key: trailing data after ECPrivateKey"
		return nil, nil, makeError(ErrKeyEncoding, str)
	}

	if len(privOctets) > curve.baseLen {
		str := fmt.Sprintf("malformed private key: %d octets for a %d-octet curve",
			len(privOctets), curve.baseLen)
		return nil, nil, makeError(ErrPrivKeyInvalidLen, str)
	}
	privBytes := make([]byte, curve.baseLen)
	copy(privBytes[curve.baseLen-len(privOctets):], privOctets)
	return privBytes, curve, nil
}

// pemEncode wraps the DER bytes between BEGIN and END lines with the given
// label and a base64 body at 64 columns.
func pemEncode(der []byte, label string) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: label, Bytes: der})
}

// pemDecode extracts the DER bytes of the first block carrying the wanted
// label.  EC PARAMETERS blocks, which some tools emit ahead of the private
// key, are skipped; a block with any other label ahead of the wanted one
// fails with kind ErrKeyEncoding.
func pemDecode(text []byte, label string) ([]byte, error) {
	rest := text
	for len(rest) > 0 {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type == pemLabelECParameters {
			continue
		}
		if block.Type == label {
			return block.Bytes, nil
		}
		str := fmt.Sprintf("malformed armor: unexpected %q block", block.Type)
		return nil, makeError(ErrKeyEncoding, str)
	}
	str := fmt.Sprintf("malformed armor: no %q block found", label)
	return nil, makeError(ErrKeyEncoding, str)
}
