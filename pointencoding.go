// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

// References:
//   [SEC1]: Elliptic Curve Cryptography (May 31, 2009, Version 2.0)
//     https://www.secg.org/sec1-v2.pdf

import (
	"errors"
	"fmt"
	"math/big"
)

const (
	// pointFormatCompressedEven is the identifying prefix byte for a
	// compressed point whose y coordinate is even.
	pointFormatCompressedEven byte = 0x02

	// pointFormatCompressedOdd is the identifying prefix byte for a
	// compressed point whose y coordinate is odd.
	pointFormatCompressedOdd byte = 0x03

	// pointFormatUncompressed is the identifying prefix byte for an
	// uncompressed point.
	pointFormatUncompressed byte = 0x04

	// pointFormatHybridEven is the identifying prefix byte for a hybrid
	// point whose y coordinate is even.
	pointFormatHybridEven byte = 0x06

	// pointFormatHybridOdd is the identifying prefix byte for a hybrid
	// point whose y coordinate is odd.
	pointFormatHybridOdd byte = 0x07
)

// PointEncoding identifies one of the SEC1 affine point serialization
// formats.
type PointEncoding int

const (
	// EncodingRaw is the bare concatenation x || y of the fixed-width
	// big-endian coordinates with no prefix byte.
	EncodingRaw PointEncoding = iota

	// EncodingUncompressed is 0x04 || x || y per section 2.3.3 of [SEC1].
	EncodingUncompressed

	// EncodingCompressed is (0x02 or 0x03) || x, where the prefix conveys
	// the oddness of y.
	EncodingCompressed

	// EncodingHybrid is (0x06 or 0x07) || x || y, carrying both the full y
	// coordinate and its oddness in the prefix.
	EncodingHybrid
)

// String returns the PointEncoding as a human-readable name.
func (e PointEncoding) String() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingUncompressed:
		return "uncompressed"
	case EncodingCompressed:
		return "compressed"
	case EncodingHybrid:
		return "hybrid"
	}
	return fmt.Sprintf("unknown encoding (%d)", int(e))
}

// SerializePoint returns the affine point serialized in the requested SEC1
// format.  Coordinates are fixed-width big-endian values of the curve's
// base length, left-padded with zeros.  The point at infinity has no SEC1
// serialization and must not be passed.
func SerializePoint(p *Point, encoding PointEncoding) []byte {
	if p.IsAtInfinity() {
		panic("ecdsa: the point at infinity cannot be serialized")
	}

	baseLen := p.curve.baseLen
	xBytes := intToOctets(p.x, baseLen)
	yBytes := intToOctets(p.y, baseLen)
	yOdd := p.y.Bit(0) == 1

	switch encoding {
	case EncodingRaw:
		return append(xBytes, yBytes...)

	case EncodingUncompressed:
		b := make([]byte, 0, 1+2*baseLen)
		b = append(b, pointFormatUncompressed)
		b = append(b, xBytes...)
		return append(b, yBytes...)

	case EncodingCompressed:
		format := pointFormatCompressedEven
		if yOdd {
			format = pointFormatCompressedOdd
		}
		b := make([]byte, 0, 1+baseLen)
		b = append(b, format)
		return append(b, xBytes...)

	case EncodingHybrid:
		format := pointFormatHybridEven
		if yOdd {
			format = pointFormatHybridOdd
		}
		b := make([]byte, 0, 1+2*baseLen)
		b = append(b, format)
		b = append(b, xBytes...)
		return append(b, yBytes...)
	}

	panic("ecdsa: unsupported point encoding " + encoding.String())
}

// parseCoordinates converts fixed-width x and y bytes into field values,
// rejecting coordinates outside [0, P).
func parseCoordinates(curve *Curve, xBytes, yBytes []byte) (*big.Int, *big.Int, error) {
	x := octetsToInt(xBytes)
	if x.Cmp(curve.P) >= 0 {
		str := "invalid point: x >= field prime"
		return nil, nil, makeError(ErrPointXTooBig, str)
	}
	y := octetsToInt(yBytes)
	if y.Cmp(curve.P) >= 0 {
		str := "invalid point: y >= field prime"
		return nil, nil, makeError(ErrPointYTooBig, str)
	}
	return x, y, nil
}

// ParsePoint parses an affine point for the given curve from any of the
// SEC1 serialization formats, dispatching on the serialized length and
// prefix byte.
//
// When validate is true, the decoded point is additionally checked to be a
// valid group element via PointIsValid, which costs a scalar
// multiplication.  Callers that obtained the bytes from a trusted source
// can skip the check.
func ParsePoint(serialized []byte, curve *Curve, validate bool) (*Point, error) {
	baseLen := curve.baseLen

	var x, y *big.Int
	var err error
	switch len(serialized) {
	case 2 * baseLen:
		// Raw x || y.
		x, y, err = parseCoordinates(curve, serialized[:baseLen], serialized[baseLen:])
		if err != nil {
			return nil, err
		}

	case 2*baseLen + 1:
		// Uncompressed or hybrid.
		format := serialized[0]
		switch format {
		case pointFormatUncompressed, pointFormatHybridEven, pointFormatHybridOdd:
		default:
			str := fmt.Sprintf("invalid point: unsupported format: %#x", format)
			return nil, makeError(ErrPointInvalidFormat, str)
		}
		x, y, err = parseCoordinates(curve, serialized[1:1+baseLen], serialized[1+baseLen:])
		if err != nil {
			return nil, err
		}

		// Hybrid encodings must be self-consistent: the oddness conveyed
		// by the format byte has to match the oddness of y.
		if format == pointFormatHybridEven || format == pointFormatHybridOdd {
			wantOdd := format == pointFormatHybridOdd
			if wantOdd != (y.Bit(0) == 1) {
				str := "invalid point: oddness does not match the hybrid format byte"
				return nil, makeError(ErrPointMismatchedOddness, str)
			}
		}

	case baseLen + 1:
		// Compressed.
		format := serialized[0]
		if format != pointFormatCompressedEven && format != pointFormatCompressedOdd {
			str := fmt.Sprintf("invalid point: unsupported format: %#x", format)
			return nil, makeError(ErrPointInvalidFormat, str)
		}
		x = octetsToInt(serialized[1:])
		if x.Cmp(curve.P) >= 0 {
			str := "invalid point: x >= field prime"
			return nil, makeError(ErrPointXTooBig, str)
		}

		// Recover the y coordinate whose oddness matches the format byte.
		// A non-residue means there is no curve point with the given x
		// coordinate, so the encoding does not name a point at all.
		wantOdd := format == pointFormatCompressedOdd
		y, err = curve.decompressY(x, wantOdd)
		if err != nil {
			if errors.Is(err, ErrNonResidue) {
				str := "invalid point: not on the curve"
				return nil, makeError(ErrPointNotOnCurve, str)
			}
			return nil, err
		}

	default:
		str := fmt.Sprintf("malformed point: length %d matches no %s encoding",
			len(serialized), curve.Name)
		return nil, makeError(ErrPointInvalidLen, str)
	}

	if validate && !PointIsValid(curve.Generator(), x, y) {
		str := "invalid point: not a valid group element"
		return nil, makeError(ErrPointNotOnCurve, str)
	}
	return &Point{curve: curve, x: x, y: y}, nil
}
