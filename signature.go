// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"errors"
	"fmt"
	"math/big"
)

// References:
//   [ISO/IEC 8825-1]: Information technology — ASN.1 encoding rules:
//     Specification of Basic Encoding Rules (BER), Canonical Encoding Rules
//     (CER) and Distinguished Encoding Rules (DER)
//
//   [SEC1]: Elliptic Curve Cryptography (May 31, 2009, Version 2.0)
//     https://www.secg.org/sec1-v2.pdf

const (
	// asn1SequenceID is the ASN.1 identifier for a constructed sequence and
	// is used when parsing and serializing signatures encoded with the
	// Distinguished Encoding Rules (DER) format per section 10 of
	// [ISO/IEC 8825-1].
	asn1SequenceID = 0x30

	// asn1IntegerID is the ASN.1 identifier for an integer and is used when
	// parsing and serializing signatures encoded with the Distinguished
	// Encoding Rules (DER) format per section 10 of [ISO/IEC 8825-1].
	asn1IntegerID = 0x02
)

// Signature is a type representing an ECDSA signature: the pair (r, s) with
// both values in [1, N-1].  Signatures are plain values and are not tied to
// a specific key or curve; the group order is supplied where a codec needs
// it.
type Signature struct {
	r *big.Int
	s *big.Int
}

// NewSignature instantiates a new signature given some r and s values.
func NewSignature(r, s *big.Int) *Signature {
	return &Signature{new(big.Int).Set(r), new(big.Int).Set(s)}
}

// R returns the r value of the signature.
func (sig *Signature) R() *big.Int {
	return new(big.Int).Set(sig.r)
}

// S returns the s value of the signature.
func (sig *Signature) S() *big.Int {
	return new(big.Int).Set(sig.s)
}

// IsEqual compares this Signature instance to the one passed, returning
// true if both Signatures are equivalent.  A signature is equivalent to
// another, if they both have the same scalar value for R and S.
func (sig *Signature) IsEqual(otherSig *Signature) bool {
	return sig.r.Cmp(otherSig.r) == 0 && sig.s.Cmp(otherSig.s) == 0
}

// SignatureEncoder converts an (r, s) pair produced over a group of the
// given order into bytes.  Two encoders are provided out of the box,
// SigEncodeString and SigEncodeDER; callers may substitute their own.
type SignatureEncoder func(r, s, order *big.Int) ([]byte, error)

// SignatureDecoder converts signature bytes back into an (r, s) pair,
// validating them against the given group order.  Two decoders are
// provided out of the box, SigDecodeString and SigDecodeDER.
type SignatureDecoder func(sig []byte, order *big.Int) (r, s *big.Int, err error)

// SigEncodeString serializes the signature as the bare concatenation of r
// and s, each as a fixed-width big-endian value of the order's byte
// length.
func SigEncodeString(r, s, order *big.Int) ([]byte, error) {
	baseLen := (order.BitLen() + 7) / 8
	b := make([]byte, 0, 2*baseLen)
	b = append(b, intToOctets(r, baseLen)...)
	return append(b, intToOctets(s, baseLen)...), nil
}

// SigDecodeString parses a signature serialized by SigEncodeString and
// enforces that both components are in the valid scalar range [1, N-1].
func SigDecodeString(sig []byte, order *big.Int) (*big.Int, *big.Int, error) {
	baseLen := (order.BitLen() + 7) / 8
	if len(sig) != 2*baseLen {
		str := fmt.Sprintf("malformed signature: wrong size: %d != %d",
			len(sig), 2*baseLen)
		return nil, nil, signatureError(ErrSigInvalidLen, str)
	}

	r := octetsToInt(sig[:baseLen])
	if r.Sign() == 0 {
		return nil, nil, signatureError(ErrSigRIsZero, "invalid signature: R is 0")
	}
	if r.Cmp(order) >= 0 {
		str := "invalid signature: R >= group order"
		return nil, nil, signatureError(ErrSigRTooBig, str)
	}
	s := octetsToInt(sig[baseLen:])
	if s.Sign() == 0 {
		return nil, nil, signatureError(ErrSigSIsZero, "invalid signature: S is 0")
	}
	if s.Cmp(order) >= 0 {
		str := "invalid signature: S >= group order"
		return nil, nil, signatureError(ErrSigSTooBig, str)
	}
	return r, s, nil
}

// appendDERLength appends the minimal DER encoding of the given length:
// a single byte below 128, otherwise 0x80 plus the count of the big-endian
// length bytes that follow.
func appendDERLength(b []byte, length int) []byte {
	if length < 0x80 {
		return append(b, byte(length))
	}
	var lenBytes []byte
	for v := length; v > 0; v >>= 8 {
		lenBytes = append([]byte{byte(v)}, lenBytes...)
	}
	b = append(b, 0x80|byte(len(lenBytes)))
	return append(b, lenBytes...)
}

// derIntegerBytes returns the minimal two's-complement big-endian content
// octets for a non-negative integer: the value bytes with a single leading
// zero added only when the high bit of the first byte is set, so the value
// cannot be interpreted as a negative number.
func derIntegerBytes(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 || b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	return b
}

// SigEncodeDER serializes the signature per section 10 of [ISO/IEC 8825-1]
// as SEQUENCE { INTEGER r, INTEGER s } with minimal integer and length
// encodings.  The order parameter is unused; it is part of the encoder
// signature so codecs are interchangeable.
func SigEncodeDER(r, s, order *big.Int) ([]byte, error) {
	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence.
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows.
	//   - R and S are arbitrary length big-endian encoded numbers which
	//     must use the minimum possible number of bytes.  This implies the
	//     first byte can only be null if the highest bit of the next byte
	//     is set in order to prevent it from being interpreted as a
	//     negative number.
	rBytes := derIntegerBytes(r)
	sBytes := derIntegerBytes(s)

	content := make([]byte, 0, 4+len(rBytes)+len(sBytes))
	content = append(content, asn1IntegerID)
	content = appendDERLength(content, len(rBytes))
	content = append(content, rBytes...)
	content = append(content, asn1IntegerID)
	content = appendDERLength(content, len(sBytes))
	content = append(content, sBytes...)

	b := make([]byte, 0, 4+len(content))
	b = append(b, asn1SequenceID)
	b = appendDERLength(b, len(content))
	return append(b, content...), nil
}

// Serialize returns the ECDSA signature in the Distinguished Encoding
// Rules (DER) format.
func (sig *Signature) Serialize() []byte {
	b, _ := SigEncodeDER(sig.r, sig.s, nil)
	return b
}

// derCursor is a strict sequential reader over DER signature bytes.
type derCursor struct {
	buf []byte
	pos int
}

// remaining returns the count of bytes that have not been consumed.
func (c *derCursor) remaining() int {
	return len(c.buf) - c.pos
}

// readByte consumes the next byte.
func (c *derCursor) readByte() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++
	return b, true
}

// readLength consumes a DER length, accepting only the minimal encoding:
// the short form below 128 and the long form with no leading zero length
// octets and a value of at least 128.
func (c *derCursor) readLength() (int, error) {
	first, ok := c.readByte()
	if !ok {
		return 0, signatureError(ErrSigTooShort, "malformed signature: length missing")
	}
	if first < 0x80 {
		return int(first), nil
	}

	numBytes := int(first & 0x7f)
	if numBytes == 0 {
		// The indefinite form is BER only.
		str := "malformed signature: indefinite length"
		return 0, signatureError(ErrSigInvalidLenEncoding, str)
	}
	if numBytes > 4 || c.remaining() < numBytes {
		str := "malformed signature: unsupported length"
		return 0, signatureError(ErrSigInvalidLenEncoding, str)
	}
	if c.buf[c.pos] == 0 {
		str := "malformed signature: length has leading zero octets"
		return 0, signatureError(ErrSigInvalidLenEncoding, str)
	}
	length := 0
	for i := 0; i < numBytes; i++ {
		b, _ := c.readByte()
		length = length<<8 | int(b)
	}
	if length < 0x80 {
		str := "malformed signature: non-minimal length encoding"
		return 0, signatureError(ErrSigInvalidLenEncoding, str)
	}
	return length, nil
}

// ParseDERSignature parses a signature in the Distinguished Encoding Rules
// (DER) format per section 10 of [ISO/IEC 8825-1] and enforces the
// following additional restrictions:
//
//   - The R and S values must be in the valid scalar range for the group:
//     negative values are rejected, zero is rejected, and values greater
//     than or equal to the group order are rejected
//   - Non-minimal integer paddings and length encodings are rejected
//   - Trailing bytes after the sequence are rejected
func ParseDERSignature(sig []byte, order *big.Int) (*Signature, error) {
	r, s, err := SigDecodeDER(sig, order)
	if err != nil {
		return nil, err
	}
	return &Signature{r, s}, nil
}

// SigDecodeDER parses a DER signature per ParseDERSignature and returns
// the raw (r, s) pair.
func SigDecodeDER(sig []byte, order *big.Int) (*big.Int, *big.Int, error) {
	// The expected format is:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//
	// Unlike signatures over a fixed 256-bit group, the supported orders
	// range up to 521 bits, so total lengths above 127 bytes occur and the
	// long length form must be handled for the outer sequence.
	c := &derCursor{buf: sig}

	// The signature must start with the ASN.1 sequence identifier.
	seqID, ok := c.readByte()
	if !ok {
		str := "malformed signature: too short"
		return nil, nil, signatureError(ErrSigTooShort, str)
	}
	if seqID != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x", seqID)
		return nil, nil, signatureError(ErrSigInvalidSeqID, str)
	}

	// The sequence must indicate the exact amount of remaining data.
	dataLen, err := c.readLength()
	if err != nil {
		return nil, nil, err
	}
	if dataLen != c.remaining() {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			dataLen, c.remaining())
		return nil, nil, signatureError(ErrSigInvalidDataLen, str)
	}

	r, err := c.readInteger(order, true)
	if err != nil {
		return nil, nil, err
	}
	s, err := c.readInteger(order, false)
	if err != nil {
		return nil, nil, err
	}

	if c.remaining() != 0 {
		str := "malformed signature: trailing bytes after S"
		return nil, nil, signatureError(ErrSigTrailingBytes, str)
	}
	return r, s, nil
}

// readInteger consumes one ASN.1 INTEGER holding a signature component and
// validates it against the group order.  The isR flag only selects which
// error kinds are reported.
func (c *derCursor) readInteger(order *big.Int, isR bool) (*big.Int, error) {
	name := "R"
	kinds := struct {
		missingType, missingLen, badLen ErrorKind
		intID, zeroLen, negative        ErrorKind
		padding, isZero, tooBig         ErrorKind
	}{
		ErrSigTooShort, ErrSigTooShort, ErrSigInvalidDataLen,
		ErrSigInvalidRIntID, ErrSigZeroRLen, ErrSigNegativeR,
		ErrSigTooMuchRPadding, ErrSigRIsZero, ErrSigRTooBig,
	}
	if !isR {
		name = "S"
		kinds.missingType = ErrSigMissingSTypeID
		kinds.missingLen = ErrSigMissingSLen
		kinds.intID = ErrSigInvalidSIntID
		kinds.zeroLen = ErrSigZeroSLen
		kinds.negative = ErrSigNegativeS
		kinds.padding = ErrSigTooMuchSPadding
		kinds.isZero = ErrSigSIsZero
		kinds.tooBig = ErrSigSTooBig
	}

	// The component must be an ASN.1 integer.
	intID, ok := c.readByte()
	if !ok {
		str := fmt.Sprintf("malformed signature: %s type indicator missing", name)
		return nil, signatureError(kinds.missingType, str)
	}
	if intID != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: %s integer marker: %#x != %#x",
			name, intID, asn1IntegerID)
		return nil, signatureError(kinds.intID, str)
	}

	valLen, err := c.readLength()
	if err != nil {
		if errors.Is(err, ErrSigInvalidLenEncoding) {
			return nil, err
		}
		str := fmt.Sprintf("malformed signature: %s length missing", name)
		return nil, signatureError(kinds.missingLen, str)
	}
	if valLen > c.remaining() {
		str := fmt.Sprintf("malformed signature: invalid %s length", name)
		return nil, signatureError(kinds.badLen, str)
	}

	// Zero-length integers are not allowed.
	if valLen == 0 {
		str := fmt.Sprintf("malformed signature: %s length is zero", name)
		return nil, signatureError(kinds.zeroLen, str)
	}
	val := c.buf[c.pos : c.pos+valLen]
	c.pos += valLen

	// The value must not be negative.
	if val[0]&0x80 != 0 {
		str := fmt.Sprintf("malformed signature: %s is negative", name)
		return nil, signatureError(kinds.negative, str)
	}

	// Null bytes at the start are not allowed, unless the value would
	// otherwise be interpreted as a negative number.
	if len(val) > 1 && val[0] == 0x00 && val[1]&0x80 == 0 {
		str := fmt.Sprintf("malformed signature: %s value has too much padding", name)
		return nil, signatureError(kinds.padding, str)
	}

	// The value must be in the range [1, N-1] since valid ECDSA signatures
	// are required to be in that range per [SEC1].
	v := octetsToInt(val)
	if v.Sign() == 0 {
		str := fmt.Sprintf("invalid signature: %s is 0", name)
		return nil, signatureError(kinds.isZero, str)
	}
	if v.Cmp(order) >= 0 {
		str := fmt.Sprintf("invalid signature: %s >= group order", name)
		return nil, signatureError(kinds.tooBig, str)
	}
	return v, nil
}
