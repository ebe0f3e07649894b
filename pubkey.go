// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"fmt"
	"hash"
)

// VerifyingKey is the public half of an ECDSA key pair: a non-identity
// point on a registry curve together with a default digest function used
// when the caller does not supply one.
//
// VerifyingKey instances are immutable after construction and safe for
// concurrent use.
type VerifyingKey struct {
	curve    *Curve
	point    *Point
	hashFunc func() hash.Hash
}

// NewVerifyingKey instantiates a verifying key from a public point, which
// is assumed to be a valid group element on its curve: validation is the
// caller's responsibility via PointIsValid, typically already performed by
// whatever produced the point.  A nil hashFunc selects SHA-256.
func NewVerifyingKey(point *Point, hashFunc func() hash.Hash) *VerifyingKey {
	if hashFunc == nil {
		hashFunc = defaultHash
	}
	return &VerifyingKey{curve: point.curve, point: point, hashFunc: hashFunc}
}

// ParseVerifyingKey parses a verifying key for the given curve from any of
// the SEC1 point formats (raw, uncompressed, compressed, or hybrid),
// dispatching on length and prefix byte.  When validate is true the
// decoded point is checked to be a valid group element at the cost of a
// scalar multiplication.  A nil hashFunc selects SHA-256.
func ParseVerifyingKey(serialized []byte, curve *Curve, hashFunc func() hash.Hash,
	validate bool) (*VerifyingKey, error) {

	point, err := ParsePoint(serialized, curve, validate)
	if err != nil {
		return nil, err
	}
	return NewVerifyingKey(point, hashFunc), nil
}

// ParseVerifyingKeyDER parses a verifying key from a DER-encoded X.509
// SubjectPublicKeyInfo structure.  The curve is determined by the object
// identifier embedded in the structure.  A nil hashFunc selects SHA-256.
func ParseVerifyingKeyDER(der []byte, hashFunc func() hash.Hash) (*VerifyingKey, error) {
	point, err := parseSubjectPublicKeyInfo(der)
	if err != nil {
		return nil, err
	}
	return NewVerifyingKey(point, hashFunc), nil
}

// ParseVerifyingKeyPEM parses a verifying key from a PEM block with the
// label "PUBLIC KEY" holding a DER SubjectPublicKeyInfo structure.
func ParseVerifyingKeyPEM(text []byte, hashFunc func() hash.Hash) (*VerifyingKey, error) {
	der, err := pemDecode(text, pemLabelPublicKey)
	if err != nil {
		return nil, err
	}
	return ParseVerifyingKeyDER(der, hashFunc)
}

// RecoverVerifyingKeys returns the verifying keys that verify the given
// signature over the message, derived from the signature itself.  The list
// is in a deterministic order and always contains the key of the actual
// signer; most signatures admit exactly two candidates.  A nil sigDecode
// selects the fixed-width codec.
func RecoverVerifyingKeys(sig, message []byte, curve *Curve,
	hashFunc func() hash.Hash, sigDecode SignatureDecoder) ([]*VerifyingKey, error) {

	if hashFunc == nil {
		hashFunc = defaultHash
	}
	h := hashFunc()
	h.Write(message)
	return RecoverVerifyingKeysFromDigest(sig, h.Sum(nil), curve, hashFunc, sigDecode)
}

// RecoverVerifyingKeysFromDigest is the digest-input variant of
// RecoverVerifyingKeys.
func RecoverVerifyingKeysFromDigest(sig, digest []byte, curve *Curve,
	hashFunc func() hash.Hash, sigDecode SignatureDecoder) ([]*VerifyingKey, error) {

	if sigDecode == nil {
		sigDecode = SigDecodeString
	}
	r, s, err := sigDecode(sig, curve.N)
	if err != nil {
		return nil, err
	}

	e := hashToNumber(digest, curve.N)
	points := recoverPublicPoints(curve, e, r, s)
	keys := make([]*VerifyingKey, 0, len(points))
	for _, point := range points {
		keys = append(keys, NewVerifyingKey(point, hashFunc))
	}
	return keys, nil
}

// Curve returns the curve the key lives on.
func (vk *VerifyingKey) Curve() *Curve {
	return vk.curve
}

// Point returns the public point of the key.
func (vk *VerifyingKey) Point() *Point {
	return vk.point
}

// IsEqual compares this VerifyingKey instance to the one passed, returning
// true if both keys hold the same public point on the same curve.
func (vk *VerifyingKey) IsEqual(other *VerifyingKey) bool {
	return vk.curve == other.curve && vk.point.IsEqual(other.point)
}

// Serialize returns the public point in the requested SEC1 format.  The
// curve itself is not part of the serialization, so parsing it back
// requires naming the same curve.
func (vk *VerifyingKey) Serialize(encoding PointEncoding) []byte {
	return SerializePoint(vk.point, encoding)
}

// SerializeDER returns the key as a DER-encoded X.509
// SubjectPublicKeyInfo structure with the point in the requested format.
// The raw point format carries no format byte and is not valid inside DER
// structures; EncodingUncompressed is the interoperable choice.
func (vk *VerifyingKey) SerializeDER(encoding PointEncoding) ([]byte, error) {
	if encoding == EncodingRaw {
		str := "raw points cannot be embedded in a SubjectPublicKeyInfo"
		return nil, makeError(ErrKeyEncoding, str)
	}
	return marshalSubjectPublicKeyInfo(vk.point, encoding)
}

// SerializePEM returns the key as a PEM "PUBLIC KEY" block holding the DER
// SubjectPublicKeyInfo structure.
func (vk *VerifyingKey) SerializePEM(encoding PointEncoding) ([]byte, error) {
	der, err := vk.SerializeDER(encoding)
	if err != nil {
		return nil, err
	}
	return pemEncode(der, pemLabelPublicKey), nil
}

// Verify checks the signature against the message, digesting it with the
// provided hash function (the key's default when nil) and decoding the
// signature with the provided decoder (the fixed-width codec when nil).
//
// A nil return means the signature is valid.  Signature bytes that fail
// their decoder surface the decoder's error; a well-formed signature that
// does not match fails with kind ErrSigVerification.
func (vk *VerifyingKey) Verify(sig, message []byte, hashFunc func() hash.Hash,
	sigDecode SignatureDecoder) error {

	if hashFunc == nil {
		hashFunc = vk.hashFunc
	}
	h := hashFunc()
	h.Write(message)
	return vk.VerifyDigest(sig, h.Sum(nil), sigDecode)
}

// VerifyDigest is the digest-input variant of Verify.  The digest must not
// be longer than the curve's base length, else the check fails with kind
// ErrDigestTooLong.
func (vk *VerifyingKey) VerifyDigest(sig, digest []byte, sigDecode SignatureDecoder) error {
	if len(digest) > vk.curve.baseLen {
		str := fmt.Sprintf("this curve (%s) is too short for a digest of %d bits",
			vk.curve.Name, 8*len(digest))
		return makeError(ErrDigestTooLong, str)
	}
	if sigDecode == nil {
		sigDecode = SigDecodeString
	}
	r, s, err := sigDecode(sig, vk.curve.N)
	if err != nil {
		return err
	}

	e := hashToNumber(digest, vk.curve.N)
	if !verifyNumber(vk.point, e, r, s) {
		return makeError(ErrSigVerification, "signature verification failed")
	}
	return nil
}
