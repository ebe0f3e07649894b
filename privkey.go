// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"fmt"
	"hash"
	"io"
	"math/big"
)

// SigningKey is the private half of an ECDSA key pair: a secret scalar in
// [1, N-1] on a registry curve, the verifying key derived from it, and a
// default digest function used when the caller does not supply one.
//
// SigningKey instances are immutable after construction.  Deterministic
// signing is fully reentrant; signing with a random nonce is as reentrant
// as the supplied entropy source.
type SigningKey struct {
	curve    *Curve
	d        *big.Int
	pub      *VerifyingKey
	hashFunc func() hash.Hash
}

// GenerateSigningKey returns a signing key with a secret scalar chosen
// uniformly from [1, N-1] using the provided entropy source, or the system
// CSPRNG when the source is nil.  A nil hashFunc selects SHA-256.
func GenerateSigningKey(curve *Curve, entropy io.Reader, hashFunc func() hash.Hash) (*SigningKey, error) {
	d, err := randRange(curve.N, entropy)
	if err != nil {
		return nil, err
	}
	return NewSigningKey(d, curve, hashFunc)
}

// NewSigningKey instantiates a signing key from a secret exponent, which
// must be in [1, N-1], and derives the corresponding public point.
func NewSigningKey(d *big.Int, curve *Curve, hashFunc func() hash.Hash) (*SigningKey, error) {
	if d.Sign() <= 0 || d.Cmp(curve.N) >= 0 {
		str := "secret exponent outside of [1, N-1]"
		return nil, makeError(ErrPrivKeyOutOfRange, str)
	}
	if hashFunc == nil {
		hashFunc = defaultHash
	}

	d = new(big.Int).Set(d)
	pubPoint := curve.Generator().Mul(d)
	return &SigningKey{
		curve:    curve,
		d:        d,
		pub:      NewVerifyingKey(pubPoint, hashFunc),
		hashFunc: hashFunc,
	}, nil
}

// SigningKeyFromBytes instantiates a signing key from its fixed-width
// big-endian serialization, which must be exactly the curve's base length.
func SigningKeyFromBytes(serialized []byte, curve *Curve, hashFunc func() hash.Hash) (*SigningKey, error) {
	if len(serialized) != curve.baseLen {
		str := fmt.Sprintf("malformed private key: wrong size: %d != %d",
			len(serialized), curve.baseLen)
		return nil, makeError(ErrPrivKeyInvalidLen, str)
	}
	return NewSigningKey(octetsToInt(serialized), curve, hashFunc)
}

// ParseSigningKeyDER parses a signing key from a DER-encoded SEC1
// ECPrivateKey structure.  The curve is determined by the embedded object
// identifier; the embedded public key element, when present, is ignored
// and the public point is rederived from the scalar.
func ParseSigningKeyDER(der []byte, hashFunc func() hash.Hash) (*SigningKey, error) {
	privBytes, curve, err := parseECPrivateKey(der)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(privBytes)
	return SigningKeyFromBytes(privBytes, curve, hashFunc)
}

// ParseSigningKeyPEM parses a signing key from a PEM block with the label
// "EC PRIVATE KEY".  A preceding "EC PARAMETERS" block, as emitted by
// openssl ecparam, is tolerated and ignored.
func ParseSigningKeyPEM(text []byte, hashFunc func() hash.Hash) (*SigningKey, error) {
	der, err := pemDecode(text, pemLabelECPrivateKey)
	if err != nil {
		return nil, err
	}
	return ParseSigningKeyDER(der, hashFunc)
}

// Curve returns the curve the key lives on.
func (sk *SigningKey) Curve() *Curve {
	return sk.curve
}

// VerifyingKey returns the public half of the key pair.
func (sk *SigningKey) VerifyingKey() *VerifyingKey {
	return sk.pub
}

// SecretExponent returns a copy of the secret scalar.
func (sk *SigningKey) SecretExponent() *big.Int {
	return new(big.Int).Set(sk.d)
}

// IsEqual compares this SigningKey instance to the one passed, returning
// true if both keys hold the same secret scalar on the same curve.
func (sk *SigningKey) IsEqual(other *SigningKey) bool {
	return sk.curve == other.curve && sk.d.Cmp(other.d) == 0
}

// Serialize returns the secret scalar as a fixed-width big-endian value of
// the curve's base length.
func (sk *SigningKey) Serialize() []byte {
	return intToOctets(sk.d, sk.curve.baseLen)
}

// SerializeDER returns the key as a DER-encoded SEC1 ECPrivateKey
// structure, including the public key element with the point in the
// requested format.
func (sk *SigningKey) SerializeDER(encoding PointEncoding) ([]byte, error) {
	if encoding == EncodingRaw {
		str := "raw points cannot be embedded in an ECPrivateKey"
		return nil, makeError(ErrKeyEncoding, str)
	}
	return marshalECPrivateKey(sk.d, sk.pub.point, encoding)
}

// SerializePEM returns the key as a PEM "EC PRIVATE KEY" block holding the
// DER ECPrivateKey structure.
func (sk *SigningKey) SerializePEM(encoding PointEncoding) ([]byte, error) {
	der, err := sk.SerializeDER(encoding)
	if err != nil {
		return nil, err
	}
	return pemEncode(der, pemLabelECPrivateKey), nil
}

// Sign generates an ECDSA signature for the message, digested with the
// provided hash function (the key's default when nil) and serialized with
// the provided encoder (the fixed-width codec when nil).
//
// When k is non-nil it is used directly as the nonce and MUST be unique
// and unpredictable per message; reusing a nonce or revealing bits of it
// leaks the private key.  When k is nil a nonce is drawn from the entropy
// source, or from the system CSPRNG when that is nil too.
//
// In the astronomically unlikely event the nonce leads to an r or s of
// zero the signing fails with kind ErrRSIsZero rather than silently
// retrying; SignDeterministic recovers from that case internally and never
// fails with it.
func (sk *SigningKey) Sign(entropy io.Reader, message []byte, hashFunc func() hash.Hash,
	sigEncode SignatureEncoder, k *big.Int) ([]byte, error) {

	if hashFunc == nil {
		hashFunc = sk.hashFunc
	}
	h := hashFunc()
	h.Write(message)
	return sk.SignDigest(entropy, h.Sum(nil), sigEncode, k)
}

// SignDigest is the digest-input variant of Sign.  The digest must not be
// longer than the curve's base length, else the operation fails with kind
// ErrDigestTooLong.
func (sk *SigningKey) SignDigest(entropy io.Reader, digest []byte,
	sigEncode SignatureEncoder, k *big.Int) ([]byte, error) {

	if err := sk.checkDigestLen(digest); err != nil {
		return nil, err
	}
	if k == nil {
		var err error
		k, err = randRange(sk.curve.N, entropy)
		if err != nil {
			return nil, err
		}
	}

	e := hashToNumber(digest, sk.curve.N)
	r, s, err := signNumber(sk.curve, sk.d, k, e)
	if err != nil {
		return nil, err
	}
	return sk.encodeSignature(r, s, sigEncode)
}

// SignDeterministic generates a deterministic ECDSA signature for the
// message per RFC 6979: the nonce is derived from the key and the digest,
// so the same message, key, hash, and extra entropy always yield the same
// signature bytes and no randomness is consumed.
//
// The optional extraEntropy is mixed into the nonce derivation as
// described by section 3.6 of the RFC; it changes which signature is
// produced but not its validity, and nil selects the plain derivation.
func (sk *SigningKey) SignDeterministic(message []byte, hashFunc func() hash.Hash,
	sigEncode SignatureEncoder, extraEntropy []byte) ([]byte, error) {

	if hashFunc == nil {
		hashFunc = sk.hashFunc
	}
	h := hashFunc()
	h.Write(message)
	return sk.SignDigestDeterministic(h.Sum(nil), hashFunc, sigEncode, extraEntropy)
}

// SignDigestDeterministic is the digest-input variant of
// SignDeterministic.  The hash function should be the one that produced
// the digest for the nonce derivation to match the RFC 6979 vectors.
func (sk *SigningKey) SignDigestDeterministic(digest []byte, hashFunc func() hash.Hash,
	sigEncode SignatureEncoder, extraEntropy []byte) ([]byte, error) {

	if err := sk.checkDigestLen(digest); err != nil {
		return nil, err
	}
	if hashFunc == nil {
		hashFunc = sk.hashFunc
	}

	// The nonce stream virtually always yields a usable signature on the
	// first candidate.  When it does not, the retry counter instructs the
	// generator to discard the candidates already seen so each retry works
	// with a fresh nonce and no state leaks across retries.
	e := hashToNumber(digest, sk.curve.N)
	for retries := uint32(0); ; retries++ {
		k := NonceRFC6979(sk.curve.N, sk.d, hashFunc, digest, extraEntropy, retries)
		r, s, err := signNumber(sk.curve, sk.d, k, e)
		k.SetInt64(0)
		if err != nil {
			continue
		}
		return sk.encodeSignature(r, s, sigEncode)
	}
}

// checkDigestLen fails with kind ErrDigestTooLong when the digest exceeds
// the curve's base length.
func (sk *SigningKey) checkDigestLen(digest []byte) error {
	if len(digest) > sk.curve.baseLen {
		str := fmt.Sprintf("this curve (%s) is too short for a digest of %d bits",
			sk.curve.Name, 8*len(digest))
		return makeError(ErrDigestTooLong, str)
	}
	return nil
}

// encodeSignature runs the encoder, defaulting to the fixed-width codec.
func (sk *SigningKey) encodeSignature(r, s *big.Int, sigEncode SignatureEncoder) ([]byte, error) {
	if sigEncode == nil {
		sigEncode = SigEncodeString
	}
	return sigEncode(r, s, sk.curve.N)
}
