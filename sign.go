// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"crypto"
	"io"
)

// SignOptions can be passed to the crypto.Signer Sign method to convey the
// hash function that produced the digest.
type SignOptions struct {
	Hash crypto.Hash
}

// HashFunc returns the hash the digest was produced with.
//
// This is part of the crypto.SignerOpts interface implementation.
func (s *SignOptions) HashFunc() crypto.Hash {
	return s.Hash
}

// cryptoSigner adapts a SigningKey to the standard library crypto.Signer
// interface.
type cryptoSigner struct {
	sk *SigningKey
}

// Public returns the verifying key.
//
// This is part of the crypto.Signer interface implementation.
func (c cryptoSigner) Public() crypto.PublicKey {
	return c.sk.VerifyingKey()
}

// Sign signs the provided pre-hashed digest and returns a DER signature.
//
// When rand is nil the nonce is derived deterministically per RFC 6979
// using the hash conveyed by opts (the key's default when unavailable);
// otherwise a random nonce is drawn from rand.
//
// This is part of the crypto.Signer interface implementation.
func (c cryptoSigner) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	if rand != nil {
		return c.sk.SignDigest(rand, digest, SigEncodeDER, nil)
	}

	hashFunc := c.sk.hashFunc
	if opts != nil && opts.HashFunc() != crypto.Hash(0) && opts.HashFunc().Available() {
		hashFunc = opts.HashFunc().New
	}
	return c.sk.SignDigestDeterministic(digest, hashFunc, SigEncodeDER, nil)
}

// Signer returns the key adapted to the standard library crypto.Signer
// interface, signing digests and producing DER signatures, so the key can
// be used with packages such as crypto/tls.
func (sk *SigningKey) Signer() crypto.Signer {
	return cryptoSigner{sk: sk}
}
