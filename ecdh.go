// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

// GenerateSharedSecret generates a shared secret based on a signing key
// and a verifying key on the same curve using Diffie-Hellman key exchange
// (ECDH) (RFC 5903).  RFC5903 Section 9 states we should only return x,
// serialized as a fixed-width value of the curve's base length.
//
// It is recommended to securely hash the result before using it as a
// cryptographic key.  The keys must share a curve; mixing curves is a
// programming error and causes a panic.
func GenerateSharedSecret(sk *SigningKey, vk *VerifyingKey) []byte {
	if sk.curve != vk.curve {
		panic("ecdsa: ECDH keys on different curves")
	}
	shared := vk.point.Mul(sk.d)
	return intToOctets(shared.X(), sk.curve.baseLen)
}
