// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"crypto/rand"
	"crypto/sha256"
	"hash"
	"io"
	"math/big"
)

// defaultHash is the digest used by keys constructed without an explicit
// hash function.
func defaultHash() hash.Hash {
	return sha256.New()
}

// intToOctets returns the value serialized as a fixed-width big-endian byte
// string of the given length, left-padded with zeros.  The value must fit.
func intToOctets(v *big.Int, length int) []byte {
	return v.FillBytes(make([]byte, length))
}

// octetsToInt interprets the bytes as an unsigned big-endian integer.
func octetsToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// hashToNumber converts a digest to the integer used by the signing and
// verification equations: the leftmost bitlen(N) bits of the digest,
// interpreted as a big-endian integer, reduced modulo N.  This is the
// bits2int transform from RFC 6979 section 2.3.2 followed by the modular
// reduction the ECDSA equations operate under.
func hashToNumber(digest []byte, order *big.Int) *big.Int {
	e := new(big.Int).SetBytes(digest)
	if excess := len(digest)*8 - order.BitLen(); excess > 0 {
		e.Rsh(e, uint(excess))
	}
	return e.Mod(e, order)
}

// randRange returns a uniformly distributed integer in the range
// [1, order-1] read from the provided entropy source, or from the system
// CSPRNG when the source is nil.  Candidates outside the range are
// discarded so no bias is introduced by the reduction.
func randRange(order *big.Int, entropy io.Reader) (*big.Int, error) {
	if entropy == nil {
		entropy = rand.Reader
	}

	// Draw bitlen(order) bits and reject values outside [1, order-1].
	// Each attempt succeeds with probability of roughly 1/2 or better, so
	// the loop terminates quickly.
	byteLen := (order.BitLen() + 7) / 8
	excessBits := uint(byteLen*8 - order.BitLen())
	buf := make([]byte, byteLen)
	for {
		if _, err := io.ReadFull(entropy, buf); err != nil {
			return nil, err
		}
		k := new(big.Int).SetBytes(buf)
		k.Rsh(k, excessBits)
		if k.Sign() != 0 && k.Cmp(order) < 0 {
			zeroBytes(buf)
			return k, nil
		}
	}
}

// zeroBytes overwrites the slice with zeros.  It is used to scrub secret
// material such as nonces and private scalars from transient buffers.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
