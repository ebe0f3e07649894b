// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"crypto/hmac"
	"hash"
	"math/big"
)

// References:
//   [RFC6979]: Deterministic Usage of the Digital Signature Algorithm (DSA)
//     and Elliptic Curve Digital Signature Algorithm (ECDSA)
//     https://tools.ietf.org/html/rfc6979

// hmacDRBG is the HMAC-based deterministic bit generator of [RFC6979]
// section 3.2, instantiated with the hash function that was used to digest
// the message being signed.  The generator maintains the V and K state
// octets across candidate generations; each call to generate advances the
// state so subsequent candidates are fresh.
type hmacDRBG struct {
	newHash func() hash.Hash
	k, v    []byte
}

// mac computes HMAC with the generator's hash over the concatenation of the
// provided data chunks using the current K state as the key.
func (g *hmacDRBG) mac(data ...[]byte) []byte {
	m := hmac.New(g.newHash, g.k)
	for _, chunk := range data {
		m.Write(chunk)
	}
	return m.Sum(nil)
}

// newHMACDRBG returns a generator seeded per steps b through g of [RFC6979]
// section 3.2 with the provided seed material.
func newHMACDRBG(newHash func() hash.Hash, seed []byte) *hmacDRBG {
	holen := newHash().Size()
	g := &hmacDRBG{newHash: newHash}

	// Step b.
	//
	// V = 0x01 0x01 0x01 ... 0x01 such that the length of V, in bits, is
	// equal to 8*ceil(hashLen/8).
	g.v = make([]byte, holen)
	for i := range g.v {
		g.v[i] = 0x01
	}

	// Step c.
	//
	// K = 0x00 0x00 0x00 ... 0x00 such that the length of K, in bits, is
	// equal to 8*ceil(hashLen/8).
	g.k = make([]byte, holen)

	// Step d.
	//
	// K = HMAC_K(V || 0x00 || seed)
	g.k = g.mac(g.v, []byte{0x00}, seed)

	// Step e.
	//
	// V = HMAC_K(V)
	g.v = g.mac(g.v)

	// Step f.
	//
	// K = HMAC_K(V || 0x01 || seed)
	g.k = g.mac(g.v, []byte{0x01}, seed)

	// Step g.
	//
	// V = HMAC_K(V)
	g.v = g.mac(g.v)

	return g
}

// generate produces the next candidate bit string of at least qlen bits and
// advances the generator state so the following call yields a fresh
// candidate.
func (g *hmacDRBG) generate(qlen int) []byte {
	// Step h2.
	//
	// While tlen < qlen, set:
	// V = HMAC_K(V)
	// T = T || V
	var t []byte
	for len(t)*8 < qlen {
		g.v = g.mac(g.v)
		t = append(t, g.v...)
	}

	// Step h3 state update for the rejection path.  Performing it
	// unconditionally keeps every candidate independent of whether its
	// predecessor was accepted.
	//
	// K = HMAC_K(V || 0x00)
	// V = HMAC_K(V)
	g.k = g.mac(g.v, []byte{0x00})
	g.v = g.mac(g.v)

	return t
}

// bits2int interprets the bit string as a big-endian integer and keeps only
// the leftmost qlen bits per [RFC6979] section 2.3.2.
func bits2int(b []byte, qlen int) *big.Int {
	v := new(big.Int).SetBytes(b)
	if excess := len(b)*8 - qlen; excess > 0 {
		v.Rsh(v, uint(excess))
	}
	return v
}

// bits2octets transforms a bit string into the fixed-width octet string of
// its value modulo the order, per [RFC6979] section 2.3.4.
func bits2octets(b []byte, order *big.Int, rolen int) []byte {
	z1 := bits2int(b, order.BitLen())
	z2 := new(big.Int).Sub(z1, order)
	if z2.Sign() < 0 {
		z2 = z1
	}
	return intToOctets(z2, rolen)
}

// NonceRFC6979 deterministically derives an ECDSA nonce in [1, order-1] for
// the given secret scalar and message digest per [RFC6979] section 3.2.
//
// The hash function must be the one that produced the digest for the
// derivation to match the RFC test vectors, although any hash yields a
// well-distributed nonce.
//
// The optional extraEntropy is appended to the seed material as described
// by section 3.6 of the RFC, yielding a different (but still deterministic)
// nonce stream; pass nil for the plain RFC derivation.
//
// The extraIterations count instructs the generator to discard that many
// preliminary in-range candidates before returning one.  It is the
// mechanism by which a signer recovers from the rare r=0 or s=0 signing
// outcome without randomness: retry with extraIterations incremented and a
// fresh nonce is produced with no state carried across retries.
func NonceRFC6979(order *big.Int, privKey *big.Int, hashFunc func() hash.Hash,
	digest []byte, extraEntropy []byte, extraIterations uint32) *big.Int {

	if hashFunc == nil {
		hashFunc = defaultHash
	}

	qlen := order.BitLen()
	rolen := (qlen + 7) / 8

	// Step a is performed by the caller, which supplies H(m) as digest.
	//
	// The seed material is int2octets(x) || bits2octets(h1), extended with
	// the caller's extra entropy when provided.
	privOctets := intToOctets(privKey, rolen)
	seed := make([]byte, 0, 2*rolen+len(extraEntropy))
	seed = append(seed, privOctets...)
	seed = append(seed, bits2octets(digest, order, rolen)...)
	seed = append(seed, extraEntropy...)

	g := newHMACDRBG(hashFunc, seed)
	zeroBytes(seed)
	zeroBytes(privOctets)

	// Step h.
	//
	// Generate candidates until one is in [1, order-1], discarding the
	// requested number of preliminary ones.
	for {
		k := bits2int(g.generate(qlen), qlen)
		if k.Sign() == 0 || k.Cmp(order) >= 0 {
			continue
		}
		if extraIterations > 0 {
			extraIterations--
			continue
		}
		return k
	}
}
