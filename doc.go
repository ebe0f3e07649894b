// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ecdsa implements the Elliptic Curve Digital Signature Algorithm over
short-Weierstrass curves in pure Go.

This package provides signing and verifying key types over a registry of
named curves (the NIST P-192 through P-521 curves and secp256k1) together
with the primitives they are built from: arbitrary-precision finite-field
and curve-group arithmetic, modular square roots for point decompression,
deterministic nonce derivation per RFC 6979, and the standard serialization
formats.  See https://www.secg.org/sec1-v2.pdf for details on the point and
private key encodings and https://www.secg.org/sec2-v2.pdf for the curve
parameters.

An overview of the features provided by this package are as follows:

  - Signing key generation, serialization, and parsing
  - Verifying key serialization and parsing in the SEC1 raw, uncompressed,
    compressed, and hybrid point formats
  - SEC1 ECPrivateKey and X.509 SubjectPublicKeyInfo DER structures with
    PEM armoring
  - ECDSA signature generation with a caller-supplied nonce, a random
    nonce, or a deterministic nonce per RFC 6979 with support for extra
    entropy and retry iterations
  - ECDSA signature verification and public key recovery
  - Signature serialization both as fixed-width big-endian pairs and with
    the more strict Distinguished Encoding Rules (DER) of ISO/IEC 8825-1
  - Elliptic curve operations over arbitrary short-Weierstrass curves:
    point addition, doubling, negation, scalar multiplication, and point
    decompression from a given x coordinate

The hash function, entropy source, and signature codec consumed by the key
types are pluggable: hashes are ordinary func() hash.Hash constructors,
entropy is an io.Reader, and signature encoders/decoders are function
values with two built-in implementations.

It also provides an implementation of the Go standard library
crypto/elliptic Curve interface via the ToElliptic method of each registry
curve so that the curves may be used with other packages in the standard
library such as crypto/tls, crypto/x509, and crypto/ecdsa.

A comprehensive suite of tests is provided to ensure proper functionality,
including the RFC 6979 appendix A.2 test vectors.
*/
package ecdsa
