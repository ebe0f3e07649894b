// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	stdecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"testing"
)

// TestEllipticAdaptorMatchesStdlib ensures the adaptor arithmetic agrees
// with the standard library implementation of P-256.
func TestEllipticAdaptorMatchesStdlib(t *testing.T) {
	ours := P256.ToElliptic()
	std := elliptic.P256()

	k := fromHex("2e09ab4b7d3e6c1d9f5a00c8d1b44f6a")
	wantX, wantY := std.ScalarBaseMult(k.Bytes())
	gotX, gotY := ours.ScalarBaseMult(k.Bytes())
	if gotX.Cmp(wantX) != 0 || gotY.Cmp(wantY) != 0 {
		t.Fatal("ScalarBaseMult disagrees with crypto/elliptic")
	}

	x2, y2 := std.Double(wantX, wantY)
	gx2, gy2 := ours.Double(gotX, gotY)
	if gx2.Cmp(x2) != 0 || gy2.Cmp(y2) != 0 {
		t.Fatal("Double disagrees with crypto/elliptic")
	}

	x3, y3 := std.Add(wantX, wantY, x2, y2)
	gx3, gy3 := ours.Add(gotX, gotY, gx2, gy2)
	if gx3.Cmp(x3) != 0 || gy3.Cmp(y3) != 0 {
		t.Fatal("Add disagrees with crypto/elliptic")
	}

	if !ours.IsOnCurve(gx3, gy3) {
		t.Fatal("sum reported off curve")
	}

	m := big.NewInt(97531)
	sx, sy := std.ScalarMult(wantX, wantY, m.Bytes())
	osx, osy := ours.ScalarMult(gotX, gotY, m.Bytes())
	if osx.Cmp(sx) != 0 || osy.Cmp(sy) != 0 {
		t.Fatal("ScalarMult disagrees with crypto/elliptic")
	}
}

// TestToECDSA ensures converted keys interoperate with the standard
// library crypto/ecdsa signing and verification.
func TestToECDSA(t *testing.T) {
	sk, err := GenerateSigningKey(P256, nil, sha256.New)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stdPriv := sk.ToECDSA()
	digest := sha256.Sum256([]byte("interop"))
	r, s, err := stdecdsa.Sign(rand.Reader, stdPriv, digest[:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The standard library signature must verify through this package.
	sig, err := SigEncodeString(r, s, P256.N)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sk.VerifyingKey().VerifyDigest(sig, digest[:], nil); err != nil {
		t.Fatalf("stdlib signature did not verify: %v", err)
	}

	// And the converted public key must verify through the standard
	// library.
	if !stdecdsa.Verify(&stdPriv.PublicKey, digest[:], r, s) {
		t.Fatal("stdlib rejected its own signature through the adaptor")
	}
}
