// Copyright (c) 2023-2024 The qmulos developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"encoding/asn1"
	"errors"
	"math/big"
	"testing"
)

// TestCurveRegistry ensures every registry curve carries consistent
// parameters and resolves by both name and object identifier to the same
// singleton.
func TestCurveRegistry(t *testing.T) {
	wantBaseLens := map[string]int{
		"NIST192p":  24,
		"NIST224p":  28,
		"NIST256p":  32,
		"NIST384p":  48,
		"NIST521p":  66,
		"SECP256k1": 32,
	}

	for _, curve := range Curves() {
		if got := curve.BaseLen(); got != wantBaseLens[curve.Name] {
			t.Errorf("%s: base length %d, want %d", curve.Name, got,
				wantBaseLens[curve.Name])
		}

		// The discriminant 4a^3 + 27b^2 must not vanish modulo P.
		a3 := new(big.Int).Exp(curve.A, big.NewInt(3), curve.P)
		a3.Mul(a3, big.NewInt(4))
		b2 := new(big.Int).Mul(curve.B, curve.B)
		b2.Mul(b2, big.NewInt(27))
		disc := new(big.Int).Add(a3, b2)
		disc.Mod(disc, curve.P)
		if disc.Sign() == 0 {
			t.Errorf("%s: singular curve", curve.Name)
		}

		// P must be an odd prime and N prime for the supported curves.
		if !curve.P.ProbablyPrime(32) || curve.P.Bit(0) != 1 {
			t.Errorf("%s: field prime is not an odd prime", curve.Name)
		}
		if !curve.N.ProbablyPrime(32) {
			t.Errorf("%s: group order is not prime", curve.Name)
		}

		byName, err := CurveByName(curve.Name)
		if err != nil || byName != curve {
			t.Errorf("%s: lookup by name did not return the singleton", curve.Name)
		}
		byOID, err := CurveByOID(curve.OID())
		if err != nil || byOID != curve {
			t.Errorf("%s: lookup by OID did not return the singleton", curve.Name)
		}
	}
}

// TestCurveLookupUnknown ensures unknown names and object identifiers fail
// with the expected error kind.
func TestCurveLookupUnknown(t *testing.T) {
	if _, err := CurveByName("brainpoolP256r1"); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("unexpected error for unknown name: %v", err)
	}
	oid := asn1.ObjectIdentifier{1, 3, 132, 0, 99}
	if _, err := CurveByOID(oid); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("unexpected error for unknown OID: %v", err)
	}
}
