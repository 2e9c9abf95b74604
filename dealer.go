package quorum

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DealerResult is the output of a trusted-dealer key generation ceremony:
// one secret share per participant, the matching verification keys, and the
// aggregated group wallet. The dealer's polynomial is destroyed before the
// result is returned.
type DealerResult struct {
	Secrets []*ParticipantSecret
	Wallet  *GroupWallet
}

// DealKeys splits a fresh random group secret into numShares Shamir shares
// with the given threshold. Participant indices are assigned 1..numShares.
//
// The dealer briefly holds the full group secret, so this ceremony suits
// development and single-operator deployments; groups of mutually distrusting
// participants should run the DKG in keygen.go instead.
func DealKeys(curve Curve, threshold, numShares int) (*DealerResult, error) {
	secret, err := curve.ScalarRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate group secret: %w", err)
	}
	return dealFromSecret(curve, threshold, numShares, secret)
}

// DealKeysFromSeed is the deterministic variant of DealKeys: the group secret
// and all polynomial coefficients are derived from the seed via HKDF, so the
// same seed always yields the same shares. Intended for recovery flows and
// reproducible test fixtures.
func DealKeysFromSeed(curve Curve, threshold, numShares int, seed []byte) (*DealerResult, error) {
	if len(seed) < 16 {
		return nil, fmt.Errorf("seed must be at least 16 bytes, got %d", len(seed))
	}

	reader := hkdf.New(sha256.New, seed, []byte("QUORUM_DEALER_SEED_v1"), []byte(curve.Name()))

	scalarFromKDF := func() (Scalar, error) {
		buf := make([]byte, 64)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, fmt.Errorf("HKDF expansion failed: %w", err)
		}
		s, err := curve.ScalarFromUniformBytes(buf)
		for i := range buf {
			buf[i] = 0
		}
		return s, err
	}

	if err := validateDealerParams(threshold, numShares); err != nil {
		return nil, err
	}

	coefficients := make([]Scalar, threshold)
	for i := range coefficients {
		coeff, err := scalarFromKDF()
		if err != nil {
			return nil, err
		}
		coefficients[i] = coeff
	}
	poly, err := newPolynomial(curve, coefficients)
	if err != nil {
		return nil, err
	}
	return dealFromPolynomial(curve, threshold, numShares, poly)
}

func dealFromSecret(curve Curve, threshold, numShares int, secret Scalar) (*DealerResult, error) {
	if err := validateDealerParams(threshold, numShares); err != nil {
		return nil, err
	}
	poly, err := newRandomPolynomial(curve, threshold-1, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to build dealer polynomial: %w", err)
	}
	return dealFromPolynomial(curve, threshold, numShares, poly)
}

func dealFromPolynomial(curve Curve, threshold, numShares int, poly *polynomial) (*DealerResult, error) {
	defer poly.zeroize()

	secrets := make([]*ParticipantSecret, numShares)
	keys := make([]ParticipantKey, numShares)
	for i := 0; i < numShares; i++ {
		index := ParticipantIndex(i + 1)
		x, err := index.ToScalar(curve)
		if err != nil {
			return nil, err
		}
		share := poly.evaluate(x)
		secrets[i] = NewParticipantSecret(index, share)
		keys[i] = secrets[i].PublicKey(curve)
	}

	wallet, err := AggregateKeys(curve, keys, threshold)
	if err != nil {
		return nil, err
	}

	return &DealerResult{Secrets: secrets, Wallet: wallet}, nil
}

func validateDealerParams(threshold, numShares int) error {
	if threshold < 1 {
		return ErrInvalidThreshold
	}
	if numShares < threshold {
		return ErrInvalidThreshold
	}
	if numShares > 255 {
		return fmt.Errorf("share count %d exceeds maximum 255", numShares)
	}
	return nil
}
