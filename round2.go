package quorum

import (
	"fmt"
)

// Round 2: partial signing. Runs only after every signer's round 1 output
// has been collected; all signers must supply the identical commitment set
// and identical transaction context or their outputs will not combine.

// PartialSignature is one participant's contribution to the group signature.
// It is meaningless alone: it verifies and combines only with the matching
// contributions from the same commitment set and context.
type PartialSignature struct {
	Participant   ParticipantKey
	PublicNonce   Point
	Response      Scalar
	ContextDigest [32]byte
}

// Bytes returns the 64-byte wire form R_i || s_i (on Ed25519).
func (ps *PartialSignature) Bytes() []byte {
	out := make([]byte, 0, len(ps.PublicNonce.CompressedBytes())+len(ps.Response.Bytes()))
	out = append(out, ps.PublicNonce.CompressedBytes()...)
	return append(out, ps.Response.Bytes()...)
}

// PartialSignatureFromBytes parses the R_i || s_i wire form.
func PartialSignatureFromBytes(curve Curve, participant ParticipantKey, digest [32]byte, data []byte) (*PartialSignature, error) {
	if len(data) != curve.PointSize()+curve.ScalarSize() {
		return nil, ErrMalformedSignature.WithCause(fmt.Errorf("got %d bytes, want %d", len(data), curve.PointSize()+curve.ScalarSize()))
	}
	nonce, err := curve.PointFromBytes(data[:curve.PointSize()])
	if err != nil {
		return nil, ErrMalformedSignature.WithCause(err)
	}
	response, err := curve.ScalarFromBytes(data[curve.PointSize():])
	if err != nil {
		return nil, ErrMalformedSignature.WithCause(err)
	}
	return &PartialSignature{
		Participant:   participant,
		PublicNonce:   nonce,
		Response:      response,
		ContextDigest: digest,
	}, nil
}

// PartialSign runs round 2 for one participant: it combines the collected
// public nonces into the session nonce R, derives the challenge over the
// canonical message bytes, and produces
//
//	s_i = r_i + c·λ_i·x_i
//
// where λ_i is the Lagrange coefficient of this participant over the signer
// subset. The secret nonce is burned before returning; a second call with
// the same nonce fails with ErrNonceReuse.
func PartialSign(
	curve Curve,
	secret *ParticipantSecret,
	nonce *NonceSecret,
	details *TransferDetails,
	commitments []*NonceCommitment,
	wallet *GroupWallet,
) (*PartialSignature, error) {
	if secret == nil || nonce == nil {
		return nil, fmt.Errorf("secret material is nil")
	}
	if nonce.spent {
		return nil, ErrNonceReuse
	}
	if nonce.index != secret.Index() {
		return nil, fmt.Errorf("nonce belongs to participant %d, secret to %d", nonce.index, secret.Index())
	}

	digest, err := details.ContextDigest()
	if err != nil {
		return nil, err
	}
	if nonce.digest != digest {
		return nil, ErrContextMismatch
	}
	if err := validateCommitments(curve, commitments, wallet, digest); err != nil {
		return nil, err
	}
	if len(commitments) < wallet.Threshold {
		return nil, fmt.Errorf("signer set of %d is below threshold %d", len(commitments), wallet.Threshold)
	}

	// Our own commitment must be part of the set, and must be the one this
	// secret nonce produced.
	ownNonce := curve.BasePoint().Mul(nonce.nonce)
	ownPresent := false
	signers := make([]ParticipantIndex, 0, len(commitments))
	groupNonce := curve.PointIdentity()
	for _, c := range commitments {
		signers = append(signers, c.Participant.Index)
		groupNonce = groupNonce.Add(c.PublicNonce)
		if c.Participant.Index == secret.Index() {
			if !c.PublicNonce.Equal(ownNonce) {
				return nil, fmt.Errorf("commitment set carries a different nonce for participant %d", secret.Index())
			}
			ownPresent = true
		}
	}
	if !ownPresent {
		return nil, fmt.Errorf("own commitment missing from commitment set")
	}

	message, err := EncodeTransfer(details)
	if err != nil {
		return nil, err
	}
	challenge, err := signingChallenge(curve, groupNonce, wallet.AggregatedKey, message)
	if err != nil {
		return nil, err
	}
	coeff, err := lagrangeCoefficient(curve, secret.Index(), signers)
	if err != nil {
		return nil, err
	}

	response := nonce.nonce.Add(challenge.Mul(coeff).Mul(secret.share))
	nonce.Burn()

	return &PartialSignature{
		Participant:   secret.PublicKey(curve),
		PublicNonce:   ownNonce,
		Response:      response,
		ContextDigest: digest,
	}, nil
}
