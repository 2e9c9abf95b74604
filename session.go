package quorum

import (
	"fmt"

	"github.com/google/uuid"
)

// SigningSession is an explicit, immutable description of one signing
// exchange: which wallet, which signer subset, which transaction. The core
// functions stay pure and stateless; the session exists so that round 2 and
// aggregation inputs can be validated against what was agreed at session
// start, turning silent context divergence into a detected error.
type SigningSession struct {
	ID      string
	Curve   Curve
	Wallet  *GroupWallet
	Signers []ParticipantIndex
	Details *TransferDetails

	digest [32]byte
}

// NewSigningSession opens a session for the given signer subset. A nil
// signers slice means every wallet participant signs. The subset must be at
// least the wallet threshold: a session that could never clear the gate is
// refused up front.
func NewSigningSession(curve Curve, wallet *GroupWallet, signers []ParticipantIndex, details *TransferDetails) (*SigningSession, error) {
	if signers == nil {
		signers = make([]ParticipantIndex, 0, len(wallet.Participants))
		for _, p := range wallet.Participants {
			signers = append(signers, p.Index)
		}
	}
	if len(signers) < wallet.Threshold {
		return nil, fmt.Errorf("signer set of %d is below threshold %d", len(signers), wallet.Threshold)
	}
	seen := make(map[ParticipantIndex]bool, len(signers))
	for _, s := range signers {
		if _, ok := wallet.Participant(s); !ok {
			return nil, ErrUnknownParticipant
		}
		if seen[s] {
			return nil, ErrDuplicateParticipant
		}
		seen[s] = true
	}

	digest, err := details.ContextDigest()
	if err != nil {
		return nil, err
	}

	return &SigningSession{
		ID:      uuid.NewString(),
		Curve:   curve,
		Wallet:  wallet,
		Signers: signers,
		Details: details,
		digest:  digest,
	}, nil
}

// ContextDigest returns the session's transaction context digest. All round
// data exchanged for this session must carry this exact value.
func (s *SigningSession) ContextDigest() [32]byte {
	return s.digest
}

// Commit runs round 1 for one of the session's signers.
func (s *SigningSession) Commit(secret *ParticipantSecret) (*NonceSecret, *NonceCommitment, error) {
	if !s.isSigner(secret.Index()) {
		return nil, nil, ErrUnknownParticipant
	}
	return Commit(s.Curve, secret, s.Details)
}

// PartialSign runs round 2, additionally checking that the commitment set is
// exactly the session's signer set and that every commitment was made for
// this session's context.
func (s *SigningSession) PartialSign(secret *ParticipantSecret, nonce *NonceSecret, commitments []*NonceCommitment) (*PartialSignature, error) {
	if len(commitments) != len(s.Signers) {
		return nil, fmt.Errorf("expected commitments from all %d signers, got %d", len(s.Signers), len(commitments))
	}
	for _, c := range commitments {
		if c == nil {
			return nil, ErrMalformedNonce
		}
		if !s.isSigner(c.Participant.Index) {
			return nil, ErrUnknownParticipant
		}
		if c.ContextDigest != s.digest {
			return nil, ErrContextMismatch
		}
	}
	return PartialSign(s.Curve, secret, nonce, s.Details, commitments, s.Wallet)
}

// Aggregate combines the session's partial signatures into the final
// transaction signature.
func (s *SigningSession) Aggregate(partials []*PartialSignature) (*CompleteSignature, error) {
	for _, p := range partials {
		if p != nil && !s.isSigner(p.Participant.Index) {
			return nil, ErrUnknownParticipant
		}
	}
	return AggregateSignatures(s.Curve, partials, s.Details, s.Wallet)
}

func (s *SigningSession) isSigner(index ParticipantIndex) bool {
	for _, signer := range s.Signers {
		if signer == index {
			return true
		}
	}
	return false
}
