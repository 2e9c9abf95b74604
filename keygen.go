package quorum

import (
	"fmt"
)

// Distributed key generation. Each participant runs a KeygenSession; no one
// ever holds the group secret. Round 1 publishes a commitment to each
// participant's polynomial constant term with a proof of knowledge; Round 2
// distributes polynomial evaluations (the Shamir shares) together with public
// commitments to every evaluation, so all participants can derive the full
// set of verification keys and the same group wallet.

// KeygenRound1 is one participant's first-round broadcast.
type KeygenRound1 struct {
	ParticipantID ParticipantIndex
	Commitment    Point
	Proof         *SchnorrProof
}

// KeygenRound2 is one participant's second-round message. Shares are
// addressed per recipient and must travel over private channels; the share
// commitments are public.
type KeygenRound2 struct {
	ParticipantID    ParticipantIndex
	Shares           map[ParticipantIndex]Scalar
	ShareCommitments map[ParticipantIndex]Point
}

// KeygenResult is the local outcome of the ceremony: this participant's
// secret share and the group wallet every honest participant agrees on.
type KeygenResult struct {
	Secret *ParticipantSecret
	Wallet *GroupWallet
}

// KeygenSession tracks one participant's state across the two rounds.
type KeygenSession struct {
	curve         Curve
	participantID ParticipantIndex
	participants  []ParticipantIndex
	threshold     int

	poly             *polynomial
	round1           *KeygenRound1
	commitments      map[ParticipantIndex]Point
	shares           map[ParticipantIndex]Scalar
	shareCommitments map[ParticipantIndex]map[ParticipantIndex]Point

	processedRound1 bool
	processedRound2 bool
}

// NewKeygenSession creates a keygen session for one participant.
func NewKeygenSession(curve Curve, participantID ParticipantIndex, participants []ParticipantIndex, threshold int) (*KeygenSession, error) {
	if threshold < 1 || threshold > len(participants) {
		return nil, ErrInvalidThreshold
	}

	seen := make(map[ParticipantIndex]bool, len(participants))
	for _, pid := range participants {
		if pid == 0 {
			return nil, fmt.Errorf("participant index must be nonzero")
		}
		if seen[pid] {
			return nil, ErrDuplicateParticipant
		}
		seen[pid] = true
	}
	if !seen[participantID] {
		return nil, ErrUnknownParticipant
	}

	return &KeygenSession{
		curve:            curve,
		participantID:    participantID,
		participants:     participants,
		threshold:        threshold,
		commitments:      make(map[ParticipantIndex]Point),
		shares:           make(map[ParticipantIndex]Scalar),
		shareCommitments: make(map[ParticipantIndex]map[ParticipantIndex]Point),
	}, nil
}

// Round1 samples this participant's polynomial and returns the broadcast
// commitment to its constant term.
func (ks *KeygenSession) Round1() (*KeygenRound1, error) {
	if ks.round1 != nil {
		return nil, fmt.Errorf("Round1 already executed")
	}

	constant, err := ks.curve.ScalarRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate polynomial constant: %w", err)
	}
	poly, err := newRandomPolynomial(ks.curve, ks.threshold-1, constant)
	if err != nil {
		return nil, err
	}
	ks.poly = poly

	commitment := ks.curve.BasePoint().Mul(constant)
	proof, err := NewSchnorrProof(ks.curve, constant, commitment)
	if err != nil {
		return nil, err
	}

	ks.round1 = &KeygenRound1{
		ParticipantID: ks.participantID,
		Commitment:    commitment,
		Proof:         proof,
	}
	return ks.round1, nil
}

// ProcessRound1 validates and stores the other participants' commitments.
func (ks *KeygenSession) ProcessRound1(round1Data []*KeygenRound1) error {
	if ks.round1 == nil {
		return fmt.Errorf("Round1 must be called before ProcessRound1")
	}
	if ks.processedRound1 {
		return fmt.Errorf("round 1 already processed")
	}
	if len(round1Data) != len(ks.participants)-1 {
		return fmt.Errorf("expected %d round 1 messages, got %d", len(ks.participants)-1, len(round1Data))
	}

	for _, data := range round1Data {
		if !ks.isParticipant(data.ParticipantID) {
			return ErrUnknownParticipant
		}
		if _, exists := ks.commitments[data.ParticipantID]; exists || data.ParticipantID == ks.participantID {
			return ErrDuplicateParticipant
		}
		if data.Commitment == nil || data.Commitment.IsIdentity() {
			return fmt.Errorf("invalid commitment from participant %d", data.ParticipantID)
		}
		if !data.Proof.Verify(ks.curve, data.Commitment) {
			return fmt.Errorf("invalid proof of knowledge from participant %d", data.ParticipantID)
		}
		ks.commitments[data.ParticipantID] = data.Commitment
	}

	ks.processedRound1 = true
	return nil
}

// Round2 evaluates this participant's polynomial for every other participant
// and returns the shares plus public commitments to every evaluation.
func (ks *KeygenSession) Round2() (*KeygenRound2, error) {
	if !ks.processedRound1 {
		return nil, fmt.Errorf("ProcessRound1 must be called before Round2")
	}

	shares := make(map[ParticipantIndex]Scalar)
	shareCommitments := make(map[ParticipantIndex]Point, len(ks.participants))

	for _, pid := range ks.participants {
		x, err := pid.ToScalar(ks.curve)
		if err != nil {
			return nil, err
		}
		eval := ks.poly.evaluate(x)
		shareCommitments[pid] = ks.curve.BasePoint().Mul(eval)
		if pid != ks.participantID {
			shares[pid] = eval
		}
	}

	return &KeygenRound2{
		ParticipantID:    ks.participantID,
		Shares:           shares,
		ShareCommitments: shareCommitments,
	}, nil
}

// ProcessRound2 consumes the other participants' shares, verifies each share
// against its sender's public commitment, and finalizes the ceremony.
func (ks *KeygenSession) ProcessRound2(round2Data []*KeygenRound2) (*KeygenResult, error) {
	if !ks.processedRound1 {
		return nil, fmt.Errorf("ProcessRound1 must be called before ProcessRound2")
	}
	if ks.processedRound2 {
		return nil, fmt.Errorf("round 2 already processed")
	}
	if len(round2Data) != len(ks.participants)-1 {
		return nil, fmt.Errorf("expected %d round 2 messages, got %d", len(ks.participants)-1, len(round2Data))
	}

	for _, data := range round2Data {
		if !ks.isParticipant(data.ParticipantID) {
			return nil, ErrUnknownParticipant
		}
		if _, exists := ks.shareCommitments[data.ParticipantID]; exists {
			return nil, ErrDuplicateParticipant
		}

		share, ok := data.Shares[ks.participantID]
		if !ok {
			return nil, fmt.Errorf("participant %d sent no share for us", data.ParticipantID)
		}
		commitment, ok := data.ShareCommitments[ks.participantID]
		if !ok {
			return nil, fmt.Errorf("participant %d sent no share commitment for us", data.ParticipantID)
		}
		if !ks.curve.BasePoint().Mul(share).Equal(commitment) {
			return nil, fmt.Errorf("share from participant %d does not match its commitment", data.ParticipantID)
		}

		ks.shares[data.ParticipantID] = share
		ks.shareCommitments[data.ParticipantID] = data.ShareCommitments
	}

	// Final share: own polynomial at our index plus every received share.
	ownX, err := ks.participantID.ToScalar(ks.curve)
	if err != nil {
		return nil, err
	}
	finalShare := ks.poly.evaluate(ownX)
	for _, share := range ks.shares {
		finalShare = finalShare.Add(share)
	}

	// Every participant's verification key is the sum of all share
	// commitments at its index, computable by everyone.
	keys := make([]ParticipantKey, 0, len(ks.participants))
	for _, pid := range ks.participants {
		x, err := pid.ToScalar(ks.curve)
		if err != nil {
			return nil, err
		}
		verification := ks.curve.BasePoint().Mul(ks.poly.evaluate(x))
		for _, commitments := range ks.shareCommitments {
			verification = verification.Add(commitments[pid])
		}
		keys = append(keys, ParticipantKey{Index: pid, Key: verification})
	}

	wallet, err := AggregateKeys(ks.curve, keys, ks.threshold)
	if err != nil {
		return nil, err
	}

	// Cross-check: the interpolated group key must equal the sum of the
	// round 1 constant-term commitments.
	groupKey := ks.round1.Commitment
	for _, commitment := range ks.commitments {
		groupKey = groupKey.Add(commitment)
	}
	if !wallet.AggregatedKey.Equal(groupKey) {
		return nil, fmt.Errorf("group key mismatch between interpolation and round 1 commitments")
	}

	ks.poly.zeroize()
	ks.processedRound2 = true

	return &KeygenResult{
		Secret: NewParticipantSecret(ks.participantID, finalShare),
		Wallet: wallet,
	}, nil
}

func (ks *KeygenSession) isParticipant(pid ParticipantIndex) bool {
	for _, p := range ks.participants {
		if p == pid {
			return true
		}
	}
	return false
}
