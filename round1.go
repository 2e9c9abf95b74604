package quorum

import (
	"fmt"
)

// Round 1: nonce commitment. Each participant independently samples a fresh
// secret nonce and publishes only its one-way commitment R_i = g^r_i. No
// participant needs another's output to run this step.

// NonceSecret holds the secret half of a round 1 commitment. It deliberately
// has no exported fields and no serialized form: the secret nonce stays in
// the owning process, is spent by exactly one PartialSign call, and is never
// valid for a second message. A caller that abandons a session must Burn the
// nonce rather than keep it for later.
type NonceSecret struct {
	index  ParticipantIndex
	nonce  Scalar
	digest [32]byte
	spent  bool
}

// Burn destroys the secret nonce. Called automatically by PartialSign;
// callers invoke it directly when a session is abandoned mid-protocol.
func (ns *NonceSecret) Burn() {
	if ns.nonce != nil {
		ns.nonce.Zeroize()
	}
	ns.spent = true
}

// NonceCommitment is the public half of round 1, safe to transmit: the
// commitment point, the committing participant, and the digest of the
// transaction context the nonce was created for.
type NonceCommitment struct {
	Participant   ParticipantKey
	PublicNonce   Point
	ContextDigest [32]byte
}

// Commit runs round 1 for one participant. The secret nonce comes from the
// operating system CSPRNG, never from the message, so repeated sessions over
// the same transaction still produce distinct nonces.
func Commit(curve Curve, secret *ParticipantSecret, details *TransferDetails) (*NonceSecret, *NonceCommitment, error) {
	if secret == nil {
		return nil, nil, fmt.Errorf("participant secret is nil")
	}
	digest, err := details.ContextDigest()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bind transaction context: %w", err)
	}

	nonce, err := curve.ScalarRandom()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	nonceSecret := &NonceSecret{
		index:  secret.Index(),
		nonce:  nonce,
		digest: digest,
	}
	commitment := &NonceCommitment{
		Participant:   secret.PublicKey(curve),
		PublicNonce:   curve.BasePoint().Mul(nonce),
		ContextDigest: digest,
	}
	return nonceSecret, commitment, nil
}

// validateCommitments checks the shape and group membership of a round 1
// commitment set: correct nonce lengths, no duplicates, known participants,
// and a single shared context digest.
func validateCommitments(curve Curve, commitments []*NonceCommitment, wallet *GroupWallet, digest [32]byte) error {
	seen := make(map[ParticipantIndex]bool, len(commitments))
	for _, c := range commitments {
		if c == nil || c.PublicNonce == nil {
			return ErrMalformedNonce
		}
		if len(c.PublicNonce.CompressedBytes()) != curve.PointSize() || c.PublicNonce.IsIdentity() {
			return ErrMalformedNonce
		}
		member, ok := wallet.Participant(c.Participant.Index)
		if !ok || !member.Key.Equal(c.Participant.Key) {
			return ErrUnknownParticipant
		}
		if seen[c.Participant.Index] {
			return ErrDuplicateParticipant
		}
		seen[c.Participant.Index] = true
		if c.ContextDigest != digest {
			return ErrContextMismatch
		}
	}
	return nil
}
