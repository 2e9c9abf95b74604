package quorum

import (
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// ParticipantIndex identifies a participant inside a group. Indices are the
// x-coordinates of the underlying secret sharing, so zero is reserved: the
// share at x=0 is the group secret itself.
type ParticipantIndex uint32

// ToScalar maps the index into the curve's scalar field.
func (idx ParticipantIndex) ToScalar(curve Curve) (Scalar, error) {
	if idx == 0 {
		return nil, fmt.Errorf("participant index must be nonzero")
	}
	buf := make([]byte, curve.ScalarSize())
	binary.LittleEndian.PutUint32(buf, uint32(idx))
	return curve.ScalarFromBytes(buf)
}

// ParticipantKey is one signer's public identity: its index in the group and
// its verification key. Immutable once generated.
type ParticipantKey struct {
	Index ParticipantIndex
	Key   Point
}

// String returns the base58 form of the verification key, the encoding Solana
// tooling expects for public keys.
func (pk ParticipantKey) String() string {
	return base58.Encode(pk.Key.CompressedBytes())
}

func (pk ParticipantKey) Equal(other ParticipantKey) bool {
	return pk.Index == other.Index && pk.Key.Equal(other.Key)
}

// ParticipantKeyFromBytes decodes a verification key from its compressed
// point encoding.
func ParticipantKeyFromBytes(curve Curve, index ParticipantIndex, data []byte) (ParticipantKey, error) {
	point, err := curve.PointFromBytes(data)
	if err != nil {
		return ParticipantKey{}, ErrInvalidKeyEncoding.WithCause(err)
	}
	return ParticipantKey{Index: index, Key: point}, nil
}

// ParseParticipantKey decodes a verification key from its base58 string form.
func ParseParticipantKey(curve Curve, index ParticipantIndex, s string) (ParticipantKey, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return ParticipantKey{}, ErrInvalidKeyEncoding.WithCause(err)
	}
	return ParticipantKeyFromBytes(curve, index, data)
}

// ParticipantSecret is one signer's share of the group secret. It never
// leaves the owning process: the struct has no exported fields and no
// serialized form. The secret is used only to derive the matching
// ParticipantKey and to produce nonces and partial signatures.
type ParticipantSecret struct {
	index ParticipantIndex
	share Scalar
}

// NewParticipantSecret wraps a secret share produced by key generation.
func NewParticipantSecret(index ParticipantIndex, share Scalar) *ParticipantSecret {
	return &ParticipantSecret{index: index, share: share}
}

func (s *ParticipantSecret) Index() ParticipantIndex { return s.index }

// PublicKey derives the verification key g^x for this share. The result is
// identical to the key that key generation published for this participant,
// so group membership checks stay consistent.
func (s *ParticipantSecret) PublicKey(curve Curve) ParticipantKey {
	return ParticipantKey{
		Index: s.index,
		Key:   curve.BasePoint().Mul(s.share),
	}
}

// Zeroize clears the secret share in place.
func (s *ParticipantSecret) Zeroize() {
	if s.share != nil {
		s.share.Zeroize()
	}
}

// GenerateParticipant creates a standalone keypair, used for single-signer
// wallets and for tests. Group shares come from the dealer or the DKG
// instead, so that verification keys satisfy the interpolation identity.
func GenerateParticipant(curve Curve, index ParticipantIndex) (*ParticipantSecret, ParticipantKey, error) {
	if index == 0 {
		return nil, ParticipantKey{}, fmt.Errorf("participant index must be nonzero")
	}
	share, err := curve.ScalarRandom()
	if err != nil {
		return nil, ParticipantKey{}, fmt.Errorf("failed to generate secret: %w", err)
	}
	secret := NewParticipantSecret(index, share)
	return secret, secret.PublicKey(curve), nil
}
