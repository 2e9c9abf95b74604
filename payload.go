package quorum

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// JSON interchange for round outputs. Only public protocol data has a wire
// form here: secret nonces and secret shares have no payload type at all, so
// a coordinator that relays these structs can never leak them by accident.

// Round1Payload carries one participant's nonce commitment between processes.
type Round1Payload struct {
	ParticipantIndex ParticipantIndex `json:"participantIndex"`
	ParticipantKey   string           `json:"participantKey"` // base58
	PublicNonce      string           `json:"publicNonce"`    // base64
	ContextDigest    string           `json:"contextDigest"`  // hex
}

// Round2Payload carries one participant's partial signature.
type Round2Payload struct {
	ParticipantIndex ParticipantIndex `json:"participantIndex"`
	ParticipantKey   string           `json:"participantKey"`   // base58
	PartialSignature string           `json:"partialSignature"` // base64, R_i || s_i
	ContextDigest    string           `json:"contextDigest"`    // hex
}

// MarshalCommitment encodes a nonce commitment for transport.
func MarshalCommitment(c *NonceCommitment) ([]byte, error) {
	if c == nil || c.PublicNonce == nil {
		return nil, ErrMalformedNonce
	}
	return json.Marshal(Round1Payload{
		ParticipantIndex: c.Participant.Index,
		ParticipantKey:   c.Participant.String(),
		PublicNonce:      base64.StdEncoding.EncodeToString(c.PublicNonce.CompressedBytes()),
		ContextDigest:    hex.EncodeToString(c.ContextDigest[:]),
	})
}

// UnmarshalCommitment decodes a nonce commitment received from another
// participant. Every decode failure surfaces as ErrMalformedNonce with the
// underlying cause attached.
func UnmarshalCommitment(curve Curve, data []byte) (*NonceCommitment, error) {
	var payload Round1Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ErrMalformedNonce.WithCause(err)
	}
	key, err := ParseParticipantKey(curve, payload.ParticipantIndex, payload.ParticipantKey)
	if err != nil {
		return nil, ErrMalformedNonce.WithCause(err)
	}
	nonceBytes, err := base64.StdEncoding.DecodeString(payload.PublicNonce)
	if err != nil {
		return nil, ErrMalformedNonce.WithCause(err)
	}
	nonce, err := curve.PointFromBytes(nonceBytes)
	if err != nil {
		return nil, ErrMalformedNonce.WithCause(err)
	}
	digest, err := decodeDigest(payload.ContextDigest)
	if err != nil {
		return nil, ErrMalformedNonce.WithCause(err)
	}
	return &NonceCommitment{
		Participant:   key,
		PublicNonce:   nonce,
		ContextDigest: digest,
	}, nil
}

// MarshalPartialSignature encodes a partial signature for transport.
func MarshalPartialSignature(ps *PartialSignature) ([]byte, error) {
	if ps == nil || ps.PublicNonce == nil || ps.Response == nil {
		return nil, ErrMalformedSignature
	}
	return json.Marshal(Round2Payload{
		ParticipantIndex: ps.Participant.Index,
		ParticipantKey:   ps.Participant.String(),
		PartialSignature: base64.StdEncoding.EncodeToString(ps.Bytes()),
		ContextDigest:    hex.EncodeToString(ps.ContextDigest[:]),
	})
}

// UnmarshalPartialSignature decodes a partial signature received from another
// participant. Decode failures surface as ErrMalformedSignature.
func UnmarshalPartialSignature(curve Curve, data []byte) (*PartialSignature, error) {
	var payload Round2Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ErrMalformedSignature.WithCause(err)
	}
	key, err := ParseParticipantKey(curve, payload.ParticipantIndex, payload.ParticipantKey)
	if err != nil {
		return nil, ErrMalformedSignature.WithCause(err)
	}
	sigBytes, err := base64.StdEncoding.DecodeString(payload.PartialSignature)
	if err != nil {
		return nil, ErrMalformedSignature.WithCause(err)
	}
	digest, err := decodeDigest(payload.ContextDigest)
	if err != nil {
		return nil, ErrMalformedSignature.WithCause(err)
	}
	return PartialSignatureFromBytes(curve, key, digest, sigBytes)
}

func decodeDigest(s string) ([32]byte, error) {
	var digest [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return digest, err
	}
	if len(raw) != 32 {
		return digest, fmt.Errorf("context digest must be 32 bytes, got %d", len(raw))
	}
	copy(digest[:], raw)
	return digest, nil
}
