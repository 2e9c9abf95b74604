package quorum

// Signature aggregation: the terminal step of a signing session. The
// threshold gate runs before any combination work; nothing below it can
// produce a CompleteSignature unless the group's minimum was actually met and
// the combined signature verified against the aggregated key.

// CompleteSignature is the terminal artifact of a session: the verified
// 64-byte group signature, the key it verifies against, and the full wire
// transaction ready for submission.
type CompleteSignature struct {
	Signature        []byte
	PublicKey        Point
	TransactionBytes []byte
}

// AggregateSignatures validates and combines partial signatures into the
// group signature, then binds it to the transaction via the codec.
//
// Failure order: threshold gate, context agreement, shape and membership
// checks, per-share verification, whole-signature verification. Each failure
// is a distinct error kind; none is ever downgraded.
func AggregateSignatures(
	curve Curve,
	partials []*PartialSignature,
	details *TransferDetails,
	wallet *GroupWallet,
) (*CompleteSignature, error) {
	if len(partials) < wallet.Threshold {
		return nil, &InsufficientSignaturesError{Have: len(partials), Need: wallet.Threshold}
	}

	digest, err := details.ContextDigest()
	if err != nil {
		return nil, err
	}

	signers := make([]ParticipantIndex, 0, len(partials))
	seen := make(map[ParticipantIndex]bool, len(partials))
	groupNonce := curve.PointIdentity()
	for _, p := range partials {
		if p == nil || p.PublicNonce == nil || p.Response == nil {
			return nil, ErrMalformedSignature
		}
		if p.ContextDigest != digest {
			return nil, ErrContextMismatch
		}
		member, ok := wallet.Participant(p.Participant.Index)
		if !ok || !member.Key.Equal(p.Participant.Key) {
			return nil, ErrUnknownParticipant
		}
		if seen[p.Participant.Index] {
			return nil, ErrDuplicateParticipant
		}
		seen[p.Participant.Index] = true
		signers = append(signers, p.Participant.Index)
		groupNonce = groupNonce.Add(p.PublicNonce)
	}

	message, err := EncodeTransfer(details)
	if err != nil {
		return nil, err
	}
	challenge, err := signingChallenge(curve, groupNonce, wallet.AggregatedKey, message)
	if err != nil {
		return nil, err
	}

	// Verify every share before combining: g^s_i == R_i + λ_i·c·Y_i. A bad
	// share is attributable to its participant here; after summation it
	// would only surface as an unexplained invalid signature.
	response := curve.ScalarZero()
	for _, p := range partials {
		coeff, err := lagrangeCoefficient(curve, p.Participant.Index, signers)
		if err != nil {
			return nil, err
		}
		left := curve.BasePoint().Mul(p.Response)
		right := p.PublicNonce.Add(p.Participant.Key.Mul(coeff.Mul(challenge)))
		if !left.Equal(right) {
			return nil, ErrPartialVerifyFailed.WithCause(
				&ProtocolError{Category: ErrorCategoryParticipant, Code: "BAD_SHARE",
					Message: "participant " + p.Participant.String() + " supplied an invalid response"})
		}
		response = response.Add(p.Response)
	}

	sig := &Signature{R: groupNonce, S: response}
	valid, err := VerifySignature(curve, sig, message, wallet.AggregatedKey)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrSignatureVerifyFailed
	}

	sigBytes, err := sig.Bytes()
	if err != nil {
		return nil, err
	}
	wire, err := FinalizeTransaction(details, sigBytes)
	if err != nil {
		return nil, err
	}

	return &CompleteSignature{
		Signature:        sigBytes,
		PublicKey:        wallet.AggregatedKey,
		TransactionBytes: wire,
	}, nil
}
