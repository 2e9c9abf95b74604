package quorum

// GroupWallet is the immutable result of key aggregation: the single key the
// group's signatures verify against, the ordered participant set, and the
// minimum number of cooperating participants a signature requires.
type GroupWallet struct {
	AggregatedKey Point
	Participants  []ParticipantKey
	Threshold     int
}

// AggregateKeys combines the participants' verification keys into one group
// public key. The keys are Shamir verification shares Y_i = g^f(i), so the
// group key is the interpolation of the shares at zero: PK = Σ λ_i·Y_i. Any
// signer subset of size >= threshold reproduces the same key, which is what
// makes a threshold subset's combined signature verify against it.
//
// A threshold of 0 defaults to n-of-n. A single key aggregates to itself.
func AggregateKeys(curve Curve, keys []ParticipantKey, threshold int) (*GroupWallet, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeySet
	}
	if threshold == 0 {
		threshold = len(keys)
	}
	if threshold < 1 || threshold > len(keys) {
		return nil, ErrInvalidThreshold
	}

	indices := make([]ParticipantIndex, 0, len(keys))
	seen := make(map[ParticipantIndex]bool, len(keys))
	for _, key := range keys {
		if seen[key.Index] {
			return nil, ErrDuplicateParticipant
		}
		seen[key.Index] = true
		indices = append(indices, key.Index)
	}

	aggregated := curve.PointIdentity()
	for _, key := range keys {
		coeff, err := lagrangeCoefficient(curve, key.Index, indices)
		if err != nil {
			return nil, err
		}
		aggregated = aggregated.Add(key.Key.Mul(coeff))
	}

	participants := make([]ParticipantKey, len(keys))
	copy(participants, keys)

	return &GroupWallet{
		AggregatedKey: aggregated,
		Participants:  participants,
		Threshold:     threshold,
	}, nil
}

// Participant returns the member with the given index, if any.
func (w *GroupWallet) Participant(index ParticipantIndex) (ParticipantKey, bool) {
	for _, p := range w.Participants {
		if p.Index == index {
			return p, true
		}
	}
	return ParticipantKey{}, false
}

// Size returns the number of participants in the group.
func (w *GroupWallet) Size() int {
	return len(w.Participants)
}
