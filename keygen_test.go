package quorum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// runKeygen drives a full DKG ceremony for the given participant set and
// returns each participant's local result.
func runKeygen(t *testing.T, curve Curve, participants []ParticipantIndex, threshold int) map[ParticipantIndex]*KeygenResult {
	t.Helper()

	sessions := make(map[ParticipantIndex]*KeygenSession, len(participants))
	round1 := make(map[ParticipantIndex]*KeygenRound1, len(participants))
	for _, pid := range participants {
		session, err := NewKeygenSession(curve, pid, participants, threshold)
		require.NoError(t, err)
		sessions[pid] = session

		msg, err := session.Round1()
		require.NoError(t, err)
		round1[pid] = msg
	}

	for _, pid := range participants {
		others := make([]*KeygenRound1, 0, len(participants)-1)
		for _, other := range participants {
			if other != pid {
				others = append(others, round1[other])
			}
		}
		require.NoError(t, sessions[pid].ProcessRound1(others))
	}

	round2 := make(map[ParticipantIndex]*KeygenRound2, len(participants))
	for _, pid := range participants {
		msg, err := sessions[pid].Round2()
		require.NoError(t, err)
		round2[pid] = msg
	}

	results := make(map[ParticipantIndex]*KeygenResult, len(participants))
	for _, pid := range participants {
		others := make([]*KeygenRound2, 0, len(participants)-1)
		for _, other := range participants {
			if other != pid {
				others = append(others, round2[other])
			}
		}
		result, err := sessions[pid].ProcessRound2(others)
		require.NoError(t, err)
		results[pid] = result
	}
	return results
}

func TestKeygenAllParticipantsAgree(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			participants := []ParticipantIndex{1, 2, 3}
			results := runKeygen(t, curve, participants, 2)

			reference := results[1].Wallet
			for _, pid := range participants {
				wallet := results[pid].Wallet
				require.True(t, wallet.AggregatedKey.Equal(reference.AggregatedKey),
					"participant %d derived a different group key", pid)
				require.Equal(t, reference.Threshold, wallet.Threshold)
				for i := range reference.Participants {
					require.True(t, wallet.Participants[i].Key.Equal(reference.Participants[i].Key))
				}
			}

			// Each participant's published verification key matches its share.
			for _, pid := range participants {
				member, ok := reference.Participant(pid)
				require.True(t, ok)
				require.True(t, member.Key.Equal(results[pid].Secret.PublicKey(curve).Key))
			}
		})
	}
}

func TestKeygenSharesSignCorrectly(t *testing.T) {
	// Shares produced by the DKG must drive the full signing flow.
	curve := NewEd25519Curve()
	participants := []ParticipantIndex{1, 2, 3}
	results := runKeygen(t, curve, participants, 2)

	dealt := &DealerResult{
		Wallet: results[1].Wallet,
		Secrets: []*ParticipantSecret{
			results[1].Secret, results[2].Secret, results[3].Secret,
		},
	}
	details := testTransfer(t, dealt.Wallet)

	complete, err := runSigning(t, curve, dealt, []ParticipantIndex{2, 3}, details)
	require.NoError(t, err)
	require.Len(t, complete.Signature, 64)
}

func TestKeygenSessionValidation(t *testing.T) {
	curve := NewEd25519Curve()

	_, err := NewKeygenSession(curve, 1, []ParticipantIndex{1, 2}, 3)
	require.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewKeygenSession(curve, 1, []ParticipantIndex{1, 1}, 1)
	require.ErrorIs(t, err, ErrDuplicateParticipant)

	_, err = NewKeygenSession(curve, 9, []ParticipantIndex{1, 2}, 2)
	require.ErrorIs(t, err, ErrUnknownParticipant)

	_, err = NewKeygenSession(curve, 1, []ParticipantIndex{0, 1}, 1)
	require.Error(t, err)
}

func TestKeygenRoundOrdering(t *testing.T) {
	curve := NewEd25519Curve()
	session, err := NewKeygenSession(curve, 1, []ParticipantIndex{1, 2}, 2)
	require.NoError(t, err)

	// Rounds must run in order.
	require.Error(t, session.ProcessRound1(nil))
	_, err = session.Round2()
	require.Error(t, err)

	_, err = session.Round1()
	require.NoError(t, err)
	_, err = session.Round1()
	require.Error(t, err)
}

func TestKeygenRejectsBadProof(t *testing.T) {
	curve := NewEd25519Curve()
	participants := []ParticipantIndex{1, 2}

	alice, err := NewKeygenSession(curve, 1, participants, 2)
	require.NoError(t, err)
	_, err = alice.Round1()
	require.NoError(t, err)

	bob, err := NewKeygenSession(curve, 2, participants, 2)
	require.NoError(t, err)
	bobMsg, err := bob.Round1()
	require.NoError(t, err)

	// Swap in a commitment the proof does not cover.
	forged, err := curve.ScalarRandom()
	require.NoError(t, err)
	bobMsg.Commitment = curve.BasePoint().Mul(forged)

	err = alice.ProcessRound1([]*KeygenRound1{bobMsg})
	require.ErrorContains(t, err, "proof of knowledge")
}
