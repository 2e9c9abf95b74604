package quorum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDealKeys(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			result, err := DealKeys(curve, 2, 3)
			require.NoError(t, err)
			require.Len(t, result.Secrets, 3)
			require.Equal(t, 2, result.Wallet.Threshold)
			require.Equal(t, 3, result.Wallet.Size())

			// Published verification keys must match the dealt shares.
			for _, secret := range result.Secrets {
				member, ok := result.Wallet.Participant(secret.Index())
				require.True(t, ok)
				require.True(t, member.Key.Equal(secret.PublicKey(curve).Key))
			}
		})
	}
}

func TestDealKeysAnyThresholdSubsetInterpolates(t *testing.T) {
	// Every 2-subset of a 2-of-4 dealing must interpolate the same group key.
	curve := NewEd25519Curve()
	result, err := DealKeys(curve, 2, 4)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			subset := []ParticipantKey{result.Wallet.Participants[i], result.Wallet.Participants[j]}
			sub, err := AggregateKeys(curve, subset, 2)
			require.NoError(t, err)
			require.True(t, sub.AggregatedKey.Equal(result.Wallet.AggregatedKey),
				"subset {%d,%d} interpolated a different group key", i+1, j+1)
		}
	}
}

func TestDealKeysParamValidation(t *testing.T) {
	curve := NewEd25519Curve()

	_, err := DealKeys(curve, 0, 3)
	require.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = DealKeys(curve, 4, 3)
	require.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = DealKeys(curve, 2, 256)
	require.Error(t, err)
}

func TestDealKeysFromSeedDeterministic(t *testing.T) {
	curve := NewEd25519Curve()
	seed := []byte("0123456789abcdef0123456789abcdef")

	first, err := DealKeysFromSeed(curve, 2, 3, seed)
	require.NoError(t, err)
	second, err := DealKeysFromSeed(curve, 2, 3, seed)
	require.NoError(t, err)

	require.True(t, first.Wallet.AggregatedKey.Equal(second.Wallet.AggregatedKey))
	for i := range first.Wallet.Participants {
		require.True(t, first.Wallet.Participants[i].Key.Equal(second.Wallet.Participants[i].Key))
	}

	other, err := DealKeysFromSeed(curve, 2, 3, []byte("a different seed entirely padpad"))
	require.NoError(t, err)
	require.False(t, first.Wallet.AggregatedKey.Equal(other.Wallet.AggregatedKey))
}

func TestDealKeysFromSeedShortSeed(t *testing.T) {
	curve := NewEd25519Curve()
	_, err := DealKeysFromSeed(curve, 2, 3, []byte("too short"))
	require.Error(t, err)
}
