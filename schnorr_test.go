package quorum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchnorrProofRoundtrip(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			secret, err := curve.ScalarRandom()
			require.NoError(t, err)
			public := curve.BasePoint().Mul(secret)

			proof, err := NewSchnorrProof(curve, secret, public)
			require.NoError(t, err)
			require.True(t, proof.Verify(curve, public))

			// The proof is bound to its public key.
			other, err := curve.ScalarRandom()
			require.NoError(t, err)
			require.False(t, proof.Verify(curve, curve.BasePoint().Mul(other)))
		})
	}
}

func TestSchnorrProofTamperedResponse(t *testing.T) {
	curve := NewEd25519Curve()
	secret, err := curve.ScalarRandom()
	require.NoError(t, err)
	public := curve.BasePoint().Mul(secret)

	proof, err := NewSchnorrProof(curve, secret, public)
	require.NoError(t, err)

	proof.Response = proof.Response.Add(curve.ScalarOne())
	require.False(t, proof.Verify(curve, public))
}
