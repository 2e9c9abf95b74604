package quorum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testCurves(t *testing.T) []Curve {
	t.Helper()
	ed, err := NewCurve(CurveEd25519)
	require.NoError(t, err)
	secp, err := NewCurve(CurveSecp256k1)
	require.NoError(t, err)
	return []Curve{ed, secp}
}

func TestNewCurveUnknown(t *testing.T) {
	_, err := NewCurve("p-256")
	require.Error(t, err)
}

func TestScalarArithmetic(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			a, err := curve.ScalarRandom()
			require.NoError(t, err)
			b, err := curve.ScalarRandom()
			require.NoError(t, err)

			require.False(t, a.IsZero())
			require.False(t, a.Equal(b))

			// a + b - b == a
			sum := a.Add(b)
			require.True(t, sum.Sub(b).Equal(a))

			// a * a^-1 == 1
			inv, err := a.Invert()
			require.NoError(t, err)
			require.True(t, a.Mul(inv).Equal(curve.ScalarOne()))

			// a + (-a) == 0
			require.True(t, a.Add(a.Negate()).IsZero())

			_, err = curve.ScalarZero().Invert()
			require.ErrorIs(t, err, ErrScalarZero)
		})
	}
}

func TestScalarEncoding(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			a, err := curve.ScalarRandom()
			require.NoError(t, err)
			require.Len(t, a.Bytes(), curve.ScalarSize())

			decoded, err := curve.ScalarFromBytes(a.Bytes())
			require.NoError(t, err)
			require.True(t, a.Equal(decoded))

			_, err = curve.ScalarFromBytes(a.Bytes()[:curve.ScalarSize()-1])
			require.ErrorIs(t, err, ErrInvalidScalarLength)
		})
	}
}

func TestScalarFromUniformBytes(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			buf := make([]byte, 64)
			for i := range buf {
				buf[i] = byte(i * 7)
			}
			a, err := curve.ScalarFromUniformBytes(buf)
			require.NoError(t, err)
			b, err := curve.ScalarFromUniformBytes(buf)
			require.NoError(t, err)
			require.True(t, a.Equal(b))

			_, err = curve.ScalarFromUniformBytes(buf[:16])
			require.ErrorIs(t, err, ErrInvalidScalarLength)
		})
	}
}

func TestPointArithmetic(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			a, err := curve.ScalarRandom()
			require.NoError(t, err)
			b, err := curve.ScalarRandom()
			require.NoError(t, err)

			A := curve.BasePoint().Mul(a)
			B := curve.BasePoint().Mul(b)

			// g^a * g^b == g^(a+b)
			require.True(t, A.Add(B).Equal(curve.BasePoint().Mul(a.Add(b))))

			// P - P == identity
			require.True(t, A.Sub(A).IsIdentity())
			require.True(t, A.Add(A.Negate()).IsIdentity())

			// identity + P == P
			require.True(t, curve.PointIdentity().Add(A).Equal(A))
		})
	}
}

func TestPointEncoding(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			a, err := curve.ScalarRandom()
			require.NoError(t, err)
			A := curve.BasePoint().Mul(a)

			encoded := A.CompressedBytes()
			require.Len(t, encoded, curve.PointSize())

			decoded, err := curve.PointFromBytes(encoded)
			require.NoError(t, err)
			require.True(t, A.Equal(decoded))

			_, err = curve.PointFromBytes(encoded[:curve.PointSize()-1])
			require.ErrorIs(t, err, ErrInvalidPointLength)

			garbage := make([]byte, curve.PointSize())
			for i := range garbage {
				garbage[i] = 0xff
			}
			_, err = curve.PointFromBytes(garbage)
			require.Error(t, err)
		})
	}
}

func TestScalarZeroize(t *testing.T) {
	for _, curve := range testCurves(t) {
		t.Run(curve.Name(), func(t *testing.T) {
			a, err := curve.ScalarRandom()
			require.NoError(t, err)
			a.Zeroize()
			require.True(t, a.IsZero())
		})
	}
}
