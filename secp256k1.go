package quorum

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Secp256k1Curve implements Curve on top of btcec. Unlike the Ed25519
// implementation, btcec's group operations are not constant time; prefer
// Ed25519 when the deployment cannot tolerate timing side channels.
type Secp256k1Curve struct{}

func NewSecp256k1Curve() *Secp256k1Curve { return &Secp256k1Curve{} }

func (c *Secp256k1Curve) Name() string    { return "secp256k1" }
func (c *Secp256k1Curve) ScalarSize() int { return 32 }
func (c *Secp256k1Curve) PointSize() int  { return 33 }

func (c *Secp256k1Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidScalarLength
	}
	scalar := new(btcec.ModNScalar)
	if overflow := scalar.SetBytes((*[32]byte)(data)); overflow != 0 {
		return nil, ErrInvalidScalar
	}
	return &secp256k1Scalar{inner: scalar}, nil
}

func (c *Secp256k1Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	if len(data) < 32 {
		return nil, ErrInvalidScalarLength
	}
	scalar := new(btcec.ModNScalar)
	scalar.SetBytes((*[32]byte)(data[:32])) // reduced mod n, overflow accepted
	return &secp256k1Scalar{inner: scalar}, nil
}

func (c *Secp256k1Curve) ScalarRandom() (Scalar, error) {
	for {
		bytes := make([]byte, 32)
		if _, err := rand.Read(bytes); err != nil {
			return nil, err
		}
		scalar := new(btcec.ModNScalar)
		if overflow := scalar.SetBytes((*[32]byte)(bytes)); overflow == 0 && !scalar.IsZero() {
			return &secp256k1Scalar{inner: scalar}, nil
		}
		// Rejection sample on overflow to keep the distribution uniform.
	}
}

func (c *Secp256k1Curve) ScalarZero() Scalar {
	return &secp256k1Scalar{inner: new(btcec.ModNScalar)}
}

func (c *Secp256k1Curve) ScalarOne() Scalar {
	scalar := new(btcec.ModNScalar)
	scalar.SetInt(1)
	return &secp256k1Scalar{inner: scalar}
}

func (c *Secp256k1Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 33 && len(data) != 65 {
		return nil, ErrInvalidPointLength
	}
	pubKey, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return &secp256k1Point{inner: pubKey}, nil
}

func (c *Secp256k1Curve) BasePoint() Point {
	return &secp256k1Point{inner: btcec.Generator()}
}

func (c *Secp256k1Curve) PointIdentity() Point {
	// nil inner marks the point at infinity; btcec has no representation
	// for it in affine form.
	return &secp256k1Point{inner: nil}
}

type secp256k1Scalar struct {
	inner *btcec.ModNScalar
}

func (s *secp256k1Scalar) Bytes() []byte {
	var bytes [32]byte
	s.inner.PutBytes(&bytes)
	return bytes[:]
}

func (s *secp256k1Scalar) String() string { return hex.EncodeToString(s.Bytes()) }

func (s *secp256k1Scalar) Add(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Add(s.inner).Add(other.(*secp256k1Scalar).inner)
	return &secp256k1Scalar{inner: result}
}

func (s *secp256k1Scalar) Sub(other Scalar) Scalar {
	neg := new(btcec.ModNScalar)
	neg.Set(other.(*secp256k1Scalar).inner).Negate()
	result := new(btcec.ModNScalar)
	result.Add(s.inner).Add(neg)
	return &secp256k1Scalar{inner: result}
}

func (s *secp256k1Scalar) Mul(other Scalar) Scalar {
	result := new(btcec.ModNScalar)
	result.Set(s.inner).Mul(other.(*secp256k1Scalar).inner)
	return &secp256k1Scalar{inner: result}
}

func (s *secp256k1Scalar) Negate() Scalar {
	result := new(btcec.ModNScalar)
	result.Set(s.inner).Negate()
	return &secp256k1Scalar{inner: result}
}

func (s *secp256k1Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrScalarZero
	}
	result := new(btcec.ModNScalar)
	result.Set(s.inner).InverseNonConst()
	return &secp256k1Scalar{inner: result}, nil
}

func (s *secp256k1Scalar) Equal(other Scalar) bool {
	return s.inner.Equals(other.(*secp256k1Scalar).inner)
}

func (s *secp256k1Scalar) IsZero() bool { return s.inner.IsZero() }

func (s *secp256k1Scalar) Zeroize() { s.inner.Zero() }

type secp256k1Point struct {
	inner *btcec.PublicKey
}

func (p *secp256k1Point) Bytes() []byte {
	if p.inner == nil {
		return make([]byte, 33)
	}
	return p.inner.SerializeCompressed()
}

func (p *secp256k1Point) CompressedBytes() []byte { return p.Bytes() }

func (p *secp256k1Point) String() string { return hex.EncodeToString(p.Bytes()) }

func (p *secp256k1Point) Add(other Point) Point {
	o := other.(*secp256k1Point)
	if p.inner == nil {
		return o
	}
	if o.inner == nil {
		return p
	}
	var a, b btcec.JacobianPoint
	p.inner.AsJacobian(&a)
	o.inner.AsJacobian(&b)
	btcec.AddNonConst(&a, &b, &a)
	if a.Z.IsZero() {
		return &secp256k1Point{inner: nil}
	}
	a.ToAffine()
	return &secp256k1Point{inner: btcec.NewPublicKey(&a.X, &a.Y)}
}

func (p *secp256k1Point) Sub(other Point) Point {
	return p.Add(other.Negate())
}

func (p *secp256k1Point) Mul(scalar Scalar) Point {
	if p.inner == nil {
		return p
	}
	k := scalar.(*secp256k1Scalar)
	if k.IsZero() {
		return &secp256k1Point{inner: nil}
	}
	var point, result btcec.JacobianPoint
	p.inner.AsJacobian(&point)
	btcec.ScalarMultNonConst(k.inner, &point, &result)
	if result.Z.IsZero() {
		return &secp256k1Point{inner: nil}
	}
	result.ToAffine()
	return &secp256k1Point{inner: btcec.NewPublicKey(&result.X, &result.Y)}
}

func (p *secp256k1Point) Negate() Point {
	if p.inner == nil {
		return p
	}
	var jac btcec.JacobianPoint
	p.inner.AsJacobian(&jac)
	jac.Y.Negate(1).Normalize()
	jac.ToAffine()
	return &secp256k1Point{inner: btcec.NewPublicKey(&jac.X, &jac.Y)}
}

func (p *secp256k1Point) Equal(other Point) bool {
	o := other.(*secp256k1Point)
	if p.inner == nil || o.inner == nil {
		return p.inner == nil && o.inner == nil
	}
	return p.inner.IsEqual(o.inner)
}

func (p *secp256k1Point) IsIdentity() bool { return p.inner == nil }
