package quorum

import (
	"crypto/rand"
	"encoding/hex"

	"filippo.io/edwards25519"
)

// Ed25519Curve implements Curve on top of filippo.io/edwards25519. All scalar
// and point operations are constant time.
type Ed25519Curve struct{}

func NewEd25519Curve() *Ed25519Curve { return &Ed25519Curve{} }

func (c *Ed25519Curve) Name() string    { return "ed25519" }
func (c *Ed25519Curve) ScalarSize() int { return 32 }
func (c *Ed25519Curve) PointSize() int  { return 32 }

func (c *Ed25519Curve) ScalarFromBytes(data []byte) (Scalar, error) {
	if len(data) != 32 {
		return nil, ErrInvalidScalarLength
	}
	scalar, err := new(edwards25519.Scalar).SetCanonicalBytes(data)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return &ed25519Scalar{inner: scalar}, nil
}

func (c *Ed25519Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
	if len(data) < 32 {
		return nil, ErrInvalidScalarLength
	}
	// SetUniformBytes wants exactly 64 bytes; pad shorter inputs with zeros.
	uniform := make([]byte, 64)
	copy(uniform, data)
	scalar, err := edwards25519.NewScalar().SetUniformBytes(uniform)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return &ed25519Scalar{inner: scalar}, nil
}

func (c *Ed25519Curve) ScalarRandom() (Scalar, error) {
	bytes := make([]byte, 64)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	scalar, err := edwards25519.NewScalar().SetUniformBytes(bytes)
	if err != nil {
		return nil, err
	}
	for i := range bytes {
		bytes[i] = 0
	}
	return &ed25519Scalar{inner: scalar}, nil
}

func (c *Ed25519Curve) ScalarZero() Scalar {
	return &ed25519Scalar{inner: edwards25519.NewScalar()}
}

func (c *Ed25519Curve) ScalarOne() Scalar {
	one := make([]byte, 32)
	one[0] = 1
	scalar, _ := edwards25519.NewScalar().SetCanonicalBytes(one)
	return &ed25519Scalar{inner: scalar}
}

func (c *Ed25519Curve) PointFromBytes(data []byte) (Point, error) {
	if len(data) != 32 {
		return nil, ErrInvalidPointLength
	}
	point, err := new(edwards25519.Point).SetBytes(data)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return &ed25519Point{inner: point}, nil
}

func (c *Ed25519Curve) BasePoint() Point {
	return &ed25519Point{inner: edwards25519.NewGeneratorPoint()}
}

func (c *Ed25519Curve) PointIdentity() Point {
	return &ed25519Point{inner: edwards25519.NewIdentityPoint()}
}

type ed25519Scalar struct {
	inner *edwards25519.Scalar
}

func (s *ed25519Scalar) Bytes() []byte  { return s.inner.Bytes() }
func (s *ed25519Scalar) String() string { return hex.EncodeToString(s.Bytes()) }

func (s *ed25519Scalar) Add(other Scalar) Scalar {
	return &ed25519Scalar{inner: edwards25519.NewScalar().Add(s.inner, other.(*ed25519Scalar).inner)}
}

func (s *ed25519Scalar) Sub(other Scalar) Scalar {
	return &ed25519Scalar{inner: edwards25519.NewScalar().Subtract(s.inner, other.(*ed25519Scalar).inner)}
}

func (s *ed25519Scalar) Mul(other Scalar) Scalar {
	return &ed25519Scalar{inner: edwards25519.NewScalar().Multiply(s.inner, other.(*ed25519Scalar).inner)}
}

func (s *ed25519Scalar) Negate() Scalar {
	return &ed25519Scalar{inner: edwards25519.NewScalar().Negate(s.inner)}
}

func (s *ed25519Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, ErrScalarZero
	}
	return &ed25519Scalar{inner: edwards25519.NewScalar().Invert(s.inner)}, nil
}

func (s *ed25519Scalar) Equal(other Scalar) bool {
	return s.inner.Equal(other.(*ed25519Scalar).inner) == 1
}

func (s *ed25519Scalar) IsZero() bool {
	return s.inner.Equal(edwards25519.NewScalar()) == 1
}

func (s *ed25519Scalar) Zeroize() {
	s.inner = edwards25519.NewScalar()
}

type ed25519Point struct {
	inner *edwards25519.Point
}

func (p *ed25519Point) Bytes() []byte { return p.inner.Bytes() }

// CompressedBytes is the same as Bytes; Ed25519 encoding is always compressed.
func (p *ed25519Point) CompressedBytes() []byte { return p.inner.Bytes() }

func (p *ed25519Point) String() string { return hex.EncodeToString(p.Bytes()) }

func (p *ed25519Point) Add(other Point) Point {
	return &ed25519Point{inner: edwards25519.NewIdentityPoint().Add(p.inner, other.(*ed25519Point).inner)}
}

func (p *ed25519Point) Sub(other Point) Point {
	return &ed25519Point{inner: edwards25519.NewIdentityPoint().Subtract(p.inner, other.(*ed25519Point).inner)}
}

func (p *ed25519Point) Mul(scalar Scalar) Point {
	return &ed25519Point{inner: edwards25519.NewIdentityPoint().ScalarMult(scalar.(*ed25519Scalar).inner, p.inner)}
}

func (p *ed25519Point) Negate() Point {
	return &ed25519Point{inner: edwards25519.NewIdentityPoint().Negate(p.inner)}
}

func (p *ed25519Point) Equal(other Point) bool {
	return p.inner.Equal(other.(*ed25519Point).inner) == 1
}

func (p *ed25519Point) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}
