package quorum

import (
	"errors"
	"fmt"
)

// Curve abstracts the group arithmetic the protocol runs over. Ed25519 is the
// curve Solana verifies against; secp256k1 is kept so key generation and
// aggregation stay curve-generic.
type Curve interface {
	Name() string
	ScalarSize() int
	PointSize() int

	ScalarFromBytes([]byte) (Scalar, error)
	ScalarFromUniformBytes([]byte) (Scalar, error)
	ScalarRandom() (Scalar, error)
	ScalarZero() Scalar
	ScalarOne() Scalar

	PointFromBytes([]byte) (Point, error)
	BasePoint() Point
	PointIdentity() Point
}

// Scalar is an element of the curve's scalar field.
type Scalar interface {
	Bytes() []byte
	String() string

	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	Invert() (Scalar, error)

	Equal(Scalar) bool
	IsZero() bool

	// Zeroize clears the scalar in place. Secret material must be zeroized
	// once it is no longer needed.
	Zeroize()
}

// Point is a group element.
type Point interface {
	Bytes() []byte
	CompressedBytes() []byte
	String() string

	Add(Point) Point
	Sub(Point) Point
	Mul(Scalar) Point
	Negate() Point

	Equal(Point) bool
	IsIdentity() bool
}

// CurveType selects a Curve implementation.
type CurveType string

const (
	CurveEd25519   CurveType = "ed25519"
	CurveSecp256k1 CurveType = "secp256k1"
)

// NewCurve returns the Curve implementation for the given type.
func NewCurve(curveType CurveType) (Curve, error) {
	switch curveType {
	case CurveEd25519:
		return NewEd25519Curve(), nil
	case CurveSecp256k1:
		return NewSecp256k1Curve(), nil
	default:
		return nil, fmt.Errorf("unsupported curve type: %s", curveType)
	}
}

var (
	ErrInvalidScalarLength = errors.New("invalid scalar length")
	ErrInvalidPointLength  = errors.New("invalid point length")
	ErrInvalidScalar       = errors.New("invalid scalar value")
	ErrInvalidPoint        = errors.New("invalid point")
	ErrScalarZero          = errors.New("scalar is zero")
)
