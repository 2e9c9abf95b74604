package quorum

import (
	"fmt"
)

// polynomial is a polynomial over the curve's scalar field, used by both the
// dealer and the DKG to produce Shamir shares.
type polynomial struct {
	curve        Curve
	coefficients []Scalar
}

// newRandomPolynomial builds a polynomial of the given degree with the
// supplied constant term and random higher coefficients.
func newRandomPolynomial(curve Curve, degree int, constantTerm Scalar) (*polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("degree must be non-negative")
	}
	coefficients := make([]Scalar, degree+1)
	coefficients[0] = constantTerm
	for i := 1; i <= degree; i++ {
		coeff, err := curve.ScalarRandom()
		if err != nil {
			return nil, fmt.Errorf("failed to generate coefficient %d: %w", i, err)
		}
		coefficients[i] = coeff
	}
	return &polynomial{curve: curve, coefficients: coefficients}, nil
}

// newPolynomial wraps explicit coefficients, lowest degree first.
func newPolynomial(curve Curve, coefficients []Scalar) (*polynomial, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("polynomial needs at least one coefficient")
	}
	return &polynomial{curve: curve, coefficients: coefficients}, nil
}

// evaluate computes f(x) by Horner's method. The result is a fresh scalar,
// never an alias of a coefficient, so zeroizing the polynomial afterwards
// cannot clobber returned shares.
func (p *polynomial) evaluate(x Scalar) Scalar {
	result := p.curve.ScalarZero().Add(p.coefficients[len(p.coefficients)-1])
	for i := len(p.coefficients) - 2; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

func (p *polynomial) degree() int {
	return len(p.coefficients) - 1
}

// zeroize clears all coefficients. The constant term is the shared secret, so
// a dealer polynomial must not outlive share distribution.
func (p *polynomial) zeroize() {
	for i, coeff := range p.coefficients {
		if coeff != nil {
			coeff.Zeroize()
		}
		p.coefficients[i] = nil
	}
	p.coefficients = nil
}

// lagrangeCoefficient computes λ_i for interpolation at zero over the given
// signer set: λ_i = Π(j≠i) j/(j-i).
func lagrangeCoefficient(curve Curve, participant ParticipantIndex, signers []ParticipantIndex) (Scalar, error) {
	participantScalar, err := participant.ToScalar(curve)
	if err != nil {
		return nil, err
	}

	numerator := curve.ScalarOne()
	denominator := curve.ScalarOne()
	for _, signer := range signers {
		if signer == participant {
			continue
		}
		signerScalar, err := signer.ToScalar(curve)
		if err != nil {
			return nil, err
		}
		numerator = numerator.Mul(signerScalar)

		diff := signerScalar.Sub(participantScalar)
		if diff.IsZero() {
			return nil, fmt.Errorf("duplicate participant index %d in signer set", signer)
		}
		denominator = denominator.Mul(diff)
	}

	denominatorInv, err := denominator.Invert()
	if err != nil {
		return nil, fmt.Errorf("failed to invert Lagrange denominator: %w", err)
	}
	return numerator.Mul(denominatorInv), nil
}
