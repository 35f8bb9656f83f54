package seat

import "strings"

// Exposure is the room's sun orientation, used by the comfort score.
type Exposure string

const (
	ExposureNorth Exposure = "north"
	ExposureSouth Exposure = "south"
	ExposureEast  Exposure = "east"
	ExposureWest  Exposure = "west"
)

func (e Exposure) IsValid() bool {
	switch e {
	case ExposureNorth, ExposureSouth, ExposureEast, ExposureWest:
		return true
	default:
		return false
	}
}

// Penalty is the fixed comfort deduction for the orientation. South-facing
// rooms overheat the most in this building, north-facing not at all.
func (e Exposure) Penalty() float64 {
	switch e {
	case ExposureSouth:
		return 0.15
	case ExposureWest:
		return 0.10
	case ExposureEast:
		return 0.05
	default:
		return 0.0
	}
}

func ParseExposure(raw string) (Exposure, error) {
	e := Exposure(strings.ToLower(raw))
	if !e.IsValid() {
		return "", ErrInvalidExposure
	}
	return e, nil
}
