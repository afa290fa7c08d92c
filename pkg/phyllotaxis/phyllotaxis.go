// Package phyllotaxis places points on Vogel-style spirals.
//
// Each Strategy maps an index and a Params record to a position. All
// strategies are pure: identical inputs always give identical output.
package phyllotaxis

import (
	"errors"
	"fmt"
	stdmath "math"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/phyllo/pkg/math"
)

// GoldenAngle is 360°/φ² in degrees.
const GoldenAngle float32 = 137.50776

// Placement errors.
var (
	ErrInvalidCount    = errors.New("invalid count")
	ErrInvalidSpread   = errors.New("invalid spread")
	ErrInvalidParam    = errors.New("invalid placement parameter")
	ErrUnknownStrategy = errors.New("unknown placement strategy")
)

// Params configures a spiral placement.
type Params struct {
	Angle   float32 `yaml:"angle"`   // Divergence angle in degrees
	Spread  float32 `yaml:"spread"`  // Radial scale
	Extrude float32 `yaml:"extrude"` // Depth added per index
	Count   int     `yaml:"count"`   // Number of instances
}

// Validate reports the first invalid field.
func (p Params) Validate() error {
	if p.Count < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, p.Count)
	}
	if !math.IsFinite(p.Spread) || p.Spread < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSpread, p.Spread)
	}
	if !math.IsFinite(p.Angle) {
		return fmt.Errorf("%w: angle %v", ErrInvalidParam, p.Angle)
	}
	if !math.IsFinite(p.Extrude) {
		return fmt.Errorf("%w: extrude %v", ErrInvalidParam, p.Extrude)
	}
	return nil
}

// Func computes the position of instance i.
type Func func(i int, p Params) math.Vec3

// Strategy selects one of the placement functions.
type Strategy int

const (
	Simple      Strategy = iota // Flat disk, r = spread·√i
	Conical                     // Disk extruded along Z by i·extrude
	Apple                       // Radius swells and closes again over the count
	Approximate                 // Radius from the total count instead of the index
)

var strategyNames = map[Strategy]string{
	Simple:      "simple",
	Conical:     "conical",
	Apple:       "apple",
	Approximate: "approximate",
}

// String returns the strategy name used in configuration files.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses a strategy name (case-insensitive).
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s, sn := range strategyNames {
		if sn == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Func returns the placement function for s. Unknown strategies fall back
// to Simple.
func (s Strategy) Func() Func {
	switch s {
	case Conical:
		return ConicalAt
	case Apple:
		return AppleAt
	case Approximate:
		return ApproximateAt
	default:
		return SimpleAt
	}
}

// Position returns the position of instance i under strategy s.
func Position(s Strategy, i int, p Params) math.Vec3 {
	return s.Func()(i, p)
}

// Layout validates p and returns the positions of all Count instances.
func Layout(s Strategy, p Params) ([]math.Vec3, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f := s.Func()
	out := make([]math.Vec3, p.Count)
	for i := range out {
		out[i] = f(i, p)
	}
	return out, nil
}

// SimpleAt places i on a flat Vogel spiral: θ = i·angle, r = spread·√i.
// Instance 0 is always the origin.
func SimpleAt(i int, p Params) math.Vec3 {
	fi := index(i)
	x, y := polar(theta(i, p.Angle), p.Spread*math32.Sqrt(fi))
	return math.Vec3{X: x, Y: y}
}

// ConicalAt is SimpleAt with z = i·extrude.
func ConicalAt(i int, p Params) math.Vec3 {
	v := SimpleAt(i, p)
	v.Z = index(i) * p.Extrude
	return v
}

// AppleAt sweeps φ = π·i/count from 0 to π and uses r = spread·√count·sin φ,
// so the silhouette bulges in the middle and closes at both ends.
// z = i·extrude. A non-positive count yields the origin.
func AppleAt(i int, p Params) math.Vec3 {
	if p.Count <= 0 {
		return math.Vec3{}
	}
	fi := index(i)
	n := float32(p.Count)
	phi := math32.Pi * fi / n
	r := p.Spread * math32.Sqrt(n) * math32.Sin(phi)
	x, y := polar(theta(i, p.Angle), r)
	return math.Vec3{X: x, Y: y, Z: fi * p.Extrude}
}

// ApproximateAt uses the total count in the radius term: r = spread·√count.
// Every instance lands on the same circle and only the angle varies.
func ApproximateAt(i int, p Params) math.Vec3 {
	n := float32(p.Count)
	if n < 0 {
		n = 0
	}
	x, y := polar(theta(i, p.Angle), p.Spread*math32.Sqrt(n))
	return math.Vec3{X: x, Y: y}
}

// index converts i to float, clamping negatives to 0 so √i stays defined.
func index(i int) float32 {
	if i < 0 {
		return 0
	}
	return float32(i)
}

// theta returns i·angle in radians. The product is reduced modulo 360° in
// float64 so large indices keep their precision.
func theta(i int, angle float32) float32 {
	deg := stdmath.Mod(float64(index(i))*float64(angle), 360)
	return float32(deg * stdmath.Pi / 180)
}

func polar(theta, r float32) (x, y float32) {
	s, c := math32.Sincos(theta)
	return r * c, r * s
}
