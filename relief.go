package rastershade

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Relief holds the light-source and exaggeration parameters of a
// shaded-relief (hillshade) rendering.
type Relief struct {
	// Extrusion exaggerates elevation differences.
	Extrusion float64
	// ElevationFactor converts elevation units into the horizontal units of
	// the affine transform, e.g. meters into degrees.
	ElevationFactor float64
	// LightIntensity scales the directional component.
	LightIntensity float64
	// AmbientIntensity is added to every lit cell.
	AmbientIntensity float64
	// LightDirection is a unit vector pointing towards the light source.
	LightDirection Vec3
	// Used enables hillshade compositing.
	Used bool
}

// DefaultRelief returns relief parameters lit from the north-west at 45°.
// Shading is disabled until Used is set.
func DefaultRelief() Relief {
	return Relief{
		Extrusion:        5,
		ElevationFactor:  1,
		LightIntensity:   0.7,
		AmbientIntensity: 0.8,
		LightDirection:   LightFromAngles(315, 45),
	}
}

// LightFromAngles returns the unit light direction for a sun at the given
// azimuth (degrees clockwise from north) and altitude (degrees above the
// horizon). +Y is north and +Z is up.
func LightFromAngles(azimuth, altitude float64) Vec3 {
	az := azimuth * math.Pi / 180
	alt := altitude * math.Pi / 180
	return Vec3{
		X: math.Sin(az) * math.Cos(alt),
		Y: math.Cos(az) * math.Cos(alt),
		Z: math.Sin(alt),
	}
}

// Key hashes the parameters that affect the hillshade grid. Used is not
// part of the key: toggling shading does not invalidate a computed grid.
func (r Relief) Key() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, f := range [...]float64{
		r.Extrusion,
		r.ElevationFactor,
		r.LightIntensity,
		r.AmbientIntensity,
		r.LightDirection.X,
		r.LightDirection.Y,
		r.LightDirection.Z,
	} {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:]) // fnv.Write never returns an error
	}
	return h.Sum64()
}

// zScale is the factor applied to every elevation sample.
func (r Relief) zScale() float64 {
	return r.ElevationFactor * r.Extrusion
}
