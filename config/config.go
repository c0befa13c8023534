// Package config loads raster symbology from YAML or TOML files.
//
// A symbology file lists the classification ranges of a layer together with
// its no-data color, opacity, relief and smoothing settings:
//
//	nodata_color: "#00000000"
//	opacity: 0.9
//	ranges:
//	  - max: 0
//	    color: "#1565c0"
//	  - min: 0
//	    max: 800
//	    low: "#2e7d32"
//	    high: "#c8b560"
//	    model: exponential
//	ramp:
//	  min: 800
//	  max: 2400
//	  steps: 8
//	  colors: ["#c8b560", "#8c6d4f", "#f4f4f4"]
//	relief:
//	  azimuth: 315
//	  altitude: 45
//	  extrusion: 3
//	smooth:
//	  kernel: edge-aware
//
// The same keys are used in TOML, with ranges as an array of tables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/rastershade"
)

// ErrInvalidConfig is wrapped by every decoding and validation error.
var ErrInvalidConfig = errors.New("config: invalid symbology")

// Format is a symbology file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%w: unknown file extension %q", ErrInvalidConfig, filepath.Ext(path))
}

// File is a decoded symbology file.
type File struct {
	NoDataColor string      `yaml:"nodata_color" toml:"nodata_color"`
	Opacity     *float64    `yaml:"opacity" toml:"opacity"`
	Ramp        *RampSpec   `yaml:"ramp" toml:"ramp"`
	Ranges      []RangeSpec `yaml:"ranges" toml:"ranges"`
	Relief      *ReliefSpec `yaml:"relief" toml:"relief"`
	Smooth      *SmoothSpec `yaml:"smooth" toml:"smooth"`
}

// RangeSpec is one classification range. A missing min or max leaves that
// side unbounded. Either Color or both Low and High must be given.
type RangeSpec struct {
	Min          *float64 `yaml:"min" toml:"min"`
	Max          *float64 `yaml:"max" toml:"max"`
	MinExclusive bool     `yaml:"min_exclusive" toml:"min_exclusive"`
	MaxExclusive bool     `yaml:"max_exclusive" toml:"max_exclusive"`
	Color        string   `yaml:"color" toml:"color"`
	Low          string   `yaml:"low" toml:"low"`
	High         string   `yaml:"high" toml:"high"`
	Model        string   `yaml:"model" toml:"model"`
}

// RampSpec generates Steps flat ranges across [Min, Max] from a list of
// color stops. Ramp ranges come before the explicit ranges, so an explicit
// range overrides the ramp where both match.
type RampSpec struct {
	Min    float64  `yaml:"min" toml:"min"`
	Max    float64  `yaml:"max" toml:"max"`
	Steps  int      `yaml:"steps" toml:"steps"`
	Colors []string `yaml:"colors" toml:"colors"`
}

// Ranges expands the ramp.
func (rs RampSpec) Ranges() ([]rastershade.Range, error) {
	stops := make([]rastershade.Color, len(rs.Colors))
	for i, h := range rs.Colors {
		c, err := rastershade.ParseHex(h)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		stops[i] = c
	}
	return rastershade.Ramp(rs.Min, rs.Max, rs.Steps, stops...)
}

// ReliefSpec enables hillshading. The light comes from Azimuth/Altitude in
// degrees or from an explicit LightDirection vector, not both. Unset
// numbers keep the rastershade.DefaultRelief values.
type ReliefSpec struct {
	Enabled          *bool     `yaml:"enabled" toml:"enabled"`
	Azimuth          *float64  `yaml:"azimuth" toml:"azimuth"`
	Altitude         *float64  `yaml:"altitude" toml:"altitude"`
	LightDirection   []float64 `yaml:"light_direction" toml:"light_direction"`
	Extrusion        *float64  `yaml:"extrusion" toml:"extrusion"`
	ElevationFactor  *float64  `yaml:"elevation_factor" toml:"elevation_factor"`
	LightIntensity   *float64  `yaml:"light_intensity" toml:"light_intensity"`
	AmbientIntensity *float64  `yaml:"ambient_intensity" toml:"ambient_intensity"`
}

// SmoothSpec enables the smoothing pass.
type SmoothSpec struct {
	Enabled   *bool  `yaml:"enabled" toml:"enabled"`
	Kernel    string `yaml:"kernel" toml:"kernel"`
	Threshold uint8  `yaml:"threshold" toml:"threshold"`
	Radius    int    `yaml:"radius" toml:"radius"`
}

// Load reads and decodes a symbology file, choosing the format by extension.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a symbology document. Unknown keys are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: empty document", ErrInvalidConfig)
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %v", ErrInvalidConfig, format)
	}
	return &f, nil
}

// Symbolizer builds the layer symbolizer. aff is the affine transform of
// the raster the symbolizer will draw; angle-based light directions are
// oriented for it with rastershade.LightForAffine.
func (f *File) Symbolizer(aff rastershade.Affine) (*rastershade.Symbolizer, error) {
	var ranges []rastershade.Range
	if f.Ramp != nil {
		rr, err := f.Ramp.Ranges()
		if err != nil {
			return nil, fmt.Errorf("%w: ramp: %w", ErrInvalidConfig, err)
		}
		ranges = rr
	}
	for i, rs := range f.Ranges {
		r, err := rs.Range()
		if err != nil {
			return nil, fmt.Errorf("%w: range %d: %w", ErrInvalidConfig, i, err)
		}
		ranges = append(ranges, r)
	}

	sym, err := rastershade.NewSymbolizer(ranges)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if f.NoDataColor != "" {
		c, err := rastershade.ParseHex(f.NoDataColor)
		if err != nil {
			return nil, fmt.Errorf("%w: nodata_color: %v", ErrInvalidConfig, err)
		}
		sym.NoDataColor = c
	}
	if f.Opacity != nil {
		op := *f.Opacity
		if !(op >= 0 && op <= 1) {
			return nil, fmt.Errorf("%w: opacity %v outside [0, 1]", ErrInvalidConfig, op)
		}
		sym.Opacity = op
	}
	if f.Relief != nil {
		relief, err := f.Relief.relief(aff)
		if err != nil {
			return nil, fmt.Errorf("%w: relief: %v", ErrInvalidConfig, err)
		}
		sym.Relief = relief
	}
	if f.Smooth != nil {
		opts, err := f.Smooth.options()
		if err != nil {
			return nil, fmt.Errorf("%w: smooth: %v", ErrInvalidConfig, err)
		}
		sym.Smooth = f.Smooth.Enabled == nil || *f.Smooth.Enabled
		sym.SmoothOptions = opts
	}
	return sym, nil
}

// Range converts rs into a classification range.
func (rs RangeSpec) Range() (rastershade.Range, error) {
	r := rastershade.Range{
		Min:          rastershade.Unbounded,
		Max:          rastershade.Unbounded,
		MinInclusive: !rs.MinExclusive,
		MaxInclusive: !rs.MaxExclusive,
	}
	if rs.Min != nil {
		r.Min = rastershade.At(*rs.Min)
	}
	if rs.Max != nil {
		r.Max = rastershade.At(*rs.Max)
	}

	gradient := rs.Low != "" || rs.High != ""
	switch {
	case rs.Color != "" && gradient:
		return r, errors.New("color and low/high are exclusive")
	case rs.Color != "":
		c, err := rastershade.ParseHex(rs.Color)
		if err != nil {
			return r, err
		}
		r.Fill = rastershade.Flat{Color: c}
	case rs.Low != "" && rs.High != "":
		low, err := rastershade.ParseHex(rs.Low)
		if err != nil {
			return r, fmt.Errorf("low: %w", err)
		}
		high, err := rastershade.ParseHex(rs.High)
		if err != nil {
			return r, fmt.Errorf("high: %w", err)
		}
		model, err := rastershade.ParseGradientModel(rs.Model)
		if err != nil {
			return r, err
		}
		r.Fill = rastershade.Gradient{Low: low, High: high, Model: model}
	default:
		return r, errors.New("needs color, or low and high")
	}
	return r, nil
}

func (rs *ReliefSpec) relief(aff rastershade.Affine) (rastershade.Relief, error) {
	r := rastershade.DefaultRelief()
	r.Used = rs.Enabled == nil || *rs.Enabled

	setFloat(&r.Extrusion, rs.Extrusion)
	setFloat(&r.ElevationFactor, rs.ElevationFactor)
	setFloat(&r.LightIntensity, rs.LightIntensity)
	setFloat(&r.AmbientIntensity, rs.AmbientIntensity)

	angles := rs.Azimuth != nil || rs.Altitude != nil
	switch {
	case angles && rs.LightDirection != nil:
		return r, errors.New("azimuth/altitude and light_direction are exclusive")
	case rs.LightDirection != nil:
		if len(rs.LightDirection) != 3 {
			return r, fmt.Errorf("light_direction needs 3 components, got %d", len(rs.LightDirection))
		}
		v := rastershade.V3(rs.LightDirection[0], rs.LightDirection[1], rs.LightDirection[2])
		if l := v.Length(); l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return r, errors.New("light_direction must be a finite non-zero vector")
		}
		r.LightDirection = v.Normalize()
	default:
		az, alt := 315.0, 45.0
		setFloat(&az, rs.Azimuth)
		setFloat(&alt, rs.Altitude)
		r.LightDirection = rastershade.LightForAffine(az, alt, aff)
	}
	return r, nil
}

func (s *SmoothSpec) options() (rastershade.SmoothOptions, error) {
	opts := rastershade.DefaultSmoothOptions()
	k, err := rastershade.ParseSmoothKernel(s.Kernel)
	if err != nil {
		return opts, err
	}
	opts.Kernel = k
	opts.Threshold = s.Threshold
	if s.Radius < 0 {
		return opts, fmt.Errorf("negative radius %d", s.Radius)
	}
	if s.Radius > 0 {
		opts.Radius = s.Radius
	}
	return opts, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
