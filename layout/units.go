package layout

// This file defines the numeric constants of the fitting algorithm and the
// unit bridge to the drawing backend.

// Fitting constants.
const (
	LineHeightFactor = 1.15 // line pitch as a multiple of the font size
	MinFontSize      = 8    // floor for shrinking
	FontSizeStep     = 2    // shrink decrement per iteration
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// The canvas backend works in millimetres with font sizes in points. Layout maps
// one template pixel onto one backend millimetre and rasterizes at 1 dot per mm,
// so a font of N pixels em-height needs N mm, i.e. N*MmToPt points.

// PxToPt converts a pixel size into the point size expected by the backend.
func PxToPt(px float64) float64 { return px * MmToPt }

// LineHeight returns the line pitch for a font size in pixels.
func LineHeight(fontSize int) float64 { return float64(fontSize) * LineHeightFactor }
