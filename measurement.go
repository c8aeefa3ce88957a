package deckexport

import "math"

// EMU (English Metric Units) conversion helpers for the PPTX writer.
// 1 inch = 914400 EMU, 1 point = 12700 EMU.

const (
	emuPerInch  = 914400
	emuPerPoint = 12700
	// maxEMU is the maximum safe EMU value to prevent overflow.
	maxEMU = math.MaxInt64 / 2
)

// Exact EMU extents of the standard 16:9 slide surface. The inch-based
// canvas constants round to 13.333 in; the wire format uses these exact
// values so the slide size matches what PowerPoint itself writes.
const (
	canvasEMUWidth  int64 = 12192000
	canvasEMUHeight int64 = 6858000
)

// Inch converts inches to EMU. Clamps to safe range.
func Inch(n float64) int64 {
	return clampEMU(n * emuPerInch)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return clampEMU(n * emuPerPoint)
}

// EMUToInch converts EMU to inches.
func EMUToInch(emu int64) float64 {
	return float64(emu) / emuPerInch
}

// clampEMU converts a float64 to int64, clamping to prevent overflow.
func clampEMU(v float64) int64 {
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(v)
}

// emuBox converts an inch-based geometry box to EMU offsets and extents.
func emuBox(b Box) (x, y, w, h int64) {
	return Inch(b.X), Inch(b.Y), Inch(b.W), Inch(b.H)
}

// pixels converts inches to pixels at the given pixels-per-inch scale,
// rounding to the nearest pixel.
func pixels(inches, ppi float64) int {
	return int(math.Round(inches * ppi))
}
