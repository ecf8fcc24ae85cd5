package resample

import (
	"math"
	"strings"

	"github.com/nawwwal/nanopng/internal/pixel"
)

// FitMode reconciles a source aspect ratio with a target box.
type FitMode int

const (
	// FitContain scales to fit entirely inside the target box.
	FitContain FitMode = iota
	// FitFill stretches to the exact target dimensions.
	FitFill
	// FitCover scales to fill the box, then center-crops to it.
	FitCover
	// FitOutside scales so the smaller dimension covers the box, no crop.
	FitOutside
)

// ParseFitMode maps a host-supplied name to a FitMode. Unrecognized
// names (and the "inside" alias) resolve to FitContain.
func ParseFitMode(name string) FitMode {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fill":
		return FitFill
	case "cover":
		return FitCover
	case "outside":
		return FitOutside
	default:
		return FitContain
	}
}

func (m FitMode) String() string {
	switch m {
	case FitFill:
		return "fill"
	case FitCover:
		return "cover"
	case FitOutside:
		return "outside"
	default:
		return "contain"
	}
}

// CalculateFit returns the intermediate scaled dimensions for the mode
// and, for FitCover, the centered crop region to apply after scaling.
// Callers must guarantee srcW, srcH, targetW, targetH > 0. Scaled
// dimensions are floored at 1 so no degenerate buffer is ever produced.
func CalculateFit(srcW, srcH, targetW, targetH int, mode FitMode) (int, int, *pixel.Region) {
	switch mode {
	case FitFill:
		return targetW, targetH, nil
	case FitCover:
		scale := math.Max(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
		scaledW := atLeast1(int(math.Round(float64(srcW) * scale)))
		scaledH := atLeast1(int(math.Round(float64(srcH) * scale)))
		crop := &pixel.Region{
			X:      max(0, scaledW-targetW) / 2,
			Y:      max(0, scaledH-targetH) / 2,
			Width:  targetW,
			Height: targetH,
		}
		return scaledW, scaledH, crop
	case FitOutside:
		scale := math.Max(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
		return atLeast1(int(math.Round(float64(srcW) * scale))),
			atLeast1(int(math.Round(float64(srcH) * scale))),
			nil
	default: // FitContain
		scale := math.Min(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
		return atLeast1(int(math.Round(float64(srcW) * scale))),
			atLeast1(int(math.Round(float64(srcH) * scale))),
			nil
	}
}

func atLeast1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
