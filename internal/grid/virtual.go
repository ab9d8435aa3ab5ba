package grid

// DefaultVirtualSpacing is the fallback axis pitch in millimetres for
// synthesized grids.
const DefaultVirtualSpacing = 10000

// Synthesize builds a virtual grid over an element extent when no real
// axes exist. Primary axes walk X from the extent minimum at the given
// spacing, one step past the maximum; secondary axes walk Y the same way.
func Synthesize(extent Bounds, spacing float64) *Grid {
	if spacing <= 0 {
		spacing = DefaultVirtualSpacing
	}

	var primary []Axis
	for i, pos := 0, extent.XMin; pos <= extent.XMax+spacing; i, pos = i+1, pos+spacing {
		primary = append(primary, Axis{Tag: LetterTag(i), Family: Primary, Position: pos})
	}
	var secondary []Axis
	for i, pos := 0, extent.YMin; pos <= extent.YMax+spacing; i, pos = i+1, pos+spacing {
		secondary = append(secondary, Axis{Tag: NumberTag(i), Family: Secondary, Position: pos})
	}

	return &Grid{
		Primary:   primary,
		Secondary: secondary,
		Cells:     deriveCells(primary, secondary),
		Virtual:   true,
	}
}
