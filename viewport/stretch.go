package viewport

// Stretch is the non-isometric scaling policy of a viewport. The concrete
// variants are IsometricStretch, AdaptStretch, SettableStretch and
// MapStretch; each carries only the state its mode needs.
type Stretch interface {
	Mode() Mode
	rates() (h, v float64)
}

// IsometricStretch scales both axes equally.
type IsometricStretch struct{}

// AdaptStretch holds the view/env ratios captured when the mode was entered.
// They are not recomputed on resize; call RefreshStretch for that.
type AdaptStretch struct {
	H, V float64
}

// SettableStretch holds rates chosen by the caller.
type SettableStretch struct {
	H, V float64
}

// MapStretch marks a geographic viewport; the projection defines the scale.
type MapStretch struct{}

func (IsometricStretch) Mode() Mode { return Isometric }
func (AdaptStretch) Mode() Mode     { return AdaptToView }
func (SettableStretch) Mode() Mode  { return Settable }
func (MapStretch) Mode() Mode       { return Map }

func (IsometricStretch) rates() (float64, float64)  { return 1, 1 }
func (s AdaptStretch) rates() (float64, float64)    { return s.H, s.V }
func (s SettableStretch) rates() (float64, float64) { return s.H, s.V }
func (MapStretch) rates() (float64, float64)        { return 1, 1 }

// adaptRates returns view/env per axis; degenerate environments map 1:1.
func adaptRates(view, env Size) AdaptStretch {
	s := AdaptStretch{H: 1, V: 1}
	if env.W > 0 {
		s.H = view.W / env.W
	}
	if env.H > 0 {
		s.V = view.H / env.H
	}
	return s
}
