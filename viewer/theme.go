// Package viewer is the raylib front end of a display: it draws snapshots,
// maps mouse and keyboard input to display gestures and hosts the control
// panel.
package viewer

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds drawing and UI styling constants.
type Theme struct {
	Background   rl.Color
	Node         rl.Color
	Hooked       rl.Color
	Nearest      rl.Color
	Link         rl.Color
	Obstacle     rl.Color
	ObstacleEdge rl.Color
	PanelBg      rl.Color
	PanelBorder  rl.Color
	Header       rl.Color
	Label        rl.Color
	Value        rl.Color
	TooltipBg    rl.Color

	NodeRadius     float32
	NearestRadius  float32
	Padding        int32
	LineHeight     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default theme.
func DefaultTheme() Theme {
	return Theme{
		Background:   rl.Color{R: 18, G: 22, B: 28, A: 255},
		Node:         rl.Color{R: 110, G: 190, B: 255, A: 255},
		Hooked:       rl.Orange,
		Nearest:      rl.Yellow,
		Link:         rl.Color{R: 90, G: 110, B: 130, A: 140},
		Obstacle:     rl.Color{R: 120, G: 60, B: 60, A: 200},
		ObstacleEdge: rl.Color{R: 200, G: 100, B: 100, A: 255},
		PanelBg:      rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:  rl.Color{R: 60, G: 70, B: 80, A: 255},
		Header:       rl.Yellow,
		Label:        rl.LightGray,
		Value:        rl.White,
		TooltipBg:    rl.Color{R: 0, G: 0, B: 0, A: 180},

		NodeRadius:     3,
		NearestRadius:  7,
		Padding:        10,
		LineHeight:     18,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}
