// Package telemetry records what the viewer shows: windows of draw and
// gesture activity, frame timing and realtime pacing, with CSV output.
package telemetry

// EventType identifies a user interaction counted by the collector.
type EventType uint8

const (
	EventPan EventType = iota
	EventZoom
	EventRotate
	EventHook
	EventTrack
	EventFit
	EventModeChange
	numEventTypes
)

var eventNames = [numEventTypes]string{"pan", "zoom", "rotate", "hook", "track", "fit", "mode_change"}

func (e EventType) String() string {
	if e < numEventTypes {
		return eventNames[e]
	}
	return "unknown"
}
