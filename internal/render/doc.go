// Package render drives the frame cycle of a particle field.
//
// A [Loop] owns exactly one [field.Field] and one [graph.Graph]. Hosts
// supply a [Surface] to draw on, a [FrameSource] that invokes a callback
// once per presented frame and, optionally, an [EventSource] for pointer,
// scroll and resize input. All coordinates crossing this boundary are in
// device pixels; the loop divides by the pixel ratio before touching the
// field.
//
// The loop has two states:
//
//	Idle --Start--> Running --Stop--> Idle
//
// Resize is accepted in both and leaves the state unchanged. Stop may be
// called any number of times.
package render
