// Package viz draws rendered bridge frames in the terminal.
//
// Frames are rasterized onto a Braille [Canvas], two by four dots per
// character cell, with each cell colored from the value ramp. [Model] is a
// Bubble Tea application that advances the time step on a fixed tick.
//
// # Key Bindings
//
//	Space - Pause/Resume animation
//	N/P   - Step forward/back
//	V     - Cycle variables
//	T     - Cycle color themes
//	Tab   - Select next node (or click one)
//	?     - Show help overlay
package viz
