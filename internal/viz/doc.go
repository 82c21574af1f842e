// Package viz draws the particle network in a terminal.
//
//   - [Canvas]: Braille-based dot surface implementing render.Surface
//   - [Theme]: five built-in color schemes (mono, cyberpunk, retro, ocean, sunset)
//
// Each terminal cell holds a 2x4 block of braille dots, so a Canvas is
// twice as wide and four times as tall in dots as it is in cells.
// Translucent strokes and glow halos are approximated with a 4x4 Bayer
// ordered dither: a dot lights when the requested alpha exceeds the
// matrix threshold at its position.
package viz
