// Package field provides the particle population behind the animation.
//
// A [Field] owns a flat arena of [Particle] values addressed by index,
// the viewport bounds they live in and a private clock advanced by
// [Field.Update]. Activity pulses spread through an attached [Topology]
// with randomized delays; those delays are queued on a [Scheduler] keyed
// on the field clock rather than on OS timers, so a field only ever
// changes inside Update or a direct call from the goroutine driving it.
//
// # Generations
//
// [Field.Reset] replaces every particle and bumps the generation.
// Delayed work scheduled under an older generation is dropped when it
// comes due:
//
//	f := field.New(field.DefaultOptions(), 800, 600, rng)
//	f.Trigger(0)
//	f.Reset(1024, 768) // the pending propagation from particle 0 is dropped
//
// # Thread Safety
//
// Field is NOT thread-safe. It expects a single frame-driving goroutine.
package field
