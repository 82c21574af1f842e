// Package analysis characterises recorded runs.
//
//   - [PowerSpectrum]: magnitude spectrum of a frame series via gonum's FFT
//   - [Rhythm]: dominant period of a series, such as mean activity
//   - [Cascades]: runs of consecutive frames in which particles fired
//
// # Cascades
//
// A cascade starts on a frame whose trigger count rose and lasts while
// the count keeps rising, allowing gaps of up to the given number of
// quiet frames. Its size is the number of triggers it contained:
//
//	for _, c := range analysis.Cascades(frames, 6) {
//	    fmt.Println(c.Start, c.Frames, c.Size)
//	}
package analysis
