package analysis

import "github.com/san-kum/synapse/internal/metrics"

// Cascade is a burst of consecutive firing frames. Start is the frame
// number of its first trigger and Size the number of triggers it holds.
type Cascade struct {
	Start  int
	Frames int
	Size   int
}

// Cascades splits samples into bursts separated by more than gap quiet
// frames. Samples must be in frame order with cumulative trigger counts.
func Cascades(samples []metrics.Stats, gap int) []Cascade {
	var out []Cascade
	var cur *Cascade
	quiet := 0
	for i := 1; i < len(samples); i++ {
		fired := samples[i].Triggers - samples[i-1].Triggers
		if fired <= 0 {
			if cur != nil {
				quiet++
				if quiet > gap {
					out = append(out, *cur)
					cur = nil
				}
			}
			continue
		}
		if cur == nil {
			cur = &Cascade{Start: samples[i].Frame}
		}
		cur.Frames = samples[i].Frame - cur.Start + 1
		cur.Size += fired
		quiet = 0
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// LargestCascade returns the cascade with the most triggers.
func LargestCascade(cs []Cascade) (Cascade, bool) {
	if len(cs) == 0 {
		return Cascade{}, false
	}
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Size > best.Size {
			best = c
		}
	}
	return best, true
}
