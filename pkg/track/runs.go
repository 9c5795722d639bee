package track

// Run is a maximal stretch of a group's detections whose frame numbers increase by exactly 1.
// A Run is never empty.
type Run []Detection

func (r Run) FirstFrame() int {
	return r[0].Frame
}

func (r Run) LastFrame() int {
	return r[len(r)-1].Frame
}

// SplitRuns splits a group into runs of consecutive frames.
// The group's order is trusted as time order: anything other than prev+1
// (a gap, a repeated frame, or a step backwards) ends the current run.
// The runs share their backing array with g.Detections.
func SplitRuns(g Group) []Run {
	d := g.Detections
	if len(d) == 0 {
		return nil
	}
	runs := []Run{}
	start := 0
	for i := 1; i < len(d); i++ {
		if d[i].Frame != d[i-1].Frame+1 {
			runs = append(runs, Run(d[start:i:i]))
			start = i
		}
	}
	runs = append(runs, Run(d[start:]))
	return runs
}
