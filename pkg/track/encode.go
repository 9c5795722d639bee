package track

// Constant region metadata that binds each result to the labeling config's
// <VideoRectangle name="box" toName="video"/> tag.
const (
	FromName   = "box"
	ToName     = "video"
	RegionType = "videorectangle"
	Origin     = "yolov8"
)

// ResultCollection is the prediction for one video, in Label Studio format
type ResultCollection struct {
	Result []ResultEntry `json:"result"`
}

// ResultEntry is a single video rectangle region
type ResultEntry struct {
	Value    RegionValue `json:"value"`
	FromName string      `json:"from_name"`
	ToName   string      `json:"to_name"`
	Type     string      `json:"type"`
	Origin   string      `json:"origin"`
}

type RegionValue struct {
	Sequence []Keyframe `json:"sequence"`
	Labels   []string   `json:"labels"`
}

// Keyframe is a box at one frame. If Enabled is true, the front-end interpolates
// the box from here to the next keyframe. If false, the object disappears after this frame.
type Keyframe struct {
	Frame   int     `json:"frame"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Enabled bool    `json:"enabled"`
}

// Encode converts groups into a ResultCollection.
// By default every run becomes its own ResultEntry. With options.MergeRuns, each group
// becomes one ResultEntry, and its runs are concatenated into a single sequence.
func Encode(groups []Group, options Options) *ResultCollection {
	c := &ResultCollection{
		Result: []ResultEntry{},
	}
	for _, g := range groups {
		runs := SplitRuns(g)
		if options.MergeRuns {
			seq := []Keyframe{}
			for _, r := range runs {
				seq = appendKeyframes(seq, r)
			}
			c.Result = append(c.Result, newResultEntry(seq, runs[0][0].Label))
		} else {
			for _, r := range runs {
				c.Result = append(c.Result, newResultEntry(appendKeyframes(nil, r), r[0].Label))
			}
		}
	}
	return c
}

// NumKeyframes returns the total number of keyframes over all entries
func (c *ResultCollection) NumKeyframes() int {
	n := 0
	for i := range c.Result {
		n += len(c.Result[i].Value.Sequence)
	}
	return n
}

func newResultEntry(seq []Keyframe, label string) ResultEntry {
	return ResultEntry{
		Value: RegionValue{
			Sequence: seq,
			Labels:   []string{label},
		},
		FromName: FromName,
		ToName:   ToName,
		Type:     RegionType,
		Origin:   Origin,
	}
}

// Interpolation is enabled on every keyframe of a run except the last one,
// so a single-frame run has interpolation disabled.
func appendKeyframes(seq []Keyframe, r Run) []Keyframe {
	for i, d := range r {
		seq = append(seq, Keyframe{
			Frame:   d.Frame,
			X:       d.X,
			Y:       d.Y,
			Width:   d.Width,
			Height:  d.Height,
			Enabled: i != len(r)-1,
		})
	}
	return seq
}
