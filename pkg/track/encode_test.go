package track

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func checkEnabledLaw(t *testing.T, seq []Keyframe) {
	t.Helper()
	for i, k := range seq {
		require.Equal(t, i != len(seq)-1, k.Enabled, "keyframe %v of %v", i, len(seq))
	}
}

func TestEncodeOneEntryPerRun(t *testing.T) {
	groups := []Group{
		groupOfFrames(150, 151, 158, 159),
		{Identity: Identity{2, 3}, Detections: []Detection{{Frame: 9, ObjectID: 2, ClassID: 3, Label: "Dog"}}},
	}
	c := Encode(groups, Options{})
	require.Len(t, c.Result, 3)
	require.Equal(t, 5, c.NumKeyframes())

	require.Equal(t, []Keyframe{{Frame: 150, Enabled: true}, {Frame: 151, Enabled: false}}, c.Result[0].Value.Sequence)
	require.Equal(t, []Keyframe{{Frame: 158, Enabled: true}, {Frame: 159, Enabled: false}}, c.Result[1].Value.Sequence)
	require.Equal(t, []Keyframe{{Frame: 9, Enabled: false}}, c.Result[2].Value.Sequence)
	require.Equal(t, []string{"Dog"}, c.Result[2].Value.Labels)

	for _, e := range c.Result {
		checkEnabledLaw(t, e.Value.Sequence)
		require.Equal(t, "box", e.FromName)
		require.Equal(t, "video", e.ToName)
		require.Equal(t, "videorectangle", e.Type)
		require.Equal(t, "yolov8", e.Origin)
	}
}

func TestEncodeMergeRuns(t *testing.T) {
	c := Encode([]Group{groupOfFrames(1, 2, 3, 7, 10, 11)}, Options{MergeRuns: true})
	require.Len(t, c.Result, 1)
	enabled := []bool{}
	for _, k := range c.Result[0].Value.Sequence {
		enabled = append(enabled, k.Enabled)
	}
	require.Equal(t, []bool{true, true, false, false, true, false}, enabled)
}

// The label of an entry comes from the first detection of its run,
// even if the tracker changed its mind about the label later on.
func TestEncodeLabelFromFirstDetection(t *testing.T) {
	g := Group{Identity: Identity{1, 2}, Detections: []Detection{
		{Frame: 1, Label: "Car"},
		{Frame: 2, Label: "Truck"},
		{Frame: 5, Label: "Bus"},
		{Frame: 6, Label: "Car"},
	}}
	c := Encode([]Group{g}, Options{})
	require.Equal(t, []string{"Car"}, c.Result[0].Value.Labels)
	require.Equal(t, []string{"Bus"}, c.Result[1].Value.Labels)

	c = Encode([]Group{g}, Options{MergeRuns: true})
	require.Equal(t, []string{"Car"}, c.Result[0].Value.Labels)
}

func TestEncodeEmpty(t *testing.T) {
	c := Encode(nil, Options{})
	b, err := json.Marshal(c)
	require.NoError(t, err)
	require.Equal(t, `{"result":[]}`, string(b))
}

func TestEncodeJSONShape(t *testing.T) {
	g := Group{Identity: Identity{1, 12}, Detections: []Detection{
		{Frame: 1, X: 38.125, Y: 44.1667, Width: 7.8125, Height: 37.5, Label: "Parking meter"},
	}}
	b, err := json.Marshal(Encode([]Group{g}, Options{}))
	require.NoError(t, err)
	require.Equal(t,
		`{"result":[{"value":{"sequence":[{"frame":1,"x":38.125,"y":44.1667,"width":7.8125,"height":37.5,"enabled":false}],"labels":["Parking meter"]},"from_name":"box","to_name":"video","type":"videorectangle","origin":"yolov8"}]}`,
		string(b))
}
