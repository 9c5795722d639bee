package track

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func det(frame, objectID, classID int) Detection {
	return Detection{Frame: frame, ObjectID: objectID, ClassID: classID, Label: "Obj"}
}

func frames[T ~[]Detection](d T) []int {
	f := []int{}
	for _, x := range d {
		f = append(f, x.Frame)
	}
	return f
}

func TestGroupByIdentity(t *testing.T) {
	detections, err := ReadDetections(openTestFile(t, "small_input.txt"))
	require.NoError(t, err)
	require.Len(t, detections, 8)

	groups := GroupByIdentity(detections)
	require.Len(t, groups, 4)

	// first-seen order
	require.Equal(t, Identity{1, 12}, groups[0].Identity)
	require.Equal(t, Identity{1, 13}, groups[1].Identity)
	require.Equal(t, Identity{1, 15}, groups[2].Identity)
	require.Equal(t, Identity{1, 6}, groups[3].Identity)

	require.Len(t, groups[0].Detections, 2)
	require.Len(t, groups[1].Detections, 1)
	require.Len(t, groups[2].Detections, 1)
	require.Len(t, groups[3].Detections, 4)
}

func TestGroupByIdentityInterleaved(t *testing.T) {
	in := []Detection{
		det(1, 1, 0),
		det(1, 2, 0),
		det(2, 1, 0),
		det(2, 1, 5), // same object ID, different class
		det(2, 2, 0),
		det(2, 2, 0), // duplicate is kept
		det(3, 1, 0),
	}
	groups := GroupByIdentity(in)
	require.Len(t, groups, 3)
	require.Equal(t, Identity{1, 0}, groups[0].Identity)
	require.Equal(t, []int{1, 2, 3}, frames(groups[0].Detections))
	require.Equal(t, Identity{2, 0}, groups[1].Identity)
	require.Equal(t, []int{1, 2, 2}, frames(groups[1].Detections))
	require.Equal(t, Identity{1, 5}, groups[2].Identity)
	require.Equal(t, []int{2}, frames(groups[2].Detections))

	// Every detection lands in exactly one group
	total := 0
	for _, g := range groups {
		for _, d := range g.Detections {
			require.Equal(t, g.Identity, d.Identity())
		}
		total += len(g.Detections)
	}
	require.Equal(t, len(in), total)
}

func TestGroupByIdentityEmpty(t *testing.T) {
	require.Empty(t, GroupByIdentity(nil))
}

func TestSortFrames(t *testing.T) {
	a := det(5, 1, 0)
	a.X = 1
	b := det(5, 1, 0)
	b.X = 2
	groups := GroupByIdentity([]Detection{det(7, 1, 0), a, det(6, 1, 0), b, det(2, 3, 3), det(1, 3, 3)})
	SortFrames(groups)
	require.Equal(t, []int{5, 5, 6, 7}, frames(groups[0].Detections))
	// stable: a stays before b
	require.Equal(t, 1.0, groups[0].Detections[0].X)
	require.Equal(t, 2.0, groups[0].Detections[1].X)
	require.Equal(t, []int{1, 2}, frames(groups[1].Detections))
}
