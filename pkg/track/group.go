package track

import (
	"cmp"
	"slices"
)

// Group is all of the detections of a single tracked object, in input order
type Group struct {
	Identity   Identity
	Detections []Detection
}

// GroupByIdentity partitions detections by (ObjectID, ClassID).
// Groups are returned in the order in which their identity was first seen, and
// each group preserves the relative order of its detections. Duplicates are kept.
func GroupByIdentity(detections []Detection) []Group {
	groups := []Group{}
	index := map[Identity]int{}
	for _, d := range detections {
		id := d.Identity()
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, Group{Identity: id})
		}
		groups[i].Detections = append(groups[i].Detections, d)
	}
	return groups
}

// SortFrames stable-sorts each group's detections by frame number.
// Detections of the same frame keep their input order.
func SortFrames(groups []Group) {
	for i := range groups {
		slices.SortStableFunc(groups[i].Detections, func(a, b Detection) int {
			return cmp.Compare(a.Frame, b.Frame)
		})
	}
}
