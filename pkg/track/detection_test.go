package track

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDetection(t *testing.T) {
	d, err := ParseDetection("1,2,3,4,5,6,-1,-1,-1,-1,label,7\r\n")
	require.NoError(t, err)
	require.Equal(t, Detection{
		Frame:    1,
		ObjectID: 2,
		X:        3,
		Y:        4,
		Width:    5,
		Height:   6,
		Label:    "Label",
		ClassID:  7,
	}, d)
	require.Equal(t, Identity{ObjectID: 2, ClassID: 7}, d.Identity())

	d, err = ParseDetection("  150,1,37.8125,41.6667,7.5,41.25,a,b,c,d,parking meter,12  ")
	require.NoError(t, err)
	require.Equal(t, 150, d.Frame)
	require.Equal(t, 41.6667, d.Y)
	require.Equal(t, "Parking meter", d.Label)
	require.Equal(t, 12, d.ClassID)
}

func TestParseDetectionMalformed(t *testing.T) {
	cases := []struct {
		line  string
		field string
	}{
		{"1,1,38.125,44.1667,7.8125,37.5,-1,-1,-1,parking meter,12", ""},
		{"1,1,38.125,44.1667,7.8125,37.5,-1,-1,-1,-1,parking meter,12,9", ""},
		{"", ""},
		{"x,1,38.125,44.1667,7.8125,37.5,-1,-1,-1,-1,car,12", "frame"},
		{"1.5,1,38.125,44.1667,7.8125,37.5,-1,-1,-1,-1,car,12", "frame"},
		{"1,1,38.125,abc,7.8125,37.5,-1,-1,-1,-1,car,12", "y"},
		{"1,1,38.125,44.1667,,37.5,-1,-1,-1,-1,car,12", "width"},
		{"1,1,38.125,44.1667,7.8125,37.5,-1,-1,-1,-1,car,twelve", "class_id"},
	}
	for i, c := range cases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := ParseDetection(c.line)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformedRecord)
			var mErr *MalformedRecordError
			require.True(t, errors.As(err, &mErr))
			require.Equal(t, c.field, mErr.Field)
		})
	}
}

func TestCapitalizeFirst(t *testing.T) {
	require.Equal(t, "Parking meter", CapitalizeFirst("parking meter"))
	require.Equal(t, "Car", CapitalizeFirst("car"))
	require.Equal(t, "Car", CapitalizeFirst("Car"))
	require.Equal(t, "TV", CapitalizeFirst("tV"))
	require.Equal(t, "", CapitalizeFirst(""))
	require.Equal(t, "Élan", CapitalizeFirst("élan"))
	require.Equal(t, "1st", CapitalizeFirst("1st"))
}

func TestMalformedRecordErrorMessage(t *testing.T) {
	err := &MalformedRecordError{Line: 3, Field: "x", Value: "abc", Reason: "not a number"}
	require.Equal(t, `malformed track record on line 3: field x ("abc"): not a number`, err.Error())
	err = &MalformedRecordError{Reason: "expected 12 fields, got 11"}
	require.Equal(t, "malformed track record: expected 12 fields, got 11", err.Error())
}
