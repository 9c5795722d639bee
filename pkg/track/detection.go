package track

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Number of comma-separated fields in a tracker output line:
// frame, object id, x, y, width, height, 4 unused columns, label, class id
const NumFields = 12

// Detection is one line of tracker output: a single object seen in a single frame.
// Geometry is in whatever units the tracker emitted (normally percentages of the frame size).
type Detection struct {
	Frame    int     `json:"frame"`
	ObjectID int     `json:"objectID"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Label    string  `json:"label"` // Display label, first letter capitalized
	ClassID  int     `json:"classID"`
}

// Identity of a tracked object. The tracker's object ID alone is not enough,
// because the same ID can be reported with different classes.
type Identity struct {
	ObjectID int `json:"objectID"`
	ClassID  int `json:"classID"`
}

func (d *Detection) Identity() Identity {
	return Identity{ObjectID: d.ObjectID, ClassID: d.ClassID}
}

// ParseDetection parses one line of tracker output.
// Leading and trailing whitespace (including the line terminator) is ignored.
func ParseDetection(line string) (Detection, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != NumFields {
		return Detection{}, &MalformedRecordError{
			Reason: "expected " + strconv.Itoa(NumFields) + " fields, got " + strconv.Itoa(len(fields)),
		}
	}

	p := fieldParser{fields: fields}
	d := Detection{
		Frame:    p.int(0, "frame"),
		ObjectID: p.int(1, "object_id"),
		X:        p.float(2, "x"),
		Y:        p.float(3, "y"),
		Width:    p.float(4, "width"),
		Height:   p.float(5, "height"),
		Label:    CapitalizeFirst(fields[10]),
		ClassID:  p.int(11, "class_id"),
	}
	if p.err != nil {
		return Detection{}, p.err
	}
	return d, nil
}

// CapitalizeFirst upper-cases the first character of s, and leaves the rest untouched.
// "parking meter" becomes "Parking meter".
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	return string(upper) + s[size:]
}

// fieldParser remembers the first conversion error, so that ParseDetection
// can read all of its fields without an error check after each one.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) int(i int, name string) int {
	if p.err != nil {
		return 0
	}
	raw := strings.TrimSpace(p.fields[i])
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.err = &MalformedRecordError{Field: name, Value: raw, Reason: "not an integer", Err: err}
	}
	return v
}

func (p *fieldParser) float(i int, name string) float64 {
	if p.err != nil {
		return 0
	}
	raw := strings.TrimSpace(p.fields[i])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = &MalformedRecordError{Field: name, Value: raw, Reason: "not a number", Err: err}
	}
	return v
}
