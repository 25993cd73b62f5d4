package grammar

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Marker scopes every line the grammar recognizes.
const Marker = "print-type-size"

// Shape classifies one report line.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeType
	ShapeVariant
	ShapeDiscriminant
	ShapeUpvar
	ShapeLocal
	ShapeField
	ShapePadding
	ShapeEndPadding
	ShapeUnhandled
)

var shapeNames = [...]string{
	ShapeNone:         "none",
	ShapeType:         "type",
	ShapeVariant:      "variant",
	ShapeDiscriminant: "discriminant",
	ShapeUpvar:        "upvar",
	ShapeLocal:        "local",
	ShapeField:        "field",
	ShapePadding:      "padding",
	ShapeEndPadding:   "end padding",
	ShapeUnhandled:    "unhandled",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "Shape(" + strconv.Itoa(int(s)) + ")"
	}
	return shapeNames[s]
}

// Line is a classified report line. Which fields are meaningful depends on
// Shape: Name for type, variant, field, upvar and local; Align for type
// headers; Offset and FieldAlign for fields and upvars; TypeInfo for locals.
type Line struct {
	Offset     *uint64
	FieldAlign *uint64
	Raw        string
	Name       string
	TypeInfo   string
	Shape      Shape
	Size       uint64
	Align      uint64
}

type rule struct {
	re    *regexp.Regexp
	build func(m []string) (Line, bool)
	shape Shape
}

const prefix = `^\s*` + Marker + `\s+`

// rules is tested in order; the first match wins.
var rules = sync.OnceValue(func() []rule {
	return []rule{
		{
			shape: ShapeType,
			re:    regexp.MustCompile(prefix + "type: `(.+?)`: (\\d+) bytes, alignment: (\\d+) bytes"),
			build: func(m []string) (Line, bool) {
				size, ok1 := parseUint(m[2])
				align, ok2 := parseUint(m[3])
				return Line{Name: m[1], Size: size, Align: align}, ok1 && ok2
			},
		},
		{
			shape: ShapeVariant,
			re:    regexp.MustCompile(prefix + "variant `(.+?)`: (\\d+) bytes"),
			build: func(m []string) (Line, bool) {
				size, ok := parseUint(m[2])
				return Line{Name: strings.Trim(m[1], "`"), Size: size}, ok
			},
		},
		{
			shape: ShapeDiscriminant,
			re:    regexp.MustCompile(prefix + `discriminant: (\d+) bytes`),
			build: sizeOnly,
		},
		{
			shape: ShapeUpvar,
			re:    regexp.MustCompile(prefix + "upvar `(.+?)`: (\\d+) bytes(?:, offset: (\\d+) bytes, alignment: (\\d+) bytes)?"),
			build: func(m []string) (Line, bool) {
				size, ok := parseUint(m[2])
				l := Line{Name: m[1], Size: size}
				if m[3] != "" {
					var ok1, ok2 bool
					l.Offset, ok1 = optUint(m[3])
					l.FieldAlign, ok2 = optUint(m[4])
					ok = ok && ok1 && ok2
				}
				return l, ok
			},
		},
		{
			shape: ShapeLocal,
			re:    regexp.MustCompile(prefix + "local `(.+?)`: (\\d+) bytes(?:, type: (.+))?"),
			build: func(m []string) (Line, bool) {
				size, ok := parseUint(m[2])
				return Line{Name: m[1], Size: size, TypeInfo: m[3]}, ok
			},
		},
		{
			shape: ShapeField,
			re:    regexp.MustCompile(prefix + "field (?:`(\\..+?)`|(\\..+?)): (\\d+) bytes(.*)"),
			build: func(m []string) (Line, bool) {
				name := m[1]
				if name == "" {
					name = m[2]
				}
				size, ok := parseUint(m[3])
				l := Line{Name: name, Size: size}
				var ok1, ok2 bool
				l.Offset, ok1 = attr(offsetAttr, m[4])
				l.FieldAlign, ok2 = attr(alignAttr, m[4])
				return l, ok && ok1 && ok2
			},
		},
		{
			shape: ShapePadding,
			re:    regexp.MustCompile(prefix + `padding: (\d+) bytes`),
			build: sizeOnly,
		},
		{
			shape: ShapeEndPadding,
			re:    regexp.MustCompile(prefix + `end padding: (\d+) bytes`),
			build: sizeOnly,
		},
	}
})

var (
	offsetAttr = regexp.MustCompile(`offset: (\d+)`)
	alignAttr  = regexp.MustCompile(`alignment: (\d+)`)
)

// Classify returns the shape of line and the values it carries.
// Blank lines and lines without Marker are ShapeNone. Lines carrying the
// marker that match no rule, or whose numbers overflow, are ShapeUnhandled.
func Classify(line string) Line {
	if strings.TrimSpace(line) == "" || !strings.Contains(line, Marker) {
		return Line{Shape: ShapeNone, Raw: line}
	}

	for _, r := range rules() {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		l, ok := r.build(m)
		if !ok {
			break
		}
		l.Shape = r.shape
		l.Raw = line
		return l
	}

	return Line{Shape: ShapeUnhandled, Raw: line}
}

func sizeOnly(m []string) (Line, bool) {
	size, ok := parseUint(m[1])
	return Line{Size: size}, ok
}

func parseUint(s string) (uint64, bool) {
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}

func optUint(s string) (*uint64, bool) {
	if s == "" {
		return nil, true
	}
	v, ok := parseUint(s)
	if !ok {
		return nil, false
	}
	return &v, true
}

// attr extracts an optional attribute from a field's trailing text.
func attr(re *regexp.Regexp, tail string) (*uint64, bool) {
	m := re.FindStringSubmatch(tail)
	if m == nil {
		return nil, true
	}
	return optUint(m[1])
}
