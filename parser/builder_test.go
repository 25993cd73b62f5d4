package parser

import (
	stderrors "errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wippyai/typesize/errors"
	"github.com/wippyai/typesize/layout"
)

var ignoreRaw = cmpopts.IgnoreFields(layout.Layout{}, "Raw")

func u64(v uint64) *uint64 { return &v }

func parseString(t *testing.T, report string) []*layout.Layout {
	t.Helper()
	layouts, err := Parse(strings.NewReader(report))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return layouts
}

func TestParseStruct(t *testing.T) {
	report := `
print-type-size type: ` + "`Point`" + `: 16 bytes, alignment: 8 bytes
print-type-size     field ` + "`.x`" + `: 8 bytes, offset: 0 bytes, alignment: 8 bytes
print-type-size     field ` + "`.y`" + `: 4 bytes
print-type-size     end padding: 4 bytes
`
	got := parseString(t, report)
	want := []*layout.Layout{{
		Name:  "Point",
		Size:  16,
		Align: 8,
		Kind: &layout.Struct{Entries: []layout.Entry{
			&layout.Field{Name: ".x", Size: 8, Offset: u64(0), Align: u64(8)},
			&layout.Field{Name: ".y", Size: 4},
			&layout.Padding{Size: 4},
		}},
	}}

	if diff := cmp.Diff(want, got, ignoreRaw, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("layouts mismatch (-want +got):\n%s", diff)
	}
	if len(got[0].Raw) != 4 {
		t.Errorf("raw lines: got %d, want 4", len(got[0].Raw))
	}
	if err := got[0].Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestParseEnum(t *testing.T) {
	lines := []string{
		"print-type-size type: `Shape`: 24 bytes, alignment: 8 bytes",
		"print-type-size     discriminant: 8 bytes",
		"print-type-size     variant `Circle`: 8 bytes",
		"print-type-size         field `.0`: 8 bytes",
		"print-type-size     variant `Rect`: 16 bytes",
		"print-type-size         field `.0`: 8 bytes",
		"print-type-size         padding: 0 bytes",
		"print-type-size         field `.1`: 8 bytes",
		"print-type-size     variant `Empty`: 0 bytes",
		"print-type-size     end padding: 0 bytes",
	}
	got := ParseLines(lines)
	want := []*layout.Layout{{
		Name:  "Shape",
		Size:  24,
		Align: 8,
		Raw:   lines,
		Kind: &layout.Enum{
			DiscriminantSize: 8,
			Variants: []*layout.Variant{
				{Name: "Circle", Size: 8, Entries: []layout.Entry{&layout.Field{Name: ".0", Size: 8}}},
				{Name: "Rect", Size: 16, Entries: []layout.Entry{
					&layout.Field{Name: ".0", Size: 8},
					&layout.Padding{Size: 0},
					&layout.Field{Name: ".1", Size: 8},
				}},
				{Name: "Empty", Size: 0},
			},
		},
	}}

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("layouts mismatch (-want +got):\n%s", diff)
	}
	if err := got[0].Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestParseDiscriminantAfterVariant(t *testing.T) {
	got := ParseLines([]string{
		"print-type-size type: `E`: 2 bytes, alignment: 1 bytes",
		"print-type-size     variant `A`: 1 bytes",
		"print-type-size         field `.0`: 1 bytes",
		"print-type-size     discriminant: 1 bytes",
	})
	e, ok := got[0].Kind.(*layout.Enum)
	if !ok {
		t.Fatalf("kind: got %T, want *layout.Enum", got[0].Kind)
	}
	if e.DiscriminantSize != 1 || len(e.Variants) != 1 {
		t.Errorf("enum: got disc %d, %d variants", e.DiscriminantSize, len(e.Variants))
	}
}

func TestParseUnionReclassification(t *testing.T) {
	got := ParseLines([]string{
		"print-type-size type: `MaybeUninit<u64>`: 8 bytes, alignment: 8 bytes",
		"print-type-size     variant `MaybeUninit`: 8 bytes",
		"print-type-size         field `.uninit`: 0 bytes",
		"print-type-size         field `.value`: 8 bytes",
		"print-type-size type: `IntOrFloat`: 8 bytes, alignment: 8 bytes",
		"print-type-size     variant `IntOrFloat`: 8 bytes",
		"print-type-size         field `.i`: 4 bytes",
		"print-type-size         padding: 4 bytes",
		"print-type-size         field `.f`: 8 bytes",
		"print-type-size         upvar `.c`: 8 bytes",
	})

	if len(got) != 2 {
		t.Fatalf("layouts: got %d, want 2", len(got))
	}

	// Name differs from the variant: stays an enum.
	if _, ok := got[0].Kind.(*layout.Enum); !ok {
		t.Errorf("first kind: got %T, want *layout.Enum", got[0].Kind)
	}

	want := &layout.Union{Fields: []*layout.Field{
		{Name: ".i", Size: 4},
		{Name: ".f", Size: 8},
	}}
	if diff := cmp.Diff(want, got[1].Kind); diff != "" {
		t.Errorf("union mismatch (-want +got):\n%s", diff)
	}
	if err := got[1].Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestParseTwoVariantsNamedAfterLayoutStayEnum(t *testing.T) {
	got := ParseLines([]string{
		"print-type-size type: `U`: 4 bytes, alignment: 4 bytes",
		"print-type-size     variant `U`: 4 bytes",
		"print-type-size         field `.a`: 4 bytes",
		"print-type-size     variant `V`: 4 bytes",
		"print-type-size         field `.a`: 4 bytes",
	})
	if _, ok := got[0].Kind.(*layout.Enum); !ok {
		t.Errorf("kind: got %T, want *layout.Enum", got[0].Kind)
	}
}

func TestParseClosure(t *testing.T) {
	got := ParseLines([]string{
		"print-type-size type: `{async block@src/main.rs:3:5: 5:6}`: 16 bytes, alignment: 8 bytes",
		"print-type-size     discriminant: 1 bytes",
		"print-type-size     variant `Unresumed`: 8 bytes",
		"print-type-size         upvar `.x`: 8 bytes, offset: 8 bytes, alignment: 8 bytes",
		"print-type-size     variant `Suspend0`: 15 bytes",
		"print-type-size         upvar `.x`: 8 bytes, offset: 8 bytes, alignment: 8 bytes",
		"print-type-size         local `.y`: 7 bytes, type: [u8; 7]",
		"print-type-size     variant `Returned`: 0 bytes",
	})

	e := got[0].Kind.(*layout.Enum)
	want := []layout.Entry{
		&layout.Upvar{ClosureVar: layout.ClosureVar{Name: ".x", Size: 8, Offset: u64(8), Align: u64(8)}},
		&layout.Local{ClosureVar: layout.ClosureVar{Name: ".y", Size: 7, TypeInfo: "[u8; 7]"}},
	}
	if diff := cmp.Diff(want, e.Variants[1].Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if err := got[0].Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestParseClosureEntryOutsideVariantDropped(t *testing.T) {
	got := ParseLines([]string{
		"print-type-size type: `S`: 8 bytes, alignment: 8 bytes",
		"print-type-size     upvar `.x`: 8 bytes",
		"print-type-size     local `.y`: 8 bytes",
	})
	s := got[0].Kind.(*layout.Struct)
	if len(s.Entries) != 0 {
		t.Errorf("entries: got %d, want 0", len(s.Entries))
	}
	if len(got[0].Unhandled) != 0 {
		t.Errorf("unhandled: got %v, want none", got[0].Unhandled)
	}
	if len(got[0].Raw) != 3 {
		t.Errorf("raw: got %d, want 3", len(got[0].Raw))
	}
}

func TestParseEndPaddingSkipsVariant(t *testing.T) {
	got := ParseLines([]string{
		"print-type-size type: `E`: 8 bytes, alignment: 4 bytes",
		"print-type-size     variant `A`: 4 bytes",
		"print-type-size         field `.0`: 4 bytes",
		"print-type-size     end padding: 4 bytes",
	})
	e := got[0].Kind.(*layout.Enum)
	if n := len(e.Variants[0].Entries); n != 1 {
		t.Errorf("variant entries: got %d, want 1", n)
	}
}

func TestParseUnhandledKeepsState(t *testing.T) {
	odd := "print-type-size         something unexpected: 3 bytes"
	got := ParseLines([]string{
		"print-type-size type: `E`: 8 bytes, alignment: 4 bytes",
		"print-type-size     variant `A`: 4 bytes",
		odd,
		"print-type-size         field `.0`: 4 bytes",
	})

	l := got[0]
	if diff := cmp.Diff([]string{odd}, l.Unhandled); diff != "" {
		t.Errorf("unhandled mismatch (-want +got):\n%s", diff)
	}
	e := l.Kind.(*layout.Enum)
	if n := len(e.Variants[0].Entries); n != 1 {
		t.Errorf("field after unhandled line: got %d entries, want 1", n)
	}
}

func TestParseIgnoresForeignLines(t *testing.T) {
	got := parseString(t, strings.Join([]string{
		"print-type-size     field `.orphan`: 4 bytes",
		"   Compiling demo v0.1.0",
		"print-type-size type: `S`: 4 bytes, alignment: 4 bytes",
		"",
		"warning: unused import",
		"print-type-size     field `.a`: 4 bytes",
	}, "\r\n"))

	if len(got) != 1 {
		t.Fatalf("layouts: got %d, want 1", len(got))
	}
	if len(got[0].Raw) != 2 {
		t.Errorf("raw: got %d lines, want 2", len(got[0].Raw))
	}
	if got[0].Raw[1] != "print-type-size     field `.a`: 4 bytes" {
		t.Errorf("raw line not trimmed: %q", got[0].Raw[1])
	}
	if len(got[0].Unhandled) != 0 {
		t.Errorf("unhandled: got %v", got[0].Unhandled)
	}
}

func TestParseHeaderOnly(t *testing.T) {
	got := ParseLines([]string{"print-type-size type: `()`: 0 bytes, alignment: 1 bytes"})
	want := []*layout.Layout{{Name: "()", Size: 0, Align: 1, Kind: &layout.Struct{}}}
	if diff := cmp.Diff(want, got, ignoreRaw, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("layouts mismatch (-want +got):\n%s", diff)
	}
	if err := got[0].Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}

	nonzero := ParseLines([]string{"print-type-size type: `X`: 4 bytes, alignment: 4 bytes"})
	if err := nonzero[0].Verify(); err == nil {
		t.Error("Verify() = nil, want struct size mismatch")
	}
}

func TestParseEmpty(t *testing.T) {
	if got := parseString(t, ""); len(got) != 0 {
		t.Errorf("layouts: got %d, want 0", len(got))
	}
}

func TestParseLongLine(t *testing.T) {
	name := strings.Repeat("A", 200_000)
	got := parseString(t, "print-type-size type: `"+name+"`: 0 bytes, alignment: 1 bytes\n")
	if len(got) != 1 || got[0].Name != name {
		t.Fatalf("long header not parsed")
	}
}

func TestParseReadError(t *testing.T) {
	cause := stderrors.New("disk gone")
	got, err := Parse(iotest.ErrReader(cause))
	if err == nil {
		t.Fatal("Parse() error = nil")
	}
	if got != nil {
		t.Errorf("partial results returned: %v", got)
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("error does not wrap cause: %v", err)
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindIO}) {
		t.Errorf("error kind: %v", err)
	}
}

func TestBuilderFinishResets(t *testing.T) {
	b := NewBuilder()
	b.Feed("print-type-size type: `A`: 0 bytes, alignment: 1 bytes")
	if n := len(b.Finish()); n != 1 {
		t.Fatalf("first Finish: got %d, want 1", n)
	}
	if n := len(b.Finish()); n != 0 {
		t.Errorf("second Finish: got %d, want 0", n)
	}
}
