package layout

// Field is one named member of a struct, enum variant or union.
// Anonymous fields keep the leading separator the report prints (".0").
type Field struct {
	Align  *uint64
	Offset *uint64
	Name   string
	Size   uint64
}

// ClosureVar is a variable recorded in a closure's frame.
type ClosureVar struct {
	Offset   *uint64
	Align    *uint64
	Name     string
	TypeInfo string
	Size     uint64
}

// Upvar is a variable captured from an enclosing scope.
type Upvar struct {
	ClosureVar
}

// Local is a variable tracked in a closure frame, not captured.
type Local struct {
	ClosureVar
}

// Padding is unnamed filler, mid-structure or trailing.
type Padding struct {
	Size uint64
}

// Entry is one of *Field, *Upvar, *Local or *Padding.
type Entry interface {
	entrySize() uint64
}

func (f *Field) entrySize() uint64   { return f.Size }
func (u *Upvar) entrySize() uint64   { return u.Size }
func (l *Local) entrySize() uint64   { return l.Size }
func (p *Padding) entrySize() uint64 { return p.Size }

// SizeOf returns the byte size an entry occupies.
func SizeOf(e Entry) uint64 {
	return e.entrySize()
}

// SumSizes returns the total size of entries.
func SumSizes(entries []Entry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.entrySize()
	}
	return total
}

// Variant is one arm of an enumeration.
type Variant struct {
	Name    string
	Entries []Entry
	Size    uint64
}

// Kind is one of *Struct, *Enum or *Union.
type Kind interface {
	kindName() string
}

// Struct lays its entries out sequentially.
type Struct struct {
	Entries []Entry
}

// Enum is a tagged union of variants.
type Enum struct {
	Variants         []*Variant
	DiscriminantSize uint64
}

// Union overlays its fields.
type Union struct {
	Fields []*Field
}

func (*Struct) kindName() string { return "struct" }
func (*Enum) kindName() string   { return "enum" }
func (*Union) kindName() string  { return "union" }

// KindName returns "struct", "enum" or "union".
func KindName(k Kind) string {
	if k == nil {
		return ""
	}
	return k.kindName()
}

// Layout is the reconstructed layout of one reported type.
type Layout struct {
	Kind Kind
	Name string
	// Unhandled holds marker lines no grammar rule matched.
	Unhandled []string
	// Raw echoes every line consumed for this layout, header first.
	Raw   []string
	Size  uint64
	Align uint64
}

// New returns an empty struct layout.
func New(name string, size, align uint64) *Layout {
	return &Layout{
		Name:  name,
		Size:  size,
		Align: align,
		Kind:  &Struct{},
	}
}
