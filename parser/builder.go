package parser

import (
	"go.uber.org/zap"

	"github.com/wippyai/typesize/grammar"
	"github.com/wippyai/typesize/layout"
)

// Builder folds classified lines into layouts. It holds at most one open
// layout and, inside it, at most one open variant.
// Builder is NOT thread-safe.
type Builder struct {
	current *layout.Layout
	variant *layout.Variant
	done    []*layout.Layout
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Feed consumes one raw report line.
func (b *Builder) Feed(raw string) {
	line := grammar.Classify(raw)
	switch line.Shape {
	case grammar.ShapeNone:
		return
	case grammar.ShapeType:
		b.closeLayout()
		b.current = layout.New(line.Name, line.Size, line.Align)
		b.current.Raw = append(b.current.Raw, raw)
		return
	}

	l := b.current
	if l == nil {
		return
	}
	l.Raw = append(l.Raw, raw)

	switch line.Shape {
	case grammar.ShapeVariant:
		b.closeVariant()
		b.variant = &layout.Variant{Name: line.Name, Size: line.Size}
		if _, ok := l.Kind.(*layout.Struct); ok {
			l.Kind = &layout.Enum{}
		}

	case grammar.ShapeDiscriminant:
		if e, ok := l.Kind.(*layout.Enum); ok {
			e.DiscriminantSize = line.Size
		} else {
			l.Kind = &layout.Enum{DiscriminantSize: line.Size}
		}

	case grammar.ShapeUpvar:
		b.appendToVariant(&layout.Upvar{ClosureVar: closureVar(line)})

	case grammar.ShapeLocal:
		b.appendToVariant(&layout.Local{ClosureVar: closureVar(line)})

	case grammar.ShapeField:
		b.appendEntry(&layout.Field{
			Name:   line.Name,
			Size:   line.Size,
			Offset: line.Offset,
			Align:  line.FieldAlign,
		})

	case grammar.ShapePadding:
		b.appendEntry(&layout.Padding{Size: line.Size})

	case grammar.ShapeEndPadding:
		b.appendToStruct(&layout.Padding{Size: line.Size})

	case grammar.ShapeUnhandled:
		l.Unhandled = append(l.Unhandled, raw)
		Logger().Debug("unhandled line",
			zap.String("layout", l.Name),
			zap.String("line", raw))
	}
}

// Finish closes the open layout and returns every layout in input order.
// The Builder is empty afterwards.
func (b *Builder) Finish() []*layout.Layout {
	b.closeLayout()
	out := b.done
	b.done = nil
	return out
}

// appendEntry adds a field or padding to the open variant, or else to the
// layout's own entries.
func (b *Builder) appendEntry(e layout.Entry) {
	if b.variant != nil {
		b.variant.Entries = append(b.variant.Entries, e)
		return
	}
	b.appendToStruct(e)
}

// appendToVariant drops closure entries outside a variant.
func (b *Builder) appendToVariant(e layout.Entry) {
	if b.variant == nil {
		Logger().Debug("closure entry outside variant dropped",
			zap.String("layout", b.current.Name))
		return
	}
	b.variant.Entries = append(b.variant.Entries, e)
}

func (b *Builder) appendToStruct(e layout.Entry) {
	if s, ok := b.current.Kind.(*layout.Struct); ok {
		s.Entries = append(s.Entries, e)
	}
}

func (b *Builder) closeVariant() {
	v := b.variant
	if v == nil {
		return
	}
	b.variant = nil
	if e, ok := b.current.Kind.(*layout.Enum); ok {
		e.Variants = append(e.Variants, v)
	}
}

func (b *Builder) closeLayout() {
	l := b.current
	if l == nil {
		return
	}
	b.closeVariant()
	b.current = nil

	if e, ok := l.Kind.(*layout.Enum); ok && len(e.Variants) == 1 && e.Variants[0].Name == l.Name {
		l.Kind = unionOf(e.Variants[0])
		Logger().Debug("reclassified as union", zap.String("layout", l.Name))
	}

	Logger().Debug("layout finalized",
		zap.String("layout", l.Name),
		zap.String("kind", layout.KindName(l.Kind)),
		zap.Uint64("size", l.Size),
		zap.Int("unhandled", len(l.Unhandled)))

	b.done = append(b.done, l)
}

// unionOf reads a union reported as a one-armed enum whose variant carries
// the union's own name. Only fields survive.
func unionOf(v *layout.Variant) *layout.Union {
	u := &layout.Union{}
	for _, e := range v.Entries {
		if f, ok := e.(*layout.Field); ok {
			u.Fields = append(u.Fields, f)
		}
	}
	return u
}

func closureVar(line grammar.Line) layout.ClosureVar {
	return layout.ClosureVar{
		Name:     line.Name,
		Size:     line.Size,
		Offset:   line.Offset,
		Align:    line.FieldAlign,
		TypeInfo: line.TypeInfo,
	}
}
