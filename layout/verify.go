package layout

import (
	"github.com/wippyai/typesize/errors"
)

// Verify checks that the declared size of the layout agrees with its parts.
// It returns nil or a single *errors.Error in PhaseVerify.
func (l *Layout) Verify() error {
	switch kind := l.Kind.(type) {
	case *Struct:
		return l.verifyStruct(kind)
	case *Enum:
		return l.verifyEnum(kind)
	case *Union:
		return l.verifyUnion(kind)
	default:
		return errors.New(errors.PhaseVerify, errors.KindInvalidInput).
			Path(l.Name).
			Detail("layout has no kind").
			Build()
	}
}

func (l *Layout) verifyStruct(s *Struct) error {
	sum := SumSizes(s.Entries)
	if sum != l.Size {
		return errors.StructSizeMismatch(l.Name, l.Size, sum)
	}
	return nil
}

// verifyEnum accepts a variant whose entries sum to its declared size, or to
// its declared size plus the discriminant: the report uses both conventions.
// The total passes when it covers discriminant plus largest variant, or
// equals the larger of the two when the discriminant lives in a niche.
func (l *Layout) verifyEnum(e *Enum) error {
	disc := e.DiscriminantSize
	var maxVariant uint64

	for _, v := range e.Variants {
		sum := SumSizes(v.Entries)
		if sum != v.Size && (disc == 0 || sum != v.Size+disc) {
			return errors.VariantSizeMismatch(l.Name, v.Name, v.Size, sum)
		}
		maxVariant = max(maxVariant, v.Size)
	}

	additive := disc + maxVariant
	niche := max(disc, maxVariant)
	if l.Size >= additive || l.Size == niche {
		return nil
	}
	return errors.EnumTotalSizeMismatch(l.Name, l.Size, additive)
}

func (l *Layout) verifyUnion(u *Union) error {
	var maxField uint64
	for _, f := range u.Fields {
		maxField = max(maxField, f.Size)
	}
	if l.Size != maxField {
		return errors.UnionSizeMismatch(l.Name, l.Size, maxField)
	}
	return nil
}
