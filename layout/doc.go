// Package layout models the type layouts reported by a compiler's
// type-size diagnostics and verifies their sizes.
//
// A Layout has one of three kinds:
//   - Struct: entries laid out one after another, padding included
//   - Enum: a discriminant plus variants, each with its own entries
//   - Union: fields overlaid at offset zero
//
// # Size Rules
//
// Verify checks only sizes, never alignment:
//
//	Kind     Passes when
//	──────────────────────────────────────────────────────────────
//	struct   sum(entries) == size
//	variant  sum(entries) == variant size [+ discriminant]
//	enum     size >= disc + max(variant) || size == max(disc, max(variant))
//	union    size == max(field)
//
// The enum total accepts both the additive layout and the niche-filled
// layout where the discriminant is stored in unused bit patterns of a
// variant.
package layout
