// Package grammar classifies the lines of a type-size diagnostic report.
//
// Every recognized line starts with the print-type-size marker:
//
//	print-type-size type: `Foo`: 16 bytes, alignment: 8 bytes
//	print-type-size     discriminant: 1 bytes
//	print-type-size     variant `Some`: 8 bytes
//	print-type-size         field `.0`: 8 bytes, offset: 8 bytes, alignment: 8 bytes
//	print-type-size         padding: 7 bytes
//	print-type-size     end padding: 4 bytes
//	print-type-size         upvar `.x`: 8 bytes, offset: 0 bytes, alignment: 8 bytes
//	print-type-size         local `.y`: 8 bytes, type: u64
//
// Classify maps a line to exactly one Shape. The compiled rule table is
// built on first use and shared read-only afterwards.
package grammar
