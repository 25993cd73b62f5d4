// Package typesize checks the type layouts a compiler reports with its
// print-type-size diagnostics.
//
// The report lists every type with its size and alignment, followed by the
// fields, padding, enum variants and closure captures that make it up.
// typesize rebuilds that tree and verifies that each declared size agrees
// with the sizes of its parts.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	typesize/            Root package with the one-call Check entry point
//	├── grammar/         Line classification (one Shape per report line)
//	├── parser/          Layout builder folding classified lines into layouts
//	├── layout/          Layout model and size verification
//	├── check/           Parse + parallel verification pipeline
//	├── report/          Text and JSON rendering of results
//	├── config/          YAML configuration
//	├── errors/          Structured error types
//	└── cmd/typesize/    Command-line driver, watch mode and TUI browser
//
// # Quick Start
//
//	results, err := typesize.Check(ctx, file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    if r.Failed() {
//	        fmt.Println(r.Layout.Name, r.Err)
//	    }
//	}
//
// # Size Rules
//
//   - Struct: the entries (fields, padding, closure variables) sum to the size
//   - Enum: each variant's entries sum to its size, with or without the
//     discriminant; the total covers discriminant plus largest variant, or
//     equals the larger of the two when the discriminant sits in a niche
//   - Union: the size equals the largest field
//
// Alignment is recorded but never checked.
//
// # Thread Safety
//
// Parsing is sequential and a parser.Builder must not be shared. Layouts
// are immutable once parsed, and verification runs in parallel.
package typesize
