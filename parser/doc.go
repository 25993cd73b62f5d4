// Package parser builds layouts from a type-size report.
//
// The Builder is a two-level state machine fed one line at a time:
//
//	no layout ──type──▶ in layout ──variant──▶ in layout + variant
//	    ▲                   │                        │
//	    └──── Finish ───────┴──────── type ──────────┘
//
// A type header closes the open layout and opens the next one. Closing a
// variant moves it into its layout's variant list; closing a layout moves
// it into the output. A layout reported as a one-armed enum whose variant
// carries the layout's own name is a union and is rewritten as one when it
// closes.
//
// Parse wraps the Builder around an io.Reader.
package parser
