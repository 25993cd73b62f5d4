// Package check runs a type-size report through the parser and verifies
// every layout.
//
// Verification of one layout does not depend on any other, so Run fans the
// layouts out over a bounded errgroup and gathers results back in report
// order:
//
//	results, err := check.File(ctx, "type-sizes.txt", check.DefaultOptions())
//	if err != nil {
//	    return err // I/O failure: no partial results
//	}
//	if !check.Summarize(results).OK() {
//	    ...
//	}
//
// A defect in one layout never hides the others. Only reading the report can
// abort a run.
package check
