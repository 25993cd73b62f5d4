package typesize

import (
	"context"
	"io"

	"github.com/wippyai/typesize/check"
)

// Check parses the report in r and verifies every layout with the default
// options.
func Check(ctx context.Context, r io.Reader) ([]check.Result, error) {
	return check.Reader(ctx, r, check.DefaultOptions())
}
