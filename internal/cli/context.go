package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// contextWithTimeout derives a context from the command's, bounded by d
// when d is positive.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
