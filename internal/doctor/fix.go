package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/raphi011/ghmm/internal/account"
)

// fixAll reapplies every target from the registry. Corrupt blocks stay
// broken: the reconcilers refuse to guess where a damaged block ends.
func fixAll(ctx context.Context, w io.Writer, fix Applier, accounts []account.Account, defaultName string) error {
	fmt.Fprintln(w, "\nReapplying managed blocks...")
	report, err := fix.ApplyAll(ctx, accounts, defaultName)
	for _, step := range report.Steps {
		if step.Changed {
			fmt.Fprintf(w, "  ✓ updated %s\n", step.Path)
		}
	}
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	fmt.Fprintf(w, "\n✓ Fixed: %d files updated\n", report.Changed())
	return nil
}
