package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catlaunch/internal/components"
	"github.com/blackwell-systems/catlaunch/internal/output"
	"github.com/blackwell-systems/catlaunch/internal/reset"
	"github.com/blackwell-systems/catlaunch/internal/settings"
	"github.com/blackwell-systems/catlaunch/internal/store"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

var (
	resetVariant string
	resetYes     bool

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Restore a variant to its factory state (saves are kept)",
		Long: `Master reset for one game variant:

  1. Delete everything in the variant's user data directory except "save"
  2. Clear installed mods, soundpacks, and tilesets of the variant
  3. Restore the launcher settings to defaults

Steps run in that order and stop at the first failure. Nothing is rolled
back, but every step is safe to repeat: running reset again after fixing
the problem completes the job.

The launcher settings are shared, so step 3 affects every variant.`,
		Example: `  catlaunch reset --variant dda
  catlaunch reset --variant BrightNights --yes`,
		Args: cobra.NoArgs,
		RunE: runReset,
	}
)

func init() {
	resetCmd.Flags().StringVar(&resetVariant, "variant", "", "game variant to reset")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "skip confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	v, err := resolveVariant(resetVariant)
	if err != nil {
		return err
	}

	if !resetYes && !confirmReset(cmd.InOrStdin(), cmd.OutOrStdout(), v) {
		fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
		return nil
	}

	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		orch, err := reset.New(reset.Deps{
			Dirs:       userLayout(),
			Mods:       components.New(components.Mods, st),
			Soundpacks: components.New(components.Soundpacks, st),
			Tilesets:   components.New(components.Tilesets, st),
			Settings:   settings.NewRepository(st, nil),
		})
		if err != nil {
			return err
		}

		spinner := output.NewSpinner(fmt.Sprintf("Resetting %s", v.Name()))
		spinner.SetWriter(cmd.OutOrStdout())
		spinner.Start()

		report, err := orch.MasterReset(ctx, v)
		if err != nil {
			spinner.StopWithMessage("✗ Reset failed")
			return fmt.Errorf("%w (re-run 'catlaunch reset --variant %s' after fixing the cause)", err, v.ID())
		}
		spinner.Stop()

		fmt.Fprint(cmd.OutOrStdout(), output.RenderResetReport(report))
		return nil
	})
}

// confirmReset asks the user to type "yes".
func confirmReset(in io.Reader, out io.Writer, v variant.Variant) bool {
	fmt.Fprintf(out, "WARNING: This deletes all user data of %s except saves,\n", v.Name())
	fmt.Fprintln(out, "clears its installed components, and resets launcher settings.")
	fmt.Fprint(out, "Type \"yes\" to confirm (or press Enter to cancel): ")

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(strings.ToLower(response)) == "yes"
}
