package app

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catlaunch/internal/config"
	"github.com/blackwell-systems/catlaunch/internal/output"
)

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List supported game variants and their data directories",
	Long: `List the supported game variants with the user data directory each one
uses, followed by any aliases defined in the config directory's "aliases"
file (one alias=VariantID per line).`,
	Args: cobra.NoArgs,
	RunE: runVariants,
}

func runVariants(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, output.RenderVariantTable(userLayout()))

	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	aliases, err := config.LoadAliases(dir)
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}
	if len(aliases.Aliases) == 0 {
		return nil
	}

	names := make([]string, 0, len(aliases.Aliases))
	for name := range aliases.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Aliases:")
	for _, name := range names {
		fmt.Fprintf(out, "  %-16s → %s\n", name, aliases.Aliases[name])
	}
	return nil
}
