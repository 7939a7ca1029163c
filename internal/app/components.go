package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catlaunch/internal/components"
	"github.com/blackwell-systems/catlaunch/internal/output"
	"github.com/blackwell-systems/catlaunch/internal/store"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

// newComponentCmd builds the "mods", "soundpacks", or "tilesets" command
// tree. Every subcommand shares the parent's --variant flag.
func newComponentCmd(kind components.Kind) *cobra.Command {
	var variantName string

	// run resolves the variant, opens the store, and hands fn a repository.
	run := func(cmd *cobra.Command, fn func(ctx context.Context, repo *components.Repository, v variant.Variant) error) error {
		v, err := resolveVariant(variantName)
		if err != nil {
			return err
		}
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			return fn(ctx, components.New(kind, st), v)
		})
	}

	parent := &cobra.Command{
		Use:   kind.Plural,
		Short: fmt.Sprintf("Track installed %s per variant", kind.Plural),
		Long: fmt.Sprintf(`Record, remove, and inspect installed %s.

Records are kept per variant: a %s installed for DarkDaysAhead is not
installed for BrightNights.`, kind.Plural, kind.Name),
		Example: fmt.Sprintf(`  catlaunch %[1]s add my-%[2]s --variant dda
  catlaunch %[1]s status my-%[2]s --variant dda
  catlaunch %[1]s list --variant bn
  catlaunch %[1]s clear --variant tlg`, kind.Plural, kind.Name),
	}
	parent.PersistentFlags().StringVar(&variantName, "variant", "", "game variant (id, short name, or alias)")

	addCmd := &cobra.Command{
		Use:   "add ID...",
		Short: fmt.Sprintf("Record %s as installed", kind.Plural),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, repo *components.Repository, v variant.Variant) error {
				for _, id := range args {
					if err := repo.Add(ctx, id, v); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s installed for %s\n", kind.Name, id, v.Name())
				}
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove ID...",
		Short: fmt.Sprintf("Remove %s records", kind.Name),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, repo *components.Repository, v variant.Variant) error {
				for _, id := range args {
					if err := repo.Delete(ctx, id, v); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s removed for %s\n", kind.Name, id, v.Name())
				}
				return nil
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status ID",
		Short: fmt.Sprintf("Show whether a %s is installed", kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, repo *components.Repository, v variant.Variant) error {
				installed, err := repo.IsInstalled(ctx, args[0], v)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), output.RenderStatus(kind, args[0], v, installed))
				return nil
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List installed %s", kind.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, repo *components.Repository, v variant.Variant) error {
				ids, err := repo.List(ctx, v)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), output.RenderComponentList(kind, v, ids))
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: fmt.Sprintf("Remove every %s record of a variant", kind.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, repo *components.Repository, v variant.Variant) error {
				if err := repo.DeleteAll(ctx, v); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ All %s cleared for %s\n", kind.Plural, v.Name())
				return nil
			})
		},
	}

	parent.AddCommand(addCmd, removeCmd, statusCmd, listCmd, clearCmd)
	return parent
}
