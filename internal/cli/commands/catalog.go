package commands

import (
	"github.com/spf13/cobra"

	"github.com/quill-sh/quill/internal/cli/config"
	"github.com/quill-sh/quill/internal/render"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables and views on the target",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRelations(cmd, false)
		},
	}
}

// NewViewsCommand creates the views command.
func NewViewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List views only",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRelations(cmd, true)
		},
	}
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <name>",
		Short: "Show schema for a table or view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			a, err := openAdapter(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			meta, err := a.TableMetadata(ctx, args[0])
			if err != nil {
				return err
			}
			return render.Metadata(cmd.OutOrStdout(), meta, cfg.Format)
		},
	}
}

func listRelations(cmd *cobra.Command, viewsOnly bool) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	a, err := openAdapter(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	relations, err := a.Tables(ctx)
	if err != nil {
		return err
	}
	if viewsOnly {
		filtered := relations[:0]
		for _, r := range relations {
			if r.Kind == "view" {
				filtered = append(filtered, r)
			}
		}
		relations = filtered
	}
	return render.Relations(cmd.OutOrStdout(), relations, cfg.Format)
}
