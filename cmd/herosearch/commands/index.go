package commands

import (
	"context"
	"fmt"

	"github.com/ncobase/herosearch/data/search"
	"github.com/spf13/cobra"
)

func newCreateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <type>",
		Short: "Create the search index of an entity type",
		Long:  `Create the search index of an entity type with the default analysis settings.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				d, entity, err := a.connect(ctx, args[0])
				if err != nil {
					return err
				}
				def := search.DefinitionFor(entity)
				if err := d.Engine.Apply(ctx, search.CreateIndex{Definition: def}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Index %s created for %s\n", def.Name, args[0])
				return nil
			})
		},
	}
}

func newFlushCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "flush <type>",
		Short: "Remove every document of an entity type",
		Long:  `Drop the search index of an entity type and create it again empty.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				d, entity, err := a.connect(ctx, args[0])
				if err != nil {
					return err
				}
				if err := d.Engine.Flush(ctx, entity); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Index %s flushed for %s\n", entity.SearchableAs(), args[0])
				return nil
			})
		},
	}
}

func newDropCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <type>",
		Short: "Delete the search index of an entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				d, entity, err := a.connect(ctx, args[0])
				if err != nil {
					return err
				}
				name := entity.SearchableAs()
				if err := d.Engine.Apply(ctx, search.DeleteIndex{Name: name}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Index %s dropped for %s\n", name, args[0])
				return nil
			})
		},
	}
}
