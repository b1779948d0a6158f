package commands

import (
	"github.com/spf13/cobra"
)

func (a *App) newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List, inspect and delete models",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			list, err := client.Models().List(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			return a.emit(list, func() {
				for _, m := range list.Data {
					a.printf("%s\t%s\n", m.ID, m.OwnedBy)
				}
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <model>",
		Short: "Show a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			m, err := client.Models().Retrieve(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			return a.emit(m, func() {
				a.printf("id:       %s\n", m.ID)
				a.printf("owned by: %s\n", m.OwnedBy)
				a.printf("created:  %s\n", formatUnix(m.Created))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <model>",
		Short: "Delete a fine-tuned model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			status, err := client.Models().Delete(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			return a.emit(status, func() {
				a.printf("Model %s deleted.\n", status.ID)
			})
		},
	})

	return cmd
}
