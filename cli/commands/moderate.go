package commands

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
)

func (a *App) newModerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "moderate <text>...",
		Short: "Classify texts against the moderation policy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := chatjpt.NewModerationRequest(chatjpt.ModerationRequest{
				Input: chatjpt.ModerationInput(args),
				Model: a.model,
			})
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.Moderations().Create(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(resp, func() {
				for i, r := range resp.Results {
					if !r.Flagged {
						a.printf("%d\tok\n", i)
						continue
					}
					a.printf("%d\tflagged\t%s\n", i, strings.Join(flaggedCategories(r), ", "))
				}
			})
		},
	}
}

func flaggedCategories(r chatjpt.ModerationResult) []string {
	var out []string
	for name, hit := range r.Categories {
		if hit {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
