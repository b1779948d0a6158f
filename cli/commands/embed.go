package commands

import (
	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
)

const defaultEmbeddingModel = "text-embedding-ada-002"

func (a *App) newEmbedCommand() *cobra.Command {
	var (
		dimensions int
		format     string
	)

	cmd := &cobra.Command{
		Use:   "embed <text>...",
		Short: "Create embeddings for one or more texts",
		Long: `Create embeddings for one or more texts. Each argument is embedded
separately.

Examples:
  chatjpt embed "The food was delicious"
  chatjpt embed --model text-embedding-3-small --dimensions 256 "a" "b"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := chatjpt.EmbeddingsRequest{
				Input:          chatjpt.TextInput(args...),
				Model:          a.modelOr(defaultEmbeddingModel),
				EncodingFormat: format,
			}
			if dimensions > 0 {
				r.Dimensions = &dimensions
			}
			req, err := chatjpt.NewEmbeddingsRequest(r)
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.Embeddings().Create(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(resp, func() {
				for _, e := range resp.Data {
					a.printf("%d\t%d dimensions\t%s\n", e.Index, len(e.Embedding), preview(e.Embedding))
				}
				a.printf("model: %s, tokens: %d\n", resp.Model, resp.Usage.TotalTokens)
			})
		},
	}

	cmd.Flags().IntVar(&dimensions, "dimensions", 0, "number of output dimensions (supported models only)")
	cmd.Flags().StringVar(&format, "encoding-format", "", "float or base64")

	return cmd
}

// preview renders the first values of a vector.
func preview(v chatjpt.Vector) string {
	const n = 3
	out := "["
	for i, x := range v {
		if i == n {
			out += ", ..."
			break
		}
		if i > 0 {
			out += ", "
		}
		out += formatFloat(x)
	}
	return out + "]"
}
