package commands

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/petal-labs/chatjpt"
	"github.com/petal-labs/chatjpt/core"
)

func (a *App) newFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Upload and manage files",
	}
	cmd.AddCommand(a.newFilesUploadCommand())
	cmd.AddCommand(a.newFilesListCommand())
	cmd.AddCommand(a.newFilesGetCommand())
	cmd.AddCommand(a.newFilesDeleteCommand())
	cmd.AddCommand(a.newFilesDownloadCommand())
	cmd.AddCommand(a.newFilesPurgeCommand())
	return cmd
}

func (a *App) newFilesUploadCommand() *cobra.Command {
	var purpose string

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := chatjpt.NewUploadFileRequest(chatjpt.UploadFileRequest{
				File:    core.FileFromPath(args[0]),
				Purpose: purpose,
			})
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			f, err := client.Files().Upload(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(f, func() { a.printFile(f) })
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", chatjpt.PurposeFineTune, "intended use of the file")
	return cmd
}

func (a *App) newFilesListCommand() *cobra.Command {
	var purpose string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			list, err := client.Files().List(cmd.Context(), purpose)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(list, func() {
				for _, f := range list.Data {
					a.printf("%s\t%s\t%d\t%s\n", f.ID, f.Purpose, f.Bytes, f.Filename)
				}
			})
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "", "only list files with this purpose")
	return cmd
}

func (a *App) newFilesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file-id>",
		Short: "Show a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			f, err := client.Files().Retrieve(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			return a.emit(f, func() { a.printFile(f) })
		},
	}
}

func (a *App) newFilesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file-id>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			status, err := client.Files().Delete(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			return a.emit(status, func() {
				a.printf("File %s deleted.\n", status.ID)
			})
		},
	}
}

func (a *App) newFilesDownloadCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download <file-id>",
		Short: "Download the content of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			if out == "" {
				data, err := client.Files().RetrieveContent(cmd.Context(), args[0])
				if err != nil {
					return a.fail(err)
				}
				_, err = a.stdout.Write(data)
				return err
			}
			if err := client.Files().DownloadContent(cmd.Context(), args[0], out); err != nil {
				return a.fail(err)
			}
			return a.emit(map[string]string{"path": out}, func() {
				a.printf("Wrote %s\n", out)
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write to this file instead of stdout")
	return cmd
}

func (a *App) newFilesPurgeCommand() *cobra.Command {
	var (
		purpose     string
		concurrency int
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every file, or every file with a purpose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return a.invalid(errors.New("purge deletes files permanently; pass --yes to confirm"))
			}
			if concurrency < 1 {
				return a.invalid(fmt.Errorf("concurrency must be at least 1, got %d", concurrency))
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			list, err := client.Files().List(cmd.Context(), purpose)
			if err != nil {
				return a.fail(err)
			}

			var deleted atomic.Int64
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for _, f := range list.Data {
				g.Go(func() error {
					if _, err := client.Files().Delete(ctx, f.ID); err != nil {
						return fmt.Errorf("delete %s: %w", f.ID, err)
					}
					deleted.Add(1)
					a.logger.Debug("file deleted", "file_id", f.ID)
					return nil
				})
			}
			err = g.Wait()

			result := map[string]int64{"deleted": deleted.Load(), "total": int64(len(list.Data))}
			if err != nil {
				a.logger.Warn("purge stopped", "deleted", result["deleted"], "total", result["total"])
				return a.fail(err)
			}
			return a.emit(result, func() {
				a.printf("Deleted %d of %d files.\n", result["deleted"], result["total"])
			})
		},
	}

	cmd.Flags().StringVar(&purpose, "purpose", "", "only delete files with this purpose")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "parallel delete requests")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func (a *App) printFile(f *chatjpt.File) {
	a.printf("id:       %s\n", f.ID)
	a.printf("filename: %s\n", f.Filename)
	a.printf("purpose:  %s\n", f.Purpose)
	a.printf("bytes:    %d\n", f.Bytes)
	a.printf("created:  %s\n", formatUnix(f.CreatedAt))
	if f.Status != "" {
		a.printf("status:   %s\n", f.Status)
	}
}
