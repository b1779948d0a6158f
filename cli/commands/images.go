package commands

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
	"github.com/petal-labs/chatjpt/core"
)

type imageFlags struct {
	n      int
	size   string
	format string
	outDir string
}

func (f *imageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.n, "n", 0, "number of images")
	cmd.Flags().StringVar(&f.size, "size", "", "image size, e.g. 1024x1024")
	cmd.Flags().StringVar(&f.format, "format", "", "url or b64_json")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "write b64_json images to this directory")
}

func (f *imageFlags) count() *int {
	if f.n <= 0 {
		return nil
	}
	n := f.n
	return &n
}

func (a *App) newImagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Generate and edit images",
	}
	cmd.AddCommand(a.newImagesGenerateCommand())
	cmd.AddCommand(a.newImagesEditCommand())
	cmd.AddCommand(a.newImagesVariationCommand())
	return cmd
}

func (a *App) newImagesGenerateCommand() *cobra.Command {
	var (
		f       imageFlags
		prompt  string
		quality string
		style   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create images from a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := chatjpt.NewCreateImageRequest(chatjpt.CreateImageRequest{
				Prompt:         prompt,
				Model:          a.model,
				N:              f.count(),
				Quality:        quality,
				ResponseFormat: f.format,
				Size:           f.size,
				Style:          style,
			})
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.Images().Create(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.showImages(resp, f.outDir)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&prompt, "prompt", "", "image description (required)")
	cmd.Flags().StringVar(&quality, "quality", "", "standard or hd")
	cmd.Flags().StringVar(&style, "style", "", "vivid or natural")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func (a *App) newImagesEditCommand() *cobra.Command {
	var (
		f      imageFlags
		prompt string
		mask   string
	)

	cmd := &cobra.Command{
		Use:   "edit <image-file>",
		Short: "Edit an image from a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := chatjpt.EditImageRequest{
				Image:          core.FileFromPath(args[0]),
				Prompt:         prompt,
				Model:          a.model,
				N:              f.count(),
				ResponseFormat: f.format,
				Size:           f.size,
			}
			if mask != "" {
				r.Mask = core.FileFromPath(mask)
			}
			req, err := chatjpt.NewEditImageRequest(r)
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.Images().Edit(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.showImages(resp, f.outDir)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&prompt, "prompt", "", "description of the edit (required)")
	cmd.Flags().StringVar(&mask, "mask", "", "PNG mask marking the area to edit")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func (a *App) newImagesVariationCommand() *cobra.Command {
	var f imageFlags

	cmd := &cobra.Command{
		Use:   "variation <image-file>",
		Short: "Create variations of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := chatjpt.NewCreateImageVariationRequest(chatjpt.CreateImageVariationRequest{
				Image:          core.FileFromPath(args[0]),
				Model:          a.model,
				N:              f.count(),
				ResponseFormat: f.format,
				Size:           f.size,
			})
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			resp, err := client.Images().CreateVariation(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.showImages(resp, f.outDir)
		},
	}

	f.register(cmd)
	return cmd
}

// showImages prints image URLs and writes base64 images to outDir.
func (a *App) showImages(resp *chatjpt.Images, outDir string) error {
	paths := make([]string, len(resp.Data))
	for i, img := range resp.Data {
		if img.B64JSON == "" || outDir == "" {
			continue
		}
		path, err := writeImage(outDir, i, img.B64JSON)
		if err != nil {
			return a.invalid(err)
		}
		paths[i] = path
	}

	return a.emit(resp, func() {
		for i, img := range resp.Data {
			switch {
			case paths[i] != "":
				a.printf("%d\t%s\n", i, paths[i])
			case img.URL != "":
				a.printf("%d\t%s\n", i, img.URL)
			default:
				a.printf("%d\t<%d bytes of base64 data>\n", i, len(img.B64JSON))
			}
		}
	})
}

func writeImage(dir string, i int, b64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode image %d: %w", i, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("image-%d.png", i))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
