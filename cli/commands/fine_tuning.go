package commands

import (
	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
)

func (a *App) newFineTuningCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fine-tuning",
		Aliases: []string{"ft"},
		Short:   "Create and manage fine-tuning jobs",
	}
	cmd.AddCommand(a.newFineTuningCreateCommand())
	cmd.AddCommand(a.newFineTuningListCommand())
	cmd.AddCommand(a.newFineTuningGetCommand())
	cmd.AddCommand(a.newFineTuningCancelCommand())
	cmd.AddCommand(a.newFineTuningEventsCommand())
	return cmd
}

func pageFlags(cmd *cobra.Command, p *chatjpt.ListParams) {
	cmd.Flags().StringVar(&p.After, "after", "", "cursor from a previous page")
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "page size")
}

func (a *App) newFineTuningCreateCommand() *cobra.Command {
	var (
		trainingFile   string
		validationFile string
		suffix         string
		epochs         int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a fine-tuning job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := chatjpt.FineTuningJobRequest{
				TrainingFile:   trainingFile,
				Model:          a.modelOr(chatjpt.DefaultChatModel),
				Suffix:         suffix,
				ValidationFile: validationFile,
			}
			if epochs > 0 {
				r.Hyperparameters = &chatjpt.Hyperparameters{NEpochs: chatjpt.Number(float64(epochs))}
			}
			req, err := chatjpt.NewFineTuningJobRequest(r)
			if err != nil {
				return a.invalid(err)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			job, err := client.FineTuning().CreateJob(cmd.Context(), req)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(job, func() { a.printJob(job) })
		},
	}

	cmd.Flags().StringVar(&trainingFile, "training-file", "", "ID of an uploaded training file (required)")
	cmd.Flags().StringVar(&validationFile, "validation-file", "", "ID of an uploaded validation file")
	cmd.Flags().StringVar(&suffix, "suffix", "", "suffix for the fine-tuned model name")
	cmd.Flags().IntVar(&epochs, "epochs", 0, "number of epochs (default auto)")
	_ = cmd.MarkFlagRequired("training-file")
	return cmd
}

func (a *App) newFineTuningListCommand() *cobra.Command {
	var params chatjpt.ListParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fine-tuning jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			page, err := client.FineTuning().ListJobs(cmd.Context(), params)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(page, func() {
				for _, job := range page.Data {
					a.printf("%s\t%s\t%s\t%s\n", job.ID, job.Status, job.Model, job.FineTunedModel)
				}
				if next := page.NextCursor(); next != "" {
					a.printf("more: --after %s\n", next)
				}
			})
		},
	}

	pageFlags(cmd, &params)
	return cmd
}

func (a *App) newFineTuningGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <job-id>",
		Short: "Show a fine-tuning job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			job, err := client.FineTuning().RetrieveJob(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			return a.emit(job, func() { a.printJob(job) })
		},
	}
}

func (a *App) newFineTuningCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a running fine-tuning job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			job, err := client.FineTuning().CancelJob(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			return a.emit(job, func() { a.printJob(job) })
		},
	}
}

func (a *App) newFineTuningEventsCommand() *cobra.Command {
	var params chatjpt.ListParams

	cmd := &cobra.Command{
		Use:   "events <job-id>",
		Short: "List status events of a fine-tuning job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			page, err := client.FineTuning().ListJobEvents(cmd.Context(), args[0], params)
			if err != nil {
				return a.fail(err)
			}
			return a.emit(page, func() {
				for _, ev := range page.Data {
					a.printf("%s\t%s\t%s\n", formatUnix(ev.CreatedAt), ev.Level, ev.Message)
				}
				if next := page.NextCursor(); next != "" {
					a.printf("more: --after %s\n", next)
				}
			})
		},
	}

	pageFlags(cmd, &params)
	return cmd
}

func (a *App) printJob(job *chatjpt.FineTuningJob) {
	a.printf("id:      %s\n", job.ID)
	a.printf("status:  %s\n", job.Status)
	a.printf("model:   %s\n", job.Model)
	if job.FineTunedModel != "" {
		a.printf("result:  %s\n", job.FineTunedModel)
	}
	a.printf("created: %s\n", formatUnix(job.CreatedAt))
	if job.Error != nil && job.Error.Message != "" {
		a.printf("error:   %s\n", job.Error.Message)
	}
}
