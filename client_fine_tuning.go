package chatjpt

import (
	"context"
	"net/http"

	"github.com/petal-labs/chatjpt/core"
)

const fineTuningJobsPath = "/fine_tuning/jobs"

// FineTuningClient manages fine-tuning jobs.
type FineTuningClient struct {
	t *core.Transport
}

// CreateJob starts a fine-tuning job.
func (c *FineTuningClient) CreateJob(ctx context.Context, req *FineTuningJobRequest) (*FineTuningJob, error) {
	return core.Send[FineTuningJob](ctx, c.t, c.createRequest(req))
}

// CreateJobAsync is the asynchronous form of CreateJob.
func (c *FineTuningClient) CreateJobAsync(ctx context.Context, req *FineTuningJobRequest) *core.Future[*FineTuningJob] {
	return core.SendAsync[FineTuningJob](ctx, c.t, c.createRequest(req))
}

func (c *FineTuningClient) createRequest(req *FineTuningJobRequest) core.Request {
	return core.Request{Operation: "fine_tuning.create_job", Method: http.MethodPost, Path: fineTuningJobsPath, Body: req}
}

// ListJobs returns one page of the organization's jobs.
func (c *FineTuningClient) ListJobs(ctx context.Context, params ListParams) (*FineTuningJobPage, error) {
	return core.Send[FineTuningJobPage](ctx, c.t, core.Request{
		Operation: "fine_tuning.list_jobs",
		Method:    http.MethodGet,
		Path:      fineTuningJobsPath,
		Query:     params.query(),
	})
}

// RetrieveJob returns a job.
func (c *FineTuningClient) RetrieveJob(ctx context.Context, jobID string) (*FineTuningJob, error) {
	path, err := resourcePath("fine_tuning_job_id", jobID, fineTuningJobsPath)
	if err != nil {
		return nil, err
	}
	return core.Send[FineTuningJob](ctx, c.t, core.Request{Operation: "fine_tuning.retrieve_job", Method: http.MethodGet, Path: path})
}

// CancelJob cancels a running job.
func (c *FineTuningClient) CancelJob(ctx context.Context, jobID string) (*FineTuningJob, error) {
	path, err := resourcePath("fine_tuning_job_id", jobID, fineTuningJobsPath, "cancel")
	if err != nil {
		return nil, err
	}
	return core.Send[FineTuningJob](ctx, c.t, core.Request{Operation: "fine_tuning.cancel_job", Method: http.MethodPost, Path: path})
}

// ListJobEvents returns one page of status events for a job.
func (c *FineTuningClient) ListJobEvents(ctx context.Context, jobID string, params ListParams) (*FineTuningEventPage, error) {
	path, err := resourcePath("fine_tuning_job_id", jobID, fineTuningJobsPath, "events")
	if err != nil {
		return nil, err
	}
	return core.Send[FineTuningEventPage](ctx, c.t, core.Request{
		Operation: "fine_tuning.list_events",
		Method:    http.MethodGet,
		Path:      path,
		Query:     params.query(),
	})
}
