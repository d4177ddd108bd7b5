package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/poiesic/cvindex/core"
)

// process is the queue handler for one resume job. It runs the full
// extraction chain and fails the job on the first stage error. Failure is
// terminal; the stored document remains for re-submission.
func (p *Pipeline) process(ctx context.Context, job *core.Job) error {
	var payload jobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return p.fail(job, "payload", "", err)
	}

	data, err := p.docs.Read(payload.DocumentPath)
	if err != nil {
		return p.fail(job, "read", payload.FileName, err)
	}

	text, err := p.extractText(data)
	if err != nil {
		return p.fail(job, "extract-text", payload.FileName, err)
	}

	profile, err := p.extractor.ExtractProfile(ctx, text)
	if err != nil {
		return p.fail(job, "extract-profile", payload.FileName,
			fmt.Errorf("%w: %w", ErrExternalService, err))
	}

	// A parseable reply without an email is a validation failure, not an
	// extraction failure. The job fails and nothing is stored.
	if err := core.ValidateProfile(profile); err != nil {
		return p.fail(job, "validate", payload.FileName,
			fmt.Errorf("cv %q: %w", payload.FileName, err))
	}

	vector, err := p.embedder.EmbedText(ctx, core.EmbeddingDigest(profile))
	if err != nil {
		return p.fail(job, "embed", payload.FileName,
			fmt.Errorf("%w: %w", ErrExternalService, err))
	}

	profile.Embedding = core.NormalizeVector(vector)
	profile.CvPath = payload.DocumentPath

	stored, err := p.profiles.AddProfile(ctx, profile)
	if err != nil {
		return p.fail(job, "store", payload.FileName, err)
	}

	p.logger.Info("profile indexed",
		"file", payload.FileName,
		"profile", stored.Id,
		"email", stored.Email,
		"job", job.Id)
	return nil
}

// fail logs a processing failure once, with the stage that produced it.
func (p *Pipeline) fail(job *core.Job, stage, fileName string, err error) error {
	p.logger.Error("processing failed",
		"job", job.Id,
		"file", fileName,
		"stage", stage,
		"error", err)
	return err
}
