package applier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/domain/model"
	apperrors "github.com/applypilot/applypilot/internal/errors"
)

const maxUploadBytes = 2 << 20 // 2 MB portal limit

var allowedUploadExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

// handleUploadField resolves what an upload field wants and attaches either a
// reusable profile resume, a pre-built local one, or a freshly generated
// document.
func (a *Applier) handleUploadField(ctx context.Context, el core.ElementHandle, job *model.JobPosting, record *model.ApplicationRecord) error {
	heading, err := a.form.UploadHeading(ctx, el)
	if err != nil {
		return fmt.Errorf("read upload heading: %w", err)
	}

	intent, err := retryRateLimited(ctx, a, "classify upload field", func() (core.UploadIntent, error) {
		return a.oracle.ClassifyUploadIntent(ctx, heading)
	})
	if err != nil {
		return err
	}

	switch intent {
	case core.UploadIntentResume:
		return a.attachResume(ctx, el, job, record)
	case core.UploadIntentCoverLetter:
		return a.attachCoverLetter(ctx, el, job, record)
	default:
		a.logger.Warn("unrecognized upload intent, skipping field", "heading", heading)
		return nil
	}
}

// attachResume prefers, in order: a resume already on the applicant's portal
// profile matching the posting's language, a pre-built local file for that
// language, and finally a generated one. Language detection failing closed
// aborts the attempt.
func (a *Applier) attachResume(ctx context.Context, el core.ElementHandle, job *model.JobPosting, record *model.ApplicationRecord) error {
	lang, err := DetectLanguage(job.Description)
	if err != nil {
		return err
	}
	target := resumeFilename(lang)

	uploaded, err := a.form.UploadedResumes(ctx)
	if err != nil {
		a.logger.Warn("listing profile resumes failed", "error", err)
	}
	for _, doc := range uploaded {
		if strings.EqualFold(doc.Filename, target) {
			if err := a.form.SelectUploadedResume(ctx, doc); err != nil {
				return fmt.Errorf("select profile resume %s: %w", doc.Filename, err)
			}
			a.logger.Debug("reused profile resume", "filename", doc.Filename, "language", lang)
			record.ResumePath = doc.Filename
			return nil
		}
	}

	if a.resumeDir != "" {
		path := filepath.Join(a.resumeDir, target)
		if _, err := os.Stat(path); err == nil {
			if err := validateDocument(path); err != nil {
				return err
			}
			if err := a.form.UploadFile(ctx, el, path); err != nil {
				return fmt.Errorf("upload resume %s: %w", path, err)
			}
			a.logger.Debug("uploaded pre-built resume", "path", path, "language", lang)
			job.ResumePath = path
			record.ResumePath = path
			return nil
		}
	}

	path, err := a.generateTailoredResume(ctx, job)
	if err != nil {
		return err
	}
	if err := a.form.UploadFile(ctx, el, path); err != nil {
		return fmt.Errorf("upload generated resume: %w", err)
	}
	job.ResumePath = path
	record.ResumePath = path
	return nil
}

func (a *Applier) attachCoverLetter(ctx context.Context, el core.ElementHandle, job *model.JobPosting, record *model.ApplicationRecord) error {
	data, err := retryRateLimited(ctx, a, "generate cover letter", func() ([]byte, error) {
		return a.docs.GenerateCoverLetter(ctx, job.Description)
	})
	if err != nil {
		return err
	}

	path, err := a.writeDocument(fmt.Sprintf("cover_letter_%s.pdf", a.now()), data)
	if err != nil {
		return err
	}
	if err := a.form.UploadFile(ctx, el, path); err != nil {
		return fmt.Errorf("upload cover letter: %w", err)
	}
	a.logger.Debug("uploaded generated cover letter", "path", path)
	job.CoverLetterPath = path
	record.CoverLetterPath = path
	return nil
}

// generateTailoredResume renders a resume for the posting's description and
// writes it under the store's generated-documents directory.
func (a *Applier) generateTailoredResume(ctx context.Context, job *model.JobPosting) (string, error) {
	data, err := retryRateLimited(ctx, a, "generate resume", func() ([]byte, error) {
		return a.docs.GenerateResume(ctx, job.Description)
	})
	if err != nil {
		return "", err
	}
	return a.writeDocument(fmt.Sprintf("resume_%s.pdf", a.now()), data)
}

func (a *Applier) writeDocument(name string, data []byte) (string, error) {
	if err := os.MkdirAll(a.docsDir, 0o755); err != nil {
		return "", fmt.Errorf("create documents directory: %w", err)
	}
	path := filepath.Join(a.docsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write document %s: %w", path, err)
	}
	if err := validateDocument(path); err != nil {
		return "", err
	}
	return path, nil
}

func (a *Applier) now() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// validateDocument enforces the portal's upload constraints. Violations are
// fatal for the attempt; there is no point re-uploading an oversized file.
func validateDocument(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat document %s: %w", path, err)
	}
	if info.Size() > maxUploadBytes {
		return apperrors.Uploadf("document %s is %d bytes, over the %d byte limit",
			filepath.Base(path), info.Size(), maxUploadBytes)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := allowedUploadExtensions[ext]; !ok {
		return apperrors.Uploadf("document %s has unsupported extension %q", filepath.Base(path), ext)
	}
	return nil
}
