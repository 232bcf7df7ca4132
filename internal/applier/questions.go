package applier

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/domain/model"
)

// fillSections walks the question sections on the current form page and
// answers each one, cache first, oracle second.
func (a *Applier) fillSections(ctx context.Context, job *model.JobPosting, record *model.ApplicationRecord) error {
	sections, err := a.form.FormSections(ctx)
	if err != nil {
		return fmt.Errorf("enumerate form sections: %w", err)
	}

	for _, section := range sections {
		switch {
		case a.form.IsTermsOfService(section):
			if err := a.form.AcceptTerms(ctx, section); err != nil {
				return fmt.Errorf("accept terms of service: %w", err)
			}
		case a.form.IsRadio(section):
			if err := a.answerRadio(ctx, section, job, record); err != nil {
				return err
			}
		case a.form.IsTextbox(section):
			if err := a.answerTextbox(ctx, section, job, record); err != nil {
				return err
			}
		case a.form.IsDropdown(section):
			if err := a.answerDropdown(ctx, section, job, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Applier) answerRadio(ctx context.Context, section core.ElementHandle, job *model.JobPosting, record *model.ApplicationRecord) error {
	q, err := a.form.RadioQuestion(ctx, section)
	if err != nil {
		return fmt.Errorf("read radio question: %w", err)
	}

	answer, cached, err := a.resolveChoice(ctx, q, model.QuestionKindRadio, job)
	if err != nil {
		return err
	}
	if err := a.form.SelectRadio(ctx, section, answer); err != nil {
		return fmt.Errorf("select radio option %q: %w", answer, err)
	}

	a.logger.Debug("answered radio question", "question", q.Question, "cached", cached)
	record.RecordAnswer(model.QuestionAnswer{Question: q.Question, Answer: answer, Kind: model.QuestionKindRadio})
	return nil
}

func (a *Applier) answerDropdown(ctx context.Context, section core.ElementHandle, job *model.JobPosting, record *model.ApplicationRecord) error {
	q, err := a.form.DropdownQuestion(ctx, section)
	if err != nil {
		return fmt.Errorf("read dropdown question: %w", err)
	}

	answer, cached, err := a.resolveChoice(ctx, q, model.QuestionKindDropdown, job)
	if err != nil {
		return err
	}
	if err := a.form.SelectDropdown(ctx, section, answer); err != nil {
		return fmt.Errorf("select dropdown option %q: %w", answer, err)
	}

	a.logger.Debug("answered dropdown question", "question", q.Question, "cached", cached)
	record.RecordAnswer(model.QuestionAnswer{Question: q.Question, Answer: answer, Kind: model.QuestionKindDropdown})
	return nil
}

// resolveChoice answers a choice question from the cache when a previous
// answer still matches one of the offered options, otherwise from the oracle.
func (a *Applier) resolveChoice(ctx context.Context, q core.SelectQuestion, kind model.QuestionKind, job *model.JobPosting) (string, bool, error) {
	if entry, ok := a.store.FindAnswer(q.Question, kind); ok && containsOption(q.Options, entry.Answer) {
		return entry.Answer, true, nil
	}

	answer, err := retryRateLimited(ctx, a, "answer choice question", func() (string, error) {
		return a.oracle.AnswerFromOptions(ctx, q.Question, q.Options)
	})
	if err != nil {
		return "", false, err
	}

	if err := a.store.SaveAnswer(model.AnswerCacheEntry{
		Question: q.Question,
		Answer:   answer,
		Kind:     kind,
	}, job.Company); err != nil {
		a.logger.Warn("caching answer failed", "question", q.Question, "error", err)
	}
	return answer, false, nil
}

func (a *Applier) answerTextbox(ctx context.Context, section core.ElementHandle, job *model.JobPosting, record *model.ApplicationRecord) error {
	q, err := a.form.TextboxQuestion(ctx, section)
	if err != nil {
		return fmt.Errorf("read textbox question: %w", err)
	}

	kind := model.QuestionKindFreeText
	if q.Numeric {
		kind = model.QuestionKindNumeric
	}
	coverLetter := isCoverLetterQuestion(q.Question)

	var answer string
	cached := false
	if !coverLetter {
		if entry, ok := a.store.FindAnswer(q.Question, kind); ok {
			answer, cached = entry.Answer, true
		}
	}

	if !cached {
		switch {
		case q.Numeric:
			n, err := retryRateLimited(ctx, a, "answer numeric question", func() (int, error) {
				return a.oracle.AnswerNumeric(ctx, q.Question)
			})
			if err != nil {
				return err
			}
			answer = strconv.Itoa(n)
		default:
			answer, err = retryRateLimited(ctx, a, "answer free-text question", func() (string, error) {
				return a.oracle.AnswerFreeText(ctx, q.Question)
			})
			if err != nil {
				return err
			}
		}

		// Cover letters are tailored per posting and would poison the
		// cache for every later application.
		if !coverLetter {
			if err := a.store.SaveAnswer(model.AnswerCacheEntry{
				Question: q.Question,
				Answer:   answer,
				Kind:     kind,
			}, job.Company); err != nil {
				a.logger.Warn("caching answer failed", "question", q.Question, "error", err)
			}
		}
	}

	if err := a.form.FillTextbox(ctx, section, answer); err != nil {
		return fmt.Errorf("fill textbox: %w", err)
	}

	a.logger.Debug("answered textbox question", "question", q.Question, "cached", cached)
	record.RecordAnswer(model.QuestionAnswer{Question: q.Question, Answer: answer, Kind: kind})
	return nil
}

func isCoverLetterQuestion(question string) bool {
	return strings.Contains(strings.ToLower(question), "cover letter")
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
