// Package dryrun provides an in-process synthetic portal, oracle, and
// document generator so the engine can run end to end without a real browser
// driver or language-model backend. It is the default driver and doubles as
// a development seed for exercising the full pipeline.
package dryrun

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/domain/model"
)

var companies = []string{
	"Globex", "Initech", "Hooli", "Vandelay Industries", "Stark Labs",
	"Wayne Analytics", "Acme Data", "Umbrella Cloud", "Pied Piper", "Wonka Systems",
}

var titleSuffixes = []string{
	"Engineer", "Developer", "Specialist", "Consultant", "Architect",
}

const englishDescription = "We are a growing team and you will join our platform group. " +
	"The requirements include solid experience, strong skills, and ownership. " +
	"You must have shipped production software. Our job offers remote flexibility."

const spanishDescription = "Buscamos un desarrollador con experiencia para una empresa en crecimiento. " +
	"El trabajo requiere conocimientos de sistemas distribuidos y los requisitos " +
	"incluyen años de experiencia."

// Portal is a synthetic core.ListingProvider backed by deterministically
// generated postings. The same search pair and page always yield the same
// postings, so reruns exercise the store's seen indexes.
type Portal struct {
	logger  *slog.Logger
	pages   int
	perPage int

	current []*model.JobPosting
	url     string
	opened  *model.JobPosting
	form    *Form
	polls   int
}

// NewPortal creates a Portal serving the given number of pages per search.
func NewPortal(logger *slog.Logger) *Portal {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Portal{logger: logger, pages: 3, perPage: 5}
	p.form = &Form{portal: p}
	return p
}

// Form returns the portal's application form driver.
func (p *Portal) Form() *Form { return p.form }

// postingHandle wraps a generated posting.
type postingHandle struct {
	job *model.JobPosting
}

func (h *postingHandle) Label() string { return h.job.Title + " at " + h.job.Company }

// NextPage regenerates the page's postings from a seed derived from the
// search pair.
func (p *Portal) NextPage(_ context.Context, position, location string, page int) error {
	p.url = fmt.Sprintf("https://portal.invalid/search?q=%s&l=%s&page=%d", position, location, page)
	p.current = nil
	if page >= p.pages {
		return nil
	}

	rng := rand.New(rand.NewPCG(seed(position, location), uint64(page)))
	for i := 0; i < p.perPage; i++ {
		company := companies[rng.IntN(len(companies))]
		title := fmt.Sprintf("%s %s", titleCase(position), titleSuffixes[rng.IntN(len(titleSuffixes))])
		id := fmt.Sprintf("%s-%d-%d", slug(position+"-"+location), page, i)
		job := &model.JobPosting{
			ID:        id,
			Title:     title,
			Company:   company,
			Location:  location,
			Link:      "https://portal.invalid/jobs/" + id,
			WorkType:  model.WorkTypeRemote,
			EasyApply: true,
		}
		p.current = append(p.current, job)
	}
	return nil
}

// Postings returns handles for the generated page.
func (p *Portal) Postings(context.Context, bool) ([]core.PostingHandle, error) {
	var handles []core.PostingHandle
	for _, job := range p.current {
		handles = append(handles, &postingHandle{job: job})
	}
	return handles, nil
}

// Posting resolves a tile.
func (p *Portal) Posting(_ context.Context, handle core.PostingHandle) (*model.JobPosting, error) {
	return handle.(*postingHandle).job, nil
}

// Insights exposes a synthetic applicant count derived from the posting ID.
func (p *Portal) Insights(_ context.Context, handle core.PostingHandle) ([]string, error) {
	job := handle.(*postingHandle).job
	n := int(seed(job.ID) % 120)
	if n > 100 {
		return []string{"Over 100 applicants"}, nil
	}
	return []string{fmt.Sprintf("%d applicants", n)}, nil
}

// GoToPosting tracks the navigation.
func (p *Portal) GoToPosting(_ context.Context, job *model.JobPosting) error {
	p.url = job.Link
	p.opened = job
	p.polls = 0
	return nil
}

// Description returns a deterministic description, occasionally Spanish.
func (p *Portal) Description(_ context.Context, job *model.JobPosting) (string, error) {
	if seed(job.ID)%7 == 0 {
		return spanishDescription, nil
	}
	return englishDescription, nil
}

// RecruiterLink returns a recruiter profile for roughly half the postings.
func (p *Portal) RecruiterLink(context.Context) (string, error) {
	if p.opened == nil || seed(p.opened.ID)%2 == 0 {
		return "", nil
	}
	return "https://portal.invalid/recruiters/" + p.opened.ID, nil
}

// OpenApplication resets the synthetic form for the posting.
func (p *Portal) OpenApplication(_ context.Context, job *model.JobPosting) error {
	p.form.reset(job)
	return nil
}

// SubmissionConfirmed confirms after a few polls so manual mode terminates.
func (p *Portal) SubmissionConfirmed(context.Context) (bool, error) {
	p.polls++
	return p.polls >= 4, nil
}

// CurrentURL returns the last synthetic navigation target.
func (p *Portal) CurrentURL() string { return p.url }

func seed(parts ...string) uint64 {
	h := fnv.New64a()
	for _, part := range parts {
		h.Write([]byte(part))
	}
	return h.Sum64()
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formElement is one synthetic control on a form page.
type formElement struct {
	name    string
	upload  bool
	tos     bool
	radio   *core.SelectQuestion
	text    *core.TextQuestion
	dropd   *core.SelectQuestion
	heading string
}

func (e *formElement) Label() string { return e.name }

// Form is a synthetic two-page application form regenerated per posting.
type Form struct {
	portal *Portal

	pages [][]*formElement
	page  int
}

func (f *Form) reset(job *model.JobPosting) {
	f.page = 0
	f.pages = [][]*formElement{
		{
			{name: "resume-upload", upload: true, heading: "Upload your resume"},
			{name: "sponsorship", radio: &core.SelectQuestion{
				Question: "Will you require visa sponsorship?",
				Options:  []string{"Yes", "No"},
			}},
		},
		{
			{name: "experience", text: &core.TextQuestion{
				Question: fmt.Sprintf("How many years of experience do you have as a %s?", job.Title),
				Numeric:  true,
			}},
			{name: "notice", dropd: &core.SelectQuestion{
				Question: "What is your notice period?",
				Options:  []string{"Immediately", "2 weeks", "1 month"},
			}},
			{name: "terms", tos: true},
		},
	}
}

func (f *Form) current() []*formElement {
	if f.page >= len(f.pages) {
		return nil
	}
	return f.pages[f.page]
}

// HasNextPage reports whether form pages remain.
func (f *Form) HasNextPage(context.Context) (bool, error) { return f.page < len(f.pages)-1, nil }

// ClickNext advances the synthetic form.
func (f *Form) ClickNext(context.Context) error {
	f.page++
	return nil
}

// HasSubmit reports true on the last page.
func (f *Form) HasSubmit(context.Context) (bool, error) { return true, nil }

// ClickSubmit accepts the synthetic submission.
func (f *Form) ClickSubmit(context.Context) error { return nil }

// UncheckFollowCompany is a no-op.
func (f *Form) UncheckFollowCompany(context.Context) error { return nil }

// InputElements returns the current page's controls.
func (f *Form) InputElements(context.Context) ([]core.ElementHandle, error) {
	var els []core.ElementHandle
	for _, e := range f.current() {
		els = append(els, e)
	}
	return els, nil
}

// IsUploadField reports whether the element is the synthetic upload.
func (f *Form) IsUploadField(el core.ElementHandle) bool { return el.(*formElement).upload }

// UploadHeading returns the synthetic heading.
func (f *Form) UploadHeading(_ context.Context, el core.ElementHandle) (string, error) {
	return el.(*formElement).heading, nil
}

// UploadFile accepts any path.
func (f *Form) UploadFile(context.Context, core.ElementHandle, string) error { return nil }

// UploadedResumes reports an empty profile so generation is exercised.
func (f *Form) UploadedResumes(context.Context) ([]core.UploadedDocument, error) { return nil, nil }

// SelectUploadedResume is a no-op.
func (f *Form) SelectUploadedResume(context.Context, core.UploadedDocument) error { return nil }

// FormSections returns the current page's question sections.
func (f *Form) FormSections(context.Context) ([]core.ElementHandle, error) {
	var els []core.ElementHandle
	for _, e := range f.current() {
		if !e.upload {
			els = append(els, e)
		}
	}
	return els, nil
}

// IsTermsOfService reports the synthetic section type.
func (f *Form) IsTermsOfService(el core.ElementHandle) bool { return el.(*formElement).tos }

// AcceptTerms is a no-op.
func (f *Form) AcceptTerms(context.Context, core.ElementHandle) error { return nil }

// IsRadio reports the synthetic section type.
func (f *Form) IsRadio(el core.ElementHandle) bool { return el.(*formElement).radio != nil }

// RadioQuestion returns the synthetic question.
func (f *Form) RadioQuestion(_ context.Context, el core.ElementHandle) (core.SelectQuestion, error) {
	return *el.(*formElement).radio, nil
}

// SelectRadio accepts any answer.
func (f *Form) SelectRadio(context.Context, core.ElementHandle, string) error { return nil }

// IsTextbox reports the synthetic section type.
func (f *Form) IsTextbox(el core.ElementHandle) bool { return el.(*formElement).text != nil }

// TextboxQuestion returns the synthetic question.
func (f *Form) TextboxQuestion(_ context.Context, el core.ElementHandle) (core.TextQuestion, error) {
	return *el.(*formElement).text, nil
}

// FillTextbox accepts any answer.
func (f *Form) FillTextbox(context.Context, core.ElementHandle, string) error { return nil }

// IsDropdown reports the synthetic section type.
func (f *Form) IsDropdown(el core.ElementHandle) bool { return el.(*formElement).dropd != nil }

// DropdownQuestion returns the synthetic question.
func (f *Form) DropdownQuestion(_ context.Context, el core.ElementHandle) (core.SelectQuestion, error) {
	return *el.(*formElement).dropd, nil
}

// SelectDropdown accepts any answer.
func (f *Form) SelectDropdown(context.Context, core.ElementHandle, string) error { return nil }

// HandleErrors never reports validation errors.
func (f *Form) HandleErrors(context.Context) error { return nil }

// Discard is a no-op.
func (f *Form) Discard(context.Context) error { return nil }

// Save is a no-op.
func (f *Form) Save(context.Context) error { return nil }

// Oracle is a rule-based stand-in for a language-model oracle.
type Oracle struct {
	// RejectCompanies lists companies judged unsuitable, for exercising
	// the rejection path.
	RejectCompanies []string
}

// NewOracle creates an Oracle that rejects one seeded company.
func NewOracle() *Oracle {
	return &Oracle{RejectCompanies: []string{"Hooli"}}
}

// IsJobSuitable rejects configured companies and accepts everything else.
func (o *Oracle) IsJobSuitable(_ context.Context, job *model.JobPosting) (bool, error) {
	for _, company := range o.RejectCompanies {
		if strings.EqualFold(company, job.Company) {
			return false, nil
		}
	}
	return true, nil
}

// AnswerFromOptions prefers a negative answer, then the first option.
func (o *Oracle) AnswerFromOptions(_ context.Context, _ string, options []string) (string, error) {
	for _, opt := range options {
		if strings.EqualFold(opt, "no") {
			return opt, nil
		}
	}
	if len(options) == 0 {
		return "", fmt.Errorf("question offered no options")
	}
	return options[0], nil
}

// AnswerNumeric returns a plausible years-of-experience figure.
func (o *Oracle) AnswerNumeric(context.Context, string) (int, error) { return 4, nil }

// AnswerFreeText returns a canned answer.
func (o *Oracle) AnswerFreeText(_ context.Context, question string) (string, error) {
	return fmt.Sprintf("Regarding %q: I have shipped comparable systems end to end.", question), nil
}

// ClassifyUploadIntent keys off the heading text.
func (o *Oracle) ClassifyUploadIntent(_ context.Context, heading string) (core.UploadIntent, error) {
	if strings.Contains(strings.ToLower(heading), "cover") {
		return core.UploadIntentCoverLetter, nil
	}
	return core.UploadIntentResume, nil
}

// Docs renders minimal placeholder PDFs.
type Docs struct{}

// NewDocs creates a Docs generator.
func NewDocs() *Docs { return &Docs{} }

// GenerateResume renders a placeholder resume.
func (Docs) GenerateResume(_ context.Context, description string) ([]byte, error) {
	return renderPDF("Tailored Resume", description), nil
}

// GenerateCoverLetter renders a placeholder cover letter.
func (Docs) GenerateCoverLetter(_ context.Context, description string) ([]byte, error) {
	return renderPDF("Cover Letter", description), nil
}

func renderPDF(title, body string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	fmt.Fprintf(&buf, "%% %s\n", title)
	if len(body) > 200 {
		body = body[:200]
	}
	buf.WriteString(body)
	buf.WriteString("\n%%EOF\n")
	return buf.Bytes()
}
