package testutil

import (
	"context"
	"fmt"

	"github.com/applypilot/applypilot/internal/core"
	"github.com/applypilot/applypilot/internal/domain/model"
)

// Handle is a trivial core handle carrying only a label.
type Handle struct {
	Name    string
	upload  *UploadScript
	section *SectionScript
	posting *model.JobPosting
}

// Label implements core.PostingHandle and core.ElementHandle.
func (h *Handle) Label() string { return h.Name }

// UploadScript describes one upload field on a scripted form page.
type UploadScript struct {
	Heading string
}

// SectionScript describes one question section on a scripted form page.
// Exactly one of the pointers should be set, or TermsOfService true.
type SectionScript struct {
	TermsOfService bool
	Radio          *core.SelectQuestion
	Dropdown       *core.SelectQuestion
	Text           *core.TextQuestion
}

// PageScript is one page of a scripted application form.
type PageScript struct {
	Uploads  []UploadScript
	Sections []SectionScript
}

// FakeForm is a scriptable core.ApplicationForm. Pages are traversed in
// order; every interaction is recorded for assertions.
type FakeForm struct {
	Pages          []PageScript
	Submittable    bool
	ProfileResumes []core.UploadedDocument

	SubmitErr       error
	NextErr         error
	HandleErrorsErr error

	page int

	RadioSelections    map[string]string
	DropdownSelections map[string]string
	TextboxFills       map[string]string
	UploadedFiles      []string
	SelectedResumes    []string
	TermsAccepted      int
	FollowUnchecked    bool
	Submitted          bool
	Discarded          bool
	Saved              bool
}

// NewFakeForm creates a FakeForm with recording maps initialized.
func NewFakeForm(pages ...PageScript) *FakeForm {
	return &FakeForm{
		Pages:              pages,
		Submittable:        true,
		RadioSelections:    make(map[string]string),
		DropdownSelections: make(map[string]string),
		TextboxFills:       make(map[string]string),
	}
}

func (f *FakeForm) current() PageScript {
	if f.page >= len(f.Pages) {
		return PageScript{}
	}
	return f.Pages[f.page]
}

// HasNextPage reports whether scripted pages remain.
func (f *FakeForm) HasNextPage(context.Context) (bool, error) {
	return f.page < len(f.Pages)-1, nil
}

// ClickNext advances to the next scripted page.
func (f *FakeForm) ClickNext(context.Context) error {
	if f.NextErr != nil {
		return f.NextErr
	}
	f.page++
	return nil
}

// HasSubmit reports the scripted submit availability.
func (f *FakeForm) HasSubmit(context.Context) (bool, error) { return f.Submittable, nil }

// ClickSubmit records the submission.
func (f *FakeForm) ClickSubmit(context.Context) error {
	if f.SubmitErr != nil {
		return f.SubmitErr
	}
	f.Submitted = true
	return nil
}

// UncheckFollowCompany records the call.
func (f *FakeForm) UncheckFollowCompany(context.Context) error {
	f.FollowUnchecked = true
	return nil
}

// InputElements returns one handle per upload field plus one handle covering
// the page's question sections.
func (f *FakeForm) InputElements(context.Context) ([]core.ElementHandle, error) {
	page := f.current()
	var els []core.ElementHandle
	for i := range page.Uploads {
		els = append(els, &Handle{Name: fmt.Sprintf("upload-%d", i), upload: &page.Uploads[i]})
	}
	if len(page.Sections) > 0 {
		els = append(els, &Handle{Name: "questions"})
	}
	return els, nil
}

// IsUploadField reports whether the handle is a scripted upload.
func (f *FakeForm) IsUploadField(el core.ElementHandle) bool {
	h, ok := el.(*Handle)
	return ok && h.upload != nil
}

// UploadHeading returns the scripted heading.
func (f *FakeForm) UploadHeading(_ context.Context, el core.ElementHandle) (string, error) {
	return el.(*Handle).upload.Heading, nil
}

// UploadFile records the uploaded path.
func (f *FakeForm) UploadFile(_ context.Context, _ core.ElementHandle, path string) error {
	f.UploadedFiles = append(f.UploadedFiles, path)
	return nil
}

// UploadedResumes returns the scripted profile resumes.
func (f *FakeForm) UploadedResumes(context.Context) ([]core.UploadedDocument, error) {
	return f.ProfileResumes, nil
}

// SelectUploadedResume records the selection.
func (f *FakeForm) SelectUploadedResume(_ context.Context, doc core.UploadedDocument) error {
	f.SelectedResumes = append(f.SelectedResumes, doc.Filename)
	return nil
}

// FormSections returns one handle per scripted section on the current page.
func (f *FakeForm) FormSections(context.Context) ([]core.ElementHandle, error) {
	page := f.current()
	var els []core.ElementHandle
	for i := range page.Sections {
		els = append(els, &Handle{Name: fmt.Sprintf("section-%d", i), section: &page.Sections[i]})
	}
	return els, nil
}

// IsTermsOfService reports the scripted section type.
func (f *FakeForm) IsTermsOfService(el core.ElementHandle) bool {
	return el.(*Handle).section.TermsOfService
}

// AcceptTerms records the call.
func (f *FakeForm) AcceptTerms(context.Context, core.ElementHandle) error {
	f.TermsAccepted++
	return nil
}

// IsRadio reports the scripted section type.
func (f *FakeForm) IsRadio(el core.ElementHandle) bool {
	return el.(*Handle).section.Radio != nil
}

// RadioQuestion returns the scripted question.
func (f *FakeForm) RadioQuestion(_ context.Context, el core.ElementHandle) (core.SelectQuestion, error) {
	return *el.(*Handle).section.Radio, nil
}

// SelectRadio records the answer.
func (f *FakeForm) SelectRadio(_ context.Context, el core.ElementHandle, answer string) error {
	f.RadioSelections[el.(*Handle).section.Radio.Question] = answer
	return nil
}

// IsTextbox reports the scripted section type.
func (f *FakeForm) IsTextbox(el core.ElementHandle) bool {
	return el.(*Handle).section.Text != nil
}

// TextboxQuestion returns the scripted question.
func (f *FakeForm) TextboxQuestion(_ context.Context, el core.ElementHandle) (core.TextQuestion, error) {
	return *el.(*Handle).section.Text, nil
}

// FillTextbox records the answer.
func (f *FakeForm) FillTextbox(_ context.Context, el core.ElementHandle, answer string) error {
	f.TextboxFills[el.(*Handle).section.Text.Question] = answer
	return nil
}

// IsDropdown reports the scripted section type.
func (f *FakeForm) IsDropdown(el core.ElementHandle) bool {
	return el.(*Handle).section.Dropdown != nil
}

// DropdownQuestion returns the scripted question.
func (f *FakeForm) DropdownQuestion(_ context.Context, el core.ElementHandle) (core.SelectQuestion, error) {
	return *el.(*Handle).section.Dropdown, nil
}

// SelectDropdown records the answer.
func (f *FakeForm) SelectDropdown(_ context.Context, el core.ElementHandle, answer string) error {
	f.DropdownSelections[el.(*Handle).section.Dropdown.Question] = answer
	return nil
}

// HandleErrors returns the scripted validation error, if any.
func (f *FakeForm) HandleErrors(context.Context) error { return f.HandleErrorsErr }

// Discard records the call.
func (f *FakeForm) Discard(context.Context) error {
	f.Discarded = true
	return nil
}

// Save records the call.
func (f *FakeForm) Save(context.Context) error {
	f.Saved = true
	return nil
}

// ListingPage is one scripted search result page.
type ListingPage struct {
	Postings []*model.JobPosting
	// Insights maps posting ID to insight texts.
	Insights map[string][]string
}

// FakeListing is a scriptable core.ListingProvider. Pages are keyed by
// (position, location, page index); missing keys behave as empty pages.
type FakeListing struct {
	Pages map[string]ListingPage

	Descriptions map[string]string // posting ID -> description
	Recruiters   map[string]string // posting link -> recruiter link
	// ConfirmAfter makes SubmissionConfirmed return true on the Nth poll.
	// Zero means never.
	ConfirmAfter int

	GoToErr        error
	DescriptionErr error
	OpenErr        error

	current        ListingPage
	polls          int
	NavigatedLinks []string
	OpenedLinks    []string
	URL            string
}

// NewFakeListing creates an empty FakeListing.
func NewFakeListing() *FakeListing {
	return &FakeListing{
		Pages:        make(map[string]ListingPage),
		Descriptions: make(map[string]string),
		Recruiters:   make(map[string]string),
	}
}

// PageKey builds the map key NextPage looks up.
func PageKey(position, location string, page int) string {
	return fmt.Sprintf("%s|%s|%d", position, location, page)
}

// AddPage scripts a result page for a search pair.
func (l *FakeListing) AddPage(position, location string, page int, postings ...*model.JobPosting) {
	l.Pages[PageKey(position, location, page)] = ListingPage{Postings: postings}
}

// NextPage switches to the scripted page, or an empty one.
func (l *FakeListing) NextPage(_ context.Context, position, location string, page int) error {
	l.current = l.Pages[PageKey(position, location, page)]
	l.URL = fmt.Sprintf("https://jobs.example.com/search?q=%s&l=%s&p=%d", position, location, page)
	return nil
}

// Postings returns handles for the current page's postings.
func (l *FakeListing) Postings(context.Context, bool) ([]core.PostingHandle, error) {
	var handles []core.PostingHandle
	for _, job := range l.current.Postings {
		handles = append(handles, &Handle{Name: job.Title, posting: job})
	}
	return handles, nil
}

// Posting resolves a handle back to its posting.
func (l *FakeListing) Posting(_ context.Context, handle core.PostingHandle) (*model.JobPosting, error) {
	return handle.(*Handle).posting, nil
}

// Insights returns the scripted insight texts for a posting.
func (l *FakeListing) Insights(_ context.Context, handle core.PostingHandle) ([]string, error) {
	return l.current.Insights[handle.(*Handle).posting.ID], nil
}

// GoToPosting records the navigation.
func (l *FakeListing) GoToPosting(_ context.Context, job *model.JobPosting) error {
	if l.GoToErr != nil {
		return l.GoToErr
	}
	l.NavigatedLinks = append(l.NavigatedLinks, job.Link)
	l.URL = job.Link
	return nil
}

// Description returns the scripted description, falling back to the
// posting's own.
func (l *FakeListing) Description(_ context.Context, job *model.JobPosting) (string, error) {
	if l.DescriptionErr != nil {
		return "", l.DescriptionErr
	}
	if desc, ok := l.Descriptions[job.ID]; ok {
		return desc, nil
	}
	return job.Description, nil
}

// RecruiterLink returns the scripted recruiter link for the current posting
// page, or empty.
func (l *FakeListing) RecruiterLink(context.Context) (string, error) {
	return l.Recruiters[l.URL], nil
}

// OpenApplication records the call.
func (l *FakeListing) OpenApplication(_ context.Context, job *model.JobPosting) error {
	if l.OpenErr != nil {
		return l.OpenErr
	}
	l.OpenedLinks = append(l.OpenedLinks, job.Link)
	return nil
}

// SubmissionConfirmed counts polls and confirms after the scripted count.
func (l *FakeListing) SubmissionConfirmed(context.Context) (bool, error) {
	if l.ConfirmAfter == 0 {
		return false, nil
	}
	l.polls++
	return l.polls >= l.ConfirmAfter, nil
}

// CurrentURL returns the last navigated URL.
func (l *FakeListing) CurrentURL() string { return l.URL }

// FakeOracle is a scriptable core.Oracle answering from per-question maps.
type FakeOracle struct {
	Suitable    bool
	SuitableErr error

	OptionAnswers  map[string]string
	NumericAnswers map[string]int
	TextAnswers    map[string]string
	UploadIntents  map[string]core.UploadIntent

	Asked []string
}

// NewFakeOracle creates a FakeOracle that judges everything suitable.
func NewFakeOracle() *FakeOracle {
	return &FakeOracle{
		Suitable:       true,
		OptionAnswers:  make(map[string]string),
		NumericAnswers: make(map[string]int),
		TextAnswers:    make(map[string]string),
		UploadIntents:  make(map[string]core.UploadIntent),
	}
}

// IsJobSuitable returns the scripted verdict.
func (o *FakeOracle) IsJobSuitable(context.Context, *model.JobPosting) (bool, error) {
	if o.SuitableErr != nil {
		return false, o.SuitableErr
	}
	return o.Suitable, nil
}

// AnswerFromOptions answers from the map, defaulting to the first option.
func (o *FakeOracle) AnswerFromOptions(_ context.Context, question string, options []string) (string, error) {
	o.Asked = append(o.Asked, question)
	if answer, ok := o.OptionAnswers[question]; ok {
		return answer, nil
	}
	if len(options) > 0 {
		return options[0], nil
	}
	return "", fmt.Errorf("no options for question %q", question)
}

// AnswerNumeric answers from the map, defaulting to zero.
func (o *FakeOracle) AnswerNumeric(_ context.Context, question string) (int, error) {
	o.Asked = append(o.Asked, question)
	return o.NumericAnswers[question], nil
}

// AnswerFreeText answers from the map, defaulting to a fixed string.
func (o *FakeOracle) AnswerFreeText(_ context.Context, question string) (string, error) {
	o.Asked = append(o.Asked, question)
	if answer, ok := o.TextAnswers[question]; ok {
		return answer, nil
	}
	return "generated answer", nil
}

// ClassifyUploadIntent classifies from the map, defaulting to resume.
func (o *FakeOracle) ClassifyUploadIntent(_ context.Context, heading string) (core.UploadIntent, error) {
	if intent, ok := o.UploadIntents[heading]; ok {
		return intent, nil
	}
	return core.UploadIntentResume, nil
}

// FakeDocs is a scriptable core.DocumentGenerator. Errors queued in the Errs
// slices are returned first, one per call, then the byte payloads succeed.
type FakeDocs struct {
	ResumeBytes []byte
	CoverBytes  []byte

	ResumeErrs []error
	CoverErrs  []error

	ResumeCalls int
	CoverCalls  int
}

// NewFakeDocs creates a FakeDocs with small valid payloads.
func NewFakeDocs() *FakeDocs {
	return &FakeDocs{
		ResumeBytes: []byte("%PDF-1.4 resume"),
		CoverBytes:  []byte("%PDF-1.4 cover letter"),
	}
}

// GenerateResume pops a queued error or returns the payload.
func (d *FakeDocs) GenerateResume(context.Context, string) ([]byte, error) {
	d.ResumeCalls++
	if len(d.ResumeErrs) > 0 {
		err := d.ResumeErrs[0]
		d.ResumeErrs = d.ResumeErrs[1:]
		return nil, err
	}
	return d.ResumeBytes, nil
}

// GenerateCoverLetter pops a queued error or returns the payload.
func (d *FakeDocs) GenerateCoverLetter(context.Context, string) ([]byte, error) {
	d.CoverCalls++
	if len(d.CoverErrs) > 0 {
		err := d.CoverErrs[0]
		d.CoverErrs = d.CoverErrs[1:]
		return nil, err
	}
	return d.CoverBytes, nil
}
