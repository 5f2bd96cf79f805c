package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/vitaehq/vitae-api/internal/generation"
)

// narrativeResponse wraps the single employment entry parsed from a
// freeform narrative. Employment is nil when the model found none.
type narrativeResponse struct {
	Employment *generation.CandidateEmployment `json:"employment"`
}

// resumeSchema mirrors the fixed JSON shape the resume prompt instructs
// the model to produce. It is unmarshalled only to verify conformance;
// the raw payload is what gets stored.
type resumeSchema struct {
	Summary    string             `json:"summary"`
	Experience []resumeExperience `json:"experience"`
	Education  []resumeEducation  `json:"education"`
	Skills     []string           `json:"skills"`
}

type resumeExperience struct {
	Company    string   `json:"company"`
	JobTitle   string   `json:"job_title"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
	Highlights []string `json:"highlights"`
}

type resumeEducation struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	EndDate     string `json:"end_date,omitempty"`
}

const extractionPromptTemplate = `You are a structured career-data extractor. Read the resume text below and return JSON only, no prose, conforming exactly to this schema:

{
  "education": [{"institution": "", "degree": "", "field_of_study": "", "description": "", "gpa": "", "start_date": "", "end_date": ""}],
  "employment": [{"company": "", "job_title": "", "start_date": "", "end_date": "", "location": "", "responsibilities": [""], "accomplishments": [""]}],
  "skills": [""]
}

Rules:
- Copy dates exactly as they appear in the text; use "" when absent.
- Use "Present" as the end date for a current position.
- Omit records you cannot identify a name for; never invent data.

Resume text:
{{.Text}}`

const narrativePromptTemplate = `You are a structured career-data extractor. The text below is a first-person description of a single job. Return JSON only, no prose, conforming exactly to this schema:

{"employment": {"company": "", "job_title": "", "start_date": "", "end_date": "", "location": "", "responsibilities": [""], "accomplishments": [""]}}

Rules:
- Extract at most one employment entry.
- Copy dates exactly as they appear; use "" when absent.
- If the text describes no identifiable job, return {"employment": null}.

Narrative:
{{.Text}}`

const resumePromptTemplate = `You are an expert resume writer. Using only the candidate profile below, write a resume tailored to the target job. Return JSON only, no prose, conforming exactly to this schema:

{
  "summary": "",
  "experience": [{"company": "", "job_title": "", "start_date": "", "end_date": "", "highlights": [""]}],
  "education": [{"institution": "", "degree": "", "end_date": ""}],
  "skills": [""]
}

Rules:
- Use only facts from the profile; never invent employers, dates or credentials.
- Order experience and skills by relevance to the target job.
- Keep the summary under 60 words.

Target job: {{.JobTitle}}
{{.JobDescription}}

Candidate profile:
{{.Profile}}`

var (
	extractionTmpl = template.Must(template.New("extraction").Parse(extractionPromptTemplate))
	narrativeTmpl  = template.Must(template.New("narrative").Parse(narrativePromptTemplate))
	resumeTmpl     = template.Must(template.New("resume").Parse(resumePromptTemplate))
)

func buildExtractionPrompt(text string) string {
	return mustExecute(extractionTmpl, struct{ Text string }{Text: text})
}

func buildNarrativePrompt(narrative string) string {
	return mustExecute(narrativeTmpl, struct{ Text string }{Text: narrative})
}

func buildResumePrompt(input generation.ResumeInput) (string, error) {
	profile, err := json.MarshalIndent(struct {
		Education  []generation.CandidateEducation  `json:"education"`
		Employment []generation.CandidateEmployment `json:"employment"`
		Skills     []string                         `json:"skills"`
	}{
		Education:  input.Education,
		Employment: input.Employment,
		Skills:     input.Skills,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode candidate profile: %w", err)
	}

	return mustExecute(resumeTmpl, struct {
		JobTitle       string
		JobDescription string
		Profile        string
	}{
		JobTitle:       input.JobTitle,
		JobDescription: input.JobDescription,
		Profile:        string(profile),
	}), nil
}

func mustExecute(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	// The templates are compile-time constants over plain string fields,
	// so execution cannot fail.
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(err)
	}
	return buf.String()
}
