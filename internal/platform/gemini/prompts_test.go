package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitaehq/vitae-api/internal/generation"
)

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := buildExtractionPrompt("Jane Doe\nSenior Engineer at Initech")

	assert.Contains(t, prompt, "Jane Doe")
	assert.Contains(t, prompt, "Senior Engineer at Initech")
	assert.Contains(t, prompt, `"education"`)
	assert.Contains(t, prompt, `"employment"`)
	assert.Contains(t, prompt, `"skills"`)
}

func TestBuildNarrativePrompt(t *testing.T) {
	prompt := buildNarrativePrompt("I ran the data platform team at Hooli from 2019 to 2022.")

	assert.Contains(t, prompt, "Hooli")
	assert.Contains(t, prompt, `"employment"`)
}

func TestBuildResumePrompt(t *testing.T) {
	input := generation.ResumeInput{
		JobTitle:       "Platform Engineer",
		JobDescription: "Own the deployment pipeline end to end.",
		Education: []generation.CandidateEducation{
			{Institution: "State University", Degree: "BSc"},
		},
		Employment: []generation.CandidateEmployment{
			{Company: "Initech", JobTitle: "Engineer", Accomplishments: []string{"Cut build times in half"}},
		},
		Skills: []string{"Go", "Kubernetes"},
	}

	prompt, err := buildResumePrompt(input)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Platform Engineer")
	assert.Contains(t, prompt, "Own the deployment pipeline end to end.")
	assert.Contains(t, prompt, "State University")
	assert.Contains(t, prompt, "Initech")
	assert.Contains(t, prompt, "Cut build times in half")
	assert.Contains(t, prompt, "Kubernetes")
}

func TestBuildResumePrompt_EmptyProfile(t *testing.T) {
	prompt, err := buildResumePrompt(generation.ResumeInput{
		JobTitle:       "Analyst",
		JobDescription: "Spreadsheets.",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Analyst")
	assert.Contains(t, prompt, `"skills": null`)
}
