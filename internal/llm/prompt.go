package llm

const (
	// MaxResumeChars and MaxJobDescChars are hard caps on prompt size to
	// bound request cost.
	MaxResumeChars  = 6000
	MaxJobDescChars = 4000
)

// BuildPrompt composes the scoring instruction from a resume and a job
// description, truncating both. Deterministic for identical inputs.
func BuildPrompt(resumeText, jobDescription string) string {
	return `Compare the following resume and job description, and rate fit on a scale of 1-10.
Also provide a short justification (2-3 sentences).

Resume:
` + truncate(resumeText, MaxResumeChars) + `

Job Description:
` + truncate(jobDescription, MaxJobDescChars) + `

Return JSON:
{
  "score": <number>,
  "justification": "<text>"
}`
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
