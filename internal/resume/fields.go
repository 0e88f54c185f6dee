package resume

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MaxNameLength rejects paragraph-style first lines as candidate names.
	MaxNameLength = 80
	// SkillsWindow is how far past the "skills" keyword the skill list may run.
	SkillsWindow = 500
	// EducationWindow bounds the captured education blurb.
	EducationWindow = 300
	// MaxSkillLength drops prose fragments masquerading as skill entries.
	MaxSkillLength = 40
	// MaxSkills caps the extracted skill list.
	MaxSkills = 50
)

// Fields holds the heuristically extracted resume attributes. Every field
// is best-effort: an unmatched heuristic leaves its field empty (or nil),
// never an error.
type Fields struct {
	Name            string   `json:"name,omitempty"`
	Email           string   `json:"email,omitempty"`
	Skills          []string `json:"skills"`
	Education       string   `json:"education,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
}

var (
	emailRe      = regexp.MustCompile(`[\w._%+-]+@[\w.-]+\.[A-Za-z]{2,}`)
	skillsRe     = regexp.MustCompile(`(?i)skills[:\-]?`)
	educationRe  = regexp.MustCompile(`(?i)education[\s\-:]*`)
	experienceRe = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(years|yrs)\s*(of)?\s*(experience)?`)
	// Skill entries are separated by newlines, commas, or bullet glyphs.
	skillSplitRe = regexp.MustCompile(`[\r\n,•·]`)
	// A line that is nothing but an experience statement ends the skill list.
	experienceLineRe = regexp.MustCompile(`(?i)^\d{1,2}\+?\s*(years|yrs)(\s*of)?(\s*experience)?$`)
)

// ExtractFields applies each heuristic independently over the whole raw
// text. Only the first match of each pattern is used.
func ExtractFields(text string) Fields {
	return Fields{
		Name:            extractName(text),
		Email:           extractEmail(text),
		Skills:          extractSkills(text),
		Education:       extractEducation(text),
		ExperienceYears: extractExperienceYears(text),
	}
}

func extractEmail(text string) string {
	return emailRe.FindString(text)
}

// extractName takes the first non-blank line of the resume; conventionally
// that is the candidate's name. Lines longer than MaxNameLength runes are
// rejected rather than truncated.
func extractName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= MaxNameLength {
			return line
		}
		return ""
	}
	return ""
}

func extractSkills(text string) []string {
	loc := skillsRe.FindStringIndex(text)
	if loc == nil {
		return []string{}
	}

	window := text[loc[1]:]
	if len(window) > SkillsWindow {
		window = window[:SkillsWindow]
	}

	skills := []string{}
	for _, part := range skillSplitRe.Split(window, -1) {
		entry := strings.TrimSpace(part)
		entry = strings.TrimSpace(strings.TrimLeft(entry, "-*"))
		if entry == "" {
			continue
		}
		if experienceLineRe.MatchString(entry) {
			break
		}
		if utf8.RuneCountInString(entry) > MaxSkillLength {
			continue
		}
		skills = append(skills, entry)
		if len(skills) == MaxSkills {
			break
		}
	}
	return skills
}

// extractEducation captures the matched keyword plus the following window
// of text, unprocessed.
func extractEducation(text string) string {
	loc := educationRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	end := loc[1] + EducationWindow
	if end > len(text) {
		end = len(text)
	}
	return text[loc[0]:end]
}

func extractExperienceYears(text string) *int {
	m := experienceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &years
}
