package suggest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/models"
)

const systemPrompt = "You are an expert in habit formation and personal development. " +
	"Generate practical, actionable micro-habits that can be completed in 1-5 minutes."

const promptTemplate = `Generate 3 unique micro-habit suggestions for someone with %s energy level (%s energy).

Each suggestion should:
- Take 1-5 minutes to complete
- Be immediately actionable
- Align with their current energy state
- Include step-by-step instructions
- Belong to a relevant category (Mindfulness, Movement, Wellness, Organization, Creativity, Learning)

Format each suggestion as:
NAME: [Brief, actionable name]
DESCRIPTION: [1-2 sentence description]
CATEGORY: [One category from the list above]
DURATION: [X minutes]
INSTRUCTIONS: [Numbered steps]

Separate each suggestion with ---`

var energyDescriptions = map[int]string{
	1: "very low",
	2: "low",
	3: "moderate",
	4: "high",
	5: "very high",
}

func describeEnergy(level int) string {
	if d, ok := energyDescriptions[level]; ok {
		return d
	}
	return "moderate"
}

// BuildPrompt renders the user prompt sent to the model.
func BuildPrompt(energyLevel int, recentHabitIDs, preferredCategories []string) string {
	level := models.ClampEnergy(energyLevel)
	var b strings.Builder
	fmt.Fprintf(&b, promptTemplate, describeEnergy(level), models.TierForEnergy(level))

	if len(preferredCategories) > 0 {
		fmt.Fprintf(&b, "\n\nUser prefers these categories: %s", strings.Join(preferredCategories, ", "))
	}
	if len(recentHabitIDs) > 0 {
		recent := recentHabitIDs
		if len(recent) > constants.RecentHistoryInPrompt {
			recent = recent[len(recent)-constants.RecentHistoryInPrompt:]
		}
		fmt.Fprintf(&b, "\n\nUser has previously completed: %s", strings.Join(recent, ", "))
	}
	return b.String()
}

var (
	digitsRe     = regexp.MustCompile(`\d+`)
	stepPrefixRe = regexp.MustCompile(`^\d+\.\s*`)
)

// ParseCandidates reads NAME/DESCRIPTION/CATEGORY/DURATION/INSTRUCTIONS
// blocks separated by "---". Blocks without a name, description and category
// are dropped. At most MaxCandidates are returned.
func ParseCandidates(content string) []Candidate {
	var out []Candidate
	for _, section := range strings.Split(content, "---") {
		if c, ok := parseSection(section); ok {
			out = append(out, c)
			if len(out) == constants.MaxCandidates {
				break
			}
		}
	}
	return out
}

func parseSection(section string) (Candidate, bool) {
	c := Candidate{DurationMin: constants.DefaultHabitDurationMin}
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "NAME:"):
			c.Name = strings.TrimSpace(strings.TrimPrefix(line, "NAME:"))
		case strings.HasPrefix(line, "DESCRIPTION:"):
			c.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
		case strings.HasPrefix(line, "CATEGORY:"):
			c.Category = strings.TrimSpace(strings.TrimPrefix(line, "CATEGORY:"))
		case strings.HasPrefix(line, "DURATION:"):
			if m := digitsRe.FindString(line); m != "" {
				if n, err := strconv.Atoi(m); err == nil {
					c.DurationMin = n
				}
			}
		case strings.HasPrefix(line, "INSTRUCTIONS:"):
			// steps follow on their own lines
		case stepPrefixRe.MatchString(line):
			c.Instructions = append(c.Instructions, strings.TrimSpace(stepPrefixRe.ReplaceAllString(line, "")))
		}
	}
	if c.Name == "" || c.Description == "" || c.Category == "" {
		return Candidate{}, false
	}
	c.DurationMin = models.ClampDuration(c.DurationMin)
	return c, true
}
