package llm

import (
	"fmt"
	"strings"
	"time"
)

// systemPrompt pins the completion to JSON-only output
const systemPrompt = "You are a task parsing assistant. Always respond with valid JSON only."

const taskSchema = `[
  {
    "taskName": "string",
    "assignee": "string or null",
    "dueDate": "YYYY-MM-DD or null",
    "dueTime": "HH:MM or null",
    "priority": "P1|P2|P3|P4",
    "confidence": 0.0-1.0
  }
]`

// buildPrompt builds the user instruction for text, grounding relative dates on today
func buildPrompt(text string, today time.Time, mode Mode) string {
	var b strings.Builder

	if mode == ModeSingle {
		b.WriteString("Parse the following natural language task into structured data. The input describes exactly one task.")
	} else {
		b.WriteString("Parse the following natural language text into structured tasks. The input may describe one task or several; return one entry per task.")
	}
	b.WriteString(` For each task extract:
1. Task name (the main action/description, without dates, times, priority or assignee)
2. Assignee (person's name if mentioned, otherwise null)
3. Due date (convert to YYYY-MM-DD format, use the current year if not specified)
4. Due time (convert to HH:MM 24-hour format, otherwise null)
5. Priority (P1, P2, P3, or P4 - default to P3 if not specified)
6. Confidence (how sure you are of the extraction, 0.0 to 1.0)
`)
	fmt.Fprintf(&b, "\nInput: %q\n", text)
	b.WriteString("\nRespond ONLY with a valid JSON array in this exact format, with no markdown and no explanation:\n")
	b.WriteString(taskSchema)
	if mode == ModeSingle {
		b.WriteString("\nThe array must contain exactly one object.")
	}
	fmt.Fprintf(&b, "\n\nCurrent date: %s (%s)\n", today.Format("2006-01-02"), today.Weekday())
	return b.String()
}
