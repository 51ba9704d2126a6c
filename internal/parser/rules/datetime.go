package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// relativeOffsets maps a relative phrase (single-spaced, lower-case) to a day offset
var relativeOffsets = map[string]int{
	"today":              0,
	"tomorrow":           1,
	"day after tomorrow": 2,
	"next week":          7,
	"next month":         30,
	"next year":          365,
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// months is keyed by the first three letters of the month name
var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

const monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	// "day after tomorrow" is listed before "tomorrow" so the longer phrase wins at the same position
	relativePattern = regexp.MustCompile(`(?i)\b(day\s+after\s+tomorrow|today|tomorrow|next\s+week|next\s+month|next\s+year)\b`)
	inDaysPattern   = regexp.MustCompile(`(?i)\bin\s+(\d{1,3})\s+(days?|weeks?)\b`)
	weekdayPattern  = regexp.MustCompile(`(?i)\bnext\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	usDatePattern  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	euDatePattern  = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)

	monthFirstPattern = regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:\s*,?\s*(\d{4})\b)?`)
	dayFirstPattern   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthNames + `)\b\.?(?:\s*,?\s*(\d{4})\b)?`)

	// meridiemTimePattern requires am/pm; clockTimePattern requires minutes
	meridiemTimePattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clockTimePattern    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

// dateSpanPatterns lists every pattern whose matches are removed from the task name
var dateSpanPatterns = []*regexp.Regexp{
	relativePattern,
	inDaysPattern,
	weekdayPattern,
	isoDatePattern,
	usDatePattern,
	euDatePattern,
	monthFirstPattern,
	dayFirstPattern,
}

var timeSpanPatterns = []*regexp.Regexp{
	meridiemTimePattern,
	clockTimePattern,
}

// DateTimeExtractor recognizes due dates and clock times. Relative phrases are
// resolved against the calendar date reported by now.
type DateTimeExtractor struct {
	now func() time.Time
}

// NewDateTimeExtractor creates an extractor; a nil clock means time.Now
func NewDateTimeExtractor(now func() time.Time) *DateTimeExtractor {
	if now == nil {
		now = time.Now
	}
	return &DateTimeExtractor{now: now}
}

// Extract returns the due date (YYYY-MM-DD) and due time (HH:MM), each nil when absent.
// The two are found independently; nothing checks that they come from the same phrase.
func (e *DateTimeExtractor) Extract(text string) (date *string, clock *string) {
	return e.ExtractDate(text), ExtractTime(text)
}

// ExtractDate resolves the first recognized date: relative phrases, then numeric
// formats, then month names.
func (e *DateTimeExtractor) ExtractDate(text string) *string {
	today := e.today()

	resolvers := []func(string, time.Time) (time.Time, bool){
		resolveRelative,
		resolveInDays,
		resolveNextWeekday,
		resolveNumeric(isoDatePattern, 1, 2, 3),
		resolveNumeric(usDatePattern, 3, 1, 2),
		resolveNumeric(euDatePattern, 3, 2, 1),
		resolveMonthName(monthFirstPattern, 1, 2, 3),
		resolveMonthName(dayFirstPattern, 2, 1, 3),
	}
	for _, resolve := range resolvers {
		if d, ok := resolve(text, today); ok {
			s := d.Format(dateLayout)
			return &s
		}
	}
	return nil
}

// today returns midnight of the current calendar day in the clock's location
func (e *DateTimeExtractor) today() time.Time {
	n := e.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

func addDays(t time.Time, days int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+days, 0, 0, 0, 0, t.Location())
}

func resolveRelative(text string, today time.Time) (time.Time, bool) {
	m := relativePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	phrase := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
	offset, ok := relativeOffsets[phrase]
	if !ok {
		return time.Time{}, false
	}
	return addDays(today, offset), true
}

func resolveInDays(text string, today time.Time) (time.Time, bool) {
	m := inDaysPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	if strings.HasPrefix(strings.ToLower(m[2]), "week") {
		n *= 7
	}
	return addDays(today, n), true
}

func resolveNextWeekday(text string, today time.Time) (time.Time, bool) {
	m := weekdayPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	target := weekdays[strings.ToLower(m[1])]
	days := int(target - today.Weekday())
	if days <= 0 {
		days += 7
	}
	return addDays(today, days), true
}

// resolveNumeric returns a resolver for an all-digit pattern whose submatch
// indexes hold the year, month and day.
func resolveNumeric(p *regexp.Regexp, yearIdx, monthIdx, dayIdx int) func(string, time.Time) (time.Time, bool) {
	return func(text string, today time.Time) (time.Time, bool) {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			year, _ := strconv.Atoi(m[yearIdx])
			month, _ := strconv.Atoi(m[monthIdx])
			day, _ := strconv.Atoi(m[dayIdx])
			if d, ok := calendarDate(year, time.Month(month), day, today.Location()); ok {
				return d, true
			}
		}
		return time.Time{}, false
	}
}

// resolveMonthName returns a resolver for a month-name pattern; a missing year
// means the current year.
func resolveMonthName(p *regexp.Regexp, monthIdx, dayIdx, yearIdx int) func(string, time.Time) (time.Time, bool) {
	return func(text string, today time.Time) (time.Time, bool) {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			month, ok := months[strings.ToLower(m[monthIdx])[:3]]
			if !ok {
				continue
			}
			day, _ := strconv.Atoi(m[dayIdx])
			year := today.Year()
			if m[yearIdx] != "" {
				year, _ = strconv.Atoi(m[yearIdx])
			}
			if d, ok := calendarDate(year, month, day, today.Location()); ok {
				return d, true
			}
		}
		return time.Time{}, false
	}
}

// calendarDate builds a date, rejecting values time.Date would normalize (e.g. Feb 30)
func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// ExtractTime returns the first valid clock time in text as 24-hour HH:MM.
// A time needs either a meridiem ("5pm", "11:30 am") or minutes ("17:45").
func ExtractTime(text string) *string {
	type candidate struct {
		start  int
		hour   int
		minute int
	}
	var best *candidate

	for _, idx := range meridiemTimePattern.FindAllStringSubmatchIndex(text, -1) {
		hour, _ := strconv.Atoi(text[idx[2]:idx[3]])
		minute := 0
		if idx[4] >= 0 {
			minute, _ = strconv.Atoi(text[idx[4]:idx[5]])
		}
		h, ok := to24Hour(hour, strings.ToLower(text[idx[6]:idx[7]]))
		if !ok || minute > 59 {
			continue
		}
		best = &candidate{start: idx[0], hour: h, minute: minute}
		break
	}
	// a clock match at the same offset as a meridiem match ("11:30 pm") loses to it
	for _, idx := range clockTimePattern.FindAllStringSubmatchIndex(text, -1) {
		if best != nil && idx[0] >= best.start {
			break
		}
		hour, _ := strconv.Atoi(text[idx[2]:idx[3]])
		minute, _ := strconv.Atoi(text[idx[4]:idx[5]])
		if hour > 23 || minute > 59 {
			continue
		}
		best = &candidate{start: idx[0], hour: hour, minute: minute}
		break
	}
	if best == nil {
		return nil
	}
	s := fmt.Sprintf("%02d:%02d", best.hour, best.minute)
	return &s
}

// to24Hour converts a 12-hour clock value
func to24Hour(hour int, meridiem string) (int, bool) {
	if hour < 1 || hour > 12 {
		return 0, false
	}
	switch {
	case meridiem == "pm" && hour < 12:
		return hour + 12, true
	case meridiem == "am" && hour == 12:
		return 0, true
	default:
		return hour, true
	}
}

func stripDates(text string) string {
	for _, p := range dateSpanPatterns {
		text = p.ReplaceAllString(text, "")
	}
	return text
}

func stripTimes(text string) string {
	for _, p := range timeSpanPatterns {
		text = p.ReplaceAllString(text, "")
	}
	return text
}
