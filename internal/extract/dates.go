package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	weekdayRe   = regexp.MustCompile(`(?i)\b(?:last\s+|on\s+|this\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	monthDayRe  = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate pulls a calendar date out of free text. It understands
// "today", "yesterday", weekday references ("last friday"), month-name
// dates ("April 12") and numeric m/d[/y] forms. The boolean is false when
// nothing date-like is present; callers default to the receipt date.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)
	today := midnight(now)

	switch {
	case strings.Contains(lower, "day before yesterday"):
		return today.AddDate(0, 0, -2), true
	case strings.Contains(lower, "yesterday"):
		return today.AddDate(0, 0, -1), true
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1), true
	case strings.Contains(lower, "today"), strings.Contains(lower, "tonight"):
		return today, true
	}

	if m := monthDayRe.FindStringSubmatch(text); m != nil {
		month := monthsByPrefix[strings.ToLower(m[1])[:3]]
		day, _ := strconv.Atoi(m[2])
		if day >= 1 && day <= 31 {
			return time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location()), true
		}
	}

	if m := slashDateRe.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), true
		}
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		return previousWeekday(today, weekdayByName(m[1])), true
	}

	return time.Time{}, false
}

func weekdayByName(name string) time.Weekday {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	}
	return time.Saturday
}

// previousWeekday returns the most recent strictly-past occurrence of the
// weekday; "last friday" said on a Friday means a week ago.
func previousWeekday(today time.Time, wd time.Weekday) time.Time {
	delta := int(today.Weekday() - wd)
	if delta <= 0 {
		delta += 7
	}
	return today.AddDate(0, 0, -delta)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
