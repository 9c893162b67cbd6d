package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var monthNumber = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

// monthOrder lists month names longest-first so the alternation below
// prefers "January" over its "Jan" prefix at the same text position.
var monthOrder = []string{
	"January", "February", "March", "April", "May", "June", "July",
	"August", "September", "October", "November", "December",
	"Sept", "Jan", "Feb", "Mar", "Apr", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var monthAlternation = strings.Join(monthOrder, "|")

type dateCandidate struct {
	re    *regexp.Regexp
	isISO bool
	parse func(m []string) (year, month, day int, ok bool)
}

var dateTable = []dateCandidate{
	{
		re:    regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`),
		isISO: true,
		parse: func(m []string) (int, int, int, bool) {
			y, _ := strconv.Atoi(m[1])
			mo, _ := strconv.Atoi(m[2])
			d, _ := strconv.Atoi(m[3])
			return y, mo, d, true
		},
	},
	{
		re: regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		parse: func(m []string) (int, int, int, bool) {
			mo, _ := strconv.Atoi(m[1])
			d, _ := strconv.Atoi(m[2])
			y, _ := strconv.Atoi(m[3])
			return y, mo, d, true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\.?\s+(\d{1,2}),?\s+(\d{4})\b`),
		parse: func(m []string) (int, int, int, bool) {
			mo, ok := monthNumber[strings.ToLower(m[1])]
			if !ok {
				return 0, 0, 0, false
			}
			d, _ := strconv.Atoi(m[2])
			y, _ := strconv.Atoi(m[3])
			return y, mo, d, true
		},
	},
	{
		re: regexp.MustCompile(`(?i)\b(\d{1,2})\s+(` + monthAlternation + `)\.?,?\s+(\d{4})\b`),
		parse: func(m []string) (int, int, int, bool) {
			d, _ := strconv.Atoi(m[1])
			mo, ok := monthNumber[strings.ToLower(m[2])]
			if !ok {
				return 0, 0, 0, false
			}
			y, _ := strconv.Atoi(m[3])
			return y, mo, d, true
		},
	},
	{
		re: regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2})\b`),
		parse: func(m []string) (int, int, int, bool) {
			mo, _ := strconv.Atoi(m[1])
			d, _ := strconv.Atoi(m[2])
			yy, _ := strconv.Atoi(m[3])
			return normalizeTwoDigitYear(yy), mo, d, true
		},
	},
}

// normalizeTwoDigitYear applies spec.md §4.1's cutoff: below 50 is 2000s,
// 50 and above is 1900s.
func normalizeTwoDigitYear(yy int) int {
	if yy < 50 {
		return 2000 + yy
	}
	return 1900 + yy
}

// scanDate finds the leftmost date-like match in text against the
// standard regex table, returning its normalized YYYY-MM-DD form, the
// matched substring (source), and whether it was an ISO-formatted match.
func scanDate(text string) (iso string, source string, isISO bool, ok bool) {
	bestStart := -1
	var bestYear, bestMonth, bestDay int
	var bestSource string
	var bestISO bool

	for _, cand := range dateTable {
		loc := cand.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if bestStart != -1 && loc[0] >= bestStart {
			continue
		}
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] < 0 {
				continue
			}
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
		y, mo, d, parsed := cand.parse(groups)
		if !parsed {
			continue
		}
		bestStart = loc[0]
		bestYear, bestMonth, bestDay = y, mo, d
		bestSource = text[loc[0]:loc[1]]
		bestISO = cand.isISO
	}

	if bestStart == -1 {
		return "", "", false, false
	}
	return fmt.Sprintf("%04d-%02d-%02d", bestYear, bestMonth, bestDay), bestSource, bestISO, true
}

var isoDatetimeRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})[T ](\d{2}):(\d{2}):(\d{2})`)

// scanDatetime finds a datetime-like match, preferring an explicit
// "date[T ]HH:MM:SS" form; failing that it falls back to scanDate and
// appends a midnight time-of-day, per spec.md §4.1.
func scanDatetime(text string) (iso string, source string, isISO bool, ok bool) {
	if m := isoDatetimeRe.FindStringSubmatch(text); m != nil {
		return m[1] + "T" + m[2] + ":" + m[3] + ":" + m[4], m[0], true, true
	}
	dateISO, source, isISO, ok := scanDate(text)
	if !ok {
		return "", "", false, false
	}
	return dateISO + "T00:00:00", source, isISO, true
}
