package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rohitk2319/ocr-patient-intake/dto"
)

// Word tokens start with a letter and may contain letters, hyphens and
// apostrophes. Labels are case-insensitive with optional whitespace
// around the colon.
var (
	nameSpaceRegex = regexp.MustCompile(`(?i)\b(?:Patient Name|Name)\b\s*:\s*([A-Za-z][A-Za-z\-']*)\s+([A-Za-z][A-Za-z\-']*)`)
	nameCommaRegex = regexp.MustCompile(`(?i)\b(?:Patient Name|Name)\b\s*:\s*([A-Za-z][A-Za-z\-']*)\s*,\s*([A-Za-z][A-Za-z\-']*)`)
	firstNameRegex = regexp.MustCompile(`(?i)\b(?:First Name|Given Name|First)\b\s*:\s*([A-Za-z][A-Za-z\-']*)`)
	lastNameRegex  = regexp.MustCompile(`(?i)\b(?:Last Name|Family Name|Surname|Last)\b\s*:\s*([A-Za-z][A-Za-z\-']*)`)
	dobRegex       = regexp.MustCompile(`(?i)\b(?:DOB|Date of Birth)\b\s*:\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`)
)

// patientRule is one pattern check applied per line. Rules marked
// overwrite replace any previously captured value; the others only
// fill slots that are still empty.
type patientRule struct {
	overwrite bool
	apply     func(line string, info *dto.PatientInfo, overwrite bool)
}

// Rules run in order on every line, combined-name forms first. Both
// combined forms are unguarded, so on any given line the comma form
// wins over the space form, and across lines the last matching line
// wins for each slot.
var patientRules = []patientRule{
	{overwrite: true, apply: applyNamePair(nameSpaceRegex, false)},
	{overwrite: true, apply: applyNamePair(nameCommaRegex, true)},
	{overwrite: false, apply: applyFirstName},
	{overwrite: false, apply: applyLastName},
	{overwrite: true, apply: applyDOB},
}

// ExtractPatientInfo scans intake form text line by line and pulls out
// the patient's first name, last name and date of birth. Unmatched
// fields stay nil. Empty input yields an all-nil result.
func ExtractPatientInfo(text string) dto.PatientInfo {
	var info dto.PatientInfo
	if text == "" {
		return info
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, rule := range patientRules {
			rule.apply(line, &info, rule.overwrite)
		}
	}

	return info
}

// applyNamePair matches "Label: John Doe" (or "Label: Doe, John" when
// lastFirst is set) and fills both name slots.
func applyNamePair(re *regexp.Regexp, lastFirst bool) func(string, *dto.PatientInfo, bool) {
	return func(line string, info *dto.PatientInfo, overwrite bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return
		}
		first, last := m[1], m[2]
		if lastFirst {
			first, last = m[2], m[1]
		}
		if overwrite || info.FirstName == nil {
			info.FirstName = &first
		}
		if overwrite || info.LastName == nil {
			info.LastName = &last
		}
	}
}

func applyFirstName(line string, info *dto.PatientInfo, overwrite bool) {
	m := firstNameRegex.FindStringSubmatch(line)
	if m == nil {
		return
	}
	if overwrite || info.FirstName == nil {
		name := m[1]
		info.FirstName = &name
	}
}

func applyLastName(line string, info *dto.PatientInfo, overwrite bool) {
	m := lastNameRegex.FindStringSubmatch(line)
	if m == nil {
		return
	}
	if overwrite || info.LastName == nil {
		name := m[1]
		info.LastName = &name
	}
}

func applyDOB(line string, info *dto.PatientInfo, overwrite bool) {
	m := dobRegex.FindStringSubmatch(line)
	if m == nil {
		return
	}
	if normalized, ok := NormalizeDate(m[1]); ok && (overwrite || info.DOB == nil) {
		info.DOB = &normalized
	}
}

// NormalizeDate converts a loosely formatted M/D/Y token into canonical
// YYYY-MM-DD form. Both slash and dash separators are accepted. Two-digit
// years pivot at 70: 70-99 become 19xx, 00-69 become 20xx. Month and day
// are reformatted but not range-checked, so "13/45/2020" passes through
// as "2020-13-45". Malformed tokens return ok=false, never an error.
func NormalizeDate(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	parts := strings.Split(strings.ReplaceAll(token, "-", "/"), "/")
	if len(parts) != 3 {
		return "", false
	}

	month, day, year := parts[0], parts[1], parts[2]

	if len(year) == 2 {
		n, err := strconv.Atoi(year)
		if err != nil {
			return "", false
		}
		if n >= 70 {
			year = "19" + year
		} else {
			year = "20" + year
		}
	}

	return fmt.Sprintf("%s-%s-%s", year, zeroPad(month), zeroPad(day)), true
}

func zeroPad(s string) string {
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}
