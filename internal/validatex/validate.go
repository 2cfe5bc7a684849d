// Package validatex holds the input format checks shared by services:
// email addresses, calendar dates, and 24-hour clock times.
package validatex

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	timePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// MinPasswordLength is the shortest password accepted on register and change.
const MinPasswordLength = 6

// NormalizeEmail lowercases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email reports whether s looks like a deliverable address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Date accepts YYYY-M-D and YYYY-MM-DD strings naming a real calendar day.
func Date(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	parts := strings.Split(s, "-")
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// Clock parses a 24-hour HH:MM string within 00:00–23:59.
func Clock(s string) (hour, minute int, ok bool) {
	if !timePattern.MatchString(s) {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(s[:2])
	minute, _ = strconv.Atoi(s[3:])
	return hour, minute, true
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// ImageFilename reports whether the filename has an accepted picture extension.
func ImageFilename(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
