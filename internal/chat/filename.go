package chat

import (
	"regexp"
	"strings"
	"time"
)

// FileTimestampLayout is appended to derived filenames.
const FileTimestampLayout = "2006-01-02_150405"

const maxTitleLen = 100

var (
	extPattern       = regexp.MustCompile(`\.[^/.]+$`)
	customPattern    = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	forbiddenPattern = regexp.MustCompile(`[\\/:*?"<>|.]`)
	spacePattern     = regexp.MustCompile(`\s+`)
	titleRestPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)
	underscoreRun    = regexp.MustCompile(`_{2,}`)
)

// Filename derives the output filename. The first non-empty candidate wins:
// the custom name, then the conversation title plus timestamp, then the site
// prefix plus timestamp.
func Filename(custom, title, prefix string, now time.Time) string {
	stamp := now.Format(FileTimestampLayout)

	if name := SanitizeCustom(custom); name != "" {
		return name + ".md"
	}
	if t := SanitizeTitle(title); t != "" {
		return t + "_" + stamp + ".md"
	}
	return prefix + "_" + stamp + ".md"
}

// SanitizeCustom strips an extension and replaces anything outside
// [A-Za-z0-9_-] with an underscore.
func SanitizeCustom(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = extPattern.ReplaceAllString(name, "")
	return customPattern.ReplaceAllString(name, "_")
}

// SanitizeTitle turns a conversation title into a filename stem made only of
// [A-Za-z0-9_], at most 100 characters.
func SanitizeTitle(title string) string {
	t := forbiddenPattern.ReplaceAllString(title, "")
	t = spacePattern.ReplaceAllString(t, "_")
	t = titleRestPattern.ReplaceAllString(t, "")
	t = underscoreRun.ReplaceAllString(t, "_")
	t = strings.Trim(t, "_")
	if len(t) > maxTitleLen {
		t = strings.TrimRight(t[:maxTitleLen], "_")
	}
	return t
}
