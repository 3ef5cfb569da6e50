package frame

import (
	"regexp"
	"unicode/utf8"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the visible length of a string (excluding ANSI codes).
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// TruncateText truncates text to maxWidth with ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text, false
	}

	ellipsis := []rune(cfg.Ellipsis)
	if maxWidth <= len(ellipsis) {
		return string(ellipsis[:maxWidth]), true
	}
	return string(runes[:maxWidth-len(ellipsis)]) + cfg.Ellipsis, true
}

// TruncateWithPrefix truncates text while keeping a prefix such as a media
// badge intact. Falls back to plain truncation when the prefix alone does not
// fit. Example: TruncateWithPrefix("Sluggish Video", 10, "> ", cfg) -> "> Slug..."
func TruncateWithPrefix(text string, maxWidth int, prefix string, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	combined := prefix + text
	if utf8.RuneCountInString(combined) <= maxWidth {
		return combined, false
	}

	overhead := utf8.RuneCountInString(prefix) + utf8.RuneCountInString(cfg.Ellipsis)
	if overhead >= maxWidth {
		return TruncateText(combined, maxWidth, cfg)
	}

	runes := []rune(text)
	return prefix + string(runes[:maxWidth-overhead]) + cfg.Ellipsis, true
}

// PadRight pads text with spaces to exactly width runes, truncating when
// it is longer.
func PadRight(text string, width int, cfg TextConfig) string {
	text, _ = TruncateText(text, width, cfg)
	for n := utf8.RuneCountInString(text); n < width; n++ {
		text += " "
	}
	return text
}

// TruncateANSIAware truncates styled text, preserving ANSI codes. Used for
// search results whose matched runes are highlighted. A reset code is
// appended after truncation so styles do not bleed.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleLength(styledText) <= maxWidth {
		return styledText
	}

	target := max(maxWidth-utf8.RuneCountInString(cfg.Ellipsis), 0)

	var result []byte
	visible := 0
	input := []byte(styledText)

	i := 0
	for i < len(input) && visible < target {
		if input[i] == '\x1b' && i+1 < len(input) && input[i+1] == '[' {
			j := i + 2
			for j < len(input) && input[j] != 'm' {
				j++
			}
			if j < len(input) {
				result = append(result, input[i:j+1]...)
				i = j + 1
				continue
			}
		}

		r, size := utf8.DecodeRune(input[i:])
		if r != utf8.RuneError {
			result = append(result, input[i:i+size]...)
			visible++
		}
		i += size
	}

	result = append(result, cfg.Ellipsis...)
	result = append(result, "\x1b[0m"...)
	return string(result)
}
