// Package textutil holds the small string primitives shared by the markup
// translator and the subtitle parser.
package textutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Contains reports whether substr is within s. Case-sensitive.
func Contains(s, substr string) bool { return strings.Contains(s, substr) }

// StartsWith reports whether s begins with prefix. Case-sensitive.
func StartsWith(s, prefix string) bool { return strings.HasPrefix(s, prefix) }

// Extract returns the text strictly between the first start and the first end
// that follows it. Both a missing start and a missing end yield "".
func Extract(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return ""
	}
	return rest[:j]
}

// Trimmed removes every occurrence of the selected characters, not only the
// leading and trailing ones.
func Trimmed(s string, spaces, singleQuotes, doubleQuotes bool) string {
	if !spaces && !singleQuotes && !doubleQuotes {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case spaces && r == ' ',
			singleQuotes && r == '\'',
			doubleQuotes && r == '"':
			return -1
		}
		return r
	}, s)
}

// Replace substitutes the first occurrence of from. The bool reports whether
// anything was replaced.
func Replace(s, from, to string) (string, bool) {
	if from == "" {
		return s, false
	}
	i := strings.Index(s, from)
	if i < 0 {
		return s, false
	}
	return s[:i] + to + s[i+len(from):], true
}

// StrTimeToSecs converts "H:MM:SS,mmm" (or with a '.' before the
// milliseconds) into seconds. Any input that does not split into exactly three
// colon fields gives -1. Fields are read like C atof: the longest numeric
// prefix counts and an empty field is zero.
func StrTimeToSecs(s string) float64 {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return -1
	}
	h := LeadingFloat(fields[0])
	m := LeadingFloat(fields[1])
	sec, _ := Replace(fields[2], ",", ".")
	return h*3600 + m*60 + LeadingFloat(sec)
}

// LeadingFloat parses the longest decimal prefix of s after leading
// whitespace, returning 0 when there is none.
func LeadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\r\n\v\f")
	n := 0
	if n < len(s) && (s[n] == '+' || s[n] == '-') {
		n++
	}
	digits := 0
	for n < len(s) && isDigit(s[n]) {
		n++
		digits++
	}
	if n < len(s) && s[n] == '.' {
		n++
		for n < len(s) && isDigit(s[n]) {
			n++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if n < len(s) && (s[n] == 'e' || s[n] == 'E') {
		k := n + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			n = k
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:n], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ReadTextFile returns the whole content of path as a string.
func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file %s: %w", path, err)
	}
	return string(data), nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
