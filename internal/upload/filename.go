package upload

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true,
}

var pathSeparators = strings.NewReplacer("/", " ", "\\", " ")

// SecureFilename reduces a client supplied filename to a flat ASCII name
// that is safe to join onto a storage directory. It may return "".
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = pathSeparators.Replace(b.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		stem, _, _ := strings.Cut(name, ".")
		if windowsDeviceNames[strings.ToUpper(stem)] {
			name = "_" + name
		}
	}
	return name
}
