package util

import "strings"

var filenameReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-",
	"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
)

// SanitizeFilename makes a group name safe to use as a file name on all
// platforms. Empty input maps to "SinNombre".
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(filenameReplacer.Replace(name))
	if name == "" {
		return "SinNombre"
	}
	return name
}
