package blob

import (
	"path/filepath"
	"strings"
)

const allowedExtension = ".docx"

// ValidateUpload checks a candidate file name against the upload policy.
// It returns human-readable rejection reasons; an empty slice means the file
// is accepted. The check is a pure pre-condition gate: it runs before any
// storage call and has no side effects.
func ValidateUpload(fileName string) []string {
	var reasons []string
	if !strings.EqualFold(filepath.Ext(fileName), allowedExtension) {
		reasons = append(reasons, "Only .docx files are allowed.")
	}
	return reasons
}
