package annotate

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// maxSheetNameLen is the XLSX sheet name limit.
const maxSheetNameLen = 31

// DeriveName proposes a sheet name for an uploaded file: the filename stem,
// or a positional "Sheet<n>" default when no usable filename was supplied.
// index is zero-based.
func DeriveName(filename string, index int) string {
	base := filepath.Base(filename)
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return fmt.Sprintf("Sheet%d", index+1)
	}
	return stem
}

// SanitizeName replaces characters the XLSX format forbids in sheet names
// and truncates the result to the 31-character limit.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" {
		s = "Sheet"
	}
	return truncateRunes(s, maxSheetNameLen)
}

// dedupeName resolves collisions deterministically: the base name is
// truncated so that a _<n> suffix, starting at n=2, still fits within the
// sheet name limit.
func dedupeName(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	for n := 2; ; n++ {
		suffix := "_" + strconv.Itoa(n)
		candidate := truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
		if !used[candidate] {
			return candidate
		}
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
