package desktop

import "strings"

// appleScriptString renders s as an AppleScript string literal. Inside a
// double-quoted literal only the backslash and the double quote are special.
func appleScriptString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(stripNUL(s)) + `"`
}

// powerShellString renders s as a single-quoted PowerShell literal, which
// performs no variable or subexpression expansion. PowerShell also treats the
// typographic single quotes as quote characters, so they are doubled too.
func powerShellString(s string) string {
	r := strings.NewReplacer(
		"'", "''",
		"‘", "‘‘",
		"’", "’’",
		"‚", "‚‚",
		"‛", "‛‛",
	)
	return "'" + r.Replace(stripNUL(s)) + "'"
}

// stripNUL removes bytes that cannot appear in a process argument.
func stripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
