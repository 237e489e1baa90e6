package desktop

// macOS uses osascript. The script is one argv element, so only AppleScript
// quoting applies.
type macOS struct{}

func (macOS) command(title, body string) (string, []string) {
	return "osascript", []string{"-e", appleScript(title, body)}
}

func appleScript(title, body string) string {
	return "display notification " + appleScriptString(body) + " with title " + appleScriptString(title)
}
