package desktop

// linux uses notify-send with the text as plain arguments. "--" stops text
// that begins with a dash from being read as an option.
type linux struct{}

func (linux) command(title, body string) (string, []string) {
	return "notify-send", []string{"--app-name=channel-alert-monitor", "--", stripNUL(title), stripNUL(body)}
}
