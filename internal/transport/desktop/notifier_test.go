package desktop

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
	"github.com/reshetovitsme/channel-alert-monitor/pkg/executil"
)

const hostileTitle = `It's "great"!`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// parseAppleScriptString reads one AppleScript string literal from the start of
// s and returns its value and the remaining input.
func parseAppleScriptString(t *testing.T, s string) (string, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(s, `"`), "literal must start with a quote: %q", s)
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			require.Less(t, i+1, len(s))
			i++
			b.WriteByte(s[i])
		case '"':
			return b.String(), s[i+1:]
		default:
			b.WriteByte(s[i])
		}
	}
	t.Fatalf("unterminated literal: %q", s)
	return "", ""
}

// parsePowerShellString reads one single-quoted PowerShell literal.
func parsePowerShellString(t *testing.T, s string) (string, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(s, "'"), "literal must start with a quote: %q", s)
	var b strings.Builder
	runes := []rune(s)
	isQuote := func(r rune) bool { return r == '\'' || r == '‘' || r == '’' || r == '‚' || r == '‛' }
	for i := 1; i < len(runes); i++ {
		if isQuote(runes[i]) {
			if i+1 < len(runes) && isQuote(runes[i+1]) {
				b.WriteRune(runes[i])
				i++
				continue
			}
			return b.String(), string(runes[i+1:])
		}
		b.WriteRune(runes[i])
	}
	t.Fatalf("unterminated literal: %q", s)
	return "", ""
}

func decodePowerShell(t *testing.T, encoded string) string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Equal(t, 0, len(raw)%2)
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return string(utf16.Decode(units))
}

func TestAppleScriptString_CannotBreakOut(t *testing.T) {
	inputs := []string{
		hostileTitle,
		`"; do shell script "rm -rf ~"; "`,
		`back\slash\"`,
		"line\nbreak",
		"trailing\\",
	}
	for _, in := range inputs {
		value, rest := parseAppleScriptString(t, appleScriptString(in))
		assert.Equal(t, in, value)
		assert.Empty(t, rest)
	}
}

func TestPowerShellString_CannotBreakOut(t *testing.T) {
	inputs := []string{
		hostileTitle,
		`'; Remove-Item -Recurse C:\; '`,
		"$(Get-Process) $env:USERNAME",
		"smart ’quote’ ‘here‘",
	}
	for _, in := range inputs {
		value, rest := parsePowerShellString(t, powerShellString(in))
		assert.Equal(t, in, value)
		assert.Empty(t, rest)
	}
}

func TestMacOS_Command(t *testing.T) {
	exec := &executil.RecordingExecutor{}
	n := New("darwin", exec, time.Second, discardLogger())

	require.NoError(t, n.Send(context.Background(), hostileTitle, "trader: buy"))

	cmds := exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "osascript", cmds[0].Cmd)
	require.Len(t, cmds[0].Args, 2)
	assert.Equal(t, "-e", cmds[0].Args[0])

	script := cmds[0].Args[1]
	require.True(t, strings.HasPrefix(script, "display notification "))
	body, rest := parseAppleScriptString(t, strings.TrimPrefix(script, "display notification "))
	assert.Equal(t, "trader: buy", body)
	require.True(t, strings.HasPrefix(rest, " with title "))
	title, rest := parseAppleScriptString(t, strings.TrimPrefix(rest, " with title "))
	assert.Equal(t, hostileTitle, title)
	assert.Empty(t, rest)
}

func TestLinux_Command(t *testing.T) {
	exec := &executil.RecordingExecutor{}
	n := New("linux", exec, time.Second, discardLogger())

	require.NoError(t, n.Send(context.Background(), hostileTitle, "-u critical"))

	cmds := exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "notify-send", cmds[0].Cmd)
	assert.Equal(t, []string{"--app-name=channel-alert-monitor", "--", hostileTitle, "-u critical"}, cmds[0].Args)
}

func TestWindows_Command(t *testing.T) {
	exec := &executil.RecordingExecutor{}
	n := New("windows", exec, time.Second, discardLogger())

	require.NoError(t, n.Send(context.Background(), hostileTitle, "body"))

	cmds := exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "powershell.exe", cmds[0].Cmd)
	args := cmds[0].Args
	require.Len(t, args, 4)
	assert.Equal(t, "-EncodedCommand", args[2])

	script := decodePowerShell(t, args[3])
	assert.Equal(t, powerShellScript(hostileTitle, "body"), script)

	idx := strings.Index(script, "$n.BalloonTipTitle = ")
	require.GreaterOrEqual(t, idx, 0)
	title, rest := parsePowerShellString(t, script[idx+len("$n.BalloonTipTitle = "):])
	assert.Equal(t, hostileTitle, title)
	assert.True(t, strings.HasPrefix(rest, "; $n.BalloonTipText = "))
}

func TestUnsupported_SpawnsNothing(t *testing.T) {
	exec := &executil.RecordingExecutor{}
	n := New("plan9", exec, time.Second, discardLogger())

	err := n.Send(context.Background(), "t", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnsupportedPlatform))
	assert.Contains(t, err.Error(), "plan9")
	assert.Empty(t, exec.Recorded())
}

func TestSend_CommandFailure(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"notify-send": []byte("cannot open display")},
		Errors:  map[string]error{"notify-send": errors.New("exit status 1")},
	}
	n := New("linux", exec, time.Second, discardLogger())

	err := n.Send(context.Background(), "t", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestSend_TimeoutIsFailure(t *testing.T) {
	exec := &executil.RecordingExecutor{Block: true}
	n := New("darwin", exec, 20*time.Millisecond, discardLogger())

	start := time.Now()
	err := n.Send(context.Background(), "t", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), time.Second)
}
