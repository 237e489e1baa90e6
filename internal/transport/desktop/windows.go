package desktop

import (
	"encoding/base64"
	"encoding/binary"
	"unicode/utf16"
)

// windows shows a tray balloon through PowerShell. The script travels as
// -EncodedCommand so the Windows command line never has to quote it.
type windows struct{}

func (windows) command(title, body string) (string, []string) {
	return "powershell.exe", []string{"-NoProfile", "-NonInteractive", "-EncodedCommand", encodePowerShell(powerShellScript(title, body))}
}

func powerShellScript(title, body string) string {
	return "Add-Type -AssemblyName System.Windows.Forms; " +
		"Add-Type -AssemblyName System.Drawing; " +
		"$n = New-Object System.Windows.Forms.NotifyIcon; " +
		"$n.Icon = [System.Drawing.SystemIcons]::Information; " +
		"$n.BalloonTipTitle = " + powerShellString(title) + "; " +
		"$n.BalloonTipText = " + powerShellString(body) + "; " +
		"$n.Visible = $true; " +
		"$n.ShowBalloonTip(5000); " +
		"Start-Sleep -Seconds 3; " +
		"$n.Dispose()"
}

// encodePowerShell produces the base64 UTF-16LE form -EncodedCommand expects.
func encodePowerShell(script string) string {
	units := utf16.Encode([]rune(script))
	buf := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return base64.StdEncoding.EncodeToString(buf)
}
