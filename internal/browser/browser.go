// Package browser bridges the terminal client to the system browser: it opens
// URLs and receives the OAuth redirect on a loopback listener.
package browser

import (
	"os/exec"
	"runtime"
)

// Open hands url to the platform's default browser.
func Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
