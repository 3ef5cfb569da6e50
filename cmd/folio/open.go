package main

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

var errUnsupportedPlatform = errors.New("no URL opener for this platform")

// openURL opens a URL in the default browser.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("%w: %s", errUnsupportedPlatform, runtime.GOOS)
	}
	return cmd.Start()
}
