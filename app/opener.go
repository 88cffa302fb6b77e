package app

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Opener hands a URL to something outside the terminal.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open implements Opener.
func (f OpenerFunc) Open(url string) error { return f(url) }

// BrowserOpener opens URLs in the platform's default browser.
type BrowserOpener struct{}

// Open starts the platform opener and returns without waiting for it.
func (BrowserOpener) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go cmd.Wait() //nolint:errcheck // reap the opener process
	return nil
}
