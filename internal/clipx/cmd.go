package clipx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// CmdClipboard shells out to the platform clipboard utility (pbcopy/pbpaste
// on macOS, xclip elsewhere).
type CmdClipboard struct {
	copyCmd  []string
	pasteCmd []string
}

func NewCmdClipboard() *CmdClipboard {
	if runtime.GOOS == "darwin" {
		return &CmdClipboard{
			copyCmd:  []string{"pbcopy"},
			pasteCmd: []string{"pbpaste"},
		}
	}
	return &CmdClipboard{
		copyCmd:  []string{"xclip", "-selection", "clipboard"},
		pasteCmd: []string{"xclip", "-selection", "clipboard", "-o"},
	}
}

func (c *CmdClipboard) Set(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, c.copyCmd[0], c.copyCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("clipboard copy: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c *CmdClipboard) Get(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.pasteCmd[0], c.pasteCmd[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("clipboard paste: %w", err)
	}
	return out.String(), nil
}
