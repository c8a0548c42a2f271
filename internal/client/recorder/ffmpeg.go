package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// FFmpegCapture records microphone audio to an AAC file using ffmpeg.
// Pause and Resume suspend the process with SIGSTOP/SIGCONT; End sends an
// interrupt so ffmpeg finalizes the container before exiting.
type FFmpegCapture struct {
	command     string
	inputFormat string
	inputDevice string

	mu      sync.Mutex
	process *os.Process
	stderr  *bytes.Buffer
	waitErr chan error
}

func NewFFmpegCapture(command, inputFormat, inputDevice string) *FFmpegCapture {
	if command == "" {
		command = "ffmpeg"
	}
	if inputFormat == "" {
		inputFormat = "pulse"
	}
	if inputDevice == "" {
		inputDevice = "default"
	}
	return &FFmpegCapture{command: command, inputFormat: inputFormat, inputDevice: inputDevice}
}

func (c *FFmpegCapture) Begin(ctx context.Context, destPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.process != nil {
		return errors.New("capture already running")
	}

	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", c.inputFormat,
		"-i", c.inputDevice,
		"-ac", "1",
		"-c:a", "aac",
		"-b:a", "64k",
		"-y", destPath,
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	// Catch immediate failures such as a missing input device.
	select {
	case err := <-waitErr:
		if err != nil {
			return fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, trimmed(stderr.String()))
		}
		return errors.New("ffmpeg exited before capture started")
	case <-time.After(250 * time.Millisecond):
	}

	c.process = cmd.Process
	c.stderr = &stderr
	c.waitErr = waitErr
	return nil
}

func (c *FFmpegCapture) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.process == nil {
		return errors.New("capture not running")
	}
	return c.process.Signal(syscall.SIGSTOP)
}

func (c *FFmpegCapture) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.process == nil {
		return errors.New("capture not running")
	}
	return c.process.Signal(syscall.SIGCONT)
}

func (c *FFmpegCapture) End() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.process == nil {
		return errors.New("capture not running")
	}

	// Make sure a paused process can handle the interrupt.
	_ = c.process.Signal(syscall.SIGCONT)
	_ = c.process.Signal(os.Interrupt)

	var stopErr error
	select {
	case err, ok := <-c.waitErr:
		if ok {
			stopErr = normalizeExit(err)
		}
	case <-time.After(3 * time.Second):
		_ = c.process.Kill()
		if err, ok := <-c.waitErr; ok {
			stopErr = normalizeExit(err)
		}
	}

	if stopErr != nil && c.stderr != nil && c.stderr.Len() > 0 {
		stopErr = fmt.Errorf("%w: %s", stopErr, trimmed(c.stderr.String()))
	}

	c.process = nil
	c.stderr = nil
	c.waitErr = nil
	return stopErr
}

// normalizeExit treats a non-zero exit after an interrupt as a clean stop.
func normalizeExit(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimmed(s string) string {
	return string(bytes.TrimSpace([]byte(s)))
}
