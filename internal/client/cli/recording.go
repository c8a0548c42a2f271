package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vetsoap/vetsoap-go/internal/client/models"
	"github.com/vetsoap/vetsoap-go/internal/client/recorder"
)

// Record runs an interactive capture session and offers to upload the
// result.
func (a *App) Record(ctx context.Context) error {
	if err := a.recorder.Start(ctx); err != nil {
		printlnFn("Cannot start recording:", err)
		return err
	}
	printlnFn("Recording. Commands: pause, resume, stop")

	scanner := bufio.NewScanner(os.Stdin)
	for a.recorder.State() != recorder.StateStopped {
		fmt.Printf("rec [%s %s]> ", a.recorder.State(), a.recorder.Duration().Round(time.Second))
		if !scanner.Scan() {
			break
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "pause":
			if err := a.recorder.Pause(); err != nil {
				printlnFn(err)
			}
		case "resume":
			if err := a.recorder.Resume(); err != nil {
				printlnFn(err)
			}
		case "stop":
			res, err := a.recorder.Stop()
			if err != nil {
				printlnFn(err)
				continue
			}
			printlnFn("Saved", res.Path, "("+res.Duration.Round(time.Second).String()+")")
		case "":
		default:
			printlnFn("Commands: pause, resume, stop")
		}
	}

	if a.recorder.State() != recorder.StateStopped {
		return nil
	}

	path := a.recorder.FilePath()
	answer, err := promptText(a.reader, "Upload this recording now? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "y") {
		if err := a.uploadFile(ctx, path); err != nil {
			return err
		}
	}
	return a.recorder.Reset()
}

// Upload sends an existing audio file: upload <path>.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: upload <path-to-audio-file>")
		return nil
	}
	return a.uploadFile(ctx, args[0])
}

func (a *App) uploadFile(ctx context.Context, path string) error {
	data, err := a.promptRecordingDetails()
	if err != nil {
		return err
	}

	printlnFn("Uploading...")
	rec, err := a.recordings.CreateWithFile(ctx, data, path, "")
	if err != nil {
		printlnFn("Upload failed:", err)
		return err
	}

	printlnFn("Uploaded. Recording", rec.ID, "is now", string(rec.Status)+".")
	return a.watchRecording(ctx, rec.ID)
}

func (a *App) promptRecordingDetails() (models.CreateRecording, error) {
	var data models.CreateRecording
	var err error

	if data.PatientName, err = promptText(a.reader, "Patient name", os.Stdout); err != nil {
		return data, err
	}
	if data.ClientName, err = promptText(a.reader, "Client (owner) name", os.Stdout); err != nil {
		return data, err
	}
	if data.Species, err = promptText(a.reader, "Species", os.Stdout); err != nil {
		return data, err
	}
	if data.Breed, err = promptText(a.reader, "Breed (optional)", os.Stdout); err != nil {
		return data, err
	}
	return data, nil
}
