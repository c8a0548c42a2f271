package cli

import (
	"context"
	"fmt"

	"github.com/vetsoap/vetsoap-go/internal/client/api"
	"github.com/vetsoap/vetsoap-go/internal/client/models"
)

func (a *App) List(ctx context.Context) error {
	page, err := a.recordings.List(ctx, api.ListParams{SortBy: "createdAt", SortOrder: "desc"})
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	if len(page.Data) == 0 {
		printlnFn("No recordings yet.")
		return nil
	}
	for _, rec := range page.Data {
		fmt.Printf("%s  %-12s  %s (%s)\n", rec.ID, rec.Status, rec.PatientName, rec.Species)
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: show <recording-id>")
		return nil
	}

	rec, err := a.recordings.Get(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	fmt.Printf("Patient:  %s (%s %s)\n", rec.PatientName, rec.Breed, rec.Species)
	fmt.Printf("Client:   %s\n", rec.ClientName)
	fmt.Printf("Status:   %s\n", rec.Status)
	if rec.ErrorMessage != "" {
		fmt.Printf("Error:    %s\n", rec.ErrorMessage)
	}
	if rec.AudioDurationSeconds > 0 {
		fmt.Printf("Duration: %.0fs\n", rec.AudioDurationSeconds)
	}
	return nil
}

// Watch follows a recording through the processing pipeline until it
// reaches a terminal state.
func (a *App) Watch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: watch <recording-id>")
		return nil
	}
	return a.watchRecording(ctx, args[0])
}

func (a *App) watchRecording(ctx context.Context, id string) error {
	ch, err := a.poller.Watch(ctx, id)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	printlnFn("Waiting for processing (Ctrl-C to stop watching)...")
	var last models.Status
	for u := range ch {
		if u.Err != nil {
			printlnFn("Poll error:", u.Err)
			continue
		}
		if u.Recording.Status != last {
			last = u.Recording.Status
			printlnFn("Status:", string(last))
		}
		if u.Note != nil {
			a.printNote(ctx, u.Note)
		}
		if u.Recording.Status == models.StatusFailed {
			printlnFn("Processing failed:", u.Recording.ErrorMessage)
			printlnFn("Use 'retry", id+"' to try again.")
		}
	}
	return nil
}

func (a *App) Retry(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: retry <recording-id>")
		return nil
	}

	rec, err := a.recordings.Retry(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Retrying. Recording is now", string(rec.Status)+".")
	return a.watchRecording(ctx, rec.ID)
}

// Note prints a completed recording's SOAP note and copies it to the
// clipboard with the auto-clear timer running.
func (a *App) Note(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: note <recording-id>")
		return nil
	}

	note, err := a.recordings.SoapNote(ctx, args[0])
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	a.printNote(ctx, note)
	return nil
}

func (a *App) printNote(ctx context.Context, note *models.SoapNote) {
	text := note.PlainText()
	printlnFn("\n" + text)

	if err := a.clip.Copy(ctx, text); err != nil {
		a.log.Warn(ctx, "failed to copy note to clipboard", "error", err)
		return
	}
	printlnFn("\nNote copied to clipboard. It will be cleared in",
		a.config.ClipboardClearDelay.String()+".")
}

func (a *App) Templates(ctx context.Context) error {
	page, err := a.templates.List(ctx, true)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	for _, tpl := range page.Data {
		marker := " "
		if tpl.IsDefault {
			marker = "*"
		}
		fmt.Printf("%s %s  %s %v\n", marker, tpl.ID, tpl.Name, tpl.Species)
	}
	return nil
}
