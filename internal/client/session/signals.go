package session

import (
	"os"
	"os/signal"
	"syscall"
)

// StartSignalPublisher translates terminal job-control signals into
// lifecycle transitions on the bus. SIGTSTP publishes StateBackground and
// then re-raises itself with the default disposition so the shell actually
// suspends the process; SIGCONT publishes StateActive on resume. The
// returned stop function detaches the handler.
func StartSignalPublisher(bus *StateBus) (stop func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGTSTP, syscall.SIGCONT)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-ch:
				switch sig {
				case syscall.SIGTSTP:
					bus.Publish(StateBackground)
					signal.Reset(syscall.SIGTSTP)
					_ = syscall.Kill(syscall.Getpid(), syscall.SIGTSTP)
					// Execution continues here after SIGCONT.
					signal.Notify(ch, syscall.SIGTSTP)
				case syscall.SIGCONT:
					bus.Publish(StateActive)
				}
			case <-done:
				signal.Stop(ch)
				return
			}
		}
	}()

	return func() { close(done) }
}
