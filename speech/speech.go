// Package speech adapts an external speech-to-text command into dictation
// events. The command is expected to print transcript fragments to stdout,
// one per line, and exit when the speaker goes quiet. No such command
// configured simply means dictation is unavailable; that is not an error.
package speech

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
	"sync"
)

// Event is one dictation update. Transcript is cumulative: it always holds
// everything heard since dictation started, so consumers overwrite rather
// than append.
type Event struct {
	Transcript string
	Err        error
}

type Recognizer struct {
	command string
	args    []string
}

func New(command string, args []string) *Recognizer {
	return &Recognizer{command: command, args: args}
}

// Available reports whether the transcriber command can be run
func (r *Recognizer) Available() bool {
	if r.command == "" {
		return false
	}
	_, err := exec.LookPath(r.command)
	return err == nil
}

// Session is one dictation run
type Session struct {
	Events <-chan Event
	stop   func()
	once   sync.Once
}

// Stop ends the session. The event channel closes once the process exits.
func (s *Session) Stop() {
	s.once.Do(s.stop)
}

// Start launches the transcriber. Events are emitted per stdout line with
// the cumulative transcript; the channel closes when the process exits.
func (r *Recognizer) Start() (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, r.command, r.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, err
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)

		var parts []string
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			parts = append(parts, line)
			events <- Event{Transcript: strings.Join(parts, " ")}
		}

		err := cmd.Wait()
		// A killed process is a normal stop, not a failure
		if err != nil && ctx.Err() == nil {
			events <- Event{Err: err}
		}
		cancel()
	}()

	return &Session{Events: events, stop: cancel}, nil
}
