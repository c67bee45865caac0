package speech

import (
	"testing"
	"time"
)

func collectEvents(t *testing.T, session *Session) []Event {
	t.Helper()

	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-session.Events:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("Timed out waiting for events")
		}
	}
}

func TestAvailable(t *testing.T) {
	if New("", nil).Available() {
		t.Error("Empty command should be unavailable")
	}
	if New("definitely-not-a-real-command-xyz", nil).Available() {
		t.Error("Missing command should be unavailable")
	}
	if !New("sh", nil).Available() {
		t.Error("sh should be available")
	}
}

func TestTranscriptIsCumulative(t *testing.T) {
	r := New("sh", []string{"-c", `printf 'hello\nworld\n'`})

	session, err := r.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collectEvents(t, session)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %#v", events)
	}
	if events[0].Transcript != "hello" {
		t.Errorf("First event: %q", events[0].Transcript)
	}
	if events[1].Transcript != "hello world" {
		t.Errorf("Cumulative transcript expected, got %q", events[1].Transcript)
	}
}

func TestBlankLinesAreSkipped(t *testing.T) {
	r := New("sh", []string{"-c", `printf 'one\n\n  \ntwo\n'`})

	session, err := r.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collectEvents(t, session)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %#v", events)
	}
	if events[1].Transcript != "one two" {
		t.Errorf("Unexpected transcript: %q", events[1].Transcript)
	}
}

func TestStopClosesChannel(t *testing.T) {
	r := New("sh", []string{"-c", "sleep 30"})

	session, err := r.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	session.Stop()
	session.Stop() // idempotent

	events := collectEvents(t, session)
	for _, ev := range events {
		if ev.Err != nil {
			t.Errorf("A stopped session should not report an error: %v", ev.Err)
		}
	}
}

func TestCommandFailureIsReported(t *testing.T) {
	r := New("sh", []string{"-c", "exit 3"})

	session, err := r.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collectEvents(t, session)
	if len(events) != 1 || events[0].Err == nil {
		t.Fatalf("Expected a single error event, got %#v", events)
	}
}
