package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"xlchat/speech"
)

// StartDictation launches the transcriber and begins waiting for events.
// The caller clears the compose buffer first; every transcript event then
// overwrites it with the cumulative text.
func (m *Model) StartDictation() tea.Cmd {
	if m.Recognizer == nil || m.Listening {
		return nil
	}

	session, err := m.Recognizer.Start()
	if err != nil {
		return func() tea.Msg {
			return SpeechErrorMsg{Err: err}
		}
	}

	m.dictation = session
	m.Listening = true
	return WaitForTranscript(session.Events)
}

// StopDictation ends the active dictation run. The session's channel closes
// once the process exits, which surfaces as SpeechEndedMsg.
func (m *Model) StopDictation() {
	if m.dictation != nil {
		m.dictation.Stop()
	}
}

// WaitForTranscript returns a command delivering the next dictation event
func WaitForTranscript(events <-chan speech.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return SpeechEndedMsg{}
		}
		if ev.Err != nil {
			return SpeechErrorMsg{Err: ev.Err}
		}
		return TranscriptMsg{Transcript: ev.Transcript, Events: events}
	}
}

// FinishDictation resets dictation state after the session ends
func (m *Model) FinishDictation() {
	m.Listening = false
	m.dictation = nil
}
