package model

import "xlchat/speech"

// StreamEvent is one item pumped from a provider stream goroutine into the
// update loop.
type StreamEvent struct {
	Chunk string
	Err   error
}

// StreamChunkMsg delivers one chunk of a streamed reply. Events carries the
// live channel so the update loop can re-arm the wait command.
type StreamChunkMsg struct {
	Handle StreamHandle
	Chunk  string
	Events <-chan StreamEvent
}

// StreamDoneMsg signals that a stream finished cleanly
type StreamDoneMsg struct {
	Handle StreamHandle
}

// StreamErrorMsg signals that a stream failed. Auth failures are detected
// with errors.Is(Err, provider.ErrInvalidCredential).
type StreamErrorMsg struct {
	Handle StreamHandle
	Err    error
}

// TitleGeneratedMsg carries the summarizer result for a conversation
type TitleGeneratedMsg struct {
	ConversationID string
	Title          string
	Err            error
}

// CredentialRequiredMsg asks the UI to open the API key prompt
type CredentialRequiredMsg struct {
	Reason string
}

// FileErrorMsg reports a failed attachment conversion
type FileErrorMsg struct {
	Err error
}

// StorageWarningMsg surfaces a non-fatal persistence problem
type StorageWarningMsg struct {
	Err error
}

// TranscriptMsg delivers the cumulative dictation transcript. Each event
// replaces the compose buffer wholesale.
type TranscriptMsg struct {
	Transcript string
	Events     <-chan speech.Event
}

// SpeechEndedMsg signals that dictation stopped (naturally or via stop)
type SpeechEndedMsg struct{}

// SpeechErrorMsg signals that the transcriber failed
type SpeechErrorMsg struct {
	Err error
}

// ExportDoneMsg reports the result of a CSV export
type ExportDoneMsg struct {
	Path string
	Err  error
}

// CopyDoneMsg reports the result of a clipboard copy
type CopyDoneMsg struct {
	Err error
}
