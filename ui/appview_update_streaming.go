package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"xlchat/config"
	appmodel "xlchat/model"
	"xlchat/provider"
)

// handleStreamingMessage handles all asynchronous result messages: stream
// chunks, titles, dictation events, and export/copy results.
func (a AppView) handleStreamingMessage(msg tea.Msg) (AppView, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case streamChunkMsg:
		if err := a.dataModel.ApplyChunk(msg); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("chunk apply failed: %v", err)
		}

		// Chunks route by handle; only redraw when the target is on screen
		if msg.Handle.ConversationID == a.dataModel.Conversations.ActiveID() {
			a.updateViewportContent(true)
		}

		return a, appmodel.WaitForStream(msg.Handle, msg.Events)

	case streamDoneMsg:
		a.dataModel.FinishStream(msg.Handle)
		a.updateViewportContent(true)
		return a, nil

	case streamErrorMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("stream error: %v", msg.Err)
		}

		a.dataModel.FinishStream(msg.Handle)

		if errors.Is(msg.Err, provider.ErrInvalidCredential) {
			// Drop the empty reply, clear the bad key, and re-prompt. The
			// user message stays so it can be resent.
			if err := a.dataModel.RollbackAfterAuthFailure(msg.Handle, msg.Err.Error()); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("auth rollback failed: %v", err)
			}
			a.updateViewportContent(true)
			a.openCredentialModal(msg.Err.Error())
			return a, nil
		}

		if err := a.dataModel.AnnotateStreamError(msg.Handle, msg.Err); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("error annotation failed: %v", err)
		}
		a.updateViewportContent(true)
		return a, a.showToast(toastError, "Response failed: "+msg.Err.Error())

	case titleGeneratedMsg:
		if err := a.dataModel.ApplyTitle(msg); err != nil {
			return a, a.showToast(toastError, "Could not save title: "+err.Error())
		}
		return a, nil

	case credentialRequiredMsg:
		a.openCredentialModal(msg.Reason)
		return a, nil

	case fileErrorMsg:
		return a, a.showToast(toastError, "Attachment failed: "+msg.Err.Error())

	case storageWarningMsg:
		return a, a.showToast(toastError, "Save failed: "+msg.Err.Error())

	case transcriptMsg:
		// Each event carries the whole transcript so far
		a.textarea.SetValue(msg.Transcript)
		a.textarea.CursorEnd()
		return a, appmodel.WaitForTranscript(msg.Events)

	case speechEndedMsg:
		a.dataModel.FinishDictation()
		return a, nil

	case speechErrorMsg:
		a.dataModel.FinishDictation()
		return a, a.showToast(toastError, "Dictation failed: "+msg.Err.Error())

	case exportDoneMsg:
		if msg.Err != nil {
			return a, a.showToast(toastError, "Export failed: "+msg.Err.Error())
		}
		return a, a.showToast(toastSuccess, fmt.Sprintf("Exported to %s", msg.Path))

	case copyDoneMsg:
		if msg.Err != nil {
			return a, a.showToast(toastError, "Copy failed: "+msg.Err.Error())
		}
		return a, a.showToast(toastSuccess, "Copied to clipboard")
	}

	return a, tea.Batch(cmds...)
}
