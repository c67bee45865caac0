package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"xlchat/config"
	"xlchat/extract"
	appmodel "xlchat/model"
	"xlchat/provider"
	"xlchat/storage"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Keep the pending-reply spinner animated while a stream is running
	if a.dataModel.Streaming {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// The file picker needs non-key messages (readDirMsg) even mid-stream
	if a.attachPicker.Active {
		switch msg.(type) {
		case tea.KeyMsg:
			// Handled in handleAttachPickerKeys
		default:
			a.attachPicker.Picker, cmd = a.attachPicker.Picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Title (1), separator (1), textarea (3), status bar (1)
		a.viewport.Width = a.width
		a.viewport.Height = a.height - 6
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg, cmds)

	case toastExpiredMsg:
		a.expireToast(msg)
		return a, tea.Batch(cmds...)

	default:
		newA, streamCmd := a.handleStreamingMessage(msg)
		if streamCmd != nil {
			cmds = append(cmds, streamCmd)
		}
		return newA, tea.Batch(cmds...)
	}
}

func (a AppView) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Always-global quit
	if msg.String() == "alt+q" {
		if a.dataModel.Listening {
			a.dataModel.StopDictation()
		}
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "alt+h", "enter", "q":
			a.showHelp = false
		}
		return a, tea.Batch(cmds...)
	}

	if a.showCredentialModal {
		return a.handleCredentialModalKeys(msg, cmds)
	}

	if a.confirmDeleteID != "" {
		return a.handleDeleteConfirmKeys(msg, cmds)
	}

	if a.attachPicker.Active {
		return a.handleAttachPickerKeys(msg, cmds)
	}

	if a.showConversations {
		return a.handleConversationKeys(msg, cmds)
	}

	// Modal toggle shortcuts
	switch msg.String() {
	case "alt+h":
		a.closeAllModals()
		a.showHelp = true
		return a, tea.Batch(cmds...)

	case "alt+s":
		a.closeAllModals()
		a.showConversations = true
		a.selectedConvIdx = 0
		a.convFilterInput.SetValue("")
		return a, tea.Batch(cmds...)

	case "alt+k":
		a.openCredentialModal("")
		return a, tea.Batch(cmds...)

	case "alt+f":
		a.closeAllModals()
		a.attachPicker.Active = true
		cmds = append(cmds, a.attachPicker.Picker.Init())
		return a, tea.Batch(cmds...)

	case "alt+n":
		a.closeAllModals()
		a.dataModel.Conversations.SetActive("")
		a.pendingAttachment = ""
		a.textarea.Reset()
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case "alt+v":
		return a.toggleDictation(cmds)

	case "alt+y":
		return a.copyLastCodeBlock(cmds)

	case "alt+d":
		return a.exportLastCSVBlock(cmds)

	case "enter":
		return a.sendCurrentMessage(cmds)
	}

	// Everything else goes to the compose buffer and viewport
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)

	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// sendCurrentMessage commits the compose buffer. The buffer and attachment
// are only cleared when the send actually started a stream; guard failures
// keep them so nothing typed is lost.
func (a AppView) sendCurrentMessage(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	text := a.textarea.Value()
	attachment := a.pendingAttachment

	if a.dataModel.Listening {
		a.dataModel.StopDictation()
	}

	sendCmd := a.dataModel.SendMessage(text, attachment)
	if sendCmd == nil {
		return a, tea.Batch(cmds...)
	}
	cmds = append(cmds, sendCmd)

	if a.dataModel.Streaming {
		a.textarea.Reset()
		a.pendingAttachment = ""
		a.updateViewportContent(true)
		cmds = append(cmds, a.loadingSpinner.Tick)
	}

	return a, tea.Batch(cmds...)
}

func (a AppView) toggleDictation(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if a.dataModel.Listening {
		a.dataModel.StopDictation()
		return a, tea.Batch(cmds...)
	}

	if !a.dataModel.DictationAvailable() {
		cmds = append(cmds, a.showToast(toastError, "Dictation unavailable: no speech command configured"))
		return a, tea.Batch(cmds...)
	}

	// The transcript replaces the buffer wholesale, so start clean
	a.textarea.Reset()
	cmds = append(cmds, a.dataModel.StartDictation())
	return a, tea.Batch(cmds...)
}

// lastModelContent returns the content of the newest assistant reply in the
// active conversation
func (a AppView) lastModelContent() string {
	conv := a.dataModel.ActiveConversation()
	if conv == nil {
		return ""
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].Role == storage.RoleModel {
			return conv.Messages[i].Content
		}
	}
	return ""
}

func (a AppView) copyLastCodeBlock(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	content := a.lastModelContent()

	seg := extract.LastBlock(content, extract.Formula)
	if seg == nil {
		seg = extract.LastBlock(content, extract.Macro)
	}
	if seg == nil {
		cmds = append(cmds, a.showToast(toastInfo, "No formula or macro in the last reply"))
		return a, tea.Batch(cmds...)
	}

	cmds = append(cmds, appmodel.CopyToClipboard(seg.Content))
	return a, tea.Batch(cmds...)
}

func (a AppView) exportLastCSVBlock(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	seg := extract.LastBlock(a.lastModelContent(), extract.Tabular)
	if seg == nil {
		cmds = append(cmds, a.showToast(toastInfo, "No CSV block in the last reply"))
		return a, tea.Batch(cmds...)
	}

	cmds = append(cmds, appmodel.ExportCSVBlock(seg.Content))
	return a, tea.Batch(cmds...)
}

func (a *AppView) openCredentialModal(reason string) {
	a.closeAllModals()
	a.showCredentialModal = true
	a.credentialReason = reason
	a.credentialInput.SetValue("")
	a.credentialInput.Focus()
}

func (a AppView) handleCredentialModalKeys(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		a.showCredentialModal = false
		a.credentialInput.Blur()
		return a, tea.Batch(cmds...)

	case "enter":
		key := strings.TrimSpace(a.credentialInput.Value())
		if key == "" {
			return a, tea.Batch(cmds...)
		}

		if err := a.dataModel.Credentials.Save(key); err != nil {
			cmds = append(cmds, a.showToast(toastError, "Could not store key: "+err.Error()))
			return a, tea.Batch(cmds...)
		}

		if err := a.rebuildProvider(key); err != nil {
			cmds = append(cmds, a.showToast(toastError, "Provider setup failed: "+err.Error()))
			return a, tea.Batch(cmds...)
		}

		a.showCredentialModal = false
		a.credentialInput.Blur()
		a.credentialInput.SetValue("")
		cmds = append(cmds, a.showToast(toastSuccess, "API key saved"))
		return a, tea.Batch(cmds...)
	}

	a.credentialInput, cmd = a.credentialInput.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// rebuildProvider swaps in a provider client using the new key
func (a *AppView) rebuildProvider(apiKey string) error {
	cfg := a.dataModel.Config

	client, err := provider.NewProvider(provider.Config{
		Type:       provider.MapProviderIDToType(cfg.ProviderID),
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		TitleModel: cfg.TitleModel,
		APIKey:     apiKey,
	})
	if err != nil {
		return err
	}

	a.dataModel.Provider = client
	return nil
}

func (a AppView) handleDeleteConfirmKeys(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if err := a.dataModel.Conversations.Remove(a.confirmDeleteID); err != nil {
			cmds = append(cmds, a.showToast(toastError, "Delete failed: "+err.Error()))
		}
		a.confirmDeleteID = ""
		a.confirmDeleteTitle = ""
		if a.selectedConvIdx > 0 {
			a.selectedConvIdx--
		}
		a.updateViewportContent(true)

	case "n", "esc":
		a.confirmDeleteID = ""
		a.confirmDeleteTitle = ""
	}

	return a, tea.Batch(cmds...)
}

func (a AppView) handleAttachPickerKeys(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "esc" {
		a.attachPicker.Active = false
		return a, tea.Batch(cmds...)
	}

	a.attachPicker.Picker, cmd = a.attachPicker.Picker.Update(msg)
	cmds = append(cmds, cmd)

	if didSelect, path := a.attachPicker.Picker.DidSelectFile(msg); didSelect {
		a.pendingAttachment = path
		a.attachPicker.Active = false
		if config.DebugLog != nil {
			config.DebugLog.Printf("attachment selected: %s", path)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a AppView) handleConversationKeys(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if a.convFilterMode {
		switch msg.String() {
		case "esc":
			a.convFilterMode = false
			a.convFilterInput.SetValue("")
			a.convFilterInput.Blur()
			a.selectedConvIdx = 0
			return a, tea.Batch(cmds...)

		case "enter":
			return a.openSelectedConversation(cmds)
		}

		a.convFilterInput, cmd = a.convFilterInput.Update(msg)
		cmds = append(cmds, cmd)
		a.selectedConvIdx = 0
		return a, tea.Batch(cmds...)
	}

	conversations := a.getConversationList()

	switch msg.String() {
	case "esc", "alt+s":
		a.showConversations = false

	case "j", "down":
		if a.selectedConvIdx < len(conversations)-1 {
			a.selectedConvIdx++
		}

	case "k", "up":
		if a.selectedConvIdx > 0 {
			a.selectedConvIdx--
		}

	case "enter":
		return a.openSelectedConversation(cmds)

	case "n":
		a.showConversations = false
		a.dataModel.Conversations.SetActive("")
		a.pendingAttachment = ""
		a.textarea.Reset()
		a.updateViewportContent(true)

	case "d":
		if a.selectedConvIdx < len(conversations) {
			conv := conversations[a.selectedConvIdx]
			a.confirmDeleteID = conv.ID
			a.confirmDeleteTitle = conv.Title
		}

	case "/":
		a.convFilterMode = true
		a.convFilterInput.SetValue("")
		a.convFilterInput.Focus()
		a.selectedConvIdx = 0
	}

	return a, tea.Batch(cmds...)
}

func (a AppView) openSelectedConversation(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	conversations := a.getConversationList()
	if a.selectedConvIdx >= len(conversations) {
		return a, tea.Batch(cmds...)
	}

	a.dataModel.Conversations.SetActive(conversations[a.selectedConvIdx].ID)
	a.showConversations = false
	a.convFilterMode = false
	a.convFilterInput.Blur()
	a.updateViewportContent(true)

	return a, tea.Batch(cmds...)
}
