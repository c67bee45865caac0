package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "xlchat/model"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Loading spinner shown in the pending reply
	loadingSpinner spinner.Model

	// Conversation manager
	showConversations  bool
	selectedConvIdx    int
	convFilterMode     bool
	convFilterInput    textinput.Model
	confirmDeleteID    string
	confirmDeleteTitle string

	// Credential modal
	showCredentialModal bool
	credentialInput     textinput.Model
	credentialReason    string

	// Attachment picker
	attachPicker      FilePickerState
	pendingAttachment string

	showHelp bool

	toast toastState
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about formulas, VBA, or attach a spreadsheet with Alt+F..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter inserts a newline; Enter sends (handled in Update)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AppView{
		dataModel:       dataModel,
		textarea:        ta,
		viewport:        vp,
		loadingSpinner:  sp,
		convFilterInput: NewConversationFilterInput(),
		credentialInput: NewCredentialInput(),
		attachPicker:    NewAttachmentPicker(),
	}
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		a.loadingSpinner.Tick,
	}

	// First run (or invalidated key): prompt before the first send
	if !a.dataModel.Credentials.HasToken() {
		reason := a.dataModel.Credentials.LastError()
		cmds = append(cmds, func() tea.Msg {
			return credentialRequiredMsg{Reason: reason}
		})
	}

	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading xlchat..."
	}

	// Modal rendering order (top to bottom layers)
	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showCredentialModal {
		return renderCredentialModal(a.credentialInput, a.dataModel.Config.ProviderID, a.credentialReason, a.width, a.height)
	}

	if a.confirmDeleteID != "" {
		return renderDeleteConfirmModal(a.confirmDeleteTitle, a.width, a.height)
	}

	if a.attachPicker.Active {
		return renderFilePickerModal(a.attachPicker, a.width, a.height)
	}

	if a.showConversations {
		return renderConversationManager(a.getConversationList(), a.selectedConvIdx, a.dataModel.Conversations.ActiveID(), a.convFilterMode, a.convFilterInput, a.width, a.height)
	}

	// Title bar - "xlchat - model - conversation | indicators"
	appText := AssistantStyle.Render("xlchat")
	modelText := TitleStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Config.Model))

	convTitle := "New Conversation"
	if conv := a.dataModel.ActiveConversation(); conv != nil && conv.Title != "" {
		convTitle = conv.Title
	}
	convText := UserStyle.Render(fmt.Sprintf(" - %s", convTitle))

	indicators := ""
	if a.pendingAttachment != "" {
		indicators += DimStyle.Render(fmt.Sprintf(" | attached: %s", filepath.Base(a.pendingAttachment)))
	}
	if a.dataModel.Listening {
		indicators += SelectedStyle.Render(" | listening...")
	}

	title := appText + modelText + convText + indicators

	// Separator with bottom margin for header (empty line forces spacing)
	separator := ""

	viewportView := a.viewport.View()
	inputView := a.textarea.View()

	statusBar := a.renderStatusBar()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		separator,
		viewportView,
		inputView,
		statusBar,
	)
}

func (a AppView) renderStatusBar() string {
	if a.toast.active() {
		return a.renderToast()
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Alt+Q %s  Alt+S %s  Alt+N %s  Alt+F %s  Alt+V %s  Alt+Y %s  Alt+D %s  Enter %s",
		descStyle.Render("Quit"),
		descStyle.Render("Chats"),
		descStyle.Render("New"),
		descStyle.Render("Attach"),
		descStyle.Render("Voice"),
		descStyle.Render("Copy"),
		descStyle.Render("Export"),
		descStyle.Render("Send"),
	)
	return StatusStyle.Render(statusBar)
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showConversations = false
	a.showCredentialModal = false
	a.attachPicker.Active = false

	a.convFilterMode = false
	a.confirmDeleteID = ""
	a.confirmDeleteTitle = ""
	a.credentialReason = ""

	if a.convFilterInput.Focused() {
		a.convFilterInput.Blur()
	}
	if a.credentialInput.Focused() {
		a.credentialInput.Blur()
	}
}
