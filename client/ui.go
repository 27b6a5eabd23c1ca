package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openmingle/mingle-go/api"
	"github.com/openmingle/mingle-go/events"
	"github.com/openmingle/mingle-go/model"
	"github.com/openmingle/mingle-go/socket"
	"github.com/openmingle/mingle-go/store"
	"github.com/openmingle/mingle-go/toast"
)

const historyPageSize = 50

type refreshMsg struct {
	event string
}

type toastMsg struct {
	t toast.Toast
}

type clearToastMsg struct{}

type historyMsg struct {
	roomID int64
	msgs   []model.MessageInfo
}

var (
	authorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)

	toastStyles = map[toast.Level]lipgloss.Style{
		toast.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		toast.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		toast.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		toast.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
)

type outgoingMessage struct {
	RoomID int64  `json:"roomId"`
	Body   string `json:"body"`
}

type modelState struct {
	sock   *socket.Client
	rest   *api.Client
	stores *store.Stores
	roomID int64

	viewport  viewport.Model
	textInput textinput.Model
	toastLine string
	ready     bool
}

func initialModel(sock *socket.Client, rest *api.Client, stores *store.Stores, roomID int64) modelState {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Focus()
	ti.CharLimit = 512

	return modelState{
		sock:      sock,
		rest:      rest,
		stores:    stores,
		roomID:    roomID,
		textInput: ti,
	}
}

func (m modelState) Init() tea.Cmd {
	return textinput.Blink
}

func (m modelState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			body := strings.TrimSpace(m.textInput.Value())
			if body == "" {
				break
			}
			sent := m.sock.Emit(events.EventMessage, outgoingMessage{RoomID: m.roomID, Body: body})
			if !sent {
				m.toastLine = toastStyles[toast.LevelWarning].Render("Not connected - message dropped")
			} else {
				m.textInput.SetValue("")
			}
		case tea.KeyTab:
			m.switchRoom()
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()
		case tea.KeyPgUp:
			if !m.stores.Rooms.RoomFetchAllMessageState(m.roomID) {
				return m, m.fetchOlderHistory()
			}
		}

	case refreshMsg:
		if m.ready {
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()
		}
		if msg.event == events.EventMessage {
			// The open room's messages are seen immediately.
			m.stores.Rooms.SetRoomNewMessageState(m.roomID, false)
		}

	case historyMsg:
		for _, info := range msg.msgs {
			m.stores.Messages.AddMessage(msg.roomID, info)
		}
		if len(msg.msgs) == 0 {
			m.stores.Rooms.SetRoomFetchAllMessageState(msg.roomID, true)
		}
		if m.ready {
			m.viewport.SetContent(m.renderMessages())
		}

	case toastMsg:
		m.toastLine = toastStyles[msg.t.Level].Render(msg.t.Message)
		return m, tea.Tick(msg.t.Duration, func(time.Time) tea.Msg { return clearToastMsg{} })

	case clearToastMsg:
		m.toastLine = ""
	}

	m.textInput, tiCmd = m.textInput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// switchRoom cycles to the next room in the directory and marks it seen.
func (m *modelState) switchRoom() {
	rooms := m.stores.Rooms.RoomInfos()
	if len(rooms) == 0 {
		return
	}
	next := rooms[0].ID
	for i, info := range rooms {
		if info.ID == m.roomID && i+1 < len(rooms) {
			next = rooms[i+1].ID
			break
		}
	}
	m.roomID = next
	m.stores.Rooms.SetRoomNewMessageState(next, false)
}

// fetchOlderHistory pages backwards from the oldest message we hold.
func (m modelState) fetchOlderHistory() tea.Cmd {
	roomID := m.roomID
	var beforeID int64
	if msgs := m.stores.Messages.Messages(roomID); len(msgs) > 0 {
		beforeID = msgs[0].ID
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		msgs, err := m.rest.RoomMessages(ctx, roomID, beforeID, historyPageSize)
		if err != nil {
			// The api client already surfaced the failure as a toast.
			return nil
		}
		return historyMsg{roomID: roomID, msgs: msgs}
	}
}

func (m modelState) renderMessages() string {
	msgs := m.stores.Messages.Messages(m.roomID)
	if len(msgs) == 0 {
		return noticeStyle.Render("No messages yet.")
	}
	var b strings.Builder
	for _, info := range msgs {
		ts := timeStyle.Render(info.CreatedAt.Local().Format("15:04"))
		if info.Type == model.MessageNotification {
			b.WriteString(fmt.Sprintf("%s %s\n", ts, noticeStyle.Render(info.Body)))
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", ts, authorStyle.Render(info.Author.Username+":"), info.Body))
	}
	return b.String()
}

func (m modelState) headerLine() string {
	name := fmt.Sprintf("room %d", m.roomID)
	if info, ok := m.stores.Rooms.RoomInfo(m.roomID); ok && info.Name != "" {
		name = info.Name
	}
	status := "offline"
	if m.sock.IsConnected() {
		status = "online"
	}
	line := headerStyle.Render(name) + timeStyle.Render("  ("+status+")")

	var unseen []string
	for _, info := range m.stores.Rooms.RoomInfos() {
		if info.ID != m.roomID && m.stores.Rooms.RoomNewMessageState(info.ID) {
			unseen = append(unseen, info.Name)
		}
	}
	if len(unseen) > 0 {
		line += "  " + badgeStyle.Render("new: "+strings.Join(unseen, ", "))
	}
	return line
}

func (m modelState) View() string {
	if !m.ready {
		return "Connecting..."
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		m.headerLine(),
		m.viewport.View(),
		m.textInput.View(),
		m.toastLine,
	)
}
