package followuser

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/seadrift/seadrift/activitypub"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/ui/common"
	"github.com/seadrift/seadrift/util"
	"github.com/seadrift/seadrift/web"
)

var (
	Style = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))
)

type Model struct {
	TextInput textinput.Model
	AccountId uuid.UUID
	Status    string
	Error     string
}

func InitialModel(accountId uuid.UUID) Model {
	ti := textinput.New()
	ti.Placeholder = "diver@reef.example"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return Model{
		TextInput: ti,
		AccountId: accountId,
		Status:    "",
		Error:     "",
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			input := strings.TrimSpace(m.TextInput.Value())
			if input == "" {
				m.Error = "Please enter a user@domain"
				return m, nil
			}

			if len(strings.Split(strings.TrimPrefix(input, "@"), "@")) != 2 {
				m.Error = "Invalid format. Use: user@domain.com"
				return m, nil
			}

			m.Status = fmt.Sprintf("Following %s...", input)
			m.Error = ""

			go func() {
				if err := followRemoteUser(m.AccountId, input); err != nil {
					log.Printf("Follow failed: %v", err)
				}
			}()

			m.TextInput.SetValue("")
			return m, nil
		case "esc":
			m.TextInput.SetValue("")
			m.Status = ""
			m.Error = ""
			return m, nil
		}
	}

	m.TextInput, cmd = m.TextInput.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render("follow remote diver"))
	s.WriteString("\n\n")
	s.WriteString("Enter ActivityPub address (e.g., diver@reef.example):\n\n")
	s.WriteString(m.TextInput.View())
	s.WriteString("\n\n")

	if m.Status != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(m.Status))
		s.WriteString("\n")
	}

	if m.Error != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.Error))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(common.HelpStyle.Render("enter: follow • esc: clear • tab: switch view • shift+tab: prev view"))

	return s.String()
}

// followRemoteUser resolves a handle over webfinger and sends the Follow.
func followRemoteUser(accountId uuid.UUID, handle string) error {
	database := db.GetDB()
	err, localAccount := database.ReadAccById(accountId)
	if err != nil {
		return fmt.Errorf("failed to get local account: %w", err)
	}

	actorURI, err := web.ResolveWebFinger(handle)
	if err != nil {
		return fmt.Errorf("webfinger resolution failed: %w", err)
	}

	conf, err := util.ReadConf()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := activitypub.SendFollow(localAccount, actorURI, conf); err != nil {
		return fmt.Errorf("failed to send follow: %w", err)
	}

	log.Printf("Sent follow request from %s to %s (%s)",
		localAccount.Username, handle, actorURI)

	return nil
}
