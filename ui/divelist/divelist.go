package divelist

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/ui/common"
)

var (
	timeStyle = lipgloss.NewStyle().
			Align(lipgloss.Left).
			Foreground(lipgloss.Color(common.COLOR_PURPLE))

	siteStyle = lipgloss.NewStyle().
			Align(lipgloss.Left).
			Foreground(lipgloss.Color(common.COLOR_LIGHTBLUE)).
			Bold(true)

	contentStyle = lipgloss.NewStyle().
			Align(lipgloss.Left)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

type Model struct {
	Dives  []domain.Dive
	Offset int
	width  int
	height int
	userId uuid.UUID
}

func (m Model) Init() tea.Cmd {
	return loadDives(m.userId)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case divesLoadedMsg:
		m.Dives = msg.dives
		m.Offset = 0
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k", "left":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j", "right":
			if len(m.Dives) > 0 && m.Offset < len(m.Dives)-1 {
				m.Offset++
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("dive log (%d dives)", len(m.Dives))))
	s.WriteString("\n\n")

	if len(m.Dives) == 0 {
		s.WriteString(emptyStyle.Render("No dives yet.\nLog your first dive!"))
	} else {
		itemsPerPage := 10
		start := m.Offset
		end := start + itemsPerPage
		if end > len(m.Dives) {
			end = len(m.Dives)
		}

		for i := start; i < end; i++ {
			dive := m.Dives[i]

			timeStr := timeStyle.Render(formatTime(dive.CreatedAt))
			siteStr := siteStyle.Render(fmt.Sprintf("#%d %s", dive.DiveNumber, dive.SiteName))
			statsStr := contentStyle.Render(fmt.Sprintf("%.1fm, %dmin", dive.MaxDepth, dive.DurationMin))
			description := contentStyle.Render(truncate(dive.Description, 150))

			diveContent := lipgloss.JoinVertical(lipgloss.Left, timeStr, siteStr, statsStr, description)
			s.WriteString(diveContent)
			s.WriteString("\n\n")
		}
	}

	return s.String()
}

// divesLoadedMsg is sent when dives are loaded
type divesLoadedMsg struct {
	dives []domain.Dive
}

// loadDives loads dives for the given user
func loadDives(userId uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		database := db.GetDB()
		err, dives := database.ReadDivesByUserId(userId)
		if err != nil {
			log.Printf("Failed to load dives: %v", err)
			return divesLoadedMsg{dives: []domain.Dive{}}
		}

		if dives == nil {
			return divesLoadedMsg{dives: []domain.Dive{}}
		}

		return divesLoadedMsg{dives: *dives}
	}
}

func formatTime(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		mins := int(duration.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else {
		days := int(duration.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func NewPager(userId uuid.UUID, width int, height int) Model {
	return Model{
		Dives:  []domain.Dive{},
		Offset: 0,
		width:  width,
		height: height,
		userId: userId,
	}
}
