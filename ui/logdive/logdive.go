package logdive

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/seadrift/seadrift/activitypub"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/ui/common"
	"github.com/seadrift/seadrift/util"
)

const MaxDescription = 500

// Focusable fields in entry order.
const (
	fieldSite = iota
	fieldDepth
	fieldDuration
	fieldDescription
)

type Model struct {
	Site        textinput.Model
	Depth       textinput.Model
	Duration    textinput.Model
	Description textarea.Model
	Focus       int
	Err         util.ErrMsg
	Status      string
	userId      uuid.UUID
	width       int
}

func InitialModel(contentWidth int, userId uuid.UUID) Model {
	width := common.DefaultLogDiveWidth(contentWidth)

	site := textinput.New()
	site.Placeholder = "Blue Hole, Dahab"
	site.CharLimit = 100
	site.Width = 30
	site.Focus()

	depth := textinput.New()
	depth.Placeholder = "24.5"
	depth.CharLimit = 6
	depth.Width = 10

	duration := textinput.New()
	duration.Placeholder = "45"
	duration.CharLimit = 4
	duration.Width = 10

	description := textarea.New()
	description.Placeholder = "conditions, sightings, buddy..."
	description.CharLimit = MaxDescription
	description.ShowLineNumbers = false
	description.SetWidth(30)

	return Model{
		Site:        site,
		Depth:       depth,
		Duration:    duration,
		Description: description,
		Focus:       fieldSite,
		userId:      userId,
		width:       width,
	}
}

// saveDiveCmd stores the dive and fans it out to followers in the
// background.
func saveDiveCmd(save *domain.SaveDive) tea.Cmd {
	return func() tea.Msg {
		database := db.GetDB()

		err, dive := database.CreateDive(save)
		if err != nil {
			log.Println("Dive could not be saved!", err)
			return common.UpdateDiveList
		}

		go func() {
			err, account := database.ReadAccById(save.UserId)
			if err != nil {
				log.Printf("Failed to get account for federation: %v", err)
				return
			}

			conf, err := util.ReadConf()
			if err != nil {
				log.Printf("Failed to read config for federation: %v", err)
				return
			}

			if !conf.Conf.WithAp {
				return
			}

			if err := activitypub.SendCreateDive(dive, account, conf); err != nil {
				log.Printf("Failed to federate dive: %v", err)
			}
		}()

		return common.UpdateDiveList
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			if m.Focus < fieldDescription {
				m.advanceFocus()
				return m, nil
			}
		case tea.KeyCtrlS:
			save, err := m.buildSaveDive()
			if err != nil {
				m.Status = err.Error()
				return m, nil
			}
			m.reset()
			return m, saveDiveCmd(save)
		case tea.KeyCtrlC:
			return m, tea.Quit
		}

	case util.ErrMsg:
		m.Err = msg
		return m, nil
	}

	switch m.Focus {
	case fieldSite:
		m.Site, cmd = m.Site.Update(msg)
	case fieldDepth:
		m.Depth, cmd = m.Depth.Update(msg)
	case fieldDuration:
		m.Duration, cmd = m.Duration.Update(msg)
	case fieldDescription:
		m.Description, cmd = m.Description.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) advanceFocus() {
	m.Site.Blur()
	m.Depth.Blur()
	m.Duration.Blur()
	m.Description.Blur()

	m.Focus++
	switch m.Focus {
	case fieldDepth:
		m.Depth.Focus()
	case fieldDuration:
		m.Duration.Focus()
	case fieldDescription:
		m.Description.Focus()
	}
}

func (m *Model) buildSaveDive() (*domain.SaveDive, error) {
	site := strings.TrimSpace(m.Site.Value())
	if site == "" {
		return nil, fmt.Errorf("site name is required")
	}

	depth := 0.0
	if v := strings.TrimSpace(m.Depth.Value()); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid depth: %s", v)
		}
		depth = parsed
	}

	duration := 0
	if v := strings.TrimSpace(m.Duration.Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid duration: %s", v)
		}
		duration = parsed
	}

	return &domain.SaveDive{
		UserId:      m.userId,
		SiteName:    util.NormalizeInput(site),
		MaxDepth:    depth,
		DurationMin: duration,
		Description: util.NormalizeInput(m.Description.Value()),
	}, nil
}

func (m *Model) reset() {
	m.Site.SetValue("")
	m.Depth.SetValue("")
	m.Duration.SetValue("")
	m.Description.SetValue("")
	m.Status = ""
	m.Focus = fieldSite
	m.Site.Focus()
	m.Depth.Blur()
	m.Duration.Blur()
	m.Description.Blur()
}

func (m Model) View() string {
	form := lipgloss.JoinVertical(lipgloss.Left,
		"site:     "+m.Site.View(),
		"depth m:  "+m.Depth.View(),
		"time min: "+m.Duration.View(),
		"",
		m.Description.View(),
	)

	styledForm := lipgloss.NewStyle().PaddingLeft(5).PaddingRight(5).Margin(2).Render(form)
	help := common.HelpStyle.PaddingLeft(7).Render("enter: next field\n\nsave dive: ctrl+s")
	caption := common.CaptionStyle.PaddingLeft(7).Render("log dive")

	s := fmt.Sprintf("%s\n\n%s\n\n%s", caption, styledForm, help)
	if m.Status != "" {
		s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(7).Render(m.Status)
	}
	return s
}
