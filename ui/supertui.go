package ui

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/seadrift/seadrift/db"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/ui/common"
	"github.com/seadrift/seadrift/ui/createuser"
	"github.com/seadrift/seadrift/ui/divelist"
	"github.com/seadrift/seadrift/ui/followers"
	"github.com/seadrift/seadrift/ui/followuser"
	"github.com/seadrift/seadrift/ui/header"
	"github.com/seadrift/seadrift/ui/logdive"
)

var (
	modelStyle = lipgloss.NewStyle().
			Align(lipgloss.Top, lipgloss.Top).
			BorderStyle(lipgloss.HiddenBorder()).MarginLeft(1)
	focusedModelStyle = lipgloss.NewStyle().
				Align(lipgloss.Top, lipgloss.Top).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color(common.COLOR_LIGHTBLUE)).MarginLeft(1)
)

type MainModel struct {
	width          int
	height         int
	headerModel    header.Model
	account        domain.Account
	state          common.SessionState
	newUserModel   createuser.Model
	logDiveModel   logdive.Model
	listModel      divelist.Model
	followModel    followuser.Model
	followersModel followers.Model
}

func updateUserModelCmd(acc *domain.Account, displayName string, summary string) tea.Cmd {
	return func() tea.Msg {
		acc.FirstTimeLogin = domain.FALSE
		err := db.GetDB().UpdateLoginById(acc.Username, displayName, summary, acc.Id)
		if err != nil {
			log.Println(fmt.Sprintf("User %s could not be updated!", acc.Username))
		}
		return nil
	}
}

func NewModel(acc domain.Account, width int, height int) MainModel {

	width = common.DefaultWindowWidth(width)
	height = common.DefaultWindowHeight(height)

	logDiveModel := logdive.InitialModel(width, acc.Id)
	headerModel := header.Model{Width: width, Acc: &acc}
	listModel := divelist.NewPager(acc.Id, width, height)
	followModel := followuser.InitialModel(acc.Id)
	followersModel := followers.InitialModel(acc.Id, width, height)

	m := MainModel{state: common.CreateUserView}
	m.newUserModel = createuser.InitialModel()
	m.logDiveModel = logDiveModel
	m.listModel = listModel
	m.followModel = followModel
	m.followersModel = followersModel
	m.headerModel = headerModel
	m.account = acc
	m.width = width
	m.height = height
	return m
}

func (m MainModel) Init() tea.Cmd {
	var cmds []tea.Cmd

	// Load the dive list on startup
	cmds = append(cmds, m.listModel.Init())

	if m.account.FirstTimeLogin == domain.TRUE {
		cmds = append(cmds, func() tea.Msg {
			return common.CreateUserView
		})
	} else {
		cmds = append(cmds, func() tea.Msg {
			return common.LogDiveView
		})
	}

	return tea.Batch(cmds...)
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.headerModel.Width = msg.Width
		return m, nil

	case common.SessionState:
		switch msg {
		case common.CreateUserView:
			m.state = common.CreateUserView
		case common.ListDivesView:
			m.state = common.ListDivesView
		case common.LogDiveView:
			m.state = common.LogDiveView
		case common.FollowUserView:
			m.state = common.FollowUserView
		case common.FollowersView:
			m.state = common.FollowersView
		case common.UpdateDiveList:
			m.listModel = divelist.NewPager(m.account.Id, m.width, m.height)
			return m, m.listModel.Init()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			// Cycle through main views (excluding create user)
			if m.state == common.CreateUserView {
				return m, nil
			}
			oldState := m.state
			switch m.state {
			case common.LogDiveView:
				m.state = common.ListDivesView
			case common.ListDivesView:
				m.state = common.FollowUserView
			case common.FollowUserView:
				m.state = common.FollowersView
			case common.FollowersView:
				m.state = common.LogDiveView
			}
			if oldState != m.state {
				cmd = getViewInitCmd(m.state, &m)
				cmds = append(cmds, cmd)
			}
		case "shift+tab":
			if m.state == common.CreateUserView {
				return m, nil
			}
			oldState := m.state
			switch m.state {
			case common.LogDiveView:
				m.state = common.FollowersView
			case common.ListDivesView:
				m.state = common.LogDiveView
			case common.FollowUserView:
				m.state = common.ListDivesView
			case common.FollowersView:
				m.state = common.FollowUserView
			}
			if oldState != m.state {
				cmd = getViewInitCmd(m.state, &m)
				cmds = append(cmds, cmd)
			}
		case "enter":
			if m.state == common.CreateUserView && m.newUserModel.Step == 2 {
				m.state = common.LogDiveView
				m.account.Username = m.newUserModel.TextInput.Value()
				m.headerModel = header.Model{Width: m.width, Acc: &m.account}
				return m, updateUserModelCmd(&m.account,
					m.newUserModel.DisplayName.Value(),
					m.newUserModel.Bio.Value())
			}
		}
	}

	// Route non-keyboard messages to all sub-models so loading messages
	// reach their destination; keyboard input only goes to the active view.
	if _, isKeyMsg := msg.(tea.KeyMsg); !isKeyMsg {
		m.headerModel, _ = m.headerModel.Update(msg)
		m.followModel, cmd = m.followModel.Update(msg)
		cmds = append(cmds, cmd)
		m.followersModel, cmd = m.followersModel.Update(msg)
		cmds = append(cmds, cmd)
		m.listModel, cmd = m.listModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case common.CreateUserView:
			m.newUserModel, cmd = m.newUserModel.Update(msg)
		case common.LogDiveView:
			m.logDiveModel, cmd = m.logDiveModel.Update(msg)
		case common.ListDivesView:
			m.listModel, cmd = m.listModel.Update(msg)
		case common.FollowUserView:
			m.followModel, cmd = m.followModel.Update(msg)
		case common.FollowersView:
			m.followersModel, cmd = m.followersModel.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m MainModel) View() string {

	var s string

	model := m.currentFocusedModel()

	availableHeight := m.height - 10 // Account for header and help text
	leftPanelWidth := m.width / 3
	rightPanelWidth := m.width - leftPanelWidth - 6 // Account for borders and margins

	logDiveStyleStr := lipgloss.NewStyle().
		MaxHeight(availableHeight).
		Height(availableHeight).
		Width(leftPanelWidth).
		MaxWidth(leftPanelWidth).
		Render(m.logDiveModel.View())

	listStyleStr := lipgloss.NewStyle().
		MaxHeight(availableHeight).
		Height(availableHeight).
		Width(rightPanelWidth).
		MaxWidth(rightPanelWidth).
		Margin(1).
		Render(m.listModel.View())

	followStyleStr := lipgloss.NewStyle().
		MaxHeight(availableHeight).
		Height(availableHeight).
		Width(rightPanelWidth).
		MaxWidth(rightPanelWidth).
		Margin(1).
		Render(m.followModel.View())

	followersStyleStr := lipgloss.NewStyle().
		MaxHeight(availableHeight).
		Height(availableHeight).
		Width(rightPanelWidth).
		MaxWidth(rightPanelWidth).
		Margin(1).
		Render(m.followersModel.View())

	if m.state == common.CreateUserView {
		s = createuser.Style.Width(m.width).Render(m.newUserModel.View())
		return s
	} else {
		navContainer := lipgloss.NewStyle().Render(m.headerModel.View())
		s += navContainer + "\n"

		switch m.state {
		case common.LogDiveView:
			s += lipgloss.JoinHorizontal(lipgloss.Top,
				focusedModelStyle.Render(logDiveStyleStr),
				modelStyle.Render(listStyleStr))
		case common.ListDivesView:
			s += lipgloss.JoinHorizontal(lipgloss.Top,
				modelStyle.Render(logDiveStyleStr),
				focusedModelStyle.Render(listStyleStr))
		case common.FollowUserView:
			s += lipgloss.JoinHorizontal(lipgloss.Top,
				modelStyle.Render(logDiveStyleStr),
				focusedModelStyle.Render(followStyleStr))
		case common.FollowersView:
			s += lipgloss.JoinHorizontal(lipgloss.Top,
				modelStyle.Render(logDiveStyleStr),
				focusedModelStyle.Render(followersStyleStr))
		}

		var viewCommands string
		switch m.state {
		case common.ListDivesView:
			viewCommands = "↑/↓: scroll"
		case common.FollowUserView:
			viewCommands = "enter: follow"
		case common.FollowersView:
			viewCommands = "↑/↓: scroll"
		default:
			viewCommands = " "
		}

		s += common.HelpStyle.Render(fmt.Sprintf(
			"focused > %s\t\tkeys > tab: next • shift+tab: prev • %s • ctrl-c: exit",
			model, viewCommands))
		return lipgloss.NewStyle().Render(s)
	}
}

func (m MainModel) currentFocusedModel() string {
	switch m.state {
	case common.LogDiveView:
		return "log dive"
	case common.ListDivesView:
		return "dive log"
	case common.FollowUserView:
		return "follow diver"
	case common.FollowersView:
		return "followers"
	default:
		return "create user"
	}
}

// getViewInitCmd returns the init command for a view to reload its data
func getViewInitCmd(state common.SessionState, m *MainModel) tea.Cmd {
	switch state {
	case common.FollowersView:
		return m.followersModel.Init()
	case common.ListDivesView:
		return m.listModel.Init()
	default:
		return nil
	}
}
