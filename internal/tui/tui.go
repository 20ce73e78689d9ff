// Package tui is the terminal front end for a running fresh server: browse
// the AI Menu, view the week and craft or clear it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fresh/internal/client"
	"fresh/internal/models"
	"fresh/internal/planner"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E8B57")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

// Views
const (
	viewMain = "main"
	viewMenu = "menu"
	viewPlan = "plan"
)

// Backend is the part of the API client the UI needs
type Backend interface {
	AIMenu(ctx context.Context) []models.Recipe
	MealPlan(ctx context.Context) (*planner.WeeklyMealPlan, error)
	Craft(ctx context.Context) (*planner.WeeklyMealPlan, error)
	Clear(ctx context.Context) (*planner.WeeklyMealPlan, error)
}

// Model defines the application state
type Model struct {
	ctx         context.Context
	backend     Backend
	mainMenu    list.Model
	menuList    list.Model
	planTable   table.Model
	spinner     spinner.Model
	loading     bool
	currentView string
	status      string
	error       string
}

// item represents a main menu entry
type item struct {
	title, desc string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

// recipeItem is one AI Menu recipe
type recipeItem struct {
	recipe models.Recipe
}

func (i recipeItem) FilterValue() string { return i.recipe.Title }
func (i recipeItem) Title() string       { return i.recipe.Title }
func (i recipeItem) Description() string {
	return fmt.Sprintf("%s - %.0f min - %d ingredients",
		i.recipe.Category, i.recipe.TotalTime, len(i.recipe.IngredientList()))
}

// New creates the model. Commands issued by the UI run under ctx.
func New(ctx context.Context, backend Backend) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "AI Menu", desc: "Recipes your pantry can make right now"},
		item{title: "Meal Plan", desc: "View this week's meals"},
		item{title: "Craft Week", desc: "Fill every day from the AI Menu"},
		item{title: "Clear Week", desc: "Remove every planned meal"},
		item{title: "Exit", desc: "Exit the application"},
	}
	mainMenu := list.New(items, list.NewDefaultDelegate(), 40, 20)
	mainMenu.Title = "fresh"

	menuList := list.New([]list.Item{}, list.NewDefaultDelegate(), 40, 20)
	menuList.Title = "AI Menu"

	columns := []table.Column{
		{Title: "Day", Width: 10},
		{Title: "Meals", Width: 6},
		{Title: "Recipes", Width: 70},
	}
	planTable := table.New(
		table.WithColumns(columns),
		table.WithRows(planRows(planner.NewWeeklyMealPlan())),
		table.WithFocused(true),
		table.WithHeight(len(planner.Week)+2),
	)

	return Model{
		ctx:         ctx,
		backend:     backend,
		mainMenu:    mainMenu,
		menuList:    menuList,
		planTable:   planTable,
		spinner:     s,
		currentView: viewMain,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.menuList.SetSize(msg.Width-h, msg.Height-v)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.currentView != viewMain {
				m.currentView = viewMain
				m.error = ""
				m.status = ""
				return m, nil
			}
		case "enter":
			if m.currentView == viewMain {
				return m.choose()
			}
		case "r":
			switch m.currentView {
			case viewMenu:
				return m.startLoading(fetchMenu(m.ctx, m.backend))
			case viewPlan:
				return m.startLoading(fetchPlan(m.ctx, m.backend))
			}
		case "c":
			if m.currentView == viewPlan {
				return m.startLoading(craftPlan(m.ctx, m.backend))
			}
		case "x":
			if m.currentView == viewPlan {
				return m.startLoading(clearPlan(m.ctx, m.backend))
			}
		}
	case menuMsg:
		m.loading = false
		m.error = ""
		items := make([]list.Item, 0, len(msg.recipes))
		for _, r := range msg.recipes {
			items = append(items, recipeItem{recipe: r})
		}
		return m, m.menuList.SetItems(items)
	case planMsg:
		m.loading = false
		m.error = ""
		m.status = msg.note
		m.planTable.SetRows(planRows(msg.plan))
		return m, nil
	case errorMsg:
		m.loading = false
		m.status = ""
		m.error = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case viewMain:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case viewMenu:
		m.menuList, cmd = m.menuList.Update(msg)
	case viewPlan:
		m.planTable, cmd = m.planTable.Update(msg)
	}
	return m, cmd
}

// choose acts on the selected main menu entry
func (m Model) choose() (tea.Model, tea.Cmd) {
	selected, ok := m.mainMenu.SelectedItem().(item)
	if !ok {
		return m, nil
	}
	switch selected.title {
	case "Exit":
		return m, tea.Quit
	case "AI Menu":
		m.currentView = viewMenu
		return m.startLoading(fetchMenu(m.ctx, m.backend))
	case "Meal Plan":
		m.currentView = viewPlan
		return m.startLoading(fetchPlan(m.ctx, m.backend))
	case "Craft Week":
		m.currentView = viewPlan
		return m.startLoading(craftPlan(m.ctx, m.backend))
	case "Clear Week":
		m.currentView = viewPlan
		return m.startLoading(clearPlan(m.ctx, m.backend))
	}
	return m, nil
}

func (m Model) startLoading(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.error = ""
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	var body string
	switch m.currentView {
	case viewMain:
		return docStyle.Render(m.mainMenu.View())
	case viewMenu:
		body = m.menuList.View() + "\nPress 'r' to refresh, 'esc' to go back\n"
	case viewPlan:
		body = titleStyle.Render("This Week") + "\n\n" + m.planTable.View() +
			"\nPress 'c' to craft, 'x' to clear, 'r' to refresh, 'esc' to go back\n"
	default:
		return "Loading..."
	}

	if m.loading {
		body += m.spinner.View() + " Working...\n"
	}
	if m.status != "" {
		body += successStyle.Render(m.status) + "\n"
	}
	if m.error != "" {
		body += errorStyle.Render(m.error) + "\n"
	}
	return docStyle.Render(body)
}

// Custom message types for the tea.Model
type menuMsg struct {
	recipes []models.Recipe
}

type planMsg struct {
	plan *planner.WeeklyMealPlan
	note string
}

type errorMsg struct {
	err string
}

// fetchMenu retrieves the AI Menu. The client logs failures and returns an
// empty menu, so this never fails.
func fetchMenu(ctx context.Context, b Backend) tea.Cmd {
	return func() tea.Msg {
		return menuMsg{recipes: b.AIMenu(ctx)}
	}
}

func fetchPlan(ctx context.Context, b Backend) tea.Cmd {
	return func() tea.Msg {
		plan, err := b.MealPlan(ctx)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching meal plan: %v", err)}
		}
		return planMsg{plan: plan}
	}
}

func craftPlan(ctx context.Context, b Backend) tea.Cmd {
	return func() tea.Msg {
		plan, err := b.Craft(ctx)
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Category != "" {
			return errorMsg{err: fmt.Sprintf("Not enough %s recipes in your AI Menu to craft a week", apiErr.Category)}
		}
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error crafting meal plan: %v", err)}
		}
		return planMsg{plan: plan, note: fmt.Sprintf("Crafted %d meals", plan.MealCount())}
	}
}

func clearPlan(ctx context.Context, b Backend) tea.Cmd {
	return func() tea.Msg {
		plan, err := b.Clear(ctx)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error clearing meal plan: %v", err)}
		}
		return planMsg{plan: plan, note: "Week cleared"}
	}
}

// planRows renders one table row per day, Monday first
func planRows(plan *planner.WeeklyMealPlan) []table.Row {
	rows := make([]table.Row, 0, len(planner.Week))
	for _, day := range plan.Days() {
		titles := make([]string, 0, len(day.Meals))
		for _, meal := range day.Meals {
			titles = append(titles, meal.Title)
		}
		rows = append(rows, table.Row{
			string(day.Day),
			fmt.Sprintf("%d", len(day.Meals)),
			strings.Join(titles, ", "),
		})
	}
	return rows
}

// Run starts the full-screen UI and blocks until the user quits
func Run(ctx context.Context, backend Backend) error {
	if _, err := tea.NewProgram(New(ctx, backend)).Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	return nil
}
