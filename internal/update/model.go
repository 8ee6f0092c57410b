package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/keel/internal/coach"
	"github.com/sandeepkv93/keel/internal/commands"
	"github.com/sandeepkv93/keel/internal/energy"
	"github.com/sandeepkv93/keel/internal/model"
	"github.com/sandeepkv93/keel/internal/planner"
	"github.com/sandeepkv93/keel/internal/prioritize"
	"github.com/sandeepkv93/keel/internal/scheduler"
	"github.com/sandeepkv93/keel/internal/storage"
)

type View string

const (
	ViewCoach View = "Coach"
	ViewTasks View = "Tasks"
	ViewPlan  View = "Plan"
)

var viewOrder = []View{ViewCoach, ViewTasks, ViewPlan}

// DefaultAlertLead is how long before a block starts its alert fires.
const DefaultAlertLead = 5 * time.Minute

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type CoachState struct {
	Editing  bool
	Quote    string
	DumpID   string
	Analysis *coach.AnalysisResult
	Items    *coach.ItemsResult
}

type TasksState struct {
	Items      []model.Task
	Cursor     int
	Ranked     []prioritize.PrioritizedTask
	RankSource coach.Source
	rankedView string
}

type PlanState struct {
	Date       string
	Blocks     []model.TimeBlock
	Pattern    energy.Pattern
	Last       *planner.Result
	energyView string
}

// Deps are the services the TUI drives. Repo, Coach and Planner are required.
type Deps struct {
	Repo    storage.Repository
	Coach   *coach.Engine
	Planner *planner.Planner
	// Alerts is optional; when set the model arms block-start alerts for the
	// day on screen and shows them in the status bar.
	Alerts           *scheduler.AlertEngine
	APIKey           func() string
	Now              func() time.Time
	Log              logrus.FieldLogger
	AvailableMinutes int
	AlertLead        time.Duration
}

type Model struct {
	CurrentView View
	Coach       CoachState
	Tasks       TasksState
	Plan        PlanState
	Palette     CommandPaletteState
	Status      StatusBar
	LastAlert   *scheduler.BlockAlert
	HelpVisible bool
	Busy        string
	Quitting    bool
	LastError   error

	ctx      context.Context
	deps     Deps
	handlers commands.Handlers
	keys     keyMap

	dumpArea     textarea.Model
	commandInput textinput.Model
	output       viewport.Model
	busySpinner  spinner.Model
	helpModel    help.Model
}

type keyMap struct {
	Coach   key.Binding
	Tasks   key.Binding
	Plan    key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
	Write   key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Accept  key.Binding
	Quote   key.Binding
	Up      key.Binding
	Down    key.Binding
	Rank    key.Binding
	Steps   key.Binding
	Done    key.Binding
	Reload  key.Binding
	Prev    key.Binding
	Next    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Coach:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "coach")),
		Tasks:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tasks")),
		Plan:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "plan")),
		Palette: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Write:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "write")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "analyze")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Accept:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add extracted tasks")),
		Quote:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new quote")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Rank:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prioritize / plan")),
		Steps:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "micro-steps")),
		Done:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "done")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Prev:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "prev day")),
		Next:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "next day")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Coach, k.Tasks, k.Plan, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Coach, k.Tasks, k.Plan, k.Palette, k.Help, k.Quit},
		{k.Write, k.Submit, k.Cancel, k.Accept, k.Quote},
		{k.Up, k.Down, k.Rank, k.Steps, k.Done, k.Reload},
		{k.Prev, k.Next},
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// BlockAlertMsg carries an alert read from the alert engine.
type BlockAlertMsg struct {
	Alert scheduler.BlockAlert
}

type dumpProcessedMsg struct {
	DumpID   string
	Analysis coach.AnalysisResult
	Items    coach.ItemsResult
	Err      error
}

type tasksAddedMsg struct {
	Added int
	Err   error
}

type tasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

type prioritizedMsg struct {
	Result coach.PrioritiesResult
}

type dayLoadedMsg struct {
	Date    string
	Blocks  []model.TimeBlock
	Pattern energy.Pattern
	Err     error
}

type dayPlannedMsg struct {
	Result planner.Result
	Err    error
}

type commandDoneMsg struct {
	Type    commands.Type
	Message string
	Err     error
}

// NewModel builds the TUI model around d. ctx bounds every storage and
// model call the TUI starts.
func NewModel(ctx context.Context, d Deps) Model {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.APIKey == nil {
		d.APIKey = func() string { return "" }
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.AvailableMinutes <= 0 {
		d.AvailableMinutes = 60
	}
	if d.AlertLead <= 0 {
		d.AlertLead = DefaultAlertLead
	}

	m := Model{
		CurrentView: ViewCoach,
		Plan:        PlanState{Date: d.Now().Format(model.DateLayout)},
		ctx:         ctx,
		deps:        d,
		keys:        defaultKeyMap(),
		handlers: commands.NewHandlers(ctx, commands.Deps{
			Repo:    d.Repo,
			Planner: d.Planner,
			Coach:   d.Coach,
			APIKey:  d.APIKey,
			Now:     d.Now,
			Log:     d.Log,
		}),
	}
	m.Coach.Quote = d.Coach.Encouragement()
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.dumpArea = textarea.New()
	m.dumpArea.Placeholder = "What's on your mind? Dump it all here."
	m.dumpArea.ShowLineNumbers = false
	m.dumpArea.SetWidth(56)
	m.dumpArea.SetHeight(12)
	m.dumpArea.CharLimit = 8000

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add | checkin | plan | done | steps | key"
	m.commandInput.CharLimit = 512

	m.output = viewport.New(56, 18)

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}
