package tui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/glassqr/glassqr/internal/app"
	"github.com/glassqr/glassqr/internal/logging"
	"github.com/glassqr/glassqr/internal/notify"
	"github.com/glassqr/glassqr/internal/pubsub"
	"github.com/glassqr/glassqr/internal/qr"
	"github.com/glassqr/glassqr/internal/tui/commands"
	"github.com/glassqr/glassqr/internal/tui/components/core"
	"github.com/glassqr/glassqr/internal/tui/components/dialog"
	"github.com/glassqr/glassqr/internal/tui/components/editor"
	"github.com/glassqr/glassqr/internal/tui/components/modal"
	"github.com/glassqr/glassqr/internal/tui/components/preview"
	"github.com/glassqr/glassqr/internal/tui/components/toast"
	"github.com/glassqr/glassqr/internal/tui/styles"
	"github.com/glassqr/glassqr/internal/tui/theme"
	"github.com/glassqr/glassqr/internal/util"
)

const (
	DefaultDebounce     = time.Second
	DefaultWelcomeDelay = 1500 * time.Millisecond

	headerHeight = 2
	statusHeight = 1
	editorHeight = 5
)

// Options configures the interactive model.
type Options struct {
	About         dialog.AboutInfo
	MaxTextLength int
	Debounce      time.Duration
	WelcomeDelay  time.Duration
}

type (
	debounceMsg struct{ seq int }
	welcomeMsg  struct{}

	generationDoneMsg struct {
		job    *app.Job
		bitmap *qr.Bitmap
		err    error
	}

	// generateMsg re-enters the generation flow, usually from the confirm dialog.
	generateMsg struct {
		text string
		opts app.GenerateOptions
	}

	actionDoneMsg struct {
		name string
		err  error
	}

	shareDoneMsg struct {
		url string
		err error
	}
)

type appModel struct {
	ctx    context.Context
	app    *app.App
	opts   Options
	width  int
	height int

	registry commands.Registry
	editor   *editor.Model
	preview  preview.Model
	toasts   *toast.ToastManager
	status   core.StatusCmp
	modal    *modal.Modal

	state       app.State
	debounceSeq int
	exampleIdx  int
}

// New returns the root model. ctx bounds every generation and export started
// from the UI.
func New(ctx context.Context, a *app.App, opts Options) tea.Model {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.WelcomeDelay <= 0 {
		opts.WelcomeDelay = DefaultWelcomeDelay
	}
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = app.DefaultMaxTextLength
	}

	state := a.State()
	if err := theme.Set(string(state.Theme)); err != nil {
		slog.Warn("unknown theme", "theme", state.Theme, "error", err)
	}

	m := &appModel{
		ctx:      ctx,
		app:      a,
		opts:     opts,
		registry: commands.NewCommandRegistry(),
		editor:   editor.New(opts.MaxTextLength),
		preview:  preview.New(),
		toasts:   toast.NewToastManager(),
		status:   core.NewStatusCmp(state),
		state:    state,
	}
	m.preview.SetState(state)
	if c, ok := m.registry.Find(commands.Help); ok {
		m.status.SetHelpWidgetMsg(c.KeyBinding.Help().Key + " help")
	}
	return m
}

func (m *appModel) Init() tea.Cmd {
	return tea.Batch(
		m.editor.Focus(),
		m.preview.Init(),
		m.toasts.Init(),
		tea.Tick(m.opts.WelcomeDelay, func(time.Time) tea.Msg { return welcomeMsg{} }),
	)
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.app.SetViewport(msg.Width, msg.Height)
		m.refresh()
		m.status, _ = m.status.Update(msg)
		m.toasts, cmd = m.toasts.Update(msg)
		cmds = append(cmds, cmd)
		if m.modal != nil {
			m.modal, cmd = m.modal.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.resize()
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd

	case pubsub.Event[app.State]:
		m.refresh()
		return m, nil

	case pubsub.Event[notify.Notification]:
		m.toasts, cmd = m.toasts.Update(msg)
		return m, cmd

	case pubsub.Event[logging.Log]:
		if m.modal != nil {
			m.modal, cmd = m.modal.Update(msg)
		}
		return m, cmd

	case welcomeMsg:
		m.app.Welcome()
		return m, nil

	case debounceMsg:
		if msg.seq != m.debounceSeq || m.modal != nil {
			return m, nil
		}
		text := m.editor.Value()
		if !app.ShouldAutoGenerate(text) {
			return m, nil
		}
		return m, m.generate(text, app.GenerateOptions{})

	case generateMsg:
		return m, m.generate(msg.text, msg.opts)

	case generationDoneMsg:
		_, err := m.app.Complete(m.ctx, msg.job, msg.bitmap, msg.err)
		if errors.Is(err, app.ErrSuperseded) {
			return m, nil
		}
		m.refresh()
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			slog.Debug("action finished with error", "action", msg.name, "error", msg.err)
		}
		m.refresh()
		return m, nil

	case shareDoneMsg:
		if msg.err != nil || msg.url == "" {
			return m, nil
		}
		return m, m.openModal(dialog.NewShareDialog(msg.url), "Share link")

	case editor.ExternalEditMsg:
		m.editor, _ = m.editor.Update(msg)
		return m, m.textChanged()

	case commands.ExecuteCommandMsg:
		return m, m.execute(msg.Name, msg.Arg)

	case dialog.CloseDialogMsg:
		m.modal = nil
		return m, m.editor.Focus()

	case dialog.StyleSelectedMsg:
		m.app.SetSize(msg.Size)
		m.app.SetColor(msg.Color)
		m.refresh()
		return m, m.regenerate()

	case tea.KeyMsg:
		if c, ok := m.registry.Find(commands.Quit); ok && key.Matches(msg, c.KeyBinding) {
			return m, tea.Quit
		}
		if m.modal != nil {
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		if c, ok := m.registry.Match(msg); ok {
			return m, m.execute(c.Name, "")
		}
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
		if m.editor.Value() != before {
			cmds = append(cmds, m.textChanged())
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if m.modal != nil {
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m, m.click(msg)
	}

	// toast timers, cursor blinks
	m.toasts, cmd = m.toasts.Update(msg)
	cmds = append(cmds, cmd)
	if m.modal != nil {
		m.modal, cmd = m.modal.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// refresh pulls the latest snapshot and applies its theme.
func (m *appModel) refresh() {
	m.state = m.app.State()
	m.preview.SetState(m.state)
	m.status, _ = m.status.Update(pubsub.Event[app.State]{Type: pubsub.EventTypeUpdated, Payload: m.state})
	if theme.CurrentName() != string(m.state.Theme) {
		if err := theme.Set(string(m.state.Theme)); err == nil {
			m.editor.Restyle()
		}
	}
}

// textChanged enforces the length limit and restarts the auto-generate timer.
func (m *appModel) textChanged() tea.Cmd {
	m.debounceSeq++
	if text, truncated := m.app.LimitText(m.editor.Value()); truncated {
		m.editor.SetValue(text)
		return nil
	}
	seq := m.debounceSeq
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// generate starts a generation job and waits for it off the event loop.
func (m *appModel) generate(text string, opts app.GenerateOptions) tea.Cmd {
	m.debounceSeq++
	job, err := m.app.Begin(m.ctx, text, opts)
	m.refresh()
	if errors.Is(err, app.ErrNeedsConfirmation) {
		confirm := dialog.NewConfirmDialog(
			"The text looks like a link but does not start with http or https.\nGenerate anyway?",
			generateMsg{text: text, opts: app.GenerateOptions{Force: opts.Force, Confirmed: true}},
		)
		return m.openModal(confirm, "Check the link")
	}
	if err != nil || job == nil {
		return nil
	}
	// show the truncated text when it came from the editor
	if text == m.editor.Value() && utf8.RuneCountInString(job.Text) < utf8.RuneCountInString(strings.TrimSpace(text)) {
		m.editor.SetValue(job.Text)
	}
	return waitForJob(m.ctx, job)
}

func waitForJob(ctx context.Context, job *app.Job) tea.Cmd {
	return func() tea.Msg {
		bm, err := job.Wait(ctx)
		return generationDoneMsg{job: job, bitmap: bm, err: err}
	}
}

func (m *appModel) generating() bool {
	return m.state.Phase == app.PhaseGenerating
}

// regenerate is used after a size or colour change.
func (m *appModel) regenerate() tea.Cmd {
	text := m.editor.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return m.generate(text, app.GenerateOptions{})
}

func (m *appModel) execute(name, arg string) tea.Cmd {
	switch name {
	case commands.Generate, commands.Refresh:
		if m.generating() {
			return nil
		}
		return m.generate(m.editor.Value(), app.GenerateOptions{Force: true})

	case commands.Download:
		return m.action(name, func(ctx context.Context) error {
			_, err := m.app.Download(ctx)
			return err
		})

	case commands.Copy:
		return m.action(name, func(ctx context.Context) error {
			_, err := m.app.Copy(ctx)
			return err
		})

	case commands.Share:
		ctx := m.ctx
		return func() tea.Msg {
			url, err := m.app.Share(ctx)
			return shareDoneMsg{url: url, err: err}
		}

	case commands.Theme:
		m.app.ToggleTheme(m.ctx)
		m.refresh()
		return nil

	case commands.Size:
		size, err := qr.ParseSize(arg)
		if err != nil {
			size = next(qr.Sizes(), m.state.Size)
		}
		m.app.SetSize(size)
		m.refresh()
		return m.regenerate()

	case commands.Color:
		c, err := qr.ParseColor(arg)
		if err != nil {
			c = next(qr.Colors(), m.state.Color)
		}
		m.app.SetColor(c)
		m.refresh()
		return m.regenerate()

	case commands.Style:
		return m.openModal(dialog.NewStyleDialog(m.state.Size, m.state.Color), "Style")

	case commands.Example:
		return m.loadExample(arg)

	case commands.Privacy:
		m.app.Privacy()
		return nil

	case commands.About:
		width := m.modalWidth(72)
		return m.openModal(dialog.NewAboutDialog(m.opts.About, theme.CurrentName(), width), "About", modal.WithMaxWidth(80))

	case commands.Help:
		bindings := append(m.registry.Bindings(), m.editor.BindingKeys()...)
		return m.openModal(dialog.NewHelpDialog(bindings, m.modalWidth(90)), "Keys")

	case commands.Palette:
		return m.openModal(dialog.NewPaletteDialog(m.paletteItems()), "Commands", modal.WithMaxWidth(70))

	case commands.Logs:
		var recent []logging.Log
		if m.app.Logs != nil {
			recent = m.app.Logs.Recent()
		}
		height := max(m.height-12, 5)
		return m.openModal(dialog.NewLogsDialog(recent, m.modalWidth(110), height), "Logs")

	case commands.Quit:
		return tea.Quit
	}
	slog.Warn("unknown command", "name", name)
	return nil
}

// action runs an export off the event loop.
func (m *appModel) action(name string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{name: name, err: fn(ctx)}
	}
}

func (m *appModel) loadExample(name string) tea.Cmd {
	examples := app.Examples()
	idx := -1
	for i, ex := range examples {
		if ex.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(examples) {
			idx = i
		} else {
			idx = m.exampleIdx % len(examples)
			m.exampleIdx++
		}
	}

	ex := examples[idx]
	m.debounceSeq++
	m.editor.SetValue(ex.Text)
	job, err := m.app.LoadExample(m.ctx, ex)
	m.refresh()
	if err != nil || job == nil {
		return nil
	}
	return waitForJob(m.ctx, job)
}

func next[T comparable](all []T, cur T) T {
	for i, v := range all {
		if v == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (m *appModel) openModal(content modal.Content, title string, opts ...modal.ModalOption) tea.Cmd {
	opts = append([]modal.ModalOption{modal.WithTitle(title)}, opts...)
	m.modal = modal.New(content, opts...)
	m.modal, _ = m.modal.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.editor.Blur()
	return nil
}

func (m *appModel) modalWidth(limit int) int {
	w := m.width - 14
	if w <= 0 {
		w = 54
	}
	return min(w, limit)
}

func (m *appModel) paletteItems() []dialog.PaletteItem {
	var items []dialog.PaletteItem
	for _, c := range m.registry {
		if c.Name == commands.Palette {
			continue
		}
		items = append(items, dialog.PaletteItem{
			Title:       titleCase(c.Name),
			Description: c.Description,
			Key:         c.KeyBinding.Help().Key,
			Msg:         commands.ExecuteCommandMsg{Name: c.Name},
		})
	}
	for _, s := range qr.Sizes() {
		items = append(items, dialog.PaletteItem{
			Title:       "Size: " + s.Label(),
			Description: "set the output size",
			Msg:         commands.ExecuteCommandMsg{Name: commands.Size, Arg: string(s)},
		})
	}
	for _, c := range qr.Colors() {
		items = append(items, dialog.PaletteItem{
			Title:       "Colour: " + c.Label(),
			Description: "set the foreground colour",
			Msg:         commands.ExecuteCommandMsg{Name: commands.Color, Arg: string(c)},
		})
	}
	for _, ex := range app.Examples() {
		items = append(items, dialog.PaletteItem{
			Title:       "Example: " + ex.Name,
			Description: ex.Text,
			Msg:         commands.ExecuteCommandMsg{Name: commands.Example, Arg: ex.Name},
		})
	}
	return items
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// click maps a left click to the zone under the pointer.
func (m *appModel) click(msg tea.MouseMsg) tea.Cmd {
	for _, s := range qr.Sizes() {
		if zone.Get(sizeZone(s)).InBounds(msg) {
			return util.CmdHandler(commands.ExecuteCommandMsg{Name: commands.Size, Arg: string(s)})
		}
	}
	for _, c := range qr.Colors() {
		if zone.Get(colorZone(c)).InBounds(msg) {
			return util.CmdHandler(commands.ExecuteCommandMsg{Name: commands.Color, Arg: string(c)})
		}
	}
	for _, name := range actionButtons {
		if zone.Get(actionZone(name)).InBounds(msg) {
			return util.CmdHandler(commands.ExecuteCommandMsg{Name: name})
		}
	}
	for _, ex := range app.Examples() {
		if zone.Get(exampleZone(ex.Name)).InBounds(msg) {
			return util.CmdHandler(commands.ExecuteCommandMsg{Name: commands.Example, Arg: ex.Name})
		}
	}
	return nil
}

var actionButtons = []string{
	commands.Generate,
	commands.Download,
	commands.Copy,
	commands.Share,
	commands.Theme,
}

func sizeZone(s qr.Size) string     { return "size:" + string(s) }
func colorZone(c qr.Color) string   { return "color:" + string(c) }
func actionZone(name string) string { return "action:" + name }
func exampleZone(name string) string {
	return "example:" + name
}

// panelWidths splits the body into the controls and preview columns.
func (m *appModel) panelWidths() (int, int) {
	if m.state.Compact {
		return m.width, m.width
	}
	left := util.Clamp(m.width*2/5, 44, 64)
	return left, m.width - left
}

func (m *appModel) bodyHeight() int {
	return max(m.height-headerHeight-statusHeight, 0)
}

func (m *appModel) resize() {
	left, right := m.panelWidths()
	// border and padding
	m.editor.SetSize(max(left-4, 10), editorHeight)
	previewHeight := m.bodyHeight() - 3
	if m.state.Compact {
		previewHeight = m.bodyHeight() - editorHeight - 12
	}
	m.preview.SetSize(max(right-4, 10), max(previewHeight, 3))
}

func (m *appModel) header() string {
	t := theme.Current()
	title := styles.GradientText(styles.AppIcon + " glassqr")
	subtitle := lipgloss.NewStyle().Foreground(t.TextMuted).Render("  QR code studio")
	return lipgloss.JoinHorizontal(lipgloss.Top, " ", title, subtitle) + "\n"
}

func (m *appModel) controls(width int) string {
	t := theme.Current()
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Width(8)

	var sizes []string
	for _, s := range qr.Sizes() {
		short := strings.Fields(s.Label())[0]
		sizes = append(sizes, zone.Mark(sizeZone(s), styles.Button(short, s == m.state.Size, false)), " ")
	}

	var colors []string
	for _, c := range qr.Colors() {
		colors = append(colors, zone.Mark(colorZone(c), styles.Swatch(c.Hex(), c == m.state.Color)), " ")
	}
	colors = append(colors, lipgloss.NewStyle().Foreground(t.Text).Render(m.state.Color.Label()))

	ready := m.state.Ready()
	generateLabel := "Generate"
	if m.generating() {
		generateLabel = "Generating…"
	}
	actions := []string{
		zone.Mark(actionZone(commands.Generate), styles.Button(generateLabel, true, m.generating())), " ",
		zone.Mark(actionZone(commands.Download), styles.Button(styles.SaveIcon+" Save", false, !ready)), " ",
		zone.Mark(actionZone(commands.Copy), styles.Button(styles.CopyIcon+" Copy", false, !ready)), " ",
		zone.Mark(actionZone(commands.Share), styles.Button(styles.LinkIcon+" Share", false, !ready)), " ",
		zone.Mark(actionZone(commands.Theme), styles.Button(styles.ThemeIcon, false, false)),
	}

	var examples []string
	link := lipgloss.NewStyle().Foreground(t.Secondary).Underline(true)
	for i, ex := range app.Examples() {
		if i > 0 {
			examples = append(examples, lipgloss.NewStyle().Foreground(t.TextMuted).Render(" · "))
		}
		examples = append(examples, zone.Mark(exampleZone(ex.Name), link.Render(ex.Name)))
	}

	rows := []string{
		styles.Bold().Background(t.BackgroundPanel).Render("Text or link"),
		m.editor.View(),
		lipgloss.JoinHorizontal(lipgloss.Center, append([]string{label.Render("Size")}, sizes...)...),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, append([]string{label.Render("Colour")}, colors...)...),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, actions...),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, append([]string{label.Render("Try")}, examples...)...),
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *appModel) previewPanel(width int) string {
	t := theme.Current()
	title := styles.Bold().Background(t.BackgroundPanel).Render("Preview")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", lipgloss.NewStyle().Width(width).Render(m.preview.View()))
}

func (m *appModel) body() string {
	left, right := m.panelWidths()
	panel := styles.Panel()

	controls := m.controls(left - 4)
	pv := m.previewPanel(right - 4)

	if m.state.Compact {
		return lipgloss.JoinVertical(lipgloss.Left,
			panel.Width(left-2).Render(controls),
			panel.Width(right-2).Render(pv),
		)
	}
	height := max(m.bodyHeight()-2, lipgloss.Height(controls))
	return lipgloss.JoinHorizontal(lipgloss.Top,
		panel.Width(left-2).Height(height).Render(controls),
		panel.Width(right-2).Height(height).Render(pv),
	)
}

func (m *appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading…"
	}
	t := theme.Current()

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		m.body(),
	)
	view = lipgloss.Place(m.width, m.height-statusHeight, lipgloss.Left, lipgloss.Top, view,
		lipgloss.WithWhitespaceBackground(t.Background))
	view = lipgloss.JoinVertical(lipgloss.Left, view, m.status.View())

	if m.modal != nil {
		view = m.modal.Render(view)
	}
	view = m.toasts.RenderOverlay(view)
	return zone.Scan(view)
}
