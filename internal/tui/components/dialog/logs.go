package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glassqr/glassqr/internal/logging"
	"github.com/glassqr/glassqr/internal/pubsub"
	"github.com/glassqr/glassqr/internal/tui/components/modal"
	"github.com/glassqr/glassqr/internal/tui/layout"
	"github.com/glassqr/glassqr/internal/tui/theme"
)

// LogsDialog shows the most recent log records, newest first.
type LogsDialog struct {
	table table.Model
	logs  []logging.Log
	limit int
}

func NewLogsDialog(recent []logging.Log, width, height int) *LogsDialog {
	columns := []table.Column{
		{Title: "Time", Width: 8},
		{Title: "Level", Width: 7},
		{Title: "Message", Width: 30},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	d := &LogsDialog{table: t, limit: logging.DefaultRecentLimit}
	// newest first
	for i := len(recent) - 1; i >= 0; i-- {
		d.logs = append(d.logs, recent[i])
	}
	d.SetSize(width, height)
	d.updateRows()
	return d
}

func (d *LogsDialog) SetSize(width, height int) {
	d.table.SetWidth(width)
	d.table.SetHeight(max(height, 3))

	columns := d.table.Columns()
	timeWidth := 8
	levelWidth := 7
	columns[0].Width = timeWidth
	columns[1].Width = levelWidth
	columns[2].Width = max(width-timeWidth-levelWidth-6, 10)
	d.table.SetColumns(columns)
}

func (d *LogsDialog) Len() int {
	return len(d.logs)
}

func (d *LogsDialog) Update(msg tea.Msg) (modal.Content, tea.Cmd) {
	switch msg := msg.(type) {
	case pubsub.Event[logging.Log]:
		if msg.Type == logging.EventLogCreated {
			d.logs = append([]logging.Log{msg.Payload}, d.logs...)
			if len(d.logs) > d.limit {
				d.logs = d.logs[:d.limit]
			}
			d.updateRows()
		}
		return d, nil
	case tea.KeyMsg:
		if key.Matches(msg, closeKey) {
			return d, closeDialog()
		}
	}

	var cmd tea.Cmd
	d.table, cmd = d.table.Update(msg)
	return d, cmd
}

func (d *LogsDialog) updateRows() {
	rows := make([]table.Row, 0, len(d.logs))
	for _, log := range d.logs {
		rows = append(rows, table.Row{
			log.Timestamp.Local().Format("15:04:05"),
			log.Level,
			log.Message,
		})
	}
	d.table.SetRows(rows)
}

func (d *LogsDialog) View() string {
	t := theme.Current()
	s := table.DefaultStyles()
	s.Selected = s.Selected.Foreground(t.Primary)
	d.table.SetStyles(s)
	return d.table.View()
}

func (d *LogsDialog) BindingKeys() []key.Binding {
	return append(layout.KeyMapToSlice(d.table.KeyMap), closeKey)
}
