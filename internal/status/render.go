// internal/status/render.go
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("12")).
	Background(lipgloss.Color("235")).
	Padding(0, 1)

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241"))

var labelStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("12")).
	Bold(true)

var okStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("10"))

var badStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("9")).
	Bold(true)

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("11"))

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// Render formats the operator status menu.
func Render(s Snapshot) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(s.Device + " CONTROLLER"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("0=Off 1=Reduced 2=Normal 3=Auto"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r=Read a=AutoRead i=Interval m=Menu"))
	b.WriteString("\n")

	auto := badStyle.Render("OFF")
	if s.Schedule.AutoEnabled {
		auto = okStyle.Render("ON")
	}

	lines := []string{
		fmt.Sprintf("%s %s (%ds)", labelStyle.Render("Auto:"), auto, int(s.Schedule.Interval.Seconds())),
		fmt.Sprintf("%s %s", labelStyle.Render("Link:"), stateText(s.Connection.Link)),
		fmt.Sprintf("%s %s", labelStyle.Render("MQTT:"), stateText(s.Connection.Session)),
		fmt.Sprintf("%s %s", labelStyle.Render("Health:"), healthText(s.Health)),
		fmt.Sprintf("%s %s", labelStyle.Render("Uptime:"), formatUptime(s.UptimeMs)),
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	return b.String()
}

func stateText(st State) string {
	switch st {
	case Connected:
		return okStyle.Render("OK")
	case Connecting:
		return warnStyle.Render("CONNECTING")
	default:
		return badStyle.Render("NO")
	}
}

func healthText(h Health) string {
	name := strings.ToUpper(HealthName(h.Code))
	switch h.Code {
	case HealthOK:
		return okStyle.Render(name)
	case HealthError, HealthStale:
		return badStyle.Render(fmt.Sprintf("%s (%d failed, %ds)", name, h.Failed, h.SecondsInError))
	default:
		return warnStyle.Render(name)
	}
}

func formatUptime(ms int64) string {
	secs := ms / 1000
	h := secs / 3600
	m := (secs % 3600) / 60
	sec := secs % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
