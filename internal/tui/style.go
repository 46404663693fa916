package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/linskybing/taskflow/internal/domain/ticket"
)

const (
	colorRed    = lipgloss.Color("#e5484d")
	colorOrange = lipgloss.Color("#f76b15")
	colorYellow = lipgloss.Color("#ffc53d")
	colorGreen  = lipgloss.Color("#46a758")
	colorBlue   = lipgloss.Color("#3e63dd")
	colorGray   = lipgloss.Color("#8b8d98")
	colorFaint  = lipgloss.Color("#3a3a40")
)

type typeDescriptor struct {
	Icon  string
	Color lipgloss.Color
}

var typeDescriptors = map[ticket.Type]typeDescriptor{
	ticket.TypeBug:     {Icon: "✖", Color: colorRed},
	ticket.TypeFeature: {Icon: "★", Color: colorYellow},
	ticket.TypeStory:   {Icon: "◆", Color: colorGreen},
}

func describeType(t ticket.Type) typeDescriptor {
	if d, ok := typeDescriptors[t]; ok {
		return d
	}
	return typeDescriptor{Icon: "■", Color: colorBlue}
}

var priorityColors = map[ticket.Priority]lipgloss.Color{
	ticket.PriorityCritical: colorRed,
	ticket.PriorityHigh:     colorOrange,
	ticket.PriorityMedium:   colorYellow,
}

func priorityColor(p ticket.Priority) lipgloss.Color {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return colorGray
}

var columnTitles = map[ticket.Status]string{
	ticket.StatusTodo:       "TO DO",
	ticket.StatusInProgress: "IN PROGRESS",
	ticket.StatusInReview:   "IN REVIEW",
	ticket.StatusDone:       "DONE",
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#edeef0"))

	columnTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGray)

	hoverTitleStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

	liftedStyle = lipgloss.NewStyle().Foreground(colorFaint)

	mutedStyle = lipgloss.NewStyle().Foreground(colorGray)

	noticeStyle = lipgloss.NewStyle().Foreground(colorOrange)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(0, 1)
)

// next cycles through set, wrapping at the end.
func next[T comparable](set []T, cur T) T {
	for i, v := range set {
		if v == cur {
			return set[(i+1)%len(set)]
		}
	}
	return set[0]
}
