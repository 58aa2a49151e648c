package editor

import "github.com/charmbracelet/lipgloss"

var (
	// statusBarStyle draws the status line in reverse video.
	statusBarStyle = lipgloss.NewStyle().Reverse(true)

	// cursorStyle renders the cursor cell as a block in normal mode.
	cursorStyle = lipgloss.NewStyle().Reverse(true)

	// insertCursorStyle renders the cursor cell in insert and command
	// mode, approximating a bar cursor.
	insertCursorStyle = lipgloss.NewStyle().Underline(true)

	// dangerStyle highlights error messages on the message line.
	dangerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("1")).
			Foreground(lipgloss.Color("15")).
			Bold(true)

	// modeMsgStyle renders the "-- INSERT --" indicator.
	modeMsgStyle = lipgloss.NewStyle().Bold(true)

	// tildeStyle dims the filler markers past the end of the buffer.
	tildeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "242"})

	// bannerStyle dims the welcome banner on an empty buffer.
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "246"})
)
