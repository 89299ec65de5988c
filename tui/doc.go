// Package tui is a terminal client for two players sharing one keyboard.
//
// The Model renders the board with lipgloss and turns key presses into
// roll requests on a game engine. Moves are animated by scheduling one
// engine tick per tea.Tick, waiting the pacing delay each tick asks for.
package tui
