package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/snakes-and-ladders/game/board"
	"github.com/wricardo/snakes-and-ladders/game/engine"
)

var (
	ladderColor  = lipgloss.Color("34")
	snakeColor   = lipgloss.Color("160")
	playerColors = [engine.Players]lipgloss.Color{lipgloss.Color("33"), lipgloss.Color("214")}

	cellStyle   = lipgloss.NewStyle().Width(6).Align(lipgloss.Right)
	ladderStyle = cellStyle.Foreground(ladderColor)
	snakeStyle  = cellStyle.Foreground(snakeColor)
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).Padding(0, 1)

	titleStyle   = lipgloss.NewStyle().Bold(true)
	messageStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Width(40).Align(lipgloss.Center)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderBoard draws the grid top row first. Trigger squares show where
// they lead: "2>38" for a ladder, "16v6" for a snake. Occupied squares
// show the tokens instead.
func renderBoard(snap engine.Snapshot) string {
	rows := board.Rows()
	lines := make([]string, 0, len(rows))

	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, square := range row {
			cells = append(cells, renderCell(square, snap))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderCell(square int, snap engine.Snapshot) string {
	if tokens := tokensOn(square, snap); tokens != "" {
		return cellStyle.Render(tokens)
	}
	if to, ok := snap.Ladders[square]; ok {
		return ladderStyle.Render(fmt.Sprintf("%d>%d", square, to))
	}
	if to, ok := snap.Snakes[square]; ok {
		return snakeStyle.Render(fmt.Sprintf("%dv%d", square, to))
	}
	return cellStyle.Render(fmt.Sprint(square))
}

// tokensOn renders the players standing on square, or "".
func tokensOn(square int, snap engine.Snapshot) string {
	out := ""
	for i, pos := range []int{snap.Player1Position, snap.Player2Position} {
		// A winner past the last square is drawn on it
		if min(pos, board.Squares) == square {
			out += lipgloss.NewStyle().Foreground(playerColors[i]).Bold(true).Render(fmt.Sprintf("P%d", i+1))
		}
	}
	return out
}

// renderStart lists tokens that have not entered the board yet.
func renderStart(snap engine.Snapshot) string {
	out := "Start:"
	waiting := false
	for i, pos := range []int{snap.Player1Position, snap.Player2Position} {
		if pos == 0 {
			out += " " + lipgloss.NewStyle().Foreground(playerColors[i]).Render(fmt.Sprintf("P%d", i+1))
			waiting = true
		}
	}
	if !waiting {
		return ""
	}
	return out
}
