package engine

// TableStats summarizes a transition table for board analysis.
type TableStats struct {
	Ladders       int          `json:"ladders"`
	Snakes        int          `json:"snakes"`
	LongestClimb  Transition   `json:"longest_climb"`
	LongestSlide  Transition   `json:"longest_slide"`
	TotalClimb    int          `json:"total_climb"`
	TotalSlide    int          `json:"total_slide"`
	Chained       []Transition `json:"chained,omitempty"`
	FinalApproach []Transition `json:"final_approach,omitempty"`
}

// AnalyzeTable computes summary statistics for a table. Chained lists jumps
// whose destination is itself a trigger (the second jump is never taken).
// FinalApproach lists snakes in the last row.
func AnalyzeTable(t *TransitionTable) TableStats {
	var stats TableStats
	for _, tr := range t.Triggers() {
		span := abs(tr.To - tr.From)
		switch tr.Kind {
		case Ladder:
			stats.Ladders++
			stats.TotalClimb += span
			if span > abs(stats.LongestClimb.To-stats.LongestClimb.From) {
				stats.LongestClimb = tr
			}
		case Snake:
			stats.Snakes++
			stats.TotalSlide += span
			if span > abs(stats.LongestSlide.To-stats.LongestSlide.From) {
				stats.LongestSlide = tr
			}
			if tr.From > FinishSquare-10 {
				stats.FinalApproach = append(stats.FinalApproach, tr)
			}
		}
		if t.IsTrigger(tr.To) {
			stats.Chained = append(stats.Chained, tr)
		}
	}
	return stats
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
