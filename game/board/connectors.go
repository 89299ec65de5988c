package board

// Kind tells ladders and snakes apart when drawing connectors.
type Kind string

const (
	KindLadder Kind = "ladder"
	KindSnake  Kind = "snake"
)

// Connector is the drawable geometry of one ladder or snake.
//
// Ladders are straight segments from Start to End. Snakes are quadratic
// curves from Start (the head) to End (the tail) bent through Control.
type Connector struct {
	Kind    Kind  `json:"kind"`
	From    int   `json:"from"`
	To      int   `json:"to"`
	Start   Point `json:"start"`
	End     Point `json:"end"`
	Control Point `json:"control"`
}

// Line builds the straight connector for a ladder from its foot to its top.
func Line(from, to int, cellSize float64) (Connector, error) {
	start, err := Center(from, cellSize)
	if err != nil {
		return Connector{}, err
	}
	end, err := Center(to, cellSize)
	if err != nil {
		return Connector{}, err
	}

	return Connector{
		Kind:    KindLadder,
		From:    from,
		To:      to,
		Start:   start,
		End:     end,
		Control: midpoint(start, end),
	}, nil
}

// Curve builds the curved connector for a snake from its head to its tail.
// The control point is the midpoint pushed sideways by a quarter of the
// head-to-tail vector, rotated a quarter turn.
func Curve(head, tail int, cellSize float64) (Connector, error) {
	start, err := Center(head, cellSize)
	if err != nil {
		return Connector{}, err
	}
	end, err := Center(tail, cellSize)
	if err != nil {
		return Connector{}, err
	}

	mid := midpoint(start, end)
	control := Point{
		X: mid.X + (start.Y-end.Y)/4,
		Y: mid.Y - (start.X-end.X)/4,
	}

	return Connector{
		Kind:    KindSnake,
		From:    head,
		To:      tail,
		Start:   start,
		End:     end,
		Control: control,
	}, nil
}

// PointAt samples a connector at t in [0, 1]. Ladders interpolate linearly,
// snakes follow the quadratic Bézier.
func (c Connector) PointAt(t float64) Point {
	if c.Kind == KindLadder {
		return Point{
			X: c.Start.X + (c.End.X-c.Start.X)*t,
			Y: c.Start.Y + (c.End.Y-c.Start.Y)*t,
		}
	}

	u := 1 - t
	return Point{
		X: u*u*c.Start.X + 2*u*t*c.Control.X + t*t*c.End.X,
		Y: u*u*c.Start.Y + 2*u*t*c.Control.Y + t*t*c.End.Y,
	}
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
