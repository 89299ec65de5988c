package engine

// Player identifies one of the two seats. Only 1 and 2 are valid.
type Player int

const (
	PlayerOne Player = 1
	PlayerTwo Player = 2

	// Players is the number of seats at the table.
	Players = 2
	// FinishSquare is the threshold for a win. Positions may pass it.
	FinishSquare = 100
	// DieFaces is the number of faces on the die.
	DieFaces = 6
)

// Valid reports whether p is a seat at the table.
func (p Player) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

// Other returns the opposing seat.
func (p Player) Other() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (p Player) index() int {
	return int(p) - 1
}

// EventKind names the audio-relevant events emitted while a turn resolves.
type EventKind string

const (
	EventRoll   EventKind = "roll"
	EventMove   EventKind = "move"
	EventLadder EventKind = "ladder"
	EventSnake  EventKind = "snake"
	EventWin    EventKind = "win"
)

// Event is one emitted game event, in causal order.
type Event struct {
	Kind   EventKind `json:"kind"`
	Player Player    `json:"player"`
	Square int       `json:"square"`
}

// MovePhase is the stage of an in-flight move.
type MovePhase string

const (
	PhaseWalking  MovePhase = "walking"
	PhaseJumping  MovePhase = "jumping"
	PhaseSettling MovePhase = "settling"
)

// Pause tells the scheduler what kind of delay should precede the next tick.
type Pause string

const (
	PauseNone   Pause = ""
	PauseStep   Pause = "step"
	PauseJump   Pause = "jump"
	PauseSettle Pause = "settle"
)

// MoveInProgress is the resumable part of a turn that has been rolled but
// not yet fully applied.
type MoveInProgress struct {
	Player            Player      `json:"player"`
	RemainingSteps    int         `json:"remaining_steps"`
	Phase             MovePhase   `json:"phase"`
	PendingTransition *Transition `json:"pending_transition,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	CurrentPlayer Player          `json:"current_player"`
	Positions     [Players]int    `json:"positions"`
	DiceValue     int             `json:"dice_value"`
	GameOver      bool            `json:"game_over"`
	Winner        Player          `json:"winner,omitempty"`
	IsMoving      bool            `json:"is_moving"`
	Message       string          `json:"message"`
	Move          *MoveInProgress `json:"move,omitempty"`
}

// NewGameState returns the state every game starts from.
func NewGameState() GameState {
	return GameState{CurrentPlayer: PlayerOne}
}

// Position returns the square of player p, or 0 for an unknown seat.
func (s GameState) Position(p Player) int {
	if !p.Valid() {
		return 0
	}
	return s.Positions[p.index()]
}

// Clone returns a copy that shares no pointers with s.
func (s GameState) Clone() GameState {
	out := s
	if s.Move != nil {
		move := *s.Move
		if s.Move.PendingTransition != nil {
			tr := *s.Move.PendingTransition
			move.PendingTransition = &tr
		}
		out.Move = &move
	}
	return out
}

// Snapshot is the read-only view a renderer needs to draw a frame.
type Snapshot struct {
	Player1Position int         `json:"player1_position"`
	Player2Position int         `json:"player2_position"`
	CurrentPlayer   Player      `json:"current_player"`
	DiceValue       int         `json:"dice_value"`
	Message         string      `json:"message"`
	GameOver        bool        `json:"game_over"`
	IsMoving        bool        `json:"is_moving"`
	Ladders         map[int]int `json:"ladders"`
	Snakes          map[int]int `json:"snakes"`
}

// RollRejection explains why a roll request was ignored.
type RollRejection string

const (
	RollAccepted       RollRejection = ""
	RejectGameOver     RollRejection = "game_over"
	RejectNotYourTurn  RollRejection = "not_your_turn"
	RejectMoveInFlight RollRejection = "move_in_progress"
	RejectInvalidSeat  RollRejection = "invalid_player"
)

// Messages holds the narrative templates. Each takes the player number.
type Messages struct {
	Ladder string `json:"ladder"`
	Snake  string `json:"snake"`
	Win    string `json:"win"`
}

// DefaultMessages returns the stock narratives.
func DefaultMessages() Messages {
	return Messages{
		Ladder: "Player %d climbed a ladder!",
		Snake:  "Player %d hit a snake!",
		Win:    "Player %d wins!",
	}
}
