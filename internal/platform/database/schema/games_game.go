package schema

// GameTable represents the 'games.game' table
type GameTable struct {
	Table      string
	ID         string
	UserID     string
	Host       string
	Guest      string
	Moves      string
	Outcome    string
	WinLine    string
	StartedAt  string
	FinishedAt string
}

// Game is the schema definition for games.game
var Game = GameTable{
	Table:      "games.game",
	ID:         "id",
	UserID:     "userid",
	Host:       "host",
	Guest:      "guest",
	Moves:      "moves",
	Outcome:    "outcome",
	WinLine:    "winline",
	StartedAt:  "startedat",
	FinishedAt: "finishedat",
}

// Columns returns all standard column names
func (t GameTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Host, t.Guest, t.Moves, t.Outcome, t.WinLine, t.StartedAt, t.FinishedAt}
}
