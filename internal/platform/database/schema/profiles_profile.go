package schema

// ProfileTable represents the 'profiles.profile' table
type ProfileTable struct {
	Table      string
	ID         string
	UserID     string
	Username   string
	Theme      string
	GamesWon   string
	GamesLost  string
	GamesDrawn string
	CreatedAt  string
	UpdatedAt  string
}

// Profile is the schema definition for profiles.profile
var Profile = ProfileTable{
	Table:      "profiles.profile",
	ID:         "id",
	UserID:     "userid",
	Username:   "username",
	Theme:      "theme",
	GamesWon:   "gameswon",
	GamesLost:  "gameslost",
	GamesDrawn: "gamesdrawn",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t ProfileTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Username, t.Theme, t.GamesWon, t.GamesLost, t.GamesDrawn, t.CreatedAt, t.UpdatedAt}
}
