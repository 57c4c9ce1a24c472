package store

import "context"

// Snapshot is the persisted viewer state. The three entries are
// independent: a skin source may legitimately be stored without a player
// name (direct file upload), and the animation preference outlives both
type Snapshot struct {
	// CurrentSkin contains a remote texture url or an embedded data url of an uploaded skin
	CurrentSkin string
	// CurrentPlayerName contains the resolved player name or an empty string when unknown
	CurrentPlayerName string
	// AnimationEnabled contains "true", "false" or an empty string when the preference was never set
	AnimationEnabled string
}

// AnimationOn interprets the stored preference. An unset value defaults to enabled
func (s *Snapshot) AnimationOn() bool {
	return s == nil || s.AnimationEnabled != "false"
}

type ViewStateStore interface {
	// Snapshot returns nil when nothing has ever been stored
	Snapshot(ctx context.Context) (*Snapshot, error)
	// SetCurrentSkin overwrites the skin source. An empty playerName removes
	// the name entry instead of storing an empty string
	SetCurrentSkin(ctx context.Context, source string, playerName string) error
	// ClearCurrentSkin removes the skin and name entries, keeping the animation preference
	ClearCurrentSkin(ctx context.Context) error
	SetAnimationEnabled(ctx context.Context, enabled bool) error
	Ping(ctx context.Context) error
}

func formatBool(enabled bool) string {
	if enabled {
		return "true"
	}

	return "false"
}
