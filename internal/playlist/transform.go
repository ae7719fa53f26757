package playlist

// StateChange is the canonical shape broadcast to session subscribers.
type StateChange struct {
	Play    bool         `json:"play"`
	Track   *Track       `json:"track"`
	Queue   []QueueEntry `json:"queue"`
	Trigger string       `json:"trigger"`
}

// NewStateChange normalizes a stored playlist document into the broadcast
// shape. Tolerates a missing current track and a missing queue.
func NewStateChange(pl *Playlist, trigger string) StateChange {
	sc := StateChange{
		Queue:   []QueueEntry{},
		Trigger: trigger,
	}
	if pl == nil {
		return sc
	}
	sc.Play = pl.Play
	sc.Track = pl.Current
	if pl.Tracks != nil {
		sc.Queue = pl.Tracks
	}
	return sc
}
