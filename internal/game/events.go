package game

// Event types sent to session subscribers.
const (
	EventBallUpdate    = "ball_update"
	EventHit           = "hit"
	EventImpact        = "impact"
	EventStopped       = "stopped"
	EventHazard        = "hazard"
	EventOutOfBounds   = "out_of_bounds"
	EventShotResult    = "shot_result"
	EventReset         = "reset"
	EventSessionClosed = "session_closed"
)

// Event is a message about one session.
type Event struct {
	Type    string      `json:"type"`
	Session string      `json:"session"`
	Data    interface{} `json:"data,omitempty"`
}

// Broadcaster delivers events to the clients watching a session.
type Broadcaster interface {
	BroadcastToSession(token string, message interface{})
}
