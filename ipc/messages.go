package ipc

import "github.com/arquen/warmind/model"

// These constants must stay in sync with the host's message type enum.
const (
	TypeHello  = "hello"
	TypeAck    = "ack"
	TypeDecide = "decide"
	TypeAction = "action"
)

// HelloMessage opens a session: which side the engine plays and at what
// difficulty tier. One connection per side.
type HelloMessage struct {
	Side       string `json:"side"`
	Difficulty int    `json:"difficulty"`
	Seed       int64  `json:"seed,omitempty"`
	Doctrine   string `json:"doctrine,omitempty"` // named profile override
}

// DecideRequest asks for exactly one action. The host owns legality: every
// entry in Legal has already passed its rules validation.
type DecideRequest struct {
	Phase    model.Phase          `json:"phase"`
	Snapshot model.BattleSnapshot `json:"snapshot"`
	Legal    []model.LegalAction  `json:"legal"`
}

// ActionReply carries the chosen action back to the host.
type ActionReply struct {
	Action model.Action `json:"action"`
}

type AckMessage struct {
	Status string `json:"status"`
}
