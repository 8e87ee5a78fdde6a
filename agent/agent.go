package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/arquen/warmind/ipc"
	"github.com/arquen/warmind/tactics"
)

// Agent owns the decision-making for a single side's session. The tactics
// context is created at hello time and lives for the whole game.
type Agent struct {
	Conn     *ipc.Connection
	Side     string
	Profiles map[string]tactics.Doctrine // named overrides loaded at startup

	ctx *tactics.Context
}

func New(conn *ipc.Connection, profiles map[string]tactics.Doctrine) *Agent {
	return &Agent{Conn: conn, Profiles: profiles}
}

// HandleHello completes the handshake: binds the connection to a side,
// builds the tactics context at the requested difficulty, and applies any
// named doctrine override.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}
	if hello.Side == "" {
		return nil, fmt.Errorf("hello missing side")
	}

	var rng *rand.Rand
	if hello.Seed != 0 {
		rng = rand.New(rand.NewSource(hello.Seed))
	}
	a.Side = hello.Side
	if a.Conn != nil {
		a.Conn.Side = hello.Side
	}
	a.ctx = tactics.NewContext(hello.Side, hello.Difficulty, rng)

	if hello.Doctrine != "" {
		doc, ok := a.Profiles[hello.Doctrine]
		if !ok {
			return nil, fmt.Errorf("unknown doctrine %q", hello.Doctrine)
		}
		a.ctx.Doctrine = doc
	}

	slog.Info("side identified",
		"side", a.Side,
		"difficulty", a.ctx.Difficulty,
		"doctrine", a.ctx.Doctrine.Name,
	)

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleDecide answers one decision request with exactly one action. The
// snapshot is normalized once here so the engine reads typed, defaulted data.
func (a *Agent) HandleDecide(env ipc.Envelope) (*ipc.Envelope, error) {
	if a.ctx == nil {
		return nil, fmt.Errorf("decide before hello")
	}

	var req ipc.DecideRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		return nil, fmt.Errorf("unmarshal decide request: %w", err)
	}
	req.Snapshot.Normalize()

	action := a.ctx.Decide(req.Phase, &req.Snapshot, req.Legal)

	slog.Info("decision",
		"side", a.Side,
		"round", req.Snapshot.Round,
		"phase", req.Phase,
		"action", action.Kind,
		"actor", action.Actor,
		"rationale", action.Rationale,
	)

	reply, err := ipc.NewEnvelope(ipc.TypeAction, ipc.ActionReply{Action: action})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}
