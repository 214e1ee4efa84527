package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/sudoku-rooms-backend/internal/puzzle"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/room"
	"github.com/DoyleJ11/sudoku-rooms-backend/pkg/metrics"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom returns the room for ID, creating it on first reference. Only
// the creating call consults Difficulty and ShowOthers; later callers get
// the existing session no matter what they asked for.
type EnsureRoom struct {
	ID         string
	Difficulty puzzle.Difficulty
	ShowOthers bool
	Reply      chan *room.Session
}

// GetRoom replies with the session or nil.
type GetRoom struct {
	ID    string
	Reply chan *room.Session
}

// RemoveRoom drops a session from the registry. Nothing in the serving
// path calls this: rooms live for the process lifetime.
type RemoveRoom struct{ ID string }

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub is the process-wide room registry. A single goroutine owns the map,
// so two concurrent first joins for the same id race inside one inbox and
// exactly one session is created; the loser gets the winner's instance.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Session
	source *puzzle.Source
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, source *puzzle.Source, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Session),
		source: source,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if rs := h.rooms[msg.ID]; rs != nil {
					msg.Reply <- rs
					break
				}
				pz := h.source.Random(msg.Difficulty)
				rs := room.NewSession(h.ctx, msg.ID, pz, msg.Difficulty, msg.ShowOthers, h.log)
				h.rooms[msg.ID] = rs
				metrics.RoomsCreated.Inc()
				h.log.Info("room created",
					zap.String("room", msg.ID), zap.String("difficulty", string(msg.Difficulty)))
				msg.Reply <- rs

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case RemoveRoom:
				delete(h.rooms, msg.ID)

			case ShutdownHub:
				for _, rs := range h.rooms {
					rs.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
				return
			}
		}
	}
}
