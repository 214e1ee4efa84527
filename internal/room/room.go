package room

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/sudoku-rooms-backend/internal/puzzle"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/types"
	"github.com/DoyleJ11/sudoku-rooms-backend/pkg/metrics"
)

type Msg interface{ isRoomMsg() }

// Join registers playerName under the connection and replies with the room
// snapshot on the connection's outbox. Re-joining with the same name resets
// the player's status, timer included.
type Join struct {
	ConnID     string
	PlayerName string
	Outbox     chan types.ServerMessage
}

func (Join) isRoomMsg() {}

// Leave unregisters the delivery channel only. The player's status stays:
// a disconnect is not a forfeit.
type Leave struct{ ConnID string }

func (Leave) isRoomMsg() {}

// CellEdit relays one cell change to the rest of the room. The server keeps
// no grid; edits against clue cells or a resolved room are dropped.
type CellEdit struct {
	ConnID     string
	PlayerName string
	Row, Col   int
	Value      string
}

func (CellEdit) isRoomMsg() {}

// Finish records a completion (Elapsed in milliseconds) or, with a nil
// Elapsed, a forfeit. Idempotent per player.
type Finish struct {
	ConnID     string
	PlayerName string
	Elapsed    *int64
}

func (Finish) isRoomMsg() {}

// Progress updates the player's self-reported fill percentage.
type Progress struct {
	PlayerName string
	Progress   int
}

func (Progress) isRoomMsg() {}

// GameWon relays a victory claim to the whole room.
type GameWon struct{ PlayerName string }

func (GameWon) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct{ Reply chan View }

func (GetState) isRoomMsg() {}

// PlayerStatus is the per-player record. Timestamps are unix milliseconds
// to match the wire format. A player is done once End is set or Forfeit is
// true, and never transitions back.
type PlayerStatus struct {
	Start    int64  `json:"start"`
	End      *int64 `json:"end"`
	Forfeit  bool   `json:"forfeit"`
	Progress int    `json:"progress"`
}

func (p PlayerStatus) done() bool {
	return p.End != nil || p.Forfeit
}

// Result is one ranking entry. Time is the elapsed milliseconds, null for a
// forfeit.
type Result struct {
	UserName string `json:"userName"`
	Time     *int64 `json:"time"`
}

// Snapshot is the room-data reply sent to a joiner.
type Snapshot struct {
	Puzzle     string                  `json:"puzzle"`
	Players    map[string]PlayerStatus `json:"players"`
	ShowOthers bool                    `json:"showOthers"`
	Difficulty string                  `json:"difficulty"`
}

// CellUpdate is the relayed edit payload.
type CellUpdate struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

// FinishNotice announces one player's finish; Time null means forfeit.
type FinishNotice struct {
	UserName string `json:"userName"`
	Time     *int64 `json:"time"`
}

// ProgressData carries the full roster after a progress update.
type ProgressData struct {
	Players map[string]PlayerStatus `json:"players"`
}

// WinNotice relays a game-won claim.
type WinNotice struct {
	UserName string `json:"userName"`
}

// View reflects internal state for tests without data races.
type View struct {
	Puzzle     puzzle.Grid
	ShowOthers bool
	Difficulty puzzle.Difficulty
	Resolved   bool
	NumClients int
	Players    map[string]PlayerStatus
	Order      []string
}

type client struct {
	name   string
	outbox chan types.ServerMessage
}

// Session owns one room: its puzzle, roster, visibility policy and
// completion state. A single goroutine consumes the inbox, so every
// mutation and its resolution check run in one actor turn.
type Session struct {
	inbox chan Msg

	id         string
	puzzle     puzzle.Grid
	difficulty puzzle.Difficulty
	showOthers bool

	players  map[string]*PlayerStatus
	order    []string // registration order, for ranking stability
	clients  map[string]*client
	resolved bool

	now    func() time.Time
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession starts the room actor. Puzzle and visibility are fixed here
// and never change.
func NewSession(parent context.Context, id string, pz puzzle.Grid, difficulty puzzle.Difficulty, showOthers bool, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:      make(chan Msg, 64),
		id:         id,
		puzzle:     pz,
		difficulty: difficulty,
		showOthers: showOthers,
		players:    make(map[string]*PlayerStatus),
		clients:    make(map[string]*client),
		now:        time.Now,
		log:        log.With(zap.String("room", id)),
		ctx:        ctx,
		cancel:     cancel,
	}
	go s.loop()
	return s
}

// Inbox is where the ws layer (and tests) send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.handleJoin(msg)
			case Leave:
				// Close the outbox so the connection's writer goroutine
				// exits; nothing else will ever send on it. The drop paths
				// remove the entry first, so no double close.
				if c, ok := s.clients[msg.ConnID]; ok {
					close(c.outbox)
					delete(s.clients, msg.ConnID)
				}
			case CellEdit:
				s.handleCellEdit(msg)
			case Finish:
				s.handleFinish(msg)
			case Progress:
				s.handleProgress(msg)
			case GameWon:
				s.broadcast(types.ServerMessage{
					Type: types.EvtGameWon,
					Data: WinNotice{UserName: msg.PlayerName},
				}, "")
			case GetState:
				msg.Reply <- View{
					Puzzle:     s.puzzle,
					ShowOthers: s.showOthers,
					Difficulty: s.difficulty,
					Resolved:   s.resolved,
					NumClients: len(s.clients),
					Players:    s.snapshotPlayers(),
					Order:      append([]string(nil), s.order...),
				}
			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleJoin(m Join) {
	if _, known := s.players[m.PlayerName]; !known {
		s.order = append(s.order, m.PlayerName)
	}
	// A returning name gets a fresh status: the timer restarts and done
	// flags clear. Known re-entry policy, not a bug.
	s.players[m.PlayerName] = &PlayerStatus{Start: s.now().UnixMilli()}
	s.clients[m.ConnID] = &client{name: m.PlayerName, outbox: m.Outbox}

	s.sendTo(m.ConnID, types.ServerMessage{
		Type: types.EvtRoomData,
		Data: Snapshot{
			Puzzle:     string(s.puzzle),
			Players:    s.snapshotPlayers(),
			ShowOthers: s.showOthers,
			Difficulty: string(s.difficulty),
		},
	})
	s.broadcast(types.ServerMessage{Type: types.EvtPlayerJoined, Data: m.PlayerName}, m.ConnID)
	s.broadcast(types.ServerMessage{Type: types.EvtUserJoined, Data: m.PlayerName}, "")
	s.log.Info("player joined", zap.String("player", m.PlayerName))
}

func (s *Session) handleCellEdit(m CellEdit) {
	if s.resolved {
		return
	}
	if m.Row < 0 || m.Row >= 9 || m.Col < 0 || m.Col >= 9 || !validCellValue(m.Value) {
		s.log.Debug("dropping malformed cell edit",
			zap.String("player", m.PlayerName), zap.Int("row", m.Row), zap.Int("col", m.Col))
		return
	}
	if s.puzzle.IsClue(m.Row, m.Col) {
		s.log.Debug("dropping edit to clue cell",
			zap.String("player", m.PlayerName), zap.Int("row", m.Row), zap.Int("col", m.Col))
		return
	}
	if !s.showOthers {
		// Accepted but private: the edit stays local to the sender.
		return
	}
	s.broadcast(types.ServerMessage{
		Type: types.EvtCellUpdate,
		Data: CellUpdate{Row: m.Row, Col: m.Col, Value: m.Value},
	}, m.ConnID)
}

func (s *Session) handleFinish(m Finish) {
	if s.resolved {
		return
	}
	st, ok := s.players[m.PlayerName]
	if !ok || st.done() {
		// Unknown player or duplicate delivery.
		return
	}
	if m.Elapsed == nil {
		st.Forfeit = true
	} else {
		end := st.Start + *m.Elapsed
		st.End = &end
	}
	metrics.GamesFinished.Inc()
	s.broadcast(types.ServerMessage{
		Type: types.EvtPlayerFinished,
		Data: FinishNotice{UserName: m.PlayerName, Time: m.Elapsed},
	}, m.ConnID)

	if !s.allDone() {
		return
	}
	s.resolved = true
	s.broadcast(types.ServerMessage{
		Type: types.EvtAllPlayersFinished,
		Data: s.ranking(),
	}, "")
	s.log.Info("room resolved", zap.Int("players", len(s.players)))
}

func (s *Session) handleProgress(m Progress) {
	st, ok := s.players[m.PlayerName]
	if !ok {
		return
	}
	st.Progress = m.Progress
	s.broadcast(types.ServerMessage{
		Type: types.EvtProgressData,
		Data: ProgressData{Players: s.snapshotPlayers()},
	}, "")
}

func (s *Session) allDone() bool {
	for _, st := range s.players {
		if !st.done() {
			return false
		}
	}
	return len(s.players) > 0
}

// ranking orders timed players ascending by elapsed time, then forfeits in
// registration order. The sort is stable so equal times keep registration
// order too.
func (s *Session) ranking() []Result {
	results := make([]Result, 0, len(s.order))
	for _, name := range s.order {
		st := s.players[name]
		var t *int64
		if st.End != nil && !st.Forfeit {
			elapsed := *st.End - st.Start
			t = &elapsed
		}
		results = append(results, Result{UserName: name, Time: t})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Time == nil {
			return false
		}
		if results[j].Time == nil {
			return true
		}
		return *results[i].Time < *results[j].Time
	})
	return results
}

func (s *Session) snapshotPlayers() map[string]PlayerStatus {
	out := make(map[string]PlayerStatus, len(s.players))
	for name, st := range s.players {
		out[name] = *st
	}
	return out
}

// broadcast fans an event out to every client except exclude (empty string
// excludes no one). A client whose outbox is full is dropped: slow or dead
// connections must not stall the room.
func (s *Session) broadcast(msg types.ServerMessage, exclude string) {
	for id, c := range s.clients {
		if id == exclude {
			continue
		}
		select {
		case c.outbox <- msg:
			metrics.EventsBroadcast.Inc()
		default:
			s.log.Warn("dropping slow client",
				zap.String("conn", id), zap.String("player", c.name))
			metrics.ClientsDropped.Inc()
			close(c.outbox)
			delete(s.clients, id)
		}
	}
}

// sendTo delivers to one connection, same drop policy as broadcast.
func (s *Session) sendTo(connID string, msg types.ServerMessage) {
	c, ok := s.clients[connID]
	if !ok {
		return
	}
	select {
	case c.outbox <- msg:
		metrics.EventsBroadcast.Inc()
	default:
		s.log.Warn("dropping slow client", zap.String("conn", connID))
		metrics.ClientsDropped.Inc()
		close(c.outbox)
		delete(s.clients, connID)
	}
}

func (s *Session) shutdown() {
	for id, c := range s.clients {
		close(c.outbox)
		delete(s.clients, id)
	}
	s.cancel()
}

func validCellValue(v string) bool {
	if v == "" {
		return true
	}
	return len(v) == 1 && v[0] >= '1' && v[0] <= '9'
}
