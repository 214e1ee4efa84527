package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/sudoku-rooms-backend/internal/hub"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/puzzle"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/room"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/types"
)

const (
	joinTimeout  = 30 * time.Second
	writeTimeout = 3 * time.Second
)

// Handler runs one player connection: the first frame must be a join-room,
// after that frames are forwarded to the room actor. A disconnect only
// unregisters the delivery channel; it never forfeits the player.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		joinCtx, cancel := context.WithTimeout(r.Context(), joinTimeout)
		_, data, err := conn.Read(joinCtx)
		cancel()
		if err != nil {
			return
		}

		var join types.ClientMessage
		if err := json.Unmarshal(data, &join); err != nil || join.Type != types.EvtJoinRoom {
			writeError(r.Context(), conn, "expected join-room")
			return
		}
		if join.RoomID == "" || join.UserName == "" {
			writeError(r.Context(), conn, "missing roomId or userName")
			return
		}
		showOthers := true
		if join.ShowOthers != nil {
			showOthers = *join.ShowOthers
		}
		difficulty := puzzle.Difficulty(join.Difficulty)
		if difficulty == "" {
			difficulty = puzzle.Easy
		}

		reply := make(chan *room.Session, 1)
		h.Inbox() <- hub.EnsureRoom{
			ID:         join.RoomID,
			Difficulty: difficulty,
			ShowOthers: showOthers,
			Reply:      reply,
		}
		rs := <-reply

		connID := uuid.NewString()
		outbox := make(chan types.ServerMessage, 16)
		rs.Inbox() <- room.Join{ConnID: connID, PlayerName: join.UserName, Outbox: outbox}
		defer func() { rs.Inbox() <- room.Leave{ConnID: connID} }()

		clog := log.With(
			zap.String("conn", connID),
			zap.String("room", join.RoomID),
			zap.String("player", join.UserName))

		// Writer goroutine: drains the outbox until the room closes it.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range outbox {
				payload, err := json.Marshal(msg)
				if err != nil {
					clog.Warn("marshal outbound", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
					clog.Debug("write failed", zap.Error(err))
				}
				cancel()
			}
		}()

		// Reader loop. No idle timeout: a player staring at the grid for
		// minutes is normal.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					clog.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			switch cm.Type {
			case types.EvtCellUpdate:
				rs.Inbox() <- room.CellEdit{
					ConnID:     connID,
					PlayerName: join.UserName,
					Row:        cm.Row,
					Col:        cm.Col,
					Value:      cm.Value,
				}
			case types.EvtPlayerFinished:
				rs.Inbox() <- room.Finish{
					ConnID:     connID,
					PlayerName: finisherName(cm, join.UserName),
					Elapsed:    cm.Time,
				}
			case types.EvtProgressUpdate:
				rs.Inbox() <- room.Progress{
					PlayerName: finisherName(cm, join.UserName),
					Progress:   cm.Progress,
				}
			case types.EvtGameWon:
				rs.Inbox() <- room.GameWon{PlayerName: finisherName(cm, join.UserName)}
			case types.EvtPing:
				pong, _ := json.Marshal(types.ServerMessage{Type: types.EvtPong, Data: cm.Message})
				ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, pong)
				cancel()
			default:
				writeError(r.Context(), conn, "unknown type")
			}
		}
	}
}

// finisherName prefers the name in the payload, as the reference protocol
// does, falling back to the name used at join.
func finisherName(cm types.ClientMessage, joined string) string {
	if cm.UserName != "" {
		return cm.UserName
	}
	return joined
}

func writeError(ctx context.Context, conn *websocket.Conn, reason string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: types.EvtError, Data: reason})
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}
