package types

// Event names on the realtime channel, both directions.
const (
	EvtJoinRoom           = "join-room"
	EvtRoomData           = "room-data"
	EvtPlayerJoined       = "player-joined"
	EvtUserJoined         = "user-joined"
	EvtCellUpdate         = "cell-update"
	EvtPlayerFinished     = "player-finished"
	EvtAllPlayersFinished = "all-players-finished"
	EvtProgressUpdate     = "progress-update"
	EvtProgressData       = "progress-data"
	EvtGameWon            = "game-won"
	EvtPing               = "ping"
	EvtPong               = "pong"
	EvtError              = "error"
)

// ClientMessage is the single client→server envelope; which fields matter
// depends on Type. Time is a pointer because null is meaningful: a
// player-finished carrying a null time is a forfeit.
type ClientMessage struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId,omitempty"`
	UserName   string `json:"userName,omitempty"`
	ShowOthers *bool  `json:"showOthers,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Value      string `json:"value"`
	Time       *int64 `json:"time,omitempty"`
	Progress   int    `json:"progress,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ServerMessage is the server→client envelope: an event name plus its
// payload. Payload shapes live next to the code that builds them.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}
