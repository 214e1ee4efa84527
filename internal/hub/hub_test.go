package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/sudoku-rooms-backend/internal/puzzle"
	"github.com/DoyleJ11/sudoku-rooms-backend/internal/room"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, puzzle.NewSource(1, 1), zap.NewNop())
}

func ensure(t *testing.T, h *Hub, id string, d puzzle.Difficulty) *room.Session {
	t.Helper()
	reply := make(chan *room.Session, 1)
	h.Inbox() <- EnsureRoom{ID: id, Difficulty: d, ShowOthers: true, Reply: reply}
	select {
	case rs := <-reply:
		return rs
	case <-time.After(time.Second):
		t.Fatalf("timed out ensuring room %q", id)
		return nil // unreachable
	}
}

func roomView(t *testing.T, rs *room.Session) room.View {
	t.Helper()
	reply := make(chan room.View, 1)
	rs.Inbox() <- room.GetState{Reply: reply}
	select {
	case v := <-reply:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out reading room state")
		return room.View{} // unreachable
	}
}

func TestHub_Ensure_Get_SamePointer(t *testing.T) {
	h := newTestHub(t)

	rs1 := ensure(t, h, "r1", puzzle.Easy)

	reply := make(chan *room.Session, 1)
	h.Inbox() <- GetRoom{ID: "r1", Reply: reply}
	rs2 := <-reply

	if rs1 == nil || rs1 != rs2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_SecondEnsureIgnoresDifficulty(t *testing.T) {
	h := newTestHub(t)

	rs1 := ensure(t, h, "r1", puzzle.Easy)
	rs2 := ensure(t, h, "r1", puzzle.Hard)

	if rs1 != rs2 {
		t.Fatalf("second ensure must return the first session")
	}
	v := roomView(t, rs2)
	if v.Difficulty != puzzle.Easy {
		t.Fatalf("difficulty fixed at creation; got %q", v.Difficulty)
	}
	if v.Puzzle != roomView(t, rs1).Puzzle {
		t.Fatalf("puzzle must not change on later joins")
	}
}

func TestHub_GetRoom_UnknownIsNil(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *room.Session, 1)
	h.Inbox() <- GetRoom{ID: "nope", Reply: reply}
	if rs := <-reply; rs != nil {
		t.Fatalf("unknown room should be nil")
	}
}

func TestHub_ConcurrentEnsure_CreatesOneSession(t *testing.T) {
	h := newTestHub(t)

	const n = 16
	sessions := make([]*room.Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = ensure(t, h, "race", puzzle.Medium)
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if sessions[i] != sessions[0] {
			t.Fatalf("concurrent first joins created multiple sessions")
		}
	}
}

func TestHub_RemoveRoom(t *testing.T) {
	h := newTestHub(t)
	_ = ensure(t, h, "r1", puzzle.Easy)

	h.Inbox() <- RemoveRoom{ID: "r1"}

	reply := make(chan *room.Session, 1)
	h.Inbox() <- GetRoom{ID: "r1", Reply: reply}
	if rs := <-reply; rs != nil {
		t.Fatalf("room should be gone after remove")
	}
}
