package preview

import (
	"context"
	"io"
	"log"
	"testing"

	"blobtile/internal/autotile"
)

func TestHubSessionLifecycle(t *testing.T) {
	h := NewHub(testCatalog(t), autotile.ModeBackgroundBlend, log.New(io.Discard, "", 0))
	ctx := context.Background()

	id, ch := h.AddSession("ann")
	if h.Active() != 1 {
		t.Fatalf("Active = %d, want 1", h.Active())
	}
	s, ok := h.Session(id)
	if !ok || s.World != "Alpha" || s.X != 1 || s.Y != 1 {
		t.Fatalf("new session = %+v, want Alpha at (1,1)", s)
	}

	send := func(actions ...Action) {
		for _, a := range actions {
			h.InputChan() <- InputEvent{SessionID: id, Action: a}
		}
		h.Tick(ctx)
	}

	send(ActionRight)
	v := <-ch
	if v.CursorX != 2 || v.CursorY != 1 {
		t.Errorf("cursor = (%d,%d), want (2,1)", v.CursorX, v.CursorY)
	}
	if v.World == nil || v.Indices == nil || v.Sampler == nil {
		t.Fatal("view should carry a resolved world")
	}
	if v.Sessions != 1 {
		t.Errorf("view sessions = %d, want 1", v.Sessions)
	}

	send(ActionRight) // blocked by the east edge
	if v = <-ch; v.CursorX != 2 {
		t.Errorf("cursor left the world: x=%d", v.CursorX)
	}

	send(ActionCycleMode)
	if v = <-ch; v.Mode != autotile.ModeRawSample || v.Status != "mode raw" {
		t.Errorf("after m: mode %v status %q", v.Mode, v.Status)
	}

	send(ActionNextWorld)
	if v = <-ch; v.World.Name != "Default" || v.CursorX != 2 {
		t.Errorf("after tab: world %q cursor x %d", v.World.Name, v.CursorX)
	}

	h.RemoveSession(id)
	if h.Active() != 0 {
		t.Errorf("Active after remove = %d, want 0", h.Active())
	}
	if _, open := <-ch; open {
		t.Error("render channel should be closed")
	}

	id2, _ := h.AddSession("ann")
	s, _ = h.Session(id2)
	if id2 == id {
		t.Error("reconnect should get a new session ID")
	}
	if s.World != "Default" || s.X != 2 || s.Mode != autotile.ModeRawSample || s.Status != "welcome back" {
		t.Errorf("resumed session = %+v", s)
	}
}

func TestHubDropsFramesForSlowSessions(t *testing.T) {
	h := NewHub(testCatalog(t), autotile.ModeBackgroundBlend, nil)
	_, ch := h.AddSession("slow")

	for i := 0; i < 5; i++ {
		h.Tick(context.Background())
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered frames = %d, want %d", len(ch), cap(ch))
	}
	if h.Ticks() != 5 {
		t.Errorf("Ticks = %d, want 5", h.Ticks())
	}
}

func TestHubIgnoresUnknownSession(t *testing.T) {
	h := NewHub(testCatalog(t), autotile.ModeBackgroundBlend, nil)
	id, _ := h.AddSession("bob")
	h.InputChan() <- InputEvent{SessionID: "nobody", Action: ActionRight}
	h.Tick(context.Background())

	if s, _ := h.Session(id); s.X != 1 {
		t.Errorf("unrelated session moved to x=%d", s.X)
	}
}

func TestHubStartWorld(t *testing.T) {
	h := NewHub(testCatalog(t), autotile.ModeGenericPredicate, nil)
	if err := h.SetStartWorld("Missing"); err == nil {
		t.Error("unknown start world should fail")
	}
	if err := h.SetStartWorld("Default"); err != nil {
		t.Fatal(err)
	}

	id, _ := h.AddSession("cy")
	s, _ := h.Session(id)
	if s.World != "Default" || s.X != 20 || s.Y != 10 || s.Mode != autotile.ModeGenericPredicate {
		t.Errorf("session = %+v, want Default at (20,10) in generic mode", s)
	}
}
