package preview

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"blobtile/internal/autotile"
	"blobtile/internal/render"
)

const (
	TickRate      = 20 // frames per second
	InputChanSize = 256
)

// RenderChan is the per-session channel that receives frames.
type RenderChan chan render.View

// savedState holds the last position of a user who disconnected.
type savedState struct {
	World string
	X, Y  int
	Mode  autotile.Mode
}

// Session is one viewer browsing the catalog.
type Session struct {
	ID     string
	User   string
	World  string
	X, Y   int
	Mode   autotile.Mode
	Status string
}

// Hub owns every session, applies their input once per tick and sends
// each one a fresh view.
type Hub struct {
	catalog     *Catalog
	defaultMode autotile.Mode
	startWorld  string
	logger      *log.Logger

	inputCh chan InputEvent
	ticks   *atomic.Uint64
	active  *atomic.Int64

	mu          sync.RWMutex
	sessions    map[string]*Session
	renderChans map[string]RenderChan
	saved       map[string]savedState // keyed by user name
}

// NewHub creates a hub over catalog. New sessions start on the first
// world in mode.
func NewHub(catalog *Catalog, mode autotile.Mode, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	var start string
	if names := catalog.Names(); len(names) > 0 {
		start = names[0]
	}
	return &Hub{
		catalog:     catalog,
		defaultMode: mode,
		startWorld:  start,
		logger:      logger,
		inputCh:     make(chan InputEvent, InputChanSize),
		ticks:       atomic.NewUint64(0),
		active:      atomic.NewInt64(0),
		sessions:    make(map[string]*Session),
		renderChans: make(map[string]RenderChan),
		saved:       make(map[string]savedState),
	}
}

// SetStartWorld picks the world new sessions open on.
func (h *Hub) SetStartWorld(name string) error {
	if h.catalog.World(name) == nil {
		return fmt.Errorf("unknown world %q", name)
	}
	h.mu.Lock()
	h.startWorld = name
	h.mu.Unlock()
	return nil
}

// InputChan returns the shared input channel for sessions to send events.
func (h *Hub) InputChan() chan<- InputEvent {
	return h.inputCh
}

// Active returns the number of connected sessions.
func (h *Hub) Active() int64 {
	return h.active.Load()
}

// Ticks returns the number of frames produced so far.
func (h *Hub) Ticks() uint64 {
	return h.ticks.Load()
}

// AddSession registers a viewer. A user seen before resumes where they
// left off. Returns the session ID and its render channel.
func (h *Hub) AddSession(user string) (string, RenderChan) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &Session{
		ID:    uuid.NewString(),
		User:  user,
		World: h.startWorld,
		Mode:  h.defaultMode,
	}
	if ss, ok := h.saved[user]; ok && h.catalog.World(ss.World) != nil {
		s.World, s.X, s.Y, s.Mode = ss.World, ss.X, ss.Y, ss.Mode
		s.Status = "welcome back"
	} else if w := h.catalog.World(s.World); w != nil {
		s.X, s.Y = w.Width()/2, w.Height()/2
	}

	h.sessions[s.ID] = s
	ch := make(RenderChan, 2)
	h.renderChans[s.ID] = ch
	h.active.Inc()
	return s.ID, ch
}

// RemoveSession saves the viewer's position and unregisters them.
func (h *Hub) RemoveSession(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[id]; ok {
		h.saved[s.User] = savedState{World: s.World, X: s.X, Y: s.Y, Mode: s.Mode}
		delete(h.sessions, id)
		h.active.Dec()
	}
	if ch, ok := h.renderChans[id]; ok {
		close(ch)
		delete(h.renderChans, id)
	}
}

// Session returns a copy of the session's state.
func (h *Hub) Session(id string) (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Run ticks until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Tick(ctx)
		}
	}
}

// Tick drains pending input and sends every session its view. Slow
// sessions drop frames.
func (h *Hub) Tick(ctx context.Context) {
drain:
	for {
		select {
		case ev := <-h.inputCh:
			h.processInput(ev)
		default:
			break drain
		}
	}
	h.ticks.Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, s := range h.sessions {
		v := h.view(ctx, s)
		select {
		case h.renderChans[id] <- v:
		default:
		}
	}
}

func (h *Hub) view(ctx context.Context, s *Session) render.View {
	v := render.View{
		World:    h.catalog.World(s.World),
		Mode:     s.Mode,
		CursorX:  s.X,
		CursorY:  s.Y,
		Status:   s.Status,
		Sessions: int(h.active.Load()),
	}
	if v.World == nil {
		return v
	}
	r, err := h.catalog.Resolve(ctx, s.World, s.Mode)
	if err != nil {
		h.logger.Printf("session %s: %v", s.ID, err)
		v.Status = err.Error()
		return v
	}
	v.Indices, v.Sampler = r.Indices, r.Sampler
	return v
}

func (h *Hub) processInput(ev InputEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[ev.SessionID]
	if !ok {
		return
	}
	w := h.catalog.World(s.World)

	switch ev.Action {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		if w == nil {
			return
		}
		x, y := s.X, s.Y
		switch ev.Action {
		case ActionUp:
			y--
		case ActionDown:
			y++
		case ActionLeft:
			x--
		case ActionRight:
			x++
		}
		if w.InBounds(x, y) {
			s.X, s.Y = x, y
		}
	case ActionCycleMode:
		s.Mode = NextMode(s.Mode)
		s.Status = "mode " + s.Mode.String()
	case ActionNextWorld:
		next := h.catalog.Next(s.World)
		if next == "" || next == s.World {
			return
		}
		s.World = next
		nw := h.catalog.World(next)
		s.X = min(s.X, nw.Width()-1)
		s.Y = min(s.Y, nw.Height()-1)
		s.Status = fmt.Sprintf("world %s", next)
	}
}
