package server

import (
	"fmt"
	"io"
	"log"
	"net"
	"sync"

	"github.com/gliderlabs/ssh"

	"blobtile/internal/preview"
	"blobtile/internal/render"
)

// SSHServer serves the autotile preview over SSH.
type SSHServer struct {
	hub     *preview.Hub
	addr    string
	hostKey string
	logger  *log.Logger
}

// NewSSHServer prepares a server for addr using the host key file at hostKey.
func NewSSHServer(addr, hostKey string, hub *preview.Hub, logger *log.Logger) *SSHServer {
	if logger == nil {
		logger = log.Default()
	}
	return &SSHServer{
		hub:     hub,
		addr:    addr,
		hostKey: hostKey,
		logger:  logger,
	}
}

// Start listens on the configured address and serves until it fails.
func (s *SSHServer) Start() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(l)
}

// Serve accepts SSH connections on l until it fails.
func (s *SSHServer) Serve(l net.Listener) error {
	server := &ssh.Server{
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		l.Close()
		return fmt.Errorf("set host key: %w", err)
	}

	s.logger.Printf("SSH server listening on %s", l.Addr())
	return server.Serve(l)
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "blobtile needs a terminal; connect with ssh -t")
		return
	}

	username := sess.User()
	if username == "" {
		username = "anonymous"
	}

	id, renderCh := s.hub.AddSession(username)
	s.logger.Printf("viewer connected: %s (%s), %d active", username, id, s.hub.Active())
	defer func() {
		s.hub.RemoveSession(id)
		s.logger.Printf("viewer disconnected: %s (%s)", username, id)
	}()

	size := &termSize{w: ptyReq.Window.Width, h: ptyReq.Window.Height}
	engine := render.NewEngine(size.get())

	io.WriteString(sess, render.EnterPreview)
	defer io.WriteString(sess, render.LeavePreview)

	inputCh := s.hub.InputChan()
	quitCh := make(chan struct{})

	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, action := range preview.ParseInput(buf[:n]) {
				if action == preview.ActionQuit {
					return
				}
				select {
				case inputCh <- preview.InputEvent{SessionID: id, Action: action}:
				default:
				}
			}
		}
	}()

	go func() {
		for win := range winCh {
			size.set(win.Width, win.Height)
		}
	}()

	for {
		select {
		case <-quitCh:
			return
		case <-sess.Context().Done():
			return
		case view, ok := <-renderCh:
			if !ok {
				return
			}

			w, h := size.get()
			if frame := engine.Render(view, w, h); frame != "" {
				io.WriteString(sess, frame)
			}
		}
	}
}

// termSize is the client window, updated by resize requests.
type termSize struct {
	mu   sync.Mutex
	w, h int
}

func (t *termSize) get() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w, t.h
}

func (t *termSize) set(w, h int) {
	t.mu.Lock()
	t.w, t.h = w, h
	t.mu.Unlock()
}
