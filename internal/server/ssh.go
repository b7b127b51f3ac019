package server

import (
	"fmt"
	"io"
	"net"
	"unicode/utf8"

	"github.com/gliderlabs/ssh"
	"go.uber.org/zap"

	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/config"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/logger"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/render"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/scroll"
	"github.com/jrjonjonjimmyjimjim/landscape-scroll/internal/sprite"
)

// Action is a keyboard command from a viewer.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRedraw
)

// SSHServer streams an independent landscape to every connected terminal.
type SSHServer struct {
	cfg     *config.Config
	catalog sprite.Catalog
	server  *ssh.Server
}

// NewSSHServer creates a server for cfg. The catalog must be drawn at the
// terminal tile size and is shared read-only by all sessions.
func NewSSHServer(cfg *config.Config, catalog sprite.Catalog) (*SSHServer, error) {
	s := &SSHServer{cfg: cfg, catalog: catalog}
	s.server = &ssh.Server{
		Addr: cfg.Server.Addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	// Without a key file the library generates an ephemeral host key.
	if cfg.Server.HostKey != "" {
		if err := s.server.SetOption(ssh.HostKeyFile(cfg.Server.HostKey)); err != nil {
			return nil, fmt.Errorf("set host key: %w", err)
		}
	}
	return s, nil
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	logger.Info("SSH server listening", zap.String("addr", s.cfg.Server.Addr))
	return s.server.ListenAndServe()
}

// Serve accepts connections on l.
func (s *SSHServer) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Close stops the listener and drops every session.
func (s *SSHServer) Close() error {
	return s.server.Close()
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	log := logger.With(
		zap.String("user", sess.User()),
		zap.String("remote", sess.RemoteAddr().String()),
	)

	term := render.NewTerminal(sess, ptyReq.Window.Width, ptyReq.Window.Height)
	queue := scroll.NewFrameQueue()
	ctrl, err := s.cfg.NewController(term, s.catalog, s.cfg.TerminalTerrainOptions(), queue)
	if err != nil {
		log.Error("session setup failed", zap.Error(err))
		fmt.Fprintln(sess, "Error:", err)
		return
	}

	log.Info("viewer connected",
		zap.Int("cols", ptyReq.Window.Width),
		zap.Int("rows", ptyReq.Window.Height))

	// Setup terminal
	io.WriteString(sess, render.Enter()+render.SetTitle(s.cfg.Window.Title))
	if err := ctrl.Start(); err != nil {
		io.WriteString(sess, render.Leave())
		fmt.Fprintln(sess, "Error:", err)
		return
	}

	loop := scroll.NewLoop(queue, s.cfg.Scroll.DisplayHz)
	go loop.Run()

	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, action := range parseInput(buf[:n]) {
				switch action {
				case ActionQuit:
					return
				case ActionRedraw:
					queue.Post(term.Redraw)
				}
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			queue.Post(func() { term.Resize(win.Width, win.Height) })
			ctrl.Resized()
		}
	}()

	var haltErr error
	select {
	case <-quitCh:
	case <-sess.Context().Done():
	case haltErr = <-ctrl.Halted():
	}

	ctrl.Stop()
	loop.Stop()
	<-loop.Done()

	io.WriteString(sess, render.Leave())
	if haltErr != nil {
		fmt.Fprintln(sess, "Landscape stopped:", haltErr)
	}
	log.Info("viewer disconnected")
}

// parseInput converts raw bytes into viewer actions.
// Handles Q, Esc, Ctrl-C and Ctrl-D to quit, R and Ctrl-L to redraw.
func parseInput(data []byte) []Action {
	var actions []Action
	i := 0
	for i < len(data) {
		// Skip escape sequences (arrow keys and friends)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			i += 3
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'q', 'Q', 0x1b:
			actions = append(actions, ActionQuit)
		case 3, 4: // Ctrl-C, Ctrl-D
			actions = append(actions, ActionQuit)
		case 'r', 'R', 12: // Ctrl-L
			actions = append(actions, ActionRedraw)
		}
		i += size
	}
	return actions
}
