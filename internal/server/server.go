// Package server runs the TCP command stream.  Each accepted
// connection is one session: it gets a fresh identity, then a loop
// reads newline-delimited JSON requests, hands them to the engine with
// that identity bound, and writes one JSON response line per request,
// in order.  Framing ends here — the engine only ever sees decoded
// requests.
package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"sync"

	"github.com/iliyamo/bus-seat-reservation/internal/engine"
	"github.com/iliyamo/bus-seat-reservation/internal/ratelimit"
	"github.com/iliyamo/bus-seat-reservation/internal/session"
)

// maxLineBytes caps one request frame.  Requests are a handful of
// short fields, so anything bigger is a misbehaving client.
const maxLineBytes = 64 * 1024

// Server accepts connections and runs one session loop per client.
type Server struct {
	engine  *engine.Engine
	limiter *ratelimit.Limiter // nil disables throttling

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// New returns a Server dispatching into eng.  lim may be nil.
func New(eng *engine.Engine, lim *ratelimit.Limiter) *Server {
	return &Server{
		engine:  eng,
		limiter: lim,
		conns:   make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("command server listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts sessions from ln until ctx is cancelled, then closes
// the listener and every live connection and waits for the session
// loops to drain.  Bookings made by interrupted sessions stay in the
// store; shutdown never rolls anything back.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
		s.mu.Lock()
		for c := range s.conns {
			_ = c.Close()
		}
		s.mu.Unlock()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil {
				return nil // shut down on purpose
			}
			return err
		}
		s.track(conn, true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.track(conn, false)
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) track(conn net.Conn, add bool) {
	s.mu.Lock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
	s.mu.Unlock()
}

// handleConn is the session loop.  The identity minted here is the
// session's sole credential for the whole connection.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sid := session.New()
	log.Printf("[+] client %s connected as %s", conn.RemoteAddr(), sid)
	defer log.Printf("[-] client %s (%s) disconnected", conn.RemoteAddr(), sid)

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var resp engine.Response
		var req engine.Request
		if err := json.Unmarshal(line, &req); err != nil {
			// A frame the peer cannot encode properly still gets an
			// answer; it never reaches the engine or the store.
			resp = engine.Response{Status: engine.StatusError, Message: "malformed request"}
		} else if d := s.limiter.Allow(ctx, string(sid), req.Command); !d.Allowed {
			resp = engine.Response{Status: engine.StatusError, Message: "rate limit exceeded"}
		} else {
			resp = s.engine.Handle(sid, req)
		}

		if err := writeResponse(conn, resp); err != nil {
			log.Printf("session %s: write failed: %v", sid, err)
			return
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		log.Printf("session %s: read failed: %v", sid, err)
	}
}

func writeResponse(w io.Writer, resp engine.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
