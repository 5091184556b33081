package web

import (
	"context"
	"encoding/gob"
)

const flashSessionKey = "flashes"

func init() {
	gob.Register([]string{})
}

// flash queues a one-time message shown on the next rendered page.
func (s *Server) flash(ctx context.Context, message string) {
	queued, _ := s.sessions.Manager.Get(ctx, flashSessionKey).([]string)
	s.sessions.Manager.Put(ctx, flashSessionKey, append(queued, message))
}

// popFlashes drains the queued messages.
func (s *Server) popFlashes(ctx context.Context) []string {
	queued, _ := s.sessions.Manager.Pop(ctx, flashSessionKey).([]string)
	return queued
}
