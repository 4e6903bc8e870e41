package stats

import "go.uber.org/atomic"

type Stats interface {
	AddConnection()
	AddRequest()
	Connections() int64
	Requests() int64
}

type stats struct {
	connections atomic.Int64
	requests    atomic.Int64
}

func New() Stats {
	return &stats{}
}

func (s *stats) AddConnection()     { s.connections.Inc() }
func (s *stats) AddRequest()        { s.requests.Inc() }
func (s *stats) Connections() int64 { return s.connections.Load() }
func (s *stats) Requests() int64    { return s.requests.Load() }
