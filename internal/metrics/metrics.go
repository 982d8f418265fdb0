// Package metrics provides in-process counters for wallet session activity
// using atomic integers.
package metrics

import (
	"sync/atomic"
	"time"
)

// Operation names a wallet operation tracked by RecordOp.
type Operation string

// Tracked operations.
const (
	OpConnect    Operation = "connect"
	OpDisconnect Operation = "disconnect"
	OpSignMsg    Operation = "sign_message"
	OpSignTx     Operation = "sign_transaction"
	OpSend       Operation = "send_transaction"
)

type counter struct {
	total  atomic.Int64
	errors atomic.Int64
}

func (c *counter) record(err error) {
	c.total.Add(1)
	if err != nil {
		c.errors.Add(1)
	}
}

// Metrics holds session metrics.
type Metrics struct {
	connect    counter
	disconnect counter
	signMsg    counter
	signTx     counter
	send       counter
	rpc        counter

	rpcLatencyNanos atomic.Int64
	redirects       atomic.Int64
	busyRejections  atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

func (m *Metrics) counter(op Operation) *counter {
	switch op {
	case OpConnect:
		return &m.connect
	case OpDisconnect:
		return &m.disconnect
	case OpSignMsg:
		return &m.signMsg
	case OpSignTx:
		return &m.signTx
	case OpSend:
		return &m.send
	default:
		return nil
	}
}

// RecordOp records one wallet operation and whether it failed.
func (m *Metrics) RecordOp(op Operation, err error) {
	if c := m.counter(op); c != nil {
		c.record(err)
	}
}

// RecordRedirect records a mobile deep-link redirect.
func (m *Metrics) RecordRedirect() {
	m.redirects.Add(1)
}

// RecordBusy records a connect attempt rejected because another
// transition was in flight.
func (m *Metrics) RecordBusy() {
	m.busyRejections.Add(1)
}

// StartRPC starts timing an RPC call. The returned func records the call.
func (m *Metrics) StartRPC() func(err error) {
	start := time.Now()
	return func(err error) {
		m.rpc.record(err)
		m.rpcLatencyNanos.Add(time.Since(start).Nanoseconds())
	}
}

// OpStats holds totals for one operation.
type OpStats struct {
	Total  int64 `json:"total"`
	Errors int64 `json:"errors"`
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Connect        OpStats `json:"connect"`
	Disconnect     OpStats `json:"disconnect"`
	SignMessage    OpStats `json:"sign_message"`
	SignTx         OpStats `json:"sign_transaction"`
	Send           OpStats `json:"send_transaction"`
	RPC            OpStats `json:"rpc"`
	RPCLatencyMs   float64 `json:"rpc_latency_avg_ms"`
	Redirects      int64   `json:"redirects"`
	BusyRejections int64   `json:"busy_rejections"`
}

func (c *counter) stats() OpStats {
	return OpStats{Total: c.total.Load(), Errors: c.errors.Load()}
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Connect:        m.connect.stats(),
		Disconnect:     m.disconnect.stats(),
		SignMessage:    m.signMsg.stats(),
		SignTx:         m.signTx.stats(),
		Send:           m.send.stats(),
		RPC:            m.rpc.stats(),
		Redirects:      m.redirects.Load(),
		BusyRejections: m.busyRejections.Load(),
	}
	if s.RPC.Total > 0 {
		s.RPCLatencyMs = float64(m.rpcLatencyNanos.Load()) / float64(s.RPC.Total) / 1e6
	}
	return s
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	for _, c := range []*counter{&m.connect, &m.disconnect, &m.signMsg, &m.signTx, &m.send, &m.rpc} {
		c.total.Store(0)
		c.errors.Store(0)
	}
	m.rpcLatencyNanos.Store(0)
	m.redirects.Store(0)
	m.busyRejections.Store(0)
}
