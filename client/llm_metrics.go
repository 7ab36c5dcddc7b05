package client

import (
	"sync"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/view"
)

type callTypeStats struct {
	calls        int
	totalLatency time.Duration
	totalTokens  int64
}

type metricsRecorder struct {
	mutex        sync.Mutex
	calls        int
	successes    int
	failures     int
	totalTokens  int64
	totalLatency time.Duration
	byType       map[view.LLMCallType]*callTypeStats
}

func newMetricsRecorder() *metricsRecorder {
	return &metricsRecorder{byType: make(map[view.LLMCallType]*callTypeStats)}
}

func (m *metricsRecorder) record(callType view.LLMCallType, latency time.Duration, tokens int64, success bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls++
	if success {
		m.successes++
	} else {
		m.failures++
	}
	m.totalTokens += tokens
	m.totalLatency += latency

	st, ok := m.byType[callType]
	if !ok {
		st = &callTypeStats{}
		m.byType[callType] = st
	}
	st.calls++
	st.totalLatency += latency
	st.totalTokens += tokens
}

func (m *metricsRecorder) snapshot() view.LLMMetrics {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	res := view.LLMMetrics{
		Calls:       m.calls,
		Successes:   m.successes,
		Failures:    m.failures,
		TotalTokens: m.totalTokens,
		CallTypes:   make(map[view.LLMCallType]view.LLMCallTypeMetrics, len(m.byType)),
	}
	if m.calls > 0 {
		res.AverageLatency = m.totalLatency.Milliseconds() / int64(m.calls)
	}
	for t, st := range m.byType {
		res.CallTypes[t] = view.LLMCallTypeMetrics{
			Calls:          st.calls,
			AverageLatency: st.totalLatency.Milliseconds() / int64(st.calls),
			AverageTokens:  st.totalTokens / int64(st.calls),
		}
	}
	return res
}
