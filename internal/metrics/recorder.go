package metrics

import "fmt"

// Recorder counts routing outcomes on the global collector. It satisfies the
// router loop's Metrics dependency.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

// IncMessages counts one inbound message for a channel.
func (Recorder) IncMessages(channel string) {
	Collector.Counter("tokbot_messages_total", "Total inbound messages seen",
		fmt.Sprintf("channel=%q", channel)).Inc()
}

// IncDecision counts one routing decision by kind (trivial, specialist,
// synthesis, command, fallback, prompt, ignored).
func (Recorder) IncDecision(kind string) {
	Collector.Counter("tokbot_decisions_total", "Routing decisions by kind",
		fmt.Sprintf("kind=%q", kind)).Inc()
}

// ObserveHandleSeconds records end-to-end handling latency for one message,
// generation calls included.
func (Recorder) ObserveHandleSeconds(seconds float64) {
	Collector.Histogram("tokbot_handle_seconds", "Per-message handling latency in seconds", "",
		[]float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}).Observe(seconds)
}
