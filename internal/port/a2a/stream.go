package a2a

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Strob0t/AgentRelay/internal/domain/task"
)

// ParseCursor derives the resume cursor from a Last-Event-ID header value.
// Absent or non-numeric values default to 0, a full replay.
func ParseCursor(header string) int {
	n, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// streamFrame is the data payload of one SSE frame.
type streamFrame struct {
	TaskID string      `json:"taskId"`
	Status frameStatus `json:"status"`
	Final  bool        `json:"final"`
}

type frameStatus struct {
	State    task.State `json:"state"`
	Progress int        `json:"progress"`
	Message  string     `json:"message,omitempty"`
}

// WriteStream emits the task's events with seq > since as SSE frames, in
// ascending order, then ends the response. It never blocks waiting for
// future events: the captured log is all a stream ever carries.
//
// If no emitted event is final but the task is already terminal, one extra
// final frame is synthesized reusing the last event's seq, so every stream
// over a finished task ends in final:true even when the client resumed after
// the closing event.
func WriteStream(w http.ResponseWriter, t *task.Task, since int) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)

	sawFinal := false
	for _, ev := range t.Events {
		if ev.Seq <= since {
			continue
		}
		writeFrame(w, ev.Seq, streamFrame{
			TaskID: t.ID,
			Status: frameStatus{State: ev.State, Progress: ev.Progress, Message: ev.Message},
			Final:  ev.Final,
		})
		if ev.Final {
			sawFinal = true
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if !sawFinal && t.State.Terminal() {
		writeFrame(w, t.LastSeq(), streamFrame{
			TaskID: t.ID,
			Status: frameStatus{State: t.State, Progress: t.Progress, Message: t.Message},
			Final:  true,
		})
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, seq int, frame streamFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "id: %d\nevent: task\ndata: %s\n\n", seq, data)
}
