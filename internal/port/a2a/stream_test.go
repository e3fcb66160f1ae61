package a2a

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Strob0t/AgentRelay/internal/domain/task"
)

func threeEventTask(terminal bool) *task.Task {
	t := &task.Task{
		ID:       "t-1",
		State:    task.StateRunning,
		Progress: 50,
		Message:  "Task working",
		Events: []task.Event{
			{Seq: 1, State: task.StateAccepted, Message: "Task started"},
			{Seq: 2, State: task.StateRunning, Progress: 50, Message: "Task working"},
		},
	}
	if terminal {
		t.State = task.StateSucceeded
		t.Progress = 100
		t.Message = "Task completed"
		t.Events = append(t.Events, task.Event{
			Seq: 3, State: task.StateSucceeded, Progress: 100, Message: "Task completed", Final: true,
		})
	} else {
		t.Events = append(t.Events, task.Event{
			Seq: 3, State: task.StateRunning, Progress: 75, Message: "Task working",
		})
	}
	return t
}

// parseFrames splits an SSE body into (id, payload) pairs.
func parseFrames(t *testing.T, body string) []struct {
	ID   string
	Data streamFrame
} {
	t.Helper()
	var frames []struct {
		ID   string
		Data streamFrame
	}
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		var frame struct {
			ID   string
			Data streamFrame
		}
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "id: "):
				frame.ID = strings.TrimPrefix(line, "id: ")
			case strings.HasPrefix(line, "event: "):
				if got := strings.TrimPrefix(line, "event: "); got != "task" {
					t.Fatalf("expected event type task, got %q", got)
				}
			case strings.HasPrefix(line, "data: "):
				if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame.Data); err != nil {
					t.Fatalf("bad frame data: %v", err)
				}
			}
		}
		frames = append(frames, frame)
	}
	return frames
}

func TestParseCursor(t *testing.T) {
	cases := map[string]int{
		"":      0,
		"abc":   0,
		"-3":    0,
		"0":     0,
		"2":     2,
		" 4 ":   4,
		"1.5":   0,
		"10x":   0,
		"00012": 12,
	}
	for in, want := range cases {
		if got := ParseCursor(in); got != want {
			t.Fatalf("ParseCursor(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestStreamFromZeroStartsAtOne(t *testing.T) {
	w := httptest.NewRecorder()
	WriteStream(w, threeEventTask(true), 0)

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %s", ct)
	}

	frames := parseFrames(t, w.Body.String())
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[0].ID != "1" {
		t.Fatalf("expected first frame id 1, got %s", frames[0].ID)
	}
	if !frames[2].Data.Final {
		t.Fatal("expected last frame final")
	}
}

func TestStreamResumesAfterCursor(t *testing.T) {
	w := httptest.NewRecorder()
	WriteStream(w, threeEventTask(true), 1)

	frames := parseFrames(t, w.Body.String())
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].ID != "2" || frames[1].ID != "3" {
		t.Fatalf("expected frame ids 2,3, got %s,%s", frames[0].ID, frames[1].ID)
	}
}

func TestStreamSynthesizesTerminalFrame(t *testing.T) {
	// Client resumed past the closing event: the task is terminal but no
	// replayed frame is final.
	tk := threeEventTask(true)
	w := httptest.NewRecorder()
	WriteStream(w, tk, 3)

	frames := parseFrames(t, w.Body.String())
	if len(frames) != 1 {
		t.Fatalf("expected 1 synthesized frame, got %d", len(frames))
	}
	if frames[0].ID != "3" {
		t.Fatalf("synthesized frame must reuse last event id 3, got %s", frames[0].ID)
	}
	if !frames[0].Data.Final {
		t.Fatal("synthesized frame must be final")
	}
	if frames[0].Data.Status.State != task.StateSucceeded {
		t.Fatalf("expected succeeded, got %s", frames[0].Data.Status.State)
	}
}

func TestStreamNonTerminalEndsWithoutFinal(t *testing.T) {
	w := httptest.NewRecorder()
	WriteStream(w, threeEventTask(false), 0)

	frames := parseFrames(t, w.Body.String())
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for _, f := range frames {
		if f.Data.Final {
			t.Fatal("running task must not emit a final frame")
		}
	}
}

func TestStreamFullyConsumedTerminalLogAddsNothing(t *testing.T) {
	tk := threeEventTask(true)
	w := httptest.NewRecorder()
	WriteStream(w, tk, 0)

	frames := parseFrames(t, w.Body.String())
	finals := 0
	for _, f := range frames {
		if f.Data.Final {
			finals++
		}
	}
	if finals != 1 {
		t.Fatalf("expected exactly one final frame, got %d", finals)
	}
}
