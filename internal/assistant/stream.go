package assistant

// Event is one record on the chat output stream. Events are ordered; every
// turn ends with exactly one EventDone, which is always the last event.
type Event struct {
	Type    string         `json:"type"`
	Content string         `json:"content,omitempty"`
	Tool    string         `json:"tool,omitempty"`
	Label   string         `json:"label,omitempty"`
	Result  map[string]any `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
}

const (
	EventText      = "text"
	EventToolStart = "tool_start"
	EventToolDone  = "tool_done"
	EventToolError = "tool_error"
	EventError     = "error"
	EventDone      = "done"
)

// Emitter receives stream events as they are produced. Implementations may
// deliver them to a slow consumer; committed domain mutations are never
// rolled back on emission failure.
type Emitter func(Event)
