package bridge

import "github.com/muurk/tablekit/internal/table"

// Event types sent to viewers. Each mirrors one table.Host request, plus
// hello on connect and error in reply to a bad command.
const (
	EventHello       = "hello"
	EventReload      = "reload"
	EventDeleteRows  = "delete_rows"
	EventReloadRows  = "reload_rows"
	EventSelect      = "select"
	EventDeselect    = "deselect"
	EventReloadIndex = "reload_index"
	EventTemplate    = "register_template"
	EventSnapshot    = "snapshot"
	EventError       = "error"
)

// Event is one JSON message from the bridge to a viewer.
type Event struct {
	Seq       uint64            `json:"seq"`
	Type      string            `json:"type"`
	Paths     []table.IndexPath `json:"paths,omitempty"`
	Path      *table.IndexPath  `json:"path,omitempty"`
	Animation string            `json:"animation,omitempty"`
	Animated  bool              `json:"animated,omitempty"`
	Snapshot  *table.Snapshot   `json:"snapshot,omitempty"`
	Titles    []string          `json:"titles,omitempty"`
	Template  string            `json:"template,omitempty"`
	ReuseKey  string            `json:"reuse_key,omitempty"`
	Title     string            `json:"title,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// Command types a viewer may send.
const (
	CommandTap        = "tap"
	CommandAccessory  = "accessory"
	CommandDelete     = "delete"
	CommandIndexTitle = "index_title"
	CommandSnapshot   = "snapshot"
)

// Command is one JSON message from a viewer to the bridge.
type Command struct {
	Type  string           `json:"type"`
	Path  *table.IndexPath `json:"path,omitempty"`
	Title string           `json:"title,omitempty"`
	Index int              `json:"index,omitempty"`
}
