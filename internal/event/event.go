package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	WalkStarted Type = iota + 1
	WalkComplete
	WalkFault
	DirCreated
	SymlinkCreated
	FileStarted
	FileProgress
	FileCompleted
	FileFailed
	FileSkipped
	DeleteFile
)

var typeNames = [...]string{
	WalkStarted:    "WalkStarted",
	WalkComplete:   "WalkComplete",
	WalkFault:      "WalkFault",
	DirCreated:     "DirCreated",
	SymlinkCreated: "SymlinkCreated",
	FileStarted:    "FileStarted",
	FileProgress:   "FileProgress",
	FileCompleted:  "FileCompleted",
	FileFailed:     "FileFailed",
	FileSkipped:    "FileSkipped",
	DeleteFile:     "DeleteFile",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress notification from a batch operation.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // relative to the operation root
	Size      int64  // bytes so far, or file size when completed
	Total     int64  // entries walked (WalkComplete)
	Error     error
}

// Send delivers e on ch without blocking, stamping the time. A nil channel or
// a full buffer drops the event.
func Send(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
