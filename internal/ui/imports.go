package ui

import "github.com/bamsammich/fsio/internal/event"

// Event is re-exported so presenters read naturally.
type Event = event.Event

const (
	WalkStarted    = event.WalkStarted
	WalkComplete   = event.WalkComplete
	WalkFault      = event.WalkFault
	DirCreated     = event.DirCreated
	SymlinkCreated = event.SymlinkCreated
	FileStarted    = event.FileStarted
	FileProgress   = event.FileProgress
	FileCompleted  = event.FileCompleted
	FileFailed     = event.FileFailed
	FileSkipped    = event.FileSkipped
	DeleteFile     = event.DeleteFile
)
