package messages

import (
	"glance/internal/watch"
)

// RepaintMsg tells the model that loader results are waiting.
type RepaintMsg struct{}

// WatchMsg carries a folder change batch.
type WatchMsg struct {
	Batch watch.Batch
}

// ErrorMsg reports a failure outside the viewer core.
type ErrorMsg struct {
	Err error
}
