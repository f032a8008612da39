package ui

import "github.com/linuxmatters/jivetrim/internal/batch"

// EventMsg carries a batch progress event into the UI
type EventMsg struct {
	batch.Event
}

// DoneMsg signals the batch has finished, successfully or not
type DoneMsg struct {
	Summary *batch.Summary
	Err     error
}

// quitMsg is sent when it's time to quit after showing completion
type quitMsg struct{}
