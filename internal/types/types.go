package types

import (
	"time"
)

// EntryView is the JSON form of an entry exchanged between the daemon and
// its clients. Text and Image are only filled when the payload is requested.
type EntryView struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	Preview   string    `json:"preview"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text,omitempty"`
	Image     []byte    `json:"image,omitempty"`
}

// View converts the entry for the wire, with or without its payload.
func (e *Entry) View(withPayload bool) EntryView {
	v := EntryView{
		ID:        e.ID,
		Kind:      e.Kind(),
		Preview:   e.Preview,
		CreatedAt: e.CreatedAt,
	}
	if e.Payload != nil {
		v.Size = e.Payload.Size()
	}
	if !withPayload {
		return v
	}
	switch p := e.Payload.(type) {
	case TextPayload:
		v.Text = p.Content
	case ImagePayload:
		v.Image = p.Data
	}
	return v
}

// MonitoringStatus represents the current state of the daemon
type MonitoringStatus struct {
	IsRunning  bool      `json:"is_running"`
	Backend    string    `json:"backend"`
	EntryCount int       `json:"entry_count"`
	DBPath     string    `json:"db_path"`
	InstanceID string    `json:"instance_id"`
	StartedAt  time.Time `json:"started_at"`
}
