package chat

import "lens-agent/internal/domain/entity"

// View is what a front-end draws for a session.
type View struct {
	PendingInput string         `json:"pending_input"`
	Busy         bool           `json:"busy"`
	Entries      []entity.Entry `json:"entries"`
}

func NewView(snap entity.Snapshot) View {
	return View{
		PendingInput: snap.PendingInput,
		Busy:         snap.Busy,
		Entries:      Render(snap),
	}
}

// Render projects the log into visible entries, followed by a transient
// thinking entry while a turn is in flight.
func Render(snap entity.Snapshot) []entity.Entry {
	entries := make([]entity.Entry, 0, len(snap.Messages)+1)
	for _, m := range snap.Messages {
		entries = append(entries, entity.Entry{
			ID:     m.ID,
			Text:   m.Text,
			Origin: m.Origin,
		})
	}
	if snap.Busy {
		entries = append(entries, entity.Entry{
			ID:       -1,
			Text:     ThinkingText,
			Origin:   entity.OriginRemote,
			Thinking: true,
		})
	}
	return entries
}
