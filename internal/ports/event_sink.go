package ports

// EventSink delivers encoded match events to the players at a table.
type EventSink interface {
	// Send delivers data to the listed user IDs. No recipients means every
	// connected player.
	Send(opCode int64, data []byte, recipients []string) error

	// UpdateLabel replaces the label advertised for matchmaking.
	UpdateLabel(label string) error
}
