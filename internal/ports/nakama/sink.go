package nakama

import (
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"tractor/internal/ports"
)

var _ ports.EventSink = (*dispatcherSink)(nil)

// dispatcherSink fans encoded events out through the Nakama dispatcher.
type dispatcherSink struct {
	dispatcher runtime.MatchDispatcher
	presences  map[string]runtime.Presence
}

func newDispatcherSink(dispatcher runtime.MatchDispatcher, presences map[string]runtime.Presence) *dispatcherSink {
	return &dispatcherSink{dispatcher: dispatcher, presences: presences}
}

func (s *dispatcherSink) Send(opCode int64, data []byte, recipients []string) error {
	var targets []runtime.Presence
	if len(recipients) > 0 {
		for _, uid := range recipients {
			if p, ok := s.presences[uid]; ok {
				targets = append(targets, p)
			}
		}

		// Private events for players who are not connected (bots, stand-ins)
		// must not fall back to a broadcast.
		if len(targets) == 0 {
			return nil
		}
	}
	return s.dispatcher.BroadcastMessage(opCode, data, targets, nil, true)
}

func (s *dispatcherSink) UpdateLabel(label string) error {
	return s.dispatcher.MatchLabelUpdate(label)
}

// loggerWriter lets the game event log write its JSON lines into the
// Nakama logger.
type loggerWriter struct {
	logger runtime.Logger
}

func (w loggerWriter) Write(p []byte) (int, error) {
	w.logger.Info("%s", strings.TrimSpace(string(p)))
	return len(p), nil
}
