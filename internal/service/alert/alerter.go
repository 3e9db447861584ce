// Package alert fans operator alerts out to the configured channels.
// It is best effort: a channel failure is logged, never propagated, so
// alerting can never take the delivery pipeline down with it.
package alert

import (
	"github.com/wb-go/wbf/zlog"
)

// Channel is anything that can carry an alert message to an operator.
type Channel interface {
	Send(to string, msg string) error
}

// Target pairs a channel with its recipient address or chat id.
type Target struct {
	Channel Channel
	To      string
}

type Service struct {
	targets map[string]Target
}

func NewService(targets map[string]Target) *Service {
	return &Service{targets: targets}
}

// Alert sends msg to every configured target.
func (s *Service) Alert(msg string) {
	for name, t := range s.targets {
		if err := t.Channel.Send(t.To, msg); err != nil {
			zlog.Logger.Error().Err(err).Str("channel", name).Msg("failed to send operator alert")
			continue
		}

		zlog.Logger.Info().Str("channel", name).Msg("operator alert sent")
	}
}
