package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes messages to the log instead of sending them. It is the
// development dispatcher: the reset link shows up in the console.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail not sent (log driver)")
	return nil
}
