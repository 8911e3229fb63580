package notifyobs

import (
	"context"

	"portfolio-news-alerts/internal/interfaces"
	"portfolio-news-alerts/internal/logger"
)

type observableNotifier struct {
	notifier interfaces.Notifier
	name     string
}

var _ interfaces.Notifier = (*observableNotifier)(nil)

// Wrap decorates a notifier with a span and structured logs. name identifies the
// transport in log lines.
func Wrap(notifier interfaces.Notifier, name string) interfaces.Notifier {
	return &observableNotifier{notifier: notifier, name: name}
}

func (on *observableNotifier) Notify(ctx context.Context, subject, body string) error {
	timer := logger.StartOperation(ctx, "notify.Notify",
		"transport", on.name,
		"subject", subject,
	)

	if err := on.notifier.Notify(timer.GetContext(), subject, body); err != nil {
		timer.EndWithError(err)
		return err
	}

	timer.End("body_chars", len(body))
	logger.InfoSkip(ctx, 1, "Notification sent",
		"transport", on.name,
		"subject", subject,
	)
	return nil
}
