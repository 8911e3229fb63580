package interfaces

import "context"

type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}
