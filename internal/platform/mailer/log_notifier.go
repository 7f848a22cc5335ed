package mailer

import (
	"context"
	"log/slog"

	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/notify"
	"github.com/phrazzld/goalpost/internal/redact"
)

// LogNotifier records digests in the log instead of sending them. It backs
// the mailer dry-run mode.
type LogNotifier struct {
	logger *slog.Logger
}

// Ensure LogNotifier implements notify.Notifier
var _ notify.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a dry-run notifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{logger: log.With("component", "mailer", "dry_run", true)}
}

// SendDigest logs the digest and always reports it as accepted.
func (n *LogNotifier) SendDigest(
	ctx context.Context,
	email, name string,
	tasks []domain.Task,
	isMorning bool,
) (bool, error) {
	titles := make([]string, 0, len(tasks))
	for _, t := range tasks {
		titles = append(titles, t.Title)
	}

	n.logger.InfoContext(ctx, "digest not sent (dry run)",
		"recipient", redact.Email(email),
		"period", notify.Period(isMorning),
		"task_count", len(tasks),
		"titles", titles)
	return true, nil
}
