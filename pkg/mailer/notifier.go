package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands jobs to the email worker through RabbitMQ.
type QueueNotifier struct {
	Pub Publisher
}

func NewQueueNotifier(pub Publisher) *QueueNotifier { return &QueueNotifier{Pub: pub} }

func (n *QueueNotifier) Notify(ctx context.Context, job EmailJob) error {
	if err := n.Pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("publish email job: %w", err)
	}
	return nil
}

// MailgunNotifier renders and sends in-process, without the queue.
type MailgunNotifier struct {
	Sender Sender
}

func NewMailgunNotifier(s Sender) *MailgunNotifier { return &MailgunNotifier{Sender: s} }

func (n *MailgunNotifier) Notify(ctx context.Context, job EmailJob) error {
	subject, text, html, err := Compose(job)
	if err != nil {
		return fmt.Errorf("compose email: %w", err)
	}
	if err := n.Sender.Send(ctx, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// LogNotifier drops jobs after logging who they were for. Used when
// MAIL_SEND_ENABLED=false and in local development.
type LogNotifier struct {
	Logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier { return &LogNotifier{Logger: logger} }

func (n *LogNotifier) Notify(_ context.Context, job EmailJob) error {
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email suppressed")
	}
	return nil
}
