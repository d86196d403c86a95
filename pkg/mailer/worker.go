package mailer

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/go-ddd-identity/pkg/mailer/templates"
)

// Outcome tells the consumer loop how to settle a delivery.
type Outcome int

const (
	Ack Outcome = iota
	// Drop rejects a message that can never succeed (bad JSON, unknown template).
	Drop
	// Retry requeues a message after a transient send failure.
	Retry
)

// Worker turns queued EmailJobs into sent mail.
type Worker struct {
	Sender      Sender
	Resolver    mailtpl.GeoResolver
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewWorker(s Sender, resolver mailtpl.GeoResolver, logger *logrus.Logger) *Worker {
	return &Worker{Sender: s, Resolver: resolver, Logger: logger, SendTimeout: 15 * time.Second}
}

// Handle processes one message body.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	log := w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	Localize(ctx, w.Resolver, job.Data)

	subject, text, html, err := Compose(job)
	if err != nil {
		log.WithError(err).Warn("render email failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Error("send email failed")
		return Retry
	}
	log.Debug("email sent")
	return Ack
}

// Run settles deliveries until ctx is cancelled or the channel closes.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			switch w.Handle(ctx, d.Body) {
			case Ack:
				_ = d.Ack(false)
			case Drop:
				_ = d.Nack(false, false)
			case Retry:
				_ = d.Nack(false, true)
			}
		}
	}
}
