// internal/workers/dispatch/deliver-email-dispatch/handler.go
package deliveremaildispatch

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rfq-dispatch-workers/internal/common/aws"
	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/models"
)

const TaskType = "deliver-email-dispatch"

type EmailSender interface {
	Send(ctx context.Context, e aws.Email) (string, error)
}

type Handler struct {
	config *Config
	sender EmailSender
	now    func() time.Time
	logger logger.Logger
	runner *camunda.Runner
}

func NewHandler(config *Config, sender EmailSender, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		sender: sender,
		now:    time.Now,
		logger: log,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, obs),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context, variables []byte) (interface{}, error) {
		var input Input
		if err := validation.Decode(InputSchema, variables, &input); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

// Execute sends exactly the dispatch it is given. Only email dispatches are
// accepted; other channels are handled outside this service.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	d := input.Dispatch
	if d.Mode != models.DispatchEmail || d.Email == nil {
		return nil, errors.NewUnsupportedDispatchModeError(string(d.Mode)).
			WithMetadata("dispatchId", input.DispatchID)
	}
	if !validation.ValidateEmail(input.To) {
		return nil, errors.NewInvalidInputError("to: not a valid email address")
	}

	messageID, err := h.sender.Send(ctx, aws.Email{
		To:      input.To,
		ReplyTo: input.ReplyTo,
		Subject: d.Email.Subject,
		Body:    d.Email.Body,
	})
	if err != nil {
		return nil, errors.NewEmailSendFailedError(err).WithMetadata("dispatchId", input.DispatchID)
	}

	sentAt := h.now().UTC()
	h.logger.Info("dispatch email sent", map[string]interface{}{
		"dispatchId": input.DispatchID,
		"messageId":  messageID,
	})
	return &Output{DispatchID: input.DispatchID, MessageID: messageID, SentAt: sentAt}, nil
}
