// internal/workers/application/send-notification/handler.go
package sendnotification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "carecase-workers/internal/common/errors"
	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/common/metrics"
	"carecase-workers/internal/common/observability"
	"carecase-workers/internal/common/validation"
	"carecase-workers/internal/progress"
	"carecase-workers/internal/records"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "send-notification"
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
}

// SMSSender is satisfied by aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

const (
	subjectTemplate = "{{domainName}} application update: {{stepTitle}}"
	bodyTemplate    = "Application {{applicationId}} is now at \"{{stepTitle}}\".\n\n{{narrative}}{{actionHint}}"
	smsTemplate     = "{{domainName}} {{applicationId}}: {{narrative}}"
)

var actionHints = map[string]string{
	"upload-case-summary": "Please upload your signed case summary in the app.",
	"upload-result":       "Please upload your results in the app.",
}

type Handler struct {
	config       *Config
	store        records.Store
	email        EmailSender
	sms          SMSSender
	validator    *validation.Validator
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the worker. A nil sender disables its channel.
func NewHandler(config *Config, store records.Store, email EmailSender, sms SMSSender, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		email:        email,
		sms:          sms,
		validator:    validator,
		obs:          obs,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("job.key", job.Key))
	defer span.End()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	if h.validator != nil {
		if res := h.validator.ValidateInput(TaskType, variables); !res.Valid {
			return nil, apperrors.NewInputValidationFailedError(res.Error())
		}
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInputValidationFailedError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	res, _, err := records.Resolve(ctx, h.store, input.Domain, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	d, _ := progress.Lookup(input.Domain)
	current := res.Current()

	data := map[string]interface{}{
		"domainName":    d.Name,
		"applicationId": input.ApplicationID,
		"stepTitle":     current.Title,
		"narrative":     current.Description,
		"actionHint":    "",
	}
	if hint, ok := actionHints[current.Action]; ok {
		data["actionHint"] = "\n\n" + hint
	}

	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		Channels:       []string{},
		CurrentStep:    current.Title,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	attempted := 0
	var lastErr error
	var lastChannel string

	if h.config.EmailEnabled && h.email != nil && input.Email != "" {
		if !validation.ValidateEmail(input.Email) {
			h.logger.Warn("skipping invalid email", map[string]interface{}{"applicationId": input.ApplicationID})
		} else {
			attempted++
			subject := renderTemplate(subjectTemplate, data)
			body := renderTemplate(bodyTemplate, data)
			if _, err := h.email.SendEmail(ctx, input.Email, subject, body); err != nil {
				h.logger.Error("email send failed", map[string]interface{}{
					"error":         err,
					"applicationId": input.ApplicationID,
				})
				lastErr, lastChannel = err, ChannelEmail
			} else {
				output.Channels = append(output.Channels, ChannelEmail)
			}
		}
	}

	if h.config.SMSEnabled && h.sms != nil && input.Phone != "" {
		if !validation.ValidatePhone(input.Phone) {
			h.logger.Warn("skipping invalid phone number", map[string]interface{}{"applicationId": input.ApplicationID})
		} else {
			attempted++
			if _, err := h.sms.SendSMS(ctx, input.Phone, renderTemplate(smsTemplate, data)); err != nil {
				h.logger.Error("SMS send failed", map[string]interface{}{
					"error":         err,
					"applicationId": input.ApplicationID,
				})
				lastErr, lastChannel = err, ChannelSMS
			} else {
				output.Channels = append(output.Channels, ChannelSMS)
			}
		}
	}

	switch {
	case attempted == 0:
		output.Status = StatusDisabled
	case len(output.Channels) == 0:
		return nil, apperrors.NewNotificationSendFailedError(lastChannel, lastErr)
	default:
		output.Status = StatusSent
	}
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.RecordJob(TaskType, "")
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.RecordJob(TaskType, string(apperrors.Normalize(err).Code))
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// renderTemplate replaces {{key}} placeholders and drops any left unfilled.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}
	return result
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
