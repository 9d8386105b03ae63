// internal/workers/data-access/index-application-progress/handler.go
package indexapplicationprogress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "carecase-workers/internal/common/errors"
	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/common/metrics"
	"carecase-workers/internal/common/observability"
	"carecase-workers/internal/common/validation"
	"carecase-workers/internal/records"
	"carecase-workers/internal/roster"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "index-application-progress"
)

type Handler struct {
	config       *Config
	store        records.Store
	client       *elasticsearch.Client
	validator    *validation.Validator
	obs          *observability.Observability
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, store records.Store, client *elasticsearch.Client, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		client:       client,
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
	res, rec, err := records.Resolve(ctx, h.store, input.Domain, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	current := res.Current()

	doc := roster.Entry{
		Domain:        res.Domain,
		ApplicationID: input.ApplicationID,
		PatientID:     rec.PatientID,
		PartnerID:     rec.PartnerID,
		Status:        res.Status,
		Variant:       res.Variant,
		Recognized:    res.Recognized,
		ActiveStep:    res.ActiveStep,
		CurrentStep:   current.Title,
		Description:   current.Description,
		IndexedAt:     time.Now().UTC(),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, apperrors.NewIndexingFailedError(err)
	}

	docID := roster.DocumentID(input.Domain, input.ApplicationID)
	result, err := h.index(ctx, docID, body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("elasticsearch", err)
		}
		return nil, apperrors.NewIndexingFailedError(err)
	}

	h.logger.Debug("progress snapshot indexed", map[string]interface{}{
		"documentId": docID,
		"result":     result,
	})

	return &Output{
		DocumentID: docID,
		Index:      h.config.Index,
		Result:     result,
	}, nil
}

func (h *Handler) index(ctx context.Context, docID string, body []byte) (string, error) {
	res, err := h.client.Index(
		h.config.Index,
		bytes.NewReader(body),
		h.client.Index.WithDocumentID(docID),
		h.client.Index.WithContext(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("index %s: %s: %s", h.config.Index, res.Status(), string(raw))
	}

	var parsed struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode index response: %w", err)
	}
	return parsed.Result, nil
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
