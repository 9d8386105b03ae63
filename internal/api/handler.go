package api

import (
	"errors"
	"net/http"
	"strconv"

	"carecase-workers/internal/api/respond"
	apperrors "carecase-workers/internal/common/errors"
	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/models"
	"carecase-workers/internal/progress"
	"carecase-workers/internal/records"

	"github.com/gin-gonic/gin"
)

// Handler serves domain metadata and application progress.
type Handler struct {
	store  records.Store
	logger logger.Logger
}

func NewHandler(store records.Store, log logger.Logger) *Handler {
	return &Handler{store: store, logger: log}
}

// RegisterRoutes mounts the progress endpoints on g.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/domains", h.listDomains)
	g.GET("/domains/:domain", h.getDomain)
	g.GET("/domains/:domain/preview", h.preview)
	g.GET("/domains/:domain/transitions", h.transitions)
	g.GET("/applications/:domain/:id/progress", h.progress)
	g.GET("/applications/:domain/:id/history", h.history)
}

// VariantSummary lists the step titles of one stepper shape.
type VariantSummary struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// DomainSummary describes one domain for clients building steppers.
type DomainSummary struct {
	ID         models.DomainID  `json:"id"`
	Name       string           `json:"name"`
	Endpoint   string           `json:"endpoint"`
	Vocabulary []string         `json:"vocabulary"`
	Variants   []VariantSummary `json:"variants"`
}

func summarize(d *progress.Domain) DomainSummary {
	out := DomainSummary{
		ID:         d.ID,
		Name:       d.Name,
		Endpoint:   d.Endpoint,
		Vocabulary: d.Vocabulary(),
	}
	for _, v := range d.Variants() {
		titles := make([]string, len(v.Steps))
		for i, s := range v.Steps {
			titles[i] = s.Title
		}
		out.Variants = append(out.Variants, VariantSummary{Name: v.Name, Steps: titles})
	}
	return out
}

func (h *Handler) listDomains(c *gin.Context) {
	domains := progress.Domains()
	out := make([]DomainSummary, 0, len(domains))
	for _, d := range domains {
		out = append(out, summarize(d))
	}
	respond.OK(c, gin.H{"domains": out})
}

func (h *Handler) lookup(c *gin.Context) (*progress.Domain, bool) {
	id := c.Param("domain")
	d, ok := progress.Lookup(models.DomainID(id))
	if !ok {
		respond.FromError(c, apperrors.NewUnknownDomainError(id))
		return nil, false
	}
	return d, true
}

func (h *Handler) getDomain(c *gin.Context) {
	d, ok := h.lookup(c)
	if !ok {
		return
	}
	respond.OK(c, summarize(d))
}

// preview resolves a status without fetching a record.
func (h *Handler) preview(c *gin.Context) {
	d, ok := h.lookup(c)
	if !ok {
		return
	}

	followUp := false
	if raw := c.Query("followUp"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, string(apperrors.ErrCodeInputValidationFailed), "followUp must be a boolean", raw)
			return
		}
		followUp = v
	}

	rec := &models.ApplicationRecord{
		Domain:                     d.ID,
		Status:                     c.Query("status"),
		FollowUpRequiredPreviously: followUp,
		Dates:                      map[string]string{},
	}
	for key, values := range c.Request.URL.Query() {
		if key != "status" && key != "followUp" && len(values) > 0 {
			rec.Dates[key] = values[0]
		}
	}
	respond.OK(c, d.Resolve(rec))
}

func (h *Handler) transitions(c *gin.Context) {
	d, ok := h.lookup(c)
	if !ok {
		return
	}
	from := c.Query("from")
	allowed := records.AllowedTransitions(d, from)
	if allowed == nil {
		allowed = []string{}
	}
	respond.OK(c, gin.H{"domain": d.ID, "from": from, "allowed": allowed})
}

func (h *Handler) progress(c *gin.Context) {
	res, _, err := records.Resolve(c.Request.Context(), h.store, models.DomainID(c.Param("domain")), c.Param("id"))
	if err != nil {
		h.logFailure(c, err)
		respond.FromError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) history(c *gin.Context) {
	domain := models.DomainID(c.Param("domain"))
	id := c.Param("id")
	if _, ok := h.lookup(c); !ok {
		return
	}

	reader, ok := h.store.(records.HistoryReader)
	if !ok {
		respond.Error(c, http.StatusNotImplemented, "HISTORY_UNAVAILABLE", "Record source keeps no status history", nil)
		return
	}

	changes, err := reader.History(c.Request.Context(), domain, id)
	switch {
	case errors.Is(err, records.ErrNoHistory):
		respond.Error(c, http.StatusNotImplemented, "HISTORY_UNAVAILABLE", "Record source keeps no status history", nil)
		return
	case errors.Is(err, records.ErrNotFound):
		respond.FromError(c, apperrors.NewApplicationNotFoundError(string(domain), id))
		return
	case err != nil:
		h.logFailure(c, err)
		respond.FromError(c, apperrors.NewRecordFetchFailedError(err))
		return
	}
	if changes == nil {
		changes = []models.StatusChange{}
	}
	respond.OK(c, gin.H{"domain": domain, "applicationId": id, "history": changes})
}

func (h *Handler) logFailure(c *gin.Context, err error) {
	if stdErr, ok := apperrors.As(err); ok && !stdErr.Retryable {
		return
	}
	h.logger.Warn("progress lookup failed", map[string]interface{}{
		"domain":        c.Param("domain"),
		"applicationId": c.Param("id"),
		"error":         err,
	})
}
