package api

import (
	"context"
	"net/http"
	"strconv"

	"carecase-workers/internal/api/respond"
	apperrors "carecase-workers/internal/common/errors"
	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/models"
	"carecase-workers/internal/progress"
	"carecase-workers/internal/roster"

	"github.com/gin-gonic/gin"
)

// RosterSearcher searches indexed progress snapshots.
type RosterSearcher interface {
	Search(ctx context.Context, q roster.Query) (*roster.Page, error)
}

// RosterHandler serves partner and RHU rosters.
type RosterHandler struct {
	searcher RosterSearcher
	logger   logger.Logger
}

func NewRosterHandler(searcher RosterSearcher, log logger.Logger) *RosterHandler {
	return &RosterHandler{searcher: searcher, logger: log}
}

func (h *RosterHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/rosters", h.search)
	g.GET("/rosters/:domain", h.search)
}

// search answers GET /rosters[/:domain]?partnerId=&status=&activeStep=&recognized=&q=&from=&size=
func (h *RosterHandler) search(c *gin.Context) {
	if h.searcher == nil {
		respond.Error(c, http.StatusNotImplemented, "ROSTER_UNAVAILABLE", "Roster search is not configured", nil)
		return
	}

	q, err := parseRosterQuery(c)
	if err != nil {
		respond.FromError(c, err)
		return
	}

	page, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		h.logger.Warn("roster search failed", map[string]interface{}{
			"domain": q.Domain,
			"error":  err.Error(),
		})
		respond.FromError(c, err)
		return
	}
	respond.OK(c, page)
}

func parseRosterQuery(c *gin.Context) (roster.Query, error) {
	q := roster.Query{
		PartnerID: c.Query("partnerId"),
		Status:    c.Query("status"),
		Keywords:  c.Query("q"),
	}

	if d := c.Param("domain"); d != "" {
		q.Domain = models.DomainID(d)
		if _, ok := progress.Lookup(q.Domain); !ok {
			return q, apperrors.NewUnknownDomainError(d)
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"from", &q.From},
		{"size", &q.Size},
	}
	for _, p := range ints {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, apperrors.NewInputValidationFailedError(p.name + " must be a non-negative integer")
		}
		*p.dst = n
	}

	if raw := c.Query("activeStep"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, apperrors.NewInputValidationFailedError("activeStep must be a non-negative integer")
		}
		q.ActiveStep = &n
	}
	if raw := c.Query("recognized"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, apperrors.NewInputValidationFailedError("recognized must be a boolean")
		}
		q.Recognized = &b
	}
	return q, nil
}
