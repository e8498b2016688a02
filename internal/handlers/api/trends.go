package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"trendsync/internal/db"
	"trendsync/internal/models"
	"trendsync/internal/trends"
	"trendsync/internal/validation"
)

// Dashboard and sync limits.
const (
	DefaultDashboardLimit = 5
	MaxDashboardLimit     = 50
	MaxSyncAreaCodes      = 500
)

// TrendReader reads stored trend keywords.
type TrendReader interface {
	TopTrendKeywords(ctx context.Context, regionQuery string, limit int) ([]string, error)
	ListTrendKeywords(ctx context.Context, region string) ([]models.TrendKeyword, error)
}

// RegionSyncer runs a region sync.
type RegionSyncer interface {
	Sync(ctx context.Context, req trends.Request) (*trends.Result, error)
}

// TrendHandler serves trend keywords and on-demand syncs.
type TrendHandler struct {
	store  TrendReader
	syncer RegionSyncer
}

// NewTrendHandler creates a new trend handler. A nil syncer disables the
// sync endpoint.
func NewTrendHandler(store TrendReader, syncer RegionSyncer) *TrendHandler {
	return &TrendHandler{store: store, syncer: syncer}
}

// Dashboard returns the top keywords for regions containing the query.
// The body is {"trend_keywords": [...]} without the status envelope.
func (h *TrendHandler) Dashboard(c fiber.Ctx) error {
	region := strings.TrimSpace(c.Query("region"))
	if valid, msg := validation.ValidateRegion(region); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	limit := DefaultDashboardLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > MaxDashboardLimit {
			return jsonError(c, fiber.StatusBadRequest, "limit must be between 1 and 50")
		}
		// 0 means unset
		limit = validation.ClampLimit(n, DefaultDashboardLimit, MaxDashboardLimit)
	}

	keywords, err := h.store.TopTrendKeywords(c.Context(), region, limit)
	if err != nil {
		slog.Error("failed to load dashboard keywords", "region", region, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to load trend keywords")
	}
	if keywords == nil {
		keywords = []string{}
	}

	return c.JSON(models.DashboardResponse{TrendKeywords: keywords})
}

// List returns the stored rows for one region.
func (h *TrendHandler) List(c fiber.Ctx) error {
	region := strings.TrimSpace(c.Query("region"))
	if valid, msg := validation.ValidateRegion(region); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	rows, err := h.store.ListTrendKeywords(c.Context(), region)
	if err != nil {
		slog.Error("failed to list trend keywords", "region", region, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to load trend keywords")
	}
	if rows == nil {
		rows = []models.TrendKeyword{}
	}

	return jsonSuccess(c, rows)
}

// Sync runs a region sync and reports what was written.
func (h *TrendHandler) Sync(c fiber.Ctx) error {
	if h.syncer == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "public data sync is not configured")
	}

	var body models.SyncRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Region = strings.TrimSpace(body.Region)
	if valid, msg := validation.ValidateRegion(body.Region); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if body.Limit < 0 || body.Limit > MaxSyncAreaCodes {
		return jsonError(c, fiber.StatusBadRequest, "limit must be between 1 and 500")
	}

	replace := true
	if body.Replace != nil {
		replace = *body.Replace
	}

	res, err := h.syncer.Sync(c.Context(), trends.Request{
		Region:  body.Region,
		Limit:   validation.ClampLimit(body.Limit, trends.DefaultAreaCodeLimit, MaxSyncAreaCodes),
		Replace: replace,
	})
	if err != nil {
		if errors.Is(err, trends.ErrEmptyRegion) || errors.Is(err, db.ErrInvalidRegion) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("region sync failed", "region", body.Region, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to store trend keywords")
	}

	resp := models.SyncResponse{
		Region:    res.Region,
		Replace:   res.Replace,
		AreaCodes: res.AreaCodes,
		Keywords:  res.Keywords,
		Upserted:  res.Upserted,
	}
	if resp.AreaCodes == nil {
		resp.AreaCodes = []string{}
	}
	if resp.Keywords == nil {
		resp.Keywords = []models.KeywordFrequency{}
	}

	return jsonSuccess(c, resp)
}
