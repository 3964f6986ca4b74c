package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"timberbid/internal/repository"
	"timberbid/internal/service"
)

type AuctionHandler struct {
	Service *service.AuctionService
	Logger  *zap.Logger
}

func (h *AuctionHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/auctions")
	group.POST("", h.create)
	group.POST("/:id/publish", h.publish)
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.GET("/:id/bids", h.listBids)
}

type createAuctionRequest struct {
	Title              string          `json:"title" binding:"required"`
	DominantSpecies    string          `json:"dominantSpecies" binding:"required"`
	VolumeM3           decimal.Decimal `json:"volumeM3" binding:"required"`
	StartingPricePerM3 decimal.Decimal `json:"startingPricePerM3"`
	Details            datatypes.JSON  `json:"details"`
}

func (h *AuctionHandler) create(c *gin.Context) {
	owner := callerID(c)
	if owner == "" {
		Error(c, http.StatusUnauthorized, "missing caller identity", nil)
		return
	}
	var req createAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	auc, err := h.Service.CreateDraft(c.Request.Context(), owner, service.CreateAuctionInput{
		Title:              req.Title,
		DominantSpecies:    req.DominantSpecies,
		VolumeM3:           req.VolumeM3,
		StartingPricePerM3: req.StartingPricePerM3,
		Details:            req.Details,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.fail(c, "auction create failed", err)
		return
	}
	Ok(c, auc, nil)
}

type publishAuctionRequest struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
}

func (h *AuctionHandler) publish(c *gin.Context) {
	caller := callerID(c)
	if caller == "" {
		Error(c, http.StatusUnauthorized, "missing caller identity", nil)
		return
	}
	var req publishAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	auc, err := h.Service.Publish(c.Request.Context(), c.Param("id"), caller, req.StartTime.UTC(), req.EndTime.UTC())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuctionNotFound):
			Error(c, http.StatusNotFound, err.Error(), nil)
		case errors.Is(err, service.ErrNotOwner):
			Error(c, http.StatusForbidden, err.Error(), nil)
		case errors.Is(err, service.ErrNotDraft), errors.Is(err, service.ErrInvalidSchedule):
			Error(c, http.StatusUnprocessableEntity, err.Error(), nil)
		default:
			h.fail(c, "auction publish failed", err)
		}
		return
	}
	Ok(c, auc, nil)
}

func (h *AuctionHandler) get(c *gin.Context) {
	auc, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAuctionNotFound) {
			Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		h.fail(c, "auction get failed", err)
		return
	}
	Ok(c, auc, nil)
}

func (h *AuctionHandler) list(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListAuctionsParams{
		Limit:   limit,
		Offset:  offset,
		OrderBy: strings.TrimSpace(c.Query("order_by")),
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		params.Status = &status
	}
	if owner := strings.TrimSpace(c.Query("owner_id")); owner != "" {
		params.OwnerID = &owner
	}
	if species := strings.TrimSpace(c.Query("species")); species != "" {
		params.Species = &species
	}
	items, total, err := h.Service.List(c.Request.Context(), params)
	if err != nil {
		h.fail(c, "auction list failed", err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func (h *AuctionHandler) listBids(c *gin.Context) {
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	items, err := h.Service.ListBids(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrAuctionNotFound) {
			Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		h.fail(c, "bid list failed", err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, int64(len(items))))
}

func (h *AuctionHandler) fail(c *gin.Context, msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
	Error(c, http.StatusInternalServerError, msg, nil)
}
