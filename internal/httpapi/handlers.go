package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"detailing-bot/internal/estimator"
	"detailing-bot/internal/pricelist"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type estimateResponse struct {
	Visible         bool   `json:"visible"`
	Target          int    `json:"target"`
	IndividualTotal int    `json:"individual_total"`
	Savings         int    `json:"savings"`
	PackageName     string `json:"package_name,omitempty"`
	Formatted       string `json:"formatted,omitempty"`
}

type framesResponse struct {
	From       int   `json:"from"`
	Target     int   `json:"target"`
	IntervalMS int64 `json:"interval_ms"`
	DurationMS int64 `json:"duration_ms"`
	Frames     []int `json:"frames"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetCatalog(c *gin.Context) {
	cat, err := h.catalog.Catalog(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat.Snapshot())
}

func (h *Handler) GetPriceList(c *gin.Context) {
	cat, err := h.catalog.Catalog(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="prices.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := pricelist.Write(cat, c.Writer); err != nil {
		h.logger.Error("Failed to write price list", zap.Error(err))
	}
}

func (h *Handler) PostEstimate(c *gin.Context) {
	var sel estimator.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid selection"})
		return
	}

	cat, err := h.catalog.Catalog(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	q := estimator.Compute(cat, sel)
	resp := estimateResponse{
		Visible:         q.Visible,
		Target:          q.Target,
		IndividualTotal: q.IndividualTotal,
		Savings:         q.Savings,
	}
	if q.PackageSelected {
		resp.PackageName = q.PackageName
	}
	if q.Visible {
		resp.Formatted = estimator.FormatPrice(q.Target)
	}
	c.JSON(http.StatusOK, resp)
}

// GetFrames returns the values a client should show while animating from
// ?from=N to the selection's total.
func (h *Handler) GetFrames(c *gin.Context) {
	from := 0
	if raw := c.Query("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a non-negative integer"})
			return
		}
		from = v
	}

	sel := estimator.Selection{Package: c.Query("package")}
	if raw := c.Query("services"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				sel.Services = append(sel.Services, id)
			}
		}
	}

	cat, err := h.catalog.Catalog(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	target := estimator.Compute(cat, sel).Target
	c.JSON(http.StatusOK, framesResponse{
		From:       from,
		Target:     target,
		IntervalMS: h.interval.Milliseconds(),
		DurationMS: h.duration.Milliseconds(),
		Frames:     estimator.Samples(from, target, h.duration, h.interval),
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.logger.Error("Failed to load catalog", zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
}
