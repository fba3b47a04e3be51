package consolidation

import (
	"encoding/json"
	"net/http"
	"time"

	"go-absensi/internal/shared/apperror"
	"go-absensi/internal/shared/contextutil"
	"go-absensi/internal/shared/dateonly"
	"go-absensi/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const consolidatedCacheTTL = 10 * time.Minute

type Handler struct {
	service Service
	cache   *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, cache *redis.Client) *Handler {
	return &Handler{
		service: service,
		cache:   cache,
		logger:  zap.L().Named("consolidation.handler"),
	}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) parseDate(c *gin.Context) (time.Time, bool) {
	date, err := dateonly.Parse(c.Param("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "date must be YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return date, true
}

func cacheKey(date time.Time) string {
	return "consolidated:" + dateonly.Format(date)
}

// Consolidated answers GET /consolidations/:date. Locked days are
// immutable, so their view is served from redis when present; open days
// always hit the database. Cache failures fall through to the service.
func (h *Handler) Consolidated(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	key := cacheKey(date)

	if h.cache != nil {
		if raw, err := h.cache.Get(ctx, key).Bytes(); err == nil {
			var cached ConsolidatedDay
			if err := json.Unmarshal(raw, &cached); err == nil {
				response.Success(c, http.StatusOK, cached, nil)
				return
			}
		} else if err != redis.Nil {
			h.logger.Warn("consolidated cache read failed", zap.Error(err))
		}
	}

	day, err := h.service.ConsolidatedForDate(ctx, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if h.cache != nil && day.Locked {
		if raw, err := json.Marshal(day); err == nil {
			if err := h.cache.Set(ctx, key, raw, consolidatedCacheTTL).Err(); err != nil {
				h.logger.Warn("consolidated cache write failed", zap.Error(err))
			}
		}
	}
	response.Success(c, http.StatusOK, day, nil)
}

func (h *Handler) Duplicates(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	duplicates, err := h.service.DuplicatesForDate(c.Request.Context(), date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, duplicates, nil)
}

type resolveDuplicateRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

func (h *Handler) ResolveDuplicate(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	var req resolveDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	outcome, err := h.service.ResolveDuplicate(c.Request.Context(), date, req.EmployeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, outcome, nil)
}

func (h *Handler) ResolveAllDuplicates(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	outcomes, err := h.service.ResolveAllDuplicates(c.Request.Context(), date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, outcomes, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	userID := contextutil.GetUserID(c.Request.Context())

	meta, err := h.service.Approve(c.Request.Context(), date, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, meta, nil)
}

func (h *Handler) Unapprove(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	if err := h.service.Unapprove(c.Request.Context(), date); err != nil {
		writeServiceError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Del(c.Request.Context(), cacheKey(date)).Err(); err != nil {
			h.logger.Warn("consolidated cache invalidation failed", zap.Error(err))
		}
	}
	response.Success(c, http.StatusOK, gin.H{"reopened": true}, nil)
}

func (h *Handler) Locked(c *gin.Context) {
	date, ok := h.parseDate(c)
	if !ok {
		return
	}
	locked, err := h.service.IsDateLocked(c.Request.Context(), date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"date": dateonly.Format(date), "locked": locked}, nil)
}
