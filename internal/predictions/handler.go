package predictions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"autotask-ml/internal/shared/metrics"
	"autotask-ml/internal/shared/server/middleware"
	"autotask-ml/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches prediction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/predict", h.predict)
	rg.POST("/predict/batch", h.predictBatch)
	rg.GET("/predict/scores", h.scores)
	rg.GET("/categories", h.categories)
	rg.GET("/predictions", h.list)
	rg.GET("/predictions/:id", h.get)
}

// RegisterLegacyRoutes keeps the unversioned POST /predict endpoint.
func (h *Handler) RegisterLegacyRoutes(rg *gin.RouterGroup) {
	rg.POST("/predict", h.predict)
}

func (h *Handler) predict(c *gin.Context) {
	var req predictRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Description == nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "description is required", nil)
		return
	}

	res, err := h.Svc.Predict(c.Request.Context(), TaskDescription{
		Description: *req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	middleware.SetPrediction(c, res.ID, res.TaskType, res.Confidence)
	respond.OK(c, toPredictionResponse(res))
}

func (h *Handler) predictBatch(c *gin.Context) {
	var req batchRequest
	if !bindJSON(c, &req) {
		return
	}
	items := make([]TaskDescription, len(req.Items))
	for i, item := range req.Items {
		if item.Description == nil {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "description is required", gin.H{"index": i})
			return
		}
		items[i] = TaskDescription{Description: *item.Description, Metadata: item.Metadata}
	}

	results, err := h.Svc.PredictBatch(c.Request.Context(), items)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := batchResponse{Predictions: make([]predictionResponse, len(results))}
	for i, res := range results {
		out.Predictions[i] = toPredictionResponse(res)
	}
	respond.OK(c, out)
}

func (h *Handler) scores(c *gin.Context) {
	scores, err := h.Svc.Scores(c.Query("text"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, scoresResponse{Strategy: h.Svc.Strategy.Name(), Scores: scores})
}

func (h *Handler) categories(c *gin.Context) {
	respond.OK(c, categoriesResponse{Categories: h.Svc.Categories()})
}

func (h *Handler) get(c *gin.Context) {
	rec, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toRecordResponse(rec))
}

func (h *Handler) list(c *gin.Context) {
	limit := DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	records, err := h.Svc.List(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := listResponse{Predictions: make([]recordResponse, len(records))}
	for i, rec := range records {
		out.Predictions[i] = toRecordResponse(rec)
	}
	respond.OK(c, out)
}

// bindJSON decodes a body of at most MaxBodyBytes and writes the error
// response itself when decoding fails.
func bindJSON(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "request body too large", gin.H{"limitBytes": tooLarge.Limit})
		return false
	}
	respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
	return false
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "prediction not found", nil)
	default:
		metrics.IncPredictionFailed()
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "prediction failed", err.Error())
	}
}
