package training

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"autotask-ml/internal/shared/server/respond"
)

const completedMessage = "Model training completed successfully"

type trainRequest struct {
	Samples []Sample `json:"samples"`
}

type trainResponse struct {
	Message    string `json:"message"`
	Samples    int    `json:"samples"`
	ArchiveKey string `json:"archive_key,omitempty"`
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches POST /train to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/train", h.train)
}

func (h *Handler) train(c *gin.Context) {
	var req trainRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	res, err := h.Svc.Train(c.Request.Context(), req.Samples)
	if err != nil {
		if errors.Is(err, ErrInvalidSample) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "training failed", err.Error())
		return
	}

	respond.OK(c, trainResponse{
		Message:    completedMessage,
		Samples:    res.Samples,
		ArchiveKey: res.ArchiveKey,
	})
}
