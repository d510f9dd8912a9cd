package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/service"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/transport/middleware"
)

type ProcessHandler struct {
	processService service.ProcessService
}

func NewProcessHandler(processService service.ProcessService) *ProcessHandler {
	return &ProcessHandler{processService: processService}
}

func (h *ProcessHandler) CreateProcess(c *gin.Context) {
	var req service.CreateProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	// The anti-duplication middleware already normalized the number.
	if v, ok := c.Get(middleware.CtxNormalizedNumero); ok {
		req.NumeroProcesso = v.(string)
	}

	process, err := h.processService.CreateProcess(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, entity.ErrProcessNumberExists) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, process)
}

func (h *ProcessHandler) GetProcess(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	process, err := h.processService.GetProcess(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrProcessNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, process)
}

func (h *ProcessHandler) GetAllProcesses(c *gin.Context) {
	processes, err := h.processService.GetAllProcesses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: processes})
}

func (h *ProcessHandler) UpdateProcess(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.UpdateProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if v, ok := c.Get(middleware.CtxNormalizedNumero); ok {
		req.NumeroProcesso = v.(string)
	}

	process, err := h.processService.UpdateProcess(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrProcessNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, entity.ErrProcessNumberExists):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, process)
}

func (h *ProcessHandler) DeleteProcess(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.processService.DeleteProcess(c.Request.Context(), id); err != nil {
		if errors.Is(err, entity.ErrProcessNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "processo removido"})
}

func (h *ProcessHandler) AddProcessUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.AddProcessUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	req.ProcessoID = id

	update, err := h.processService.AddProcessUpdate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, entity.ErrProcessNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, update)
}

func (h *ProcessHandler) GetProcessUpdates(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	updates, err := h.processService.GetProcessUpdates(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: updates})
}
