package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/conflict"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

// Context keys under which the middleware hands normalized values to the
// handler behind it.
const (
	CtxNormalizedEmail  = "conflict_normalized_email"
	CtxNormalizedNumero = "conflict_normalized_numero_processo"
)

// ConflictResponse is the structured 409 body: which field collided, the
// submitted value, and a summary of the record it collided with.
type ConflictResponse struct {
	Success           bool                  `json:"success"`
	Field             string                `json:"field"`
	Message           string                `json:"message"`
	SubmittedValue    string                `json:"submitted_value"`
	ConflictingRecord *conflict.ConflictRef `json:"conflicting_record,omitempty"`
}

// UserConflict pre-checks user writes for email and telefone collisions.
// On PUT routes the record's own id is excluded, so re-submitting your own
// email passes.
func UserConflict(store conflict.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			Email    string `json:"email"`
			Telefone string `json:"telefone"`
		}
		if !readBody(c, &payload) {
			return
		}

		excludeID := pathID(c)

		result, err := conflict.CheckUnique(c.Request.Context(), store, conflict.UserEmailUnique, payload.Email, excludeID)
		if err != nil {
			abortStoreError(c, err)
			return
		}
		if !result.Allowed {
			abortConflict(c, result)
			return
		}
		c.Set(CtxNormalizedEmail, conflict.UserEmailUnique.Normalize(payload.Email))

		result, err = conflict.CheckUnique(c.Request.Context(), store, conflict.UserTelefoneUnique, payload.Telefone, excludeID)
		if err != nil {
			abortStoreError(c, err)
			return
		}
		if !result.Allowed {
			abortConflict(c, result)
			return
		}

		c.Next()
	}
}

// ProcessConflict pre-checks process writes for number collisions and
// hands the uppercased, trimmed number to the handler.
func ProcessConflict(store conflict.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			NumeroProcesso string `json:"numero_processo"`
		}
		if !readBody(c, &payload) {
			return
		}

		result, err := conflict.CheckUnique(c.Request.Context(), store, conflict.ProcessNumberUnique, payload.NumeroProcesso, pathID(c))
		if err != nil {
			abortStoreError(c, err)
			return
		}
		if !result.Allowed {
			abortConflict(c, result)
			return
		}

		c.Set(CtxNormalizedNumero, conflict.ProcessNumberUnique.Normalize(payload.NumeroProcesso))
		c.Next()
	}
}

// ScheduleLookup resolves the schedule being updated so the overlap check
// runs against its owner even when the update payload omits usuario_id.
type ScheduleLookup interface {
	GetByID(ctx context.Context, id int64) (*entity.Schedule, error)
}

// ScheduleConflict pre-checks schedule writes against the same user's
// existing slots: a margin overlap and the exact-duplicate rule. Update
// payloads carry only the changed fields, so missing candidate fields are
// filled in from the stored record before checking.
func ScheduleConflict(store conflict.Store, schedules ScheduleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			UsuarioID int64             `json:"usuario_id"`
			Titulo    string            `json:"titulo"`
			DataHora  entity.CustomTime `json:"data_hora"`
		}
		if !readBody(c, &payload) {
			return
		}

		usuarioID := payload.UsuarioID
		titulo := payload.Titulo
		at := payload.DataHora.Time

		if excludeID := pathID(c); excludeID != 0 {
			current, err := schedules.GetByID(c.Request.Context(), excludeID)
			if err != nil {
				if errors.Is(err, entity.ErrScheduleNotFound) {
					// Unknown id is the handler's 404, not a conflict.
					c.Next()
					return
				}
				abortStoreError(c, err)
				return
			}

			if usuarioID == 0 {
				usuarioID = current.UsuarioID
			}
			if titulo == "" {
				titulo = current.Titulo
			}
			if at.IsZero() {
				at = current.DataHora
			}
		}

		result, err := conflict.CheckOverlap(
			c.Request.Context(), store, conflict.ScheduleOverlap,
			usuarioID, titulo, at, pathID(c),
		)
		if err != nil {
			abortStoreError(c, err)
			return
		}
		if !result.Allowed {
			abortConflict(c, result)
			return
		}

		c.Next()
	}
}

// readBody pulls the raw payload, restores it for the handler's own
// binding, and unmarshals the candidate fields. A malformed body is not
// this middleware's problem: it passes through for the handler's binding
// to reject.
func readBody(c *gin.Context, payload interface{}) bool {
	raw, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return false
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

	if len(raw) == 0 {
		c.Next()
		return false
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		c.Next()
		return false
	}

	return true
}

// pathID resolves the record being updated, 0 on create routes.
func pathID(c *gin.Context) int64 {
	idStr := c.Param("id")
	if idStr == "" {
		return 0
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0
	}

	return id
}

func abortConflict(c *gin.Context, result conflict.Result) {
	c.AbortWithStatusJSON(http.StatusConflict, ConflictResponse{
		Field:             result.Field,
		Message:           result.Message,
		SubmittedValue:    result.SubmittedValue,
		ConflictingRecord: result.Conflict,
	})
}

// abortStoreError: without the store no conflict guarantee can be made,
// so the request fails instead of proceeding unchecked.
func abortStoreError(c *gin.Context, err error) {
	logrus.Errorf("Conflict pre-check store error: %v", err)
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
		"success": false,
		"error":   "validação de duplicidade indisponível",
	})
}
