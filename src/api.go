package main

import (
	"errors"
	"hms/src/core"
	"hms/src/realtime"
	"hms/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Shared handler dependencies, wired once in main.
var (
	engine      *core.Engine
	checker     *core.Checker
	dedup       *realtime.Deduplicator
	broadcaster *realtime.Broadcaster
)

func actorFromContext(ctx *gin.Context) core.Actor {
	return core.Actor{
		ID:   ctx.GetUint("id"),
		Name: ctx.GetString("name"),
		Role: types.Role(ctx.GetString("role")),
	}
}

// respondCoreError maps the engine's typed failures onto HTTP statuses. The
// payload carries enough detail (conflicting ranges, required prior state)
// for the UI to explain why the operation failed.
func respondCoreError(ctx *gin.Context, err error) {
	var conflict *core.ConflictError
	var guard *core.GuardError
	switch {
	case errors.As(err, &conflict):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":     conflict.Error(),
			"conflicts": conflict.Ranges(),
		})
	case errors.As(err, &guard):
		body := gin.H{"error": guard.Error()}
		if len(guard.Required) > 0 {
			body["required_status"] = guard.Required
		}
		ctx.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, core.ErrAlreadyCanceled):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrBookingNotFound),
		errors.Is(err, core.ErrRoomNotFound),
		errors.Is(err, core.ErrTaskNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotOwner):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrInvalidDateRange),
		errors.Is(err, core.ErrMissingOccupant),
		errors.Is(err, core.ErrOccupantConflict):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
