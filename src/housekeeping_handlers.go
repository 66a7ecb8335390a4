package main

import (
	"hms/src/config"
	"hms/src/db"
	"hms/src/middlewares"
	"hms/src/models"
	"hms/src/realtime"
	"hms/src/types"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func housekeepingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	staffOnly := middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF)
	g.
		GET("/housekeeping/tasks", staffOnly, func(ctx *gin.Context) {
			gdb := db.GetDb()
			q := gdb.Model(&models.HousekeepingTask{}).Preload("Room")
			if status := ctx.Query("status"); status != "" {
				q = q.Where("status = ?", status)
			}
			var tasks []models.HousekeepingTask
			if err := q.Order("created_at").Find(&tasks).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tasks, "count": len(tasks)})
		}).
		POST("/housekeeping/tasks", staffOnly, func(ctx *gin.Context) {
			var body types.CreateTaskRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			var room models.Room
			if err := gdb.Where("id = ?", body.RoomID).First(&room).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
				return
			}
			task := models.HousekeepingTask{
				RoomID:     body.RoomID,
				Kind:       types.TaskKind(body.Kind),
				AssigneeID: body.Assignee,
				Notes:      body.Notes,
				Status:     types.TASK_OPEN,
			}
			if err := gdb.Create(&task).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": task})
		}).
		PUT("/housekeeping/tasks/:id/complete", staffOnly, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := actorFromContext(ctx)
			task, err := engine.CompleteHousekeeping(params.ID, actor)
			if err != nil {
				respondCoreError(ctx, err)
				return
			}

			// Activity telemetry only; the room-status event already went out.
			key := realtime.ActivityKey("task-complete", task.ID)
			window := config.ActivityCoolDownSeconds * time.Second
			if dedup.ShouldFire(ctx.Request.Context(), key, window) {
				broadcaster.Publish(realtime.NewEvent(
					realtime.EventStaffActivity,
					realtime.ToRoles(types.ROLE_ADMIN),
					map[string]any{
						"actor":  actor.Name,
						"action": "completed a housekeeping task",
						"data":   gin.H{"task_id": task.ID, "room_id": task.RoomID},
					},
				))
			}
			ctx.JSON(http.StatusOK, gin.H{"data": task})
		})
	return g
}
