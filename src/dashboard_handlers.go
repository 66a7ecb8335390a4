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

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func dashboardHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/dashboard", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			gdb := db.GetDb()
			var bookingCounts []statusCount
			if err := gdb.
				Model(&models.Booking{}).
				Select("status, COUNT(id) AS count").
				Group("status").
				Find(&bookingCounts).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			var roomCounts []statusCount
			if err := gdb.
				Model(&models.Room{}).
				Select("status, COUNT(id) AS count").
				Group("status").
				Find(&roomCounts).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}

			// Every refresh would otherwise ping the opposite role channel;
			// the dedup window collapses bursts into one activity event.
			actor := actorFromContext(ctx)
			key := realtime.ActivityKey("dashboard-view", actor.ID)
			window := config.ActivityCoolDownSeconds * time.Second
			if dedup.ShouldFire(ctx.Request.Context(), key, window) {
				kind := realtime.EventStaffActivity
				audience := realtime.ToRoles(types.ROLE_ADMIN)
				if actor.Role == types.ROLE_ADMIN {
					kind = realtime.EventAdminActivity
					audience = realtime.ToRoles(types.ROLE_STAFF)
				}
				broadcaster.Publish(realtime.NewEvent(kind, audience, map[string]any{
					"actor":  actor.Name,
					"action": "viewed the dashboard",
				}))
			}

			ctx.JSON(http.StatusOK, gin.H{
				"bookings": bookingCounts,
				"rooms":    roomCounts,
			})
		}).
		POST("/notifications", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			var body types.CreateNotificationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			kind := body.Type
			if kind == "" {
				kind = "announcement"
			}
			notification := models.Notification{
				Title:    body.Title,
				Message:  body.Message,
				Type:     kind,
				Audience: "staff",
				UserID:   body.UserID,
			}
			if body.UserID != nil {
				notification.Audience = "user"
			}
			if err := engine.Notify(&notification); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": notification})
		}).
		GET("/notifications", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			gdb := db.GetDb()
			var notifications []models.Notification
			if err := gdb.
				Model(&models.Notification{}).
				Order("created_at DESC").
				Limit(100).
				Find(&notifications).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
		})
	return g
}
