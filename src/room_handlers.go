package main

import (
	"hms/src/db"
	"hms/src/middlewares"
	"hms/src/models"
	"hms/src/types"
	"hms/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func roomHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/rooms", func(ctx *gin.Context) {
			gdb := db.GetDb()
			q := gdb.Model(&models.Room{})
			if status := ctx.Query("status"); status != "" {
				q = q.Where("status = ?", status)
			}
			var rooms []models.Room
			if err := q.Order("number").Find(&rooms).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rooms, "count": len(rooms)})
		}).
		GET("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			gdb := db.GetDb()
			var room models.Room
			if err := gdb.Where("id = ?", params.ID).First(&room).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": room})
		}).
		GET("/rooms/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.AvailabilityQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			from, err := utils.ParseDate(query.From)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			to, err := utils.ParseDate(query.To)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			conflicts, err := checker.FindConflicts(params.ID, from, to)
			if err != nil {
				respondCoreError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"available": len(conflicts) == 0,
				"conflicts": conflicts,
			})
		}).
		POST("/rooms", middlewares.RequireRoles(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.CreateRoomRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			room := models.Room{
				Number:      body.Number,
				Type:        body.Type,
				Floor:       body.Floor,
				Price:       body.Price,
				Description: body.Description,
				Status:      types.ROOM_AVAILABLE,
			}
			gdb := db.GetDb()
			if err := gdb.Create(&room).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": room})
		}).
		PUT("/rooms/:id/status", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateRoomStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			room, err := engine.UpdateRoomStatus(params.ID, types.RoomStatus(body.Status), actorFromContext(ctx))
			if err != nil {
				respondCoreError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": room})
		})
	return g
}
