package main

import (
	"hms/src/core"
	"hms/src/db"
	"hms/src/middlewares"
	"hms/src/models"
	"hms/src/types"
	"hms/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			var filters types.BookingQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			gdb := db.GetDb()
			q := gdb.
				Model(&models.Booking{}).
				Preload("Room").
				Preload("User")
			if filters.Status != "" {
				q = q.Where("status = ?", filters.Status)
			}
			if filters.RoomID != 0 {
				q = q.Where("room_id = ?", filters.RoomID)
			}
			var bookings []models.Booking
			if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			gdb := db.GetDb()
			var booking models.Booking
			if err := gdb.
				Model(&models.Booking{}).
				Where("id = ?", params.ID).
				Preload("Room").
				Preload("User").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": core.ErrBookingNotFound.Error()})
				return
			}
			actor := actorFromContext(ctx)
			if !actor.Role.IsStaff() && (booking.IsGuest() || *booking.UserID != actor.ID) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": core.ErrNotOwner.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkIn, err := utils.ParseDate(body.CheckInDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkOut, err := utils.ParseDate(body.CheckOutDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := actorFromContext(ctx)
			userID := actor.ID
			booking, err := engine.CreateBooking(core.CreateBookingInput{
				RoomID:   body.RoomID,
				CheckIn:  checkIn,
				CheckOut: checkOut,
				UserID:   &userID,
				Actor:    actor,
			})
			if err != nil {
				respondCoreError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		POST("/bookings/guest", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			var body types.CreateGuestBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkIn, err := utils.ParseDate(body.CheckInDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			checkOut, err := utils.ParseDate(body.CheckOutDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := engine.CreateGuestBooking(body.RoomID, checkIn, checkOut, body.Guest, actorFromContext(ctx))
			if err != nil {
				respondCoreError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/confirm", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := engine.ConfirmBooking(params.ID, actorFromContext(ctx))
			if err != nil {
				respondCoreError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/checkin", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := engine.CheckIn(params.ID, actorFromContext(ctx))
			if err != nil {
				respondCoreError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/checkout", middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := engine.CheckOut(params.ID, actorFromContext(ctx))
			if err != nil {
				respondCoreError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := engine.CancelBooking(params.ID, actorFromContext(ctx))
			if err != nil {
				respondCoreError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}
