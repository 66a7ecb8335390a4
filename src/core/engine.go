package core

import (
	"errors"
	"fmt"
	"hms/src/config"
	"hms/src/lib/mailer"
	"hms/src/models"
	"hms/src/realtime"
	"hms/src/types"
	"hms/src/utils"
	"log"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Actor identifies who performs a transition. Ownership checks for guest
// operations happen here; role checks on staff endpoints happen in the
// route middleware.
type Actor struct {
	ID   uint
	Name string
	Role types.Role
}

// Engine owns every mutating booking/room operation. All writes run inside
// a transaction; events are collected during the transaction and published
// only after it commits, so a rejected transition never produces a
// state-changed event.
type Engine struct {
	db   *gorm.DB
	pub  realtime.Publisher
	sync *Synchronizer
	now  func() time.Time
	mail func(*mailer.SendMailInput)
}

type EngineOption func(*Engine)

// WithClock overrides the engine's notion of "now".
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithMailer overrides the outbound mail hook.
func WithMailer(send func(*mailer.SendMailInput)) EngineOption {
	return func(e *Engine) {
		e.mail = send
	}
}

func NewEngine(gdb *gorm.DB, pub realtime.Publisher, opts ...EngineOption) *Engine {
	e := &Engine{
		db:   gdb,
		pub:  pub,
		now:  time.Now,
		mail: mailer.SendAsync,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sync = NewSynchronizer(func() time.Time { return e.now() })
	return e
}

func (e *Engine) publish(events []realtime.Event) {
	if e.pub == nil {
		return
	}
	for _, ev := range events {
		e.pub.Publish(ev)
	}
}

type CreateBookingInput struct {
	RoomID   uint
	CheckIn  time.Time
	CheckOut time.Time
	UserID   *uint
	Guest    *types.GuestInfo
	Actor    Actor
}

// CreateBooking checks availability and inserts the booking in one
// transaction, holding a row lock on the room so two racing overlapping
// creates serialize and the loser sees the winner's conflict.
func (e *Engine) CreateBooking(input CreateBookingInput) (*models.Booking, error) {
	checkIn := DateOnly(input.CheckIn)
	checkOut := DateOnly(input.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	if input.UserID == nil && input.Guest == nil {
		return nil, ErrMissingOccupant
	}
	if input.UserID != nil && input.Guest != nil {
		return nil, ErrOccupantConflict
	}

	var booking models.Booking
	var events []realtime.Event
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", input.RoomID).
			First(&room).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		if room.Status == types.ROOM_MAINTENANCE || room.Status == types.ROOM_CLEANING {
			return &GuardError{Op: "create", Reason: fmt.Sprintf("room %s is under %s", room.Number, room.Status)}
		}
		conflicts, err := findConflicts(tx, room.ID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{RoomID: room.ID, Conflicts: conflicts}
		}

		status := types.BOOKING_PENDING
		if input.Actor.Role.IsStaff() {
			status = types.BOOKING_CONFIRMED
		}
		nights := utils.Nights(checkIn, checkOut)
		booking = models.Booking{
			RoomID:        room.ID,
			UserID:        input.UserID,
			CheckInDate:   checkIn,
			CheckOutDate:  checkOut,
			Status:        status,
			PaymentStatus: types.PAYMENT_PENDING,
			Nights:        nights,
			TotalPrice:    float32(nights) * room.Price,
		}
		if input.Guest != nil {
			booking.GuestName = &input.Guest.Name
			booking.GuestEmail = &input.Guest.Email
			booking.GuestPhone = &input.Guest.Phone
			if input.Guest.Address != "" {
				booking.GuestAddress = &input.Guest.Address
			}
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		booking.Room = &room

		synced, changed, err := e.sync.Reconcile(tx, room.ID, TriggerCreate)
		if err != nil {
			return err
		}
		if changed {
			events = append(events, roomStatusEvent(synced))
		}

		ev, err := e.notifyTx(tx, &models.Notification{
			Title:    "New booking",
			Message:  fmt.Sprintf("Room %s booked %s to %s", room.Number, checkIn.Format(config.DATE_PARSE_FORMAT), checkOut.Format(config.DATE_PARSE_FORMAT)),
			Type:     "booking",
			Audience: "staff",
		})
		if err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	events = append([]realtime.Event{realtime.NewEvent(
		realtime.EventBookingCreated,
		realtime.ToStaffAndUser(booking.UserID),
		bookingCreatedPayload(&booking),
	)}, events...)
	e.publish(events)
	e.sendBookingMail(&booking)
	return &booking, nil
}

// CreateGuestBooking is the walk-in flow: occupant captured as inline guest
// fields instead of a user reference.
func (e *Engine) CreateGuestBooking(roomID uint, checkIn, checkOut time.Time, guest types.GuestInfo, actor Actor) (*models.Booking, error) {
	if guest.Name == "" || guest.Email == "" {
		return nil, ErrMissingOccupant
	}
	return e.CreateBooking(CreateBookingInput{
		RoomID:   roomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guest:    &guest,
		Actor:    actor,
	})
}

// ConfirmBooking moves pending -> confirmed. The slot was held at creation,
// so no date re-check happens here.
func (e *Engine) ConfirmBooking(id uint, actor Actor) (*models.Booking, error) {
	return e.applyTransition(id, types.BOOKING_CONFIRMED, "confirm", TriggerConfirm, actor, nil)
}

// CheckIn moves confirmed -> checked-in and marks the room occupied. Any
// other source status is a rejected operation.
func (e *Engine) CheckIn(id uint, actor Actor) (*models.Booking, error) {
	return e.applyTransition(id, types.BOOKING_CHECKED_IN, "check in", TriggerCheckIn, actor,
		func(updates map[string]any, now time.Time) {
			updates["check_in_time"] = now
			updates["checked_in_by"] = actor.ID
		})
}

// CheckOut moves checked-in -> checked-out and hands the room to
// housekeeping as vacant-dirty.
func (e *Engine) CheckOut(id uint, actor Actor) (*models.Booking, error) {
	return e.applyTransition(id, types.BOOKING_CHECKED_OUT, "check out", TriggerCheckOut, actor,
		func(updates map[string]any, now time.Time) {
			updates["check_out_time"] = now
			updates["checked_out_by"] = actor.ID
		})
}

func (e *Engine) applyTransition(id uint, to types.BookingStatus, op string, trigger Trigger, actor Actor, extra func(map[string]any, time.Time)) (*models.Booking, error) {
	var booking *models.Booking
	var events []realtime.Event
	err := e.db.Transaction(func(tx *gorm.DB) error {
		b, err := loadBooking(tx, id)
		if err != nil {
			return err
		}
		if err := guardTransition(op, b.Status, to); err != nil {
			return err
		}
		now := e.now()
		updates := map[string]any{"status": to}
		if extra != nil {
			extra(updates, now)
		}
		if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
			return err
		}
		b.Status = to
		booking = b

		if trigger == TriggerCheckOut {
			err := tx.Model(&models.Room{}).Where("id = ?", b.RoomID).Update("cleaning_status", types.CLEANING_DIRTY).Error
			if err != nil {
				return err
			}
		}
		synced, changed, err := e.sync.Reconcile(tx, b.RoomID, trigger)
		if err != nil {
			return err
		}
		if changed {
			events = append(events, roomStatusEvent(synced))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[booking] %d %s by actor %d\n", booking.ID, to, actor.ID)
	events = append([]realtime.Event{realtime.NewEvent(
		realtime.EventBookingUpdated,
		realtime.ToRoles(types.ROLE_ADMIN, types.ROLE_STAFF),
		map[string]any{"booking_id": booking.ID, "status": booking.Status},
	)}, events...)
	e.publish(events)
	return booking, nil
}

// CancelBooking cancels from pending or confirmed. Guest-initiated cancels
// must come from the booking's owner at least 24 hours before check-in;
// staff and admin bypass the cutoff. Cancelling twice is an error, not a
// silent no-op.
func (e *Engine) CancelBooking(id uint, actor Actor) (*models.Booking, error) {
	var booking *models.Booking
	var events []realtime.Event
	err := e.db.Transaction(func(tx *gorm.DB) error {
		b, err := loadBooking(tx, id)
		if err != nil {
			return err
		}
		if b.Status == types.BOOKING_CANCELED {
			return ErrAlreadyCanceled
		}
		if err := guardTransition("cancel", b.Status, types.BOOKING_CANCELED); err != nil {
			return err
		}
		if !actor.Role.IsStaff() {
			if b.UserID == nil || *b.UserID != actor.ID {
				return ErrNotOwner
			}
			cutoff := b.CheckInDate.Add(-config.CancelCutoffHours * time.Hour)
			if e.now().After(cutoff) {
				return &GuardError{
					Op:     "cancel",
					From:   b.Status,
					Reason: fmt.Sprintf("bookings can only be canceled at least %d hours before check-in", config.CancelCutoffHours),
				}
			}
		}

		updates := map[string]any{"status": types.BOOKING_CANCELED, "canceled_by": actor.ID}
		if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
			return err
		}
		b.Status = types.BOOKING_CANCELED
		booking = b

		synced, changed, err := e.sync.Reconcile(tx, b.RoomID, TriggerCancel)
		if err != nil {
			return err
		}
		booking.Room = synced
		if changed {
			events = append(events, roomStatusEvent(synced))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[booking] %d canceled by actor %d\n", booking.ID, actor.ID)
	payload := map[string]any{"booking_id": booking.ID}
	if booking.Room != nil {
		payload["room_number"] = booking.Room.Number
	}
	events = append([]realtime.Event{realtime.NewEvent(
		realtime.EventBookingCanceled,
		realtime.ToStaffAndUser(booking.UserID),
		payload,
	)}, events...)
	e.publish(events)
	return booking, nil
}

// UpdateRoomStatus is the staff surface for overrides. Maintenance and
// cleaning set a sticky override; available and vacant-clean clear it and
// let derivation take back over. Derived statuses (booked, occupied,
// vacant-dirty) can never be set directly.
func (e *Engine) UpdateRoomStatus(roomID uint, status types.RoomStatus, actor Actor) (*models.Room, error) {
	switch status {
	case types.ROOM_MAINTENANCE, types.ROOM_CLEANING, types.ROOM_AVAILABLE, types.ROOM_VACANT_CLEAN:
	default:
		return nil, &GuardError{Op: "set room status", Reason: fmt.Sprintf("status %q is derived and cannot be set directly", status)}
	}

	var room *models.Room
	var events []realtime.Event
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var current models.Room
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", roomID).
			First(&current).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		original := current.Status

		updates := map[string]any{"status": status}
		if slices.Contains(types.OverrideStatuses, status) {
			updates["override_by"] = actor.ID
			if status == types.ROOM_CLEANING {
				updates["cleaning_status"] = types.CLEANING_ONGOING
			}
		} else {
			updates["override_by"] = nil
			updates["cleaning_status"] = types.CLEANING_CLEAN
		}
		if err := tx.Model(&models.Room{}).Where("id = ?", current.ID).Updates(updates).Error; err != nil {
			return err
		}

		synced, _, err := e.sync.Reconcile(tx, current.ID, TriggerOverride)
		if err != nil {
			return err
		}
		room = synced
		if synced.Status != original {
			events = append(events, roomStatusEvent(synced))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[room] %s status set to %s by actor %d\n", room.Number, room.Status, actor.ID)
	e.publish(events)
	return room, nil
}

// CompleteHousekeeping closes a task and releases the room back to the
// derivation path: cleaning state resets, any cleaning override clears, and
// an empty room surfaces as vacant-clean until staff release it.
func (e *Engine) CompleteHousekeeping(taskID uint, actor Actor) (*models.HousekeepingTask, error) {
	var task *models.HousekeepingTask
	var events []realtime.Event
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var t models.HousekeepingTask
		if err := tx.Where("id = ?", taskID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if t.Status == types.TASK_DONE {
			return &GuardError{Op: "complete", Reason: "task is already done"}
		}
		now := e.now()
		taskUpdates := map[string]any{
			"status":       types.TASK_DONE,
			"completed_at": now,
			"completed_by": actor.ID,
		}
		if err := tx.Model(&models.HousekeepingTask{}).Where("id = ?", t.ID).Updates(taskUpdates).Error; err != nil {
			return err
		}
		t.Status = types.TASK_DONE
		t.CompletedAt = &now
		task = &t

		var room models.Room
		if err := tx.Where("id = ?", t.RoomID).First(&room).Error; err != nil {
			return err
		}
		original := room.Status
		roomUpdates := map[string]any{
			"cleaning_status": types.CLEANING_CLEAN,
			"override_by":     nil,
		}
		if room.Status == types.ROOM_VACANT_DIRTY || room.Status == types.ROOM_CLEANING {
			roomUpdates["status"] = types.ROOM_VACANT_CLEAN
		}
		if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(roomUpdates).Error; err != nil {
			return err
		}

		synced, _, err := e.sync.Reconcile(tx, room.ID, TriggerHousekeeping)
		if err != nil {
			return err
		}
		if synced.Status != original {
			events = append(events, roomStatusEvent(synced))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.publish(events)
	return task, nil
}

// ReconcileAll re-derives every room's status from the booking set. Run
// periodically as crash recovery for missed syncs; derivation is idempotent
// so a sweep over an already-consistent fleet is a no-op.
func (e *Engine) ReconcileAll() {
	var ids []uint
	if err := e.db.Model(&models.Room{}).Pluck("id", &ids).Error; err != nil {
		log.Printf("[sync] sweep failed to list rooms: %s\n", err.Error())
		return
	}
	for _, id := range ids {
		var events []realtime.Event
		err := e.db.Transaction(func(tx *gorm.DB) error {
			synced, changed, err := e.sync.Reconcile(tx, id, TriggerSweep)
			if err != nil {
				return err
			}
			if changed {
				events = append(events, roomStatusEvent(synced))
			}
			return nil
		})
		if err != nil {
			log.Printf("[sync] sweep failed for room %d: %s\n", id, err.Error())
			continue
		}
		e.publish(events)
	}
}

// Notify persists an inbox entry and broadcasts the matching ephemeral
// notification event.
func (e *Engine) Notify(n *models.Notification) error {
	var ev realtime.Event
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		ev, txErr = e.notifyTx(tx, n)
		return txErr
	})
	if err != nil {
		return err
	}
	e.publish([]realtime.Event{ev})
	return nil
}

func (e *Engine) notifyTx(tx *gorm.DB, n *models.Notification) (realtime.Event, error) {
	if err := tx.Create(n).Error; err != nil {
		return realtime.Event{}, err
	}
	audience := realtime.ToRoles(types.ROLE_ADMIN, types.ROLE_STAFF)
	if n.UserID != nil {
		audience = realtime.ToUser(*n.UserID)
	}
	return realtime.NewEvent(realtime.EventNotification, audience, map[string]any{
		"id":      n.ID,
		"title":   n.Title,
		"message": n.Message,
		"type":    n.Type,
		"data":    n.Data,
	}), nil
}

func (e *Engine) sendBookingMail(b *models.Booking) {
	if e.mail == nil {
		return
	}
	var to string
	if b.GuestEmail != nil {
		to = *b.GuestEmail
	} else if b.User != nil {
		to = b.User.Email
	}
	if to == "" {
		return
	}
	roomNumber := ""
	if b.Room != nil {
		roomNumber = b.Room.Number
	}
	e.mail(&mailer.SendMailInput{
		FromName: "Reservations",
		To:       []string{to},
		Subject:  fmt.Sprintf("Booking received for room %s", roomNumber),
		Body: fmt.Sprintf(
			"Your booking for room %s from %s to %s is %s. Total: %.2f",
			roomNumber,
			b.CheckInDate.Format(config.DATE_PARSE_FORMAT),
			b.CheckOutDate.Format(config.DATE_PARSE_FORMAT),
			b.Status,
			b.TotalPrice,
		),
	})
}

func loadBooking(tx *gorm.DB, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := tx.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func roomStatusEvent(room *models.Room) realtime.Event {
	return realtime.NewEvent(realtime.EventRoomStatusChanged, realtime.ToAll(), map[string]any{
		"room_id": room.ID,
		"number":  room.Number,
		"status":  room.Status,
	})
}

func bookingCreatedPayload(b *models.Booking) map[string]any {
	payload := map[string]any{
		"booking_id":     b.ID,
		"guest_name":     b.OccupantName(),
		"check_in_date":  b.CheckInDate,
		"check_out_date": b.CheckOutDate,
		"status":         b.Status,
	}
	if b.Room != nil {
		payload["room_number"] = b.Room.Number
	}
	return payload
}
