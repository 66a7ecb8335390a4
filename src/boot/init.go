package boot

import (
	"hms/src/core"
	"hms/src/db"
	"hms/src/lib"
	"hms/src/models"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	gdb := db.GetDb()

	err := gdb.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.HousekeepingTask{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return gdb
}

// InitScheduler starts the periodic room-status sweep. Reconciliation is
// idempotent, so the sweep is safe to run against an already-consistent
// fleet; it exists to repair statuses after a crash mid-transition.
func InitScheduler(engine *core.Engine) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Printf("Scheduler unavailable, room sweep disabled: %s\n", err.Error())
		return
	}
	if _, err := lib.CreateCronJob(engine.ReconcileAll, 15*time.Minute); err != nil {
		log.Printf("Error scheduling room sweep: %s\n", err.Error())
		return
	}
	sched.Start()
}
