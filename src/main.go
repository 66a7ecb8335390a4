package main

import (
	"hms/src/boot"
	"hms/src/config"
	"hms/src/core"
	"hms/src/db"
	"hms/src/lib"
	"hms/src/middlewares"
	"hms/src/realtime"
	"hms/src/utils"
	"io"
	"log"
	"os"
	"path"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

// bookabledate accepts a calendar date that is today or later.
var bookableDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(today)
}

// gtdate requires the field to parse strictly after the named sibling field.
var gtfield validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	other, ok := field.Interface().(string)
	if !ok {
		return false
	}
	od, err := time.Parse(config.DATE_PARSE_FORMAT, other)
	if err != nil {
		return false
	}
	return d.After(od)
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	// Middleware must be installed before routes are registered; gin
	// freezes each route's handler chain at registration time.
	if !utils.IsProd() {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{os.Getenv("APP_HOST")}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	api := router.Group(apiPrefix)
	api.Use(middlewares.AuthMiddleware)
	bookingHandlers(api)
	roomHandlers(api)
	housekeepingHandlers(api)
	dashboardHandlers(api)

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	return router
}

func setupSocketServer(r *gin.Engine) *realtime.Broadcaster {
	wss, c := realtime.NewSocketServer()
	r.GET("/socket.io/*any", gin.WrapH(wss.ServeHandler(c)))
	r.POST("/socket.io/*any", gin.WrapH(wss.ServeHandler(c)))
	return realtime.NewBroadcaster(wss)
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", bookableDateValidatorFunc)
		v.RegisterValidation("gtdate", gtfield)
	}

	router := setupRouter()
	broadcaster = setupSocketServer(router)
	if os.Getenv("PUSHER_APP_ID") != "" {
		broadcaster.WithMobilePush(lib.GetPusherClient())
	}
	log.Println("WS server listening for connections...")

	engine = core.NewEngine(db.GetDb(), broadcaster)
	checker = core.NewChecker(db.GetDb())
	dedup = realtime.NewDeduplicator(lib.GetRedisClient(), config.ActivityCoolDownSeconds*time.Second)

	boot.InitScheduler(engine)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server exited: %s\n", err.Error())
	}
}
