package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ductoanoxo/FOODFAST-sub001/cmd"
	inhttp "github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/in/http"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres/dronerepo"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres/orderrepo"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := openDatabase(configs)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDBNumber(),
	})

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateGetReadyOrderIDsQueryHandler(),
		app.CreateDispatchOrderCommandHandler(),
		configs.DispatchSchedule(),
		logger,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		RedisAddr:     goDotEnvVariable("REDIS_ADDR"),
		RedisPassword: goDotEnvVariable("REDIS_PASSWORD"),
		RedisDB:       goDotEnvVariable("REDIS_DB"),

		JWTSecret: goDotEnvVariable("JWT_SECRET"),

		MinBatteryPercent:     goDotEnvVariable("MIN_BATTERY_PERCENT"),
		DispatchRadiusKm:      goDotEnvVariable("DISPATCH_RADIUS_KM"),
		DispatchRetrySchedule: goDotEnvVariable("DISPATCH_CRON"),
		DispatchLockTTL:       goDotEnvVariable("DISPATCH_LOCK_TTL"),

		VNPayTmnCode:    goDotEnvVariable("VNPAY_TMN_CODE"),
		VNPayHashSecret: goDotEnvVariable("VNPAY_HASH_SECRET"),
		VNPayBaseURL:    goDotEnvVariable("VNPAY_URL"),
		VNPayReturnURL:  goDotEnvVariable("VNPAY_RETURN_URL"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

// openDatabase connects gorm through the database/sql pq driver and brings
// the schema up to date.
func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DriverName: "postgres",
		DSN:        dsn,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &dronerepo.DroneDTO{})
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, configs cmd.Config) {
	createOrder := app.CreateCreateOrderCommandHandler()
	transitionOrder := app.CreateTransitionOrderCommandHandler()
	assignDrone := app.CreateAssignDroneCommandHandler()
	reassignOrder := app.CreateReassignOrderCommandHandler()
	createDrone := app.CreateCreateDroneCommandHandler()
	droneTelemetry := app.CreateUpdateDroneTelemetryCommandHandler()
	initiatePayment := app.CreateInitiatePaymentCommandHandler()
	applyPayment := app.CreateApplyPaymentNotificationCommandHandler()
	trackOrder := app.CreateTrackOrderQueryHandler()
	getOrder := app.CreateGetOrderQueryHandler()
	getAllDrones := app.CreateGetAllDronesQueryHandler()

	server := inhttp.NewServer(
		&createOrder,
		transitionOrder,
		assignDrone,
		reassignOrder,
		&createDrone,
		droneTelemetry,
		initiatePayment,
		applyPayment,
		trackOrder,
		getOrder,
		getAllDrones,
		app.PaymentGateway(),
	)

	e := echo.New()
	server.RegisterRoutes(e, []byte(configs.JWTSecret))

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
