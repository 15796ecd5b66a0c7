package cmd

import (
	"context"
	"log/slog"

	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/postgres/dronerepo"
	outredis "github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/redis"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/adapters/out/vnpay"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/commands"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/application/usecases/queries"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/model/kernel"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/domain/services"
	"github.com/ductoanoxo/FOODFAST-sub001/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into application handlers. It is the only
// place that knows concrete adapter types.
type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	redisClient *redis.Client
	uowFactory  postgres.GormUnitOfWorkFactory
	gateway     ports.PaymentGateway
	droneIndex  ports.DroneIndex
	lock        ports.DispatchLock
	notifier    ports.Notifier
	logger      *slog.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	logger *slog.Logger,
) (CompositionRoot, error) {
	gateway, err := vnpay.NewClient(vnpay.Config{
		TmnCode:    config.VNPayTmnCode,
		HashSecret: config.VNPayHashSecret,
		BaseURL:    config.VNPayBaseURL,
		ReturnURL:  config.VNPayReturnURL,
	})
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		redisClient: redisClient,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		gateway:     gateway,
		droneIndex:  outredis.NewGeoDroneIndex(redisClient),
		lock:        outredis.NewDispatchLock(redisClient, config.LockTTL()),
		notifier:    outredis.NewNotifier(redisClient),
		logger:      logger,
	}, nil
}

// PaymentGateway exposes the gateway for the payment return route.
func (c *CompositionRoot) PaymentGateway() ports.PaymentGateway {
	return c.gateway
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(
		f,
		services.NewRoleTransitionPolicy(),
		c.CreateDispatchTrigger(),
	)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOrderCommandHandler(
		f,
		c.standaloneDroneRepository(),
		services.NewDroneDispatcher(c.config.MinBattery()),
		c.droneIndex,
		c.lock,
		c.notifier,
		c.config.DispatchRadius(),
	)
}

func (c *CompositionRoot) CreateAssignDroneCommandHandler() commands.AssignDroneCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDroneCommandHandler(f, c.standaloneDroneRepository(), c.notifier)
}

func (c *CompositionRoot) CreateReassignOrderCommandHandler() commands.ReassignOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReassignOrderCommandHandler(f, c.standaloneDroneRepository(), c.notifier)
}

func (c *CompositionRoot) CreateCreateDroneCommandHandler() commands.CreateDroneCommandHandler {
	var f commands.DroneUoWFactory = FuncDroneUoWFactory(func() commands.DroneUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateDroneCommandHandler(f, c.droneIndex)
}

func (c *CompositionRoot) CreateUpdateDroneTelemetryCommandHandler() commands.UpdateDroneTelemetryCommandHandler {
	var f commands.DroneUoWFactory = FuncDroneUoWFactory(func() commands.DroneUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDroneTelemetryCommandHandler(f, c.droneIndex)
}

func (c *CompositionRoot) CreateInitiatePaymentCommandHandler() commands.InitiatePaymentCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewInitiatePaymentCommandHandler(f, c.gateway)
}

func (c *CompositionRoot) CreateApplyPaymentNotificationCommandHandler() commands.ApplyPaymentNotificationCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyPaymentNotificationCommandHandler(f, c.gateway, c.notifier)
}

// CreateDispatchTrigger returns the trigger that runs dispatch attempts in
// the background, off the request path.
func (c *CompositionRoot) CreateDispatchTrigger() commands.DispatchTrigger {
	return &asyncDispatchTrigger{
		handler: c.CreateDispatchOrderCommandHandler(),
		logger:  c.logger.With("component", "dispatch_trigger"),
	}
}

func (c *CompositionRoot) CreateTrackOrderQueryHandler() queries.TrackOrderQueryHandler {
	return queries.NewTrackOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllDronesQueryHandler() queries.GetAllDronesQueryHandler {
	return queries.NewGetAllDronesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetReadyOrderIDsQueryHandler() queries.GetReadyOrderIDsQueryHandler {
	return queries.NewGetReadyOrderIDsQueryHandler(c.gormDB)
}

// standaloneDroneRepository returns a repository outside any unit of work.
// Drone claims must take effect immediately so concurrent dispatchers see
// them; inside a transaction they would only surface at commit.
func (c *CompositionRoot) standaloneDroneRepository() ports.DroneRepository {
	return dronerepo.NewGormDroneRepository(c.gormDB, noopAggregateTracker{})
}

// asyncDispatchTrigger runs a dispatch attempt on its own goroutine. The
// order stays in ready if the attempt loses, so the retry sweep covers
// crashes between trigger and completion.
type asyncDispatchTrigger struct {
	handler commands.DispatchOrderCommandHandler
	logger  *slog.Logger
}

func (t *asyncDispatchTrigger) Trigger(orderID kernel.UUID) {
	go func() {
		ctx := context.Background()

		cmd, err := commands.NewDispatchOrderCommand(orderID)
		if err != nil {
			t.logger.ErrorContext(ctx, "Dispatch command rejected", "order_id", orderID, "error", err)
			return
		}

		if err := t.handler.Handle(ctx, cmd); err != nil {
			t.logger.InfoContext(ctx, "Dispatch attempt did not assign", "order_id", orderID, "reason", err)
		}
	}()
}

// noopAggregateTracker satisfies the repository tracker for standalone use.
type noopAggregateTracker struct{}

func (noopAggregateTracker) TrackAggregate(kernel.UUID, any) {}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDroneUoWFactory func() commands.DroneUoW

func (f FuncDroneUoWFactory) Create() commands.DroneUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
