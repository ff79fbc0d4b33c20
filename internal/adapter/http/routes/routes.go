package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "bizdesk/docs"
	request "bizdesk/internal/adapter/http/dto/request"
	"bizdesk/internal/adapter/http/handlers"
	"bizdesk/internal/adapter/persistence/memory"
	"bizdesk/internal/adapter/persistence/repository"
	"bizdesk/internal/domain/entities"
	"bizdesk/internal/infrastructure/config"
	"bizdesk/internal/infrastructure/database"
	"bizdesk/internal/infrastructure/payments"
	"bizdesk/internal/usecase"
	"bizdesk/internal/usecase/interfaces"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := BuildHandlers(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to startup the application: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: NewRouter(cfg, h),
	}

	go func() {
		log.Printf("[server] listening on :%s storage=%s", cfg.Port, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to startup the application: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] forced shutdown: %v", err)
	}
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Order     *handlers.OrderHandler
	Estimate  *handlers.EstimateHandler
	Payment   *handlers.PaymentHandler
	Customer  *handlers.CatalogHandler[entities.Customer, request.CustomerRequest]
	Agent     *handlers.CatalogHandler[entities.Agent, request.AgentRequest]
	Employee  *handlers.CatalogHandler[entities.Employee, request.EmployeeRequest]
	Product   *handlers.CatalogHandler[entities.Product, request.ProductRequest]
	Supplier  *handlers.CatalogHandler[entities.Supplier, request.SupplierRequest]
	Vendor    *handlers.CatalogHandler[entities.Vendor, request.VendorRequest]
	Inventory *handlers.InventoryHandler
}

// repositories is the storage side of the wiring, either DynamoDB or in memory.
type repositories struct {
	seq       interfaces.ISequenceGenerator
	orders    interfaces.IOrderRepository
	estimates interfaces.IEstimateRepository
	payments  interfaces.IPaymentRepository
	customers interfaces.ICatalogRepository[entities.Customer]
	agents    interfaces.ICatalogRepository[entities.Agent]
	employees interfaces.ICatalogRepository[entities.Employee]
	products  interfaces.ICatalogRepository[entities.Product]
	suppliers interfaces.ICatalogRepository[entities.Supplier]
	vendors   interfaces.ICatalogRepository[entities.Vendor]
	inventory interfaces.ICatalogRepository[entities.InventoryItem]
}

// BuildHandlers wires storage, use cases and handlers from cfg.
func BuildHandlers(ctx context.Context, cfg *config.Config) (*Handlers, error) {
	var repos repositories
	if cfg.UsesMemoryStorage() {
		log.Printf("[server] using in-memory storage, data is lost on restart")
		repos = memoryRepositories(memory.NewStore())
	} else {
		ddb, err := database.ConnectDynamoDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		tables := repository.Tables{
			Orders:        cfg.OrdersTable,
			Estimates:     cfg.EstimatesTable,
			Payments:      cfg.PaymentsTable,
			Counters:      cfg.CountersTable,
			CatalogPrefix: cfg.CatalogTablePrefix,
		}
		if cfg.DynamoDBAutoCreate {
			if err := database.EnsureTables(ctx, ddb, database.TableSpecs(tables)); err != nil {
				return nil, err
			}
		}
		repos = dynamoRepositories(ddb, tables)
	}

	var gateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.PaymentGatewayMock)
	if err != nil {
		log.Printf("[server] Mercado Pago gateway not configured: %v", err)
	} else {
		gateway = mpGateway
	}

	return newHandlers(repos, gateway), nil
}

func memoryRepositories(s *memory.Store) repositories {
	return repositories{
		seq:       s,
		orders:    memory.NewOrderRepository(s),
		estimates: memory.NewEstimateRepository(s),
		payments:  memory.NewPaymentRepository(s),
		customers: memory.NewCatalogRepository[entities.Customer](s),
		agents:    memory.NewCatalogRepository[entities.Agent](s),
		employees: memory.NewCatalogRepository[entities.Employee](s),
		products:  memory.NewCatalogRepository[entities.Product](s),
		suppliers: memory.NewCatalogRepository[entities.Supplier](s),
		vendors:   memory.NewCatalogRepository[entities.Vendor](s),
		inventory: memory.NewCatalogRepository[entities.InventoryItem](s),
	}
}

func dynamoRepositories(ddb repository.DynamoDBAPI, tables repository.Tables) repositories {
	return repositories{
		seq:       repository.NewSequenceDynamoRepository(ddb, tables),
		orders:    repository.NewOrderDynamoRepository(ddb, tables),
		estimates: repository.NewEstimateDynamoRepository(ddb, tables),
		payments:  repository.NewPaymentDynamoRepository(ddb, tables),
		customers: repository.NewCatalogDynamoRepository[entities.Customer](ddb, tables),
		agents:    repository.NewCatalogDynamoRepository[entities.Agent](ddb, tables),
		employees: repository.NewCatalogDynamoRepository[entities.Employee](ddb, tables),
		products:  repository.NewCatalogDynamoRepository[entities.Product](ddb, tables),
		suppliers: repository.NewCatalogDynamoRepository[entities.Supplier](ddb, tables),
		vendors:   repository.NewCatalogDynamoRepository[entities.Vendor](ddb, tables),
		inventory: repository.NewCatalogDynamoRepository[entities.InventoryItem](ddb, tables),
	}
}

func newHandlers(r repositories, gateway interfaces.IPaymentGateway) *Handlers {
	return &Handlers{
		Order:     handlers.NewOrderHandler(usecase.NewOrderUseCase(r.orders, r.seq)),
		Estimate:  handlers.NewEstimateHandler(usecase.NewEstimateUseCase(r.estimates, r.orders, r.seq)),
		Payment:   handlers.NewPaymentHandler(usecase.NewPaymentUseCase(r.payments, r.orders, gateway)),
		Customer:  handlers.NewCatalogHandler[entities.Customer, request.CustomerRequest](usecase.NewCatalogUseCase(r.customers)),
		Agent:     handlers.NewCatalogHandler[entities.Agent, request.AgentRequest](usecase.NewCatalogUseCase(r.agents)),
		Employee:  handlers.NewCatalogHandler[entities.Employee, request.EmployeeRequest](usecase.NewCatalogUseCase(r.employees)),
		Product:   handlers.NewCatalogHandler[entities.Product, request.ProductRequest](usecase.NewCatalogUseCase(r.products)),
		Supplier:  handlers.NewCatalogHandler[entities.Supplier, request.SupplierRequest](usecase.NewCatalogUseCase(r.suppliers)),
		Vendor:    handlers.NewCatalogHandler[entities.Vendor, request.VendorRequest](usecase.NewCatalogUseCase(r.vendors)),
		Inventory: handlers.NewInventoryHandler(usecase.NewInventoryUseCase(r.inventory)),
	}
}

// NewRouter builds the gin engine with middlewares, swagger and the /api routes.
func NewRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, cfg)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group(PathAPI)
	addPingRoutes(api)
	addOrderRoutes(api, h.Order, h.Payment)
	addEstimateRoutes(api, h.Estimate)
	addCatalogRoutes(api, h)
	return router
}

func setMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "An internal error occurred",
			"code":  "INTERNAL_ERROR",
		})
	}))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	}
	router.Use(cors.New(corsCfg))
}
