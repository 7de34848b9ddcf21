package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/adapter/stripeclient"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

const (
	currency       = "usd"
	simulatedDelay = 2 * time.Second
	redirectDelay  = 3 * time.Second

	successRedirect = "/?checkout=success"
	demoRedirect    = "/?checkout=demo-success"

	apiTimeout = 30 * time.Second
)

type App struct {
	ctx context.Context
	cfg config.Config

	sqldb     *storage.SQLDB
	slot      port.CartSlot
	stripe    stripeclient.Client
	events    port.CheckoutEventsProducer
	producer  kafka.CheckoutEventsProducer
	processor kafka.SessionActivityProcessor
	view      kafka.SessionActivityView

	cartService     service.CartService
	checkoutService service.CheckoutService

	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initSlot()
	app.initEvents()
	app.initServices()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

// initSlot selects the durable postgres slot store when a DSN is
// configured, the in-memory store otherwise.
func (app *App) initSlot() {
	const op = "App.initSlot"

	if app.cfg.SQLDB == "" {
		slog.Info("no sql_db configured, using in-memory slots")
		app.slot = storage.NewMemorySlots()
		return
	}

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = &sqldb
	app.slot = storage.NewSlotRepository(sqldb)
}

func (app *App) initEvents() {
	const op = "App.initEvents"

	if !app.cfg.Broker.Enabled() {
		slog.Info("no brokers configured, checkout events disabled")
		app.events = noopEventsProducer{}
		return
	}

	brokerCfg := app.cfg.Broker

	srClient, err := sr.NewClient(sr.URLs(brokerCfg.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}
	schemaCreater := schema.NewSchemaCreater(srClient)

	subject := brokerCfg.CheckoutEventsTopic + "-value"
	eventSerde, err := schema.NewSerdeCheckoutEventV1(
		app.ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewCheckoutEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx, brokerCfg.SeedBrokers, brokerCfg.CheckoutEventsTopic,
		),
		kafka.ProducerEncoderOpt(eventSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	processor, err := kafka.NewSessionActivityProcessor(
		brokerCfg.SeedBrokers,
		brokerCfg.CheckoutEventsTopic,
		brokerCfg.SessionActivityGroup,
		eventSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewSessionActivityView(
		brokerCfg.SeedBrokers, brokerCfg.SessionActivityGroup,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producer = producer
	app.events = producer
	app.processor = processor
	app.view = view
}

// initServices fixes the payment strategy once, from whether processor
// credentials were retrieved. It is never re-evaluated per submission.
func (app *App) initServices() {
	app.stripe = stripeclient.New(stripeclient.Config{
		APIURL:         app.cfg.Stripe.APIURL,
		SecretKey:      app.cfg.Stripe.SecretKey,
		PublishableKey: app.cfg.Stripe.PublishableKey,
		PaymentMethod:  app.cfg.Stripe.PaymentMethod,
	})

	var strategy port.PaymentStrategy
	var redirectURL string
	if app.cfg.Stripe.Configured() {
		strategy = service.NewProcessorStrategy(app.stripe, app.stripe, currency)
		redirectURL = successRedirect
		slog.Info("processor-backed payments selected")
	} else {
		strategy = service.NewSimulatedStrategy(simulatedDelay)
		redirectURL = demoRedirect
		slog.Debug("falling back to simulated payments",
			"err", domain.ErrConfigUnavailable)
	}

	app.cartService = service.NewCartService(
		domain.Catalog(), app.slot, app.events,
	)
	app.checkoutService = service.NewCheckoutService(
		app.slot, strategy, app.events, redirectURL, redirectDelay,
	)
}

func (app *App) initInboundAdapters() {
	api := http.NewServeMux()
	httphandler.RegisterProducts(api, app.cartService)
	httphandler.RegisterCart(api,
		app.cartService, app.cartService, app.cartService, app.cartService)
	httphandler.RegisterCheckout(api, app.checkoutService, app.checkoutService)
	httphandler.RegisterPayments(api,
		app.stripe, app.stripe.PublishableKey(), currency)
	if app.cfg.Broker.Enabled() {
		httphandler.RegisterAnalytics(api, app.view)
	}

	apiHandler := http.TimeoutHandler(
		httphandler.AllowJSON(api), apiTimeout, "unavailable",
	)

	// The updates stream outlives any per-request deadline, it is
	// mounted outside the timeout wrapper.
	root := http.NewServeMux()
	httphandler.RegisterCartUpdates(root, app.cartService)
	root.Handle("/", apiHandler)

	handler := httphandler.Session(root)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	if app.cfg.Broker.Enabled() {
		go app.processor.Run(app.ctx)
		go app.view.Run(app.ctx)
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if app.cfg.Broker.Enabled() {
		app.processor.Close()
		app.producer.Close()
	}

	if app.sqldb != nil {
		app.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}

type noopEventsProducer struct{}

func (noopEventsProducer) ProduceEvent(
	context.Context, domain.CheckoutEvent,
) error {
	return nil
}
