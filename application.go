package guardango

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Executor performs Actions on the chat platform.
// Execute returns once the platform has accepted or rejected the Action.
type Executor interface {
	Execute(ctx context.Context, action Action) error
}

// LogExecutor logs Actions without performing them.
type LogExecutor struct{}

// Execute logs the action and reports success.
func (LogExecutor) Execute(_ context.Context, action Action) error {
	log.Info().Str("Action", action.String()).Msg("Dry run")
	return nil
}

// ErrorCallback receives events whose handling failed unexpectedly.
type ErrorCallback func(*Event, error)

// Application represents the main application.
//
// It owns the [Engine], feeds it events through [Application.Submit] and delivers the emitted
// Actions with a pool of workers, so that handling an event never waits on the platform.
// Each worker owns one queue and Actions are sharded by the user they act on, so the Actions
// on one user are executed and acknowledged in the order they were emitted.
// Acknowledgements flow back into the engine and their follow-up Actions are delivered the same way.
type Application struct {
	Config        *Config         // Config holds the configuration for the application.
	engine        *Engine         // engine makes every moderation decision.
	executor      Executor        // executor performs Actions on the platform.
	relay         *Relay          // relay is the optional websocket bridge.
	janitor       *Janitor        // janitor sweeps expired engine state.
	queues        []chan Action   // queues hold Actions waiting for their worker, one per worker.
	errorHandlers []ErrorCallback // errorHandlers are called for unexpected handling errors.
	isDebug       bool            // isDebug enables verbose logging.
	context       context.Context // Context for running the application.
	cancelCtx     context.CancelFunc
	workers       sync.WaitGroup
	initialized   bool
	running       atomic.Bool
}

// AddErrorHandler adds a new error handler to the application.
//
// Args:
//   - handler: The error handler to add to the application.
//
// Returns:
//   - *Application: The application instance for method chaining.
func (app *Application) AddErrorHandler(handler ErrorCallback) *Application {
	app.errorHandlers = append(app.errorHandlers, handler)

	return app
}

// Engine returns the engine of the application.
func (app *Application) Engine() *Engine {
	return app.engine
}

// Submit hands an event to the engine and queues the resulting Actions for delivery.
//
// The engine's error is returned as is; rejections such as [ErrUnauthorized] still queue
// their clarification Notify. Submit blocks only while the target's action queue is full.
func (app *Application) Submit(event *Event) error {
	if !app.running.Load() {
		return ErrNotInitialized
	}

	actions, err := app.engine.Handle(event)
	if err != nil {
		if errors.Is(err, ErrHandlerPanicked) || errors.Is(err, ErrInvalidEvent) {
			app.dispatchError(event, err)
		} else {
			log.Debug().Err(err).Msg("Event rejected")
		}
	}

	for _, action := range actions {
		select {
		case app.queueOf(action) <- action:
		case <-app.context.Done():
			return ErrQueueClosed
		}
	}

	return err
}

// dispatchError calls the error handlers.
func (app *Application) dispatchError(event *Event, err error) {
	log.Error().Err(err).Msg("Event handling failed")

	for _, handler := range app.errorHandlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().AnErr("Origin", err).Interface("Current", r).Msg("Another error occured during handling an error.")
				}
			}()

			handler(event, err)
		}()
	}
}

// queueOf returns the queue of the user the action targets, or of its chat.
func (app *Application) queueOf(action Action) chan Action {
	key := action.UserID
	if key == 0 {
		key = action.ChatID
	}

	return app.queues[uint64(key)%uint64(len(app.queues))]
}

// worker delivers the Actions of one queue until the application stops.
func (app *Application) worker(queue chan Action) {
	defer app.workers.Done()

	for {
		select {
		case <-app.context.Done():
			return
		case action := <-queue:
			app.deliver(action)
		}
	}
}

// deliver executes one Action and queues its follow-ups.
func (app *Application) deliver(action Action) {
	err := app.executor.Execute(app.context, action)
	if app.isDebug {
		log.Debug().Str("Action", action.String()).Err(err).Msg("Executed")
	}

	for _, followUp := range app.engine.Acknowledge(Ack{ActionID: action.ID, Err: err}) {
		queue := app.queueOf(followUp)
		select {
		case queue <- followUp:
		default:
			// Workers must not block on a full queue. Follow-ups are notices, so their order may relax.
			go func(followUp Action) {
				select {
				case queue <- followUp:
				case <-app.context.Done():
				}
			}(followUp)
		}
	}
}

// Initialize initializes the application.
//
// Returns:
//   - *Application: The application instance for method chaining.
func (app *Application) Initialize() *Application {
	app.Config.Normalize()

	if app.engine == nil {
		app.engine = NewEngine(app.Config)
	}
	if app.executor == nil {
		app.executor = LogExecutor{}
	}
	if app.relay != nil && app.relay.OnEvent == nil {
		app.relay.OnEvent = func(event *Event) {
			app.Submit(event)
		}
	}

	app.isDebug = app.isDebug || app.Config.Debug
	if app.isDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	size := max(1, (app.Config.QueueSize+app.Config.Workers-1)/app.Config.Workers)
	app.queues = make([]chan Action, app.Config.Workers)
	for i := range app.queues {
		app.queues[i] = make(chan Action, size)
	}
	app.janitor = &Janitor{Sweeper: app.engine, Interval: app.Config.SweepInterval}
	app.initialized = true

	return app
}

// Start starts the workers, the janitor and the relay, if any.
//
// Args:
//   - ctx: The context for running the application.
//
// Returns:
//   - *Application: The application instance for method chaining.
func (app *Application) Start(ctx context.Context) *Application {
	if !app.initialized {
		panic("the application is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	app.context, app.cancelCtx = context.WithCancel(ctx)

	for _, queue := range app.queues {
		app.workers.Add(1)
		go app.worker(queue)
	}

	app.janitor.Runner(app.context)
	app.running.Store(true)

	if app.relay != nil {
		go func() {
			if err := app.relay.ConnectWithRetry(app.context); err != nil {
				log.Error().Str("URL", app.relay.URL).Err(err).Msg("Relay connect failed")
			}
		}()
	}

	log.Info().Int("Workers", app.Config.Workers).Msg("Application started")

	return app
}

// Park waits for the application to stop or receive an interrupt signal.
func (app *Application) Park() {
	intCh := make(chan os.Signal, 1)
	signal.Notify(intCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-app.context.Done():
	case <-intCh:
		app.Stop()
	}
}

// Stop stops the application. Actions still queued are dropped.
func (app *Application) Stop() {
	if !app.running.CompareAndSwap(true, false) {
		return
	}

	if app.relay != nil {
		app.relay.Disconnect()
	}

	app.cancelCtx()
	app.janitor.Close()
	app.workers.Wait()

	var dropped int
	for _, queue := range app.queues {
		dropped += len(queue)
	}

	log.Info().Int("Dropped", dropped).Int("Pending", app.engine.Pending()).Msg("Application stopped")
}

// New creates a new instance of the [Application] with the provided configuration.
//
// Args:
//   - config: The configuration for the application.
//   - options: Optional settings.
//
// Returns:
//   - *Application: A new instance of the [Application].
func New(config *Config, options ...Option) *Application {
	app := &Application{
		Config: config,
	}

	for _, option := range options {
		option(app)
	}

	return app
}
