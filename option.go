package guardango

// Option represents a configurable parameter for the Application.
type Option func(*Application)

// WithExecutor sets the executor that performs emitted Actions.
//
// Args:
//   - executor: The executor to deliver Actions with.
//
// Returns:
//   - Option: A function that applies the executor to the Application.
func WithExecutor(executor Executor) Option {
	return func(a *Application) {
		a.executor = executor
	}
}

// WithRelay uses the relay both as the event source and as the executor.
// The relay is connected on Start and disconnected on Stop.
func WithRelay(relay *Relay) Option {
	return func(a *Application) {
		a.relay = relay
		a.executor = relay
	}
}

// WithEngine replaces the engine built from the config.
func WithEngine(engine *Engine) Option {
	return func(a *Application) {
		a.engine = engine
	}
}

// WithDebug enables debug mode for the application.
//
// When debug mode is enabled, the application logs every handled event and executed Action.
func WithDebug() Option {
	return func(a *Application) {
		a.isDebug = true
	}
}
