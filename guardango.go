// guardango package is a moderation engine for group chats. It turns chat events into platform actions
// and keeps the moderation state (flood windows, warnings, AFK and mute flags, the member directory)
// safe under concurrent delivery.
//
// Key Features:
//   - Engine: A pure event handler that maps each [Event] to the [Action] list the platform should perform.
//   - Anti-Flood: A sliding window per user that mutes whoever sends too many messages too quickly.
//   - Warnings: Per-user warning counters that escalate to a ban at the configured limit.
//   - Confirmed Effects: State that mirrors the platform (such as the muted flag) changes only after the platform acknowledges the action.
//   - Relay: A WebSocket bridge that feeds events from the platform and executes actions on it.
//
// Usage Example:
//
//	package main
//
//	import (
//	    "context"
//
//	    guard "github.com/n0h4rt/guardango"
//	)
//
//	func main() {
//	    config, err := guard.LoadConfig("guardango.json")
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    app := guard.New(config, guard.WithRelay(guard.NewRelay(config.RelayURL)))
//	    app.Initialize()
//
//	    ctx := context.Background()
//	    app.Start(ctx)
//
//	    // The `app.Park()` call is blocking, use CTRL + C to stop the application.
//	    app.Park()
//	}
//
// The [Engine] can also be used alone: call [Engine.Handle] with each event, execute the returned actions,
// and report the outcome of every action back through [Engine.Acknowledge].
package guardango
