package actor

import "github.com/btcsuite/btclog/v2"

// log is the package-level logger used for actor lifecycle and mailbox
// visibility. It is a no-op until a caller installs a real logger via
// UseLogger.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by the actor package. Call
// this once during application initialization, typically from a daemon's
// main().
func UseLogger(logger btclog.Logger) {
	log = logger
}
