package rendezvous

import "github.com/btcsuite/btclog/v2"

// log is the package-level logger used for Trace/Debug visibility into
// park/wake/close events. It is a no-op until a caller installs a real
// logger via UseLogger, matching the rest of the darepo-client stack.
var log btclog.Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by the rendezvous package.
// Call this once during application initialization before any Channel is
// used from more than one goroutine, e.g. from a daemon's main().
func UseLogger(logger btclog.Logger) {
	log = logger
}
