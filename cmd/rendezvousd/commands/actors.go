package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/rendezvous/internal/actorutil"
	"github.com/roasbeef/rendezvous/internal/baselib/actor"
	"github.com/spf13/cobra"
)

var (
	actorsWorkers  int
	actorsRequests int
)

var actorsCmd = &cobra.Command{
	Use:   "actors",
	Short: "Drive Ask/Tell traffic through a ChannelMailbox-backed actor pool",
	Long: `actors builds a real actor.ActorSystem, registers a pool of worker
actors under a ServiceKey, and routes a batch of concurrent Ask requests
through it. Every actor's mailbox is a rendezvous.Channel under the hood
(see internal/baselib/actor/channel_mailbox.go), so this exercises the
bounded channel primitive under genuine multi-actor concurrency rather
than through the package's own test suite.`,
	RunE: runActors,
}

func init() {
	actorsCmd.Flags().IntVar(
		&actorsWorkers, "workers", 4,
		"Number of worker actors in the pool",
	)
	actorsCmd.Flags().IntVar(
		&actorsRequests, "requests", 20,
		"Number of Ask requests to route through the pool",
	)

	rootCmd.AddCommand(actorsCmd)
}

// squareRequest asks a worker actor to square a number. It embeds
// actor.BaseMessage to satisfy the sealed Message interface.
type squareRequest struct {
	actor.BaseMessage

	n int
}

// MessageType implements actor.Message.
func (squareRequest) MessageType() string {
	return "square-request"
}

var workerKey = actor.NewServiceKey[squareRequest, int]("square-worker")

func runActors(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	system := actor.NewActorSystem()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()
		_ = system.Shutdown(shutdownCtx)
	}()

	for i := 0; i < actorsWorkers; i++ {
		behavior := actor.NewFunctionBehavior(
			func(ctx context.Context, msg squareRequest) fn.Result[int] {
				return fn.Ok(msg.n * msg.n)
			},
		)
		workerKey.Spawn(system, fmt.Sprintf("square-worker-%d", i), behavior)
	}

	// key.Ref gives us a Router: a virtual ActorRef that round-robins
	// across every worker currently registered under workerKey.
	router := workerKey.Ref(system)

	refs := make([]actor.ActorRef[squareRequest, int], actorsRequests)
	msgs := make([]squareRequest, actorsRequests)
	for i := range msgs {
		refs[i] = router
		msgs[i] = squareRequest{n: i}
	}

	results := actorutil.ParallelAsk(ctx, refs, msgs)

	var succeeded, failed int
	for i, res := range results {
		val, err := res.Unpack()
		if err != nil {
			failed++
			continue
		}
		succeeded++
		if i < 5 {
			fmt.Printf("square(%d) = %d\n", msgs[i].n, val)
		}
	}

	fmt.Printf(
		"workers=%d requests=%d succeeded=%d failed=%d\n",
		actorsWorkers, actorsRequests, succeeded, failed,
	)

	return nil
}
