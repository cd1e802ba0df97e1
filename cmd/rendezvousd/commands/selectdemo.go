package commands

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/roasbeef/rendezvous"
	"github.com/spf13/cobra"
)

var selectDemoRounds int

var selectDemoCmd = &cobra.Command{
	Use:   "select-demo",
	Short: "Demonstrate readiness-driven dispatch across two channels",
	Long: `select-demo builds two int channels, feeds each from its own
producer goroutine at a different pace, and repeatedly runs Select over
both to show that Select dispatches whichever channel becomes ready first
rather than polling in a fixed order.`,
	RunE: runSelectDemo,
}

func init() {
	selectDemoCmd.Flags().IntVar(
		&selectDemoRounds, "rounds", 20,
		"Number of Select rounds to run",
	)
}

func runSelectDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fast, err := rendezvous.NewChannel[int](1)
	if err != nil {
		return err
	}
	slow, err := rendezvous.NewChannel[int](1)
	if err != nil {
		return err
	}

	go feed(ctx, fast, 10*time.Millisecond)
	go feed(ctx, slow, 75*time.Millisecond)

	for i := 0; i < selectDemoRounds; i++ {
		var from string
		var value int

		err := rendezvous.Select(ctx,
			rendezvous.ReceiveCase(fast, func(v int) {
				from, value = "fast", v
			}),
			rendezvous.ReceiveCase(slow, func(v int) {
				from, value = "slow", v
			}),
		)
		if err != nil {
			return err
		}

		fmt.Printf("round=%d source=%s value=%d\n", i, from, value)
	}

	return nil
}

// feed sends one value into ch every interval until ctx is cancelled: the
// tick count plus a random offset of 0 to 2.
func feed(ctx context.Context, ch *rendezvous.Channel[int], interval time.Duration) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; ; n++ {
		select {
		case <-ticker.C:
			v := n + r.Intn(3)
			if ch.TrySend(v) {
				continue
			}
			_ = ch.Send(ctx, v)

		case <-ctx.Done():
			return
		}
	}
}
