package commands

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roasbeef/rendezvous"
	"github.com/spf13/cobra"
)

var (
	pipelineProducers int
	pipelineConsumers int
	pipelineCapacity  int
	pipelineCount     int
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run a bounded producer/consumer pipeline",
	Long: `pipeline spins up N producer goroutines and M consumer goroutines
over a shared, bounded Channel[int], then reports throughput once every
producer has finished and the channel has drained.`,
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().IntVar(
		&pipelineProducers, "producers", 4,
		"Number of producer goroutines",
	)
	pipelineCmd.Flags().IntVar(
		&pipelineConsumers, "consumers", 4,
		"Number of consumer goroutines",
	)
	pipelineCmd.Flags().IntVar(
		&pipelineCapacity, "capacity", 16,
		"Channel buffer capacity",
	)
	pipelineCmd.Flags().IntVar(
		&pipelineCount, "count", 100_000,
		"Number of values each producer sends",
	)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ch, err := rendezvous.NewChannel[int](pipelineCapacity)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var produced atomic.Int64
	var consumed atomic.Int64

	var producerWg sync.WaitGroup
	producerWg.Add(pipelineProducers)
	for p := 0; p < pipelineProducers; p++ {
		go func(id int) {
			defer producerWg.Done()

			for i := 0; i < pipelineCount; i++ {
				if err := ch.Send(ctx, id*pipelineCount+i); err != nil {
					return
				}
				produced.Add(1)
			}
		}(p)
	}

	var consumerWg sync.WaitGroup
	consumerWg.Add(pipelineConsumers)
	for c := 0; c < pipelineConsumers; c++ {
		go func() {
			defer consumerWg.Done()

			for {
				_, err := ch.Receive(ctx)
				if err != nil {
					return
				}
				consumed.Add(1)
			}
		}()
	}

	start := time.Now()
	producerWg.Wait()
	ch.Close()
	consumerWg.Wait()
	elapsed := time.Since(start)

	fmt.Printf(
		"produced=%d consumed=%d elapsed=%s throughput=%.0f msg/s\n",
		produced.Load(), consumed.Load(), elapsed,
		float64(consumed.Load())/elapsed.Seconds(),
	)

	return nil
}
