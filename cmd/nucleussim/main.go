// Command nucleussim drives a simulated machine and a nucleus dispatch loop
// together, as a smoke-test harness and a worked example of wiring the two
// packages (nucleus itself has no main loop of its own).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"nucleus/internal/buildinfo"
	"nucleus/machine"
	"nucleus/nucleus"
)

func main() {
	var (
		workers  = flag.Int("workers", 3, "number of worker processes to bootstrap")
		duration = flag.Duration("duration", 2*time.Second, "how long to run before stopping")
		version  = flag.Bool("version", false, "print build info and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Short())
		return
	}

	if err := run(*workers, *duration); err != nil {
		log.Fatal(err)
	}
}

func run(workers int, duration time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stdout := stdoutLogger{}
	m := machine.New(machine.Config{Logger: stdout})
	defer m.Close()

	n := nucleus.New(m)
	for i := 0; i < workers; i++ {
		if _, err := n.Bootstrap(machine.State{}, nil); err != nil {
			return fmt.Errorf("bootstrap worker %d: %w", i, err)
		}
	}
	if out := n.Schedule(); out == nucleus.OutcomeDeadlock {
		return fmt.Errorf("nucleussim: deadlock detected")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatchLoop(ctx, n, m) })
	g.Go(func() error { return deviceFeeder(ctx, m) })

	timer := time.NewTimer(duration)
	defer timer.Stop()
	g.Go(func() error {
		select {
		case <-timer.C:
			return errStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err := g.Wait(); err != nil && err != errStopped && err != context.Canceled {
		return err
	}
	return nil
}

var errStopped = fmt.Errorf("nucleussim: run duration elapsed")

// dispatchLoop is the single goroutine allowed to call into the nucleus —
// there is no locking inside nucleus because exactly one goroutine ever
// touches it.
func dispatchLoop(ctx context.Context, n *nucleus.Nucleus, m *machine.Machine) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-m.Events():
			switch n.Dispatch(ev) {
			case nucleus.OutcomeHalted:
				return nil
			case nucleus.OutcomeDeadlock:
				return fmt.Errorf("nucleussim: deadlock detected")
			}
		}
	}
}

// deviceFeeder periodically completes a disk I/O on device 0, the way a
// real BIOS would after a DMA transfer finishes, so the harness exercises
// the device-interrupt ACK path alongside the timers. The bootstrapped
// workers issue no syscalls, so no process is ever waiting on that device.
func deviceFeeder(ctx context.Context, m *machine.Machine) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.CompleteDevice(machine.LineDisk, 0, machine.StatusReady)
		}
	}
}

type stdoutLogger struct{}

func (stdoutLogger) WriteLineString(s string) { fmt.Println(s) }
