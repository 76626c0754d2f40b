package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/Global19-atlassian-net/vltrace/manager"
	"github.com/Global19-atlassian-net/vltrace/userspace/cliparser"
	"github.com/Global19-atlassian-net/vltrace/userspace/environment"
	"github.com/Global19-atlassian-net/vltrace/userspace/logger"
	"github.com/Global19-atlassian-net/vltrace/userspace/output"
	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
)

func installSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	opts := cliparser.NewOptions()

	consumed, exit := cliparser.Parse(opts, argv, os.Stdout, os.Stderr)
	if exit != nil {
		return exit.Code
	}

	log := logger.NewLogger(opts.Debug)
	defer log.Sync()

	err := environment.CheckTracingPrereqs()
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	var selected []syscalls.ID
	if opts.Expr != "" {
		selected, err = syscalls.ParseExpr(opts.Expr)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	ctx, cancel := installSignalHandler()
	defer cancel()

	config := manager.NewConfigFromOptions(opts)

	// A trailing command means: start it and trace only it.
	var child *exec.Cmd
	if opts.Command {
		child = exec.CommandContext(ctx, argv[consumed], argv[consumed+1:]...)
		child.Stdin = os.Stdin
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr

		err = child.Start()
		if err != nil {
			log.Error("starting %v: %v", argv[consumed], err)
			return 1
		}
		defer child.Wait()

		config.Pid = child.Process.Pid
	}

	tracer, err := manager.NewTracer(ctx, config, log)
	if err != nil {
		log.Error("NewTracer: %v", err)
		return 1
	}
	defer tracer.Close()

	output_chan, closer, err := tracer.Watch(ctx, manager.WatchOptions{
		SelectedSyscalls: selected,
	})
	if err != nil {
		log.Error("Watch: %v", err)
		return 1
	}
	defer closer()

	if !opts.NoProgress {
		go reportProgress(ctx, tracer)
	}

	sink, err := newEventSink(opts)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	defer sink.Close()

	for row := range output_chan {
		err = sink.Print(row)
		if err != nil {
			log.Error("writing event: %v", err)
			return 1
		}
	}

	return 0
}

// reportProgress periodically notes the event count on stderr.
func reportProgress(ctx context.Context, tracer *manager.Tracer) {
	for {
		select {
		case <-ctx.Done():
			return

		case <-time.After(5 * time.Second):
			stats := tracer.Stats()
			fmt.Fprintf(os.Stderr, "vltrace: %d events handled\n",
				stats.EventCount)
		}
	}
}

func printerConfig(opts *cliparser.Options) output.Config {
	return output.Config{
		Format:         opts.OutputFormat,
		Timestamp:      opts.Timestamp,
		FieldSeparator: opts.FieldSeparator,
	}
}

func openOutput(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening output file: %w", err)
	}
	return f, nil
}
