package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"audiomate/internal/engine"
	"audiomate/internal/host"
	"audiomate/internal/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the engine against the speaker and read commands from stdin",
		Long: `Run keeps the engine ticking and streams clips to the audio device.
Commands are read from stdin, one per line:

  invoke <action>               run a registered action
  fire <collider> [start|end]   fire a trigger phase
  select <collection>           make a collection active
  atom <uid>                    point the active collection at an atom
  rename-atom <old> <new>       rename a scene atom
  status                        print the active collection
  save                          write the scene to the store
  quit                          save and exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd.Context(), ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runEngine(parent context.Context, ctx *commandContext, in io.Reader, out io.Writer) error {
	signalCtx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, sessionID := logging.WithSession(ctx.loggerValue())
	session, err := engine.OpenSession(signalCtx, cfg, logger, engine.SessionOptions{Wait: ctx.wait()})
	if err != nil {
		return err
	}
	defer session.Close()
	if err := session.Output.Start(); err != nil {
		return err
	}

	logger.Info("engine running",
		logging.String("scene", cfg.Host.Scene),
		logging.String(logging.FieldSessionID, sessionID),
		logging.Int("collections", session.Controller.Registry().Len()),
		logging.Int("clips", session.Controller.Library().Len()),
		logging.Duration("tick", time.Duration(cfg.Engine.TickIntervalMS)*time.Millisecond),
		logging.Float64("default_chance", cfg.Engine.DefaultPlayChance),
	)

	loop := &runLoop{session: session, out: out, logger: logger}
	runErr := loop.run(signalCtx, in)
	if err := session.Save(context.WithoutCancel(signalCtx)); err != nil {
		return err
	}
	logger.Info("engine stopped")
	return runErr
}

type runLoop struct {
	session *engine.Session
	out     io.Writer
	logger  *slog.Logger
}

func (l *runLoop) run(ctx context.Context, in io.Reader) error {
	lines := scanLines(ctx, in)

	interval := time.Duration(l.session.Config.Engine.TickIntervalMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.session.Tick(interval)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := l.handle(ctx, line)
			if err != nil {
				fmt.Fprintf(l.out, "error: %v\n", err)
			}
			if done {
				return nil
			}
		}
	}
}

// scanLines streams lines from in until it is exhausted or ctx ends. A read
// blocked in the scanner only returns when in is closed, so closable readers
// are closed once ctx ends. Stdin is left open and its reader stays parked
// until the process exits.
func scanLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	stop := context.AfterFunc(ctx, func() {
		if c, ok := in.(io.Closer); ok && in != io.Reader(os.Stdin) {
			_ = c.Close()
		}
	})
	go func() {
		defer close(lines)
		defer stop()
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// handle runs one console command and reports whether the loop should stop.
func (l *runLoop) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	ctrl := l.session.Controller
	reg := ctrl.Registry()
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "quit", "exit":
		return true, nil
	case "invoke":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: invoke <action>")
		}
		if !l.session.Scene.InvokeAction(args[0]) {
			return false, fmt.Errorf("action %q is not registered", args[0])
		}
	case "fire":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("usage: fire <collider> [start|end]")
		}
		phase := host.PhaseStart
		if len(args) == 2 {
			p, err := host.ParsePhase(args[1])
			if err != nil {
				return false, err
			}
			phase = p
		}
		fired, err := l.session.Scene.FireTrigger(args[0], phase)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(l.out, "%s %s ran %d actions\n", args[0], phase, fired)
	case "select":
		if len(args) != 1 || !reg.Select(args[0]) {
			return false, fmt.Errorf("usage: select <collection> (one of %s)", strings.Join(reg.Names(), ", "))
		}
	case "atom":
		if len(args) != 1 || !ctrl.SetReceivingAtom(args[0]) {
			return false, fmt.Errorf("usage: atom <uid> (a declared scene atom)")
		}
	case "rename-atom":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: rename-atom <old> <new>")
		}
		if err := l.session.Scene.RenameAtom(args[0], args[1]); err != nil {
			return false, err
		}
	case "status":
		active := reg.Active()
		_, resolved := active.Receiver()
		fmt.Fprintf(l.out, "%s: %d clips, receiver %s (resolved %s), engine %s\n",
			active.Name(), active.Len(), receiverLabel(active), yesNo(resolved), ctrl.Readiness().State())
	case "save":
		if err := l.session.Save(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(l.out, "saved")
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, nil
}
