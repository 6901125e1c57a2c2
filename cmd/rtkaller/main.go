// Command rtkaller fuzzes an OSEK/AUTOSAR kernel by generating random
// programs against a configured APPConfig and driving them either through an
// on-chip debugger or an external build-and-run shell script. Flag surface
// mirrors original_source/rtk_erika.rs's Settings one-for-one
// (SPEC_FULL.md "Ambient stack").
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rrooach/Rtkaller/internal/debugger"

	rtkaller "github.com/Rrooach/Rtkaller"
)

var (
	regSize          uint8
	customHeader     string
	shellCmd         string
	templateDir      string
	outName          string
	numSave          uint32
	execTimeout      uint64
	appConfigPath    string
	useScript        bool
	t32Node          string
	t32Port          uint16
	restartOSCmmHook string
)

func main() {
	root := &cobra.Command{
		Use:   "rtkaller",
		Short: "Random-program fuzzer for OSEK/AUTOSAR kernel targets",
		RunE:  run,
	}

	flags := root.Flags()
	flags.Uint8Var(&regSize, "reg-size", 32, "size of register, one of 8,16,32,64")
	flags.StringVarP(&customHeader, "custom-header", "c", "ee.h", "extra C header to be included")
	flags.StringVarP(&shellCmd, "shell-cmd", "s", "", "shell command to build and run a test case")
	flags.StringVarP(&templateDir, "template-dir", "t", "", "directory of the template project")
	flags.StringVarP(&outName, "out-name", "o", "rtkaller.c", "output name of the generated test case")
	flags.Uint32VarP(&numSave, "num-save", "n", 64, "number of test cases to keep in the recent ring")
	flags.Uint64VarP(&execTimeout, "exec-timeout", "e", 30, "timeout in seconds for each test case execution")
	flags.StringVarP(&appConfigPath, "app-config-path", "a", "", "path to a JSON application config file")
	flags.BoolVarP(&useScript, "use-script", "u", false, "use the external shell command instead of the debugger backend")
	flags.StringVar(&t32Node, "t32-node", "localhost", "host the TRACE32 display driver runs on")
	flags.Uint16Var(&t32Port, "t32-port", 20000, "UDP port for the TRACE32 connection")
	flags.StringVar(&restartOSCmmHook, "restart-os-cmm-hook", "", "debugger macro that restarts the target OS")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	if err := rtkaller.ValidateRegSize(regSize); err != nil {
		log.WithError(err).Error("invalid configuration")
		return err
	}
	if err := rtkaller.ValidateBackendFlags(useScript, shellCmd); err != nil {
		log.WithError(err).Error("invalid configuration")
		return err
	}

	app, err := rtkaller.LoadAppConfig(appConfigPath)
	if err != nil {
		log.WithError(err).Error("failed to load app config")
		return err
	}

	cfg := rtkaller.Config{
		RegSize:          regSize,
		ExtraHeader:      customHeader,
		ShellCmd:         shellCmd,
		TemplateDir:      templateDir,
		OutName:          outName,
		NumSave:          numSave,
		ExecTimeoutSec:   int(execTimeout),
		AppConfigPath:    appConfigPath,
		App:              app,
		UseScript:        useScript,
		T32Node:          t32Node,
		T32Port:          int(t32Port),
		RestartOSCmmHook: restartOSCmmHook,
	}

	runID := uuid.NewString()
	log = log.WithField("run_id", runID)

	driver, err := buildDriver(cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to initialize fuzzer")
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	return driver.Run(ctx, runID)
}

func buildDriver(cfg rtkaller.Config, log *logrus.Entry) (*rtkaller.Driver, error) {
	seed := time.Now().UnixNano()
	gen := rtkaller.NewGenerator(&cfg.App, cfg.RegSize, seed)

	var executor rtkaller.Executor
	var shutdown func(context.Context) error

	if cfg.UseScript {
		executor = &rtkaller.ScriptBackend{
			ShellCmd:    cfg.ShellCmd,
			TemplateDir: cfg.TemplateDir,
			OutName:     cfg.OutName,
			ExtraHeader: cfg.ExtraHeader,
			Timeout:     time.Duration(cfg.ExecTimeoutSec) * time.Second,
		}
	} else {
		conn, err := newDebuggerConn()
		if err != nil {
			return nil, errors.Wrap(err, "build debugger connection")
		}
		session := rtkaller.NewExecutionSession(conn, &cfg.App, cfg.RestartOSCmmHook, log)
		if err := session.Attach(context.Background(), cfg.T32Node, cfg.T32Port); err != nil {
			return nil, errors.Wrap(err, "attach debugger")
		}
		executor = session
		shutdown = func(ctx context.Context) error {
			return connExit(ctx, conn)
		}
	}

	return &rtkaller.Driver{
		Gen:      gen,
		Executor: executor,
		Stats:    &rtkaller.Stats{},
		Ring:     rtkaller.NewRecentRing(rtkaller.WithCapacity(cfg.NumSave)),
		Store:    &rtkaller.Store{Root: ".", ExtraHeader: cfg.ExtraHeader},
		Log:      log,
		Shutdown: shutdown,
	}, nil
}

// connExit calls Conn.Exit, matching spec.md §4.6.1's "a global panic handler
// must call Exit to release the connection" requirement applied to the
// orderly-shutdown path as well.
func connExit(ctx context.Context, conn debugger.Conn) error {
	return conn.Exit(ctx)
}

func newLogger() *logrus.Entry {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("RTKALLER_LOG")); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l.WithField("component", "rtkaller")
}
