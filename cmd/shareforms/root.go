package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-shareforms/internal/config"
	"github.com/goliatone/go-shareforms/internal/logging"
	"github.com/goliatone/go-shareforms/pkg/failure"
	"github.com/goliatone/go-shareforms/pkg/mapping"
	"github.com/goliatone/go-shareforms/pkg/orchestrator"
)

const usageLine = "shareforms <exported.bpmn> <exported-app.zip> <namespace prefix> [module name] [output dir]"

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	prompter Prompter
}

func newApp(stdout, stderr io.Writer, prompter Prompter) *app {
	return &app{stdout: stdout, stderr: stderr, prompter: prompter}
}

// execute runs the command and returns the process exit code.
func (a *app) execute(args []string) int {
	cmd := a.command()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		printError(a.stderr, err)
		return 1
	}
	return 0
}

func (a *app) command() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   usageLine,
		Short: "Convert Activiti Enterprise forms into Alfresco Share forms",
		Example: "  shareforms exported.bpmn20.xml exported.zip sample-wf\n" +
			"  shareforms --interactive exported.bpmn20.xml exported.zip",
		Args:          checkArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), cfg, args)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.String("mappings", "", "YAML or JSON file extending the type mapping tables")
	flags.String("templates", "", "directory with templates overriding the built-in document shells")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")
	flags.Bool("interactive", false, "prompt for a missing namespace, module name or output dir")

	_ = v.BindPFlag(config.KeyMappingsFile, flags.Lookup("mappings"))
	_ = v.BindPFlag(config.KeyTemplatesDir, flags.Lookup("templates"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = v.BindPFlag(config.KeyInteractive, flags.Lookup("interactive"))
	return cmd
}

func (a *app) run(ctx context.Context, cfg config.Config, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := a.request(ctx, cfg, args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return failure.Wrap(failure.KindUsage, failure.CodeConfigInvalid, err, "invalid log settings")
	}
	defer func() { _ = logger.Sync() }()

	tables := mapping.Defaults()
	if cfg.MappingsFile != "" {
		tables, err = mapping.LoadFile(tables, cfg.MappingsFile)
		if err != nil {
			return err
		}
		logger.Info("loaded type mappings", zap.String("file", cfg.MappingsFile))
	}

	conv := orchestrator.New(
		orchestrator.WithLogger(logger),
		orchestrator.WithTables(tables),
		orchestrator.WithTemplatesDir(cfg.TemplatesDir),
	)
	result, err := conv.Convert(ctx, req)
	if err != nil {
		return err
	}
	printReport(a.stdout, result)
	return nil
}

// request merges positional arguments over configured values, prompting for
// what is still missing in interactive mode.
func (a *app) request(ctx context.Context, cfg config.Config, args []string) (orchestrator.Request, error) {
	req := orchestrator.Request{
		WorkflowPath: args[0],
		ArchivePath:  args[1],
		Namespace:    cfg.Namespace,
		ModuleName:   cfg.ModuleName,
		OutputDir:    cfg.OutputDir,
	}
	if len(args) > 2 {
		req.Namespace = args[2]
	}
	if len(args) > 3 {
		req.ModuleName = args[3]
	}
	if len(args) > 4 {
		req.OutputDir = args[4]
	}

	if req.Namespace != "" && (len(args) > 2 || !cfg.Interactive) {
		return req, nil
	}
	if !cfg.Interactive {
		return req, failure.Usage(failure.CodeUsage, "missing namespace prefix").WithDetails(
			"use: "+usageLine,
			"eg shareforms exported.bpmn20.xml exported.zip sample-wf",
		)
	}
	if a.prompter == nil {
		return req, failure.Usage(failure.CodeUsage, "interactive mode needs a terminal")
	}

	var err error
	if req.Namespace, err = a.prompter.Input(ctx, Question{
		Message:  "Namespace prefix",
		Default:  req.Namespace,
		Help:     "Types will be named <prefix>:Form0, <prefix>:Form1 and so on. No ':' or '_'.",
		Validate: validateNamespace,
	}); err != nil {
		return req, err
	}
	if len(args) <= 3 {
		if req.ModuleName, err = a.prompter.Input(ctx, Question{
			Message: "Module name",
			Default: firstNonEmpty(req.ModuleName, orchestrator.DefaultModule),
			Help:    "Used to name the generated files.",
		}); err != nil {
			return req, err
		}
	}
	if len(args) <= 4 {
		if req.OutputDir, err = a.prompter.Input(ctx, Question{
			Message: "Output directory",
			Default: firstNonEmpty(req.OutputDir, "."),
		}); err != nil {
			return req, err
		}
	}
	return req, nil
}

func checkArgs(_ *cobra.Command, args []string) error {
	if len(args) < 2 || len(args) > 5 {
		return failure.Usage(failure.CodeUsage, "expected 2 to 5 arguments, got %d", len(args)).WithDetails(
			"use: " + usageLine,
		)
	}
	return nil
}

func validateNamespace(value string) error {
	_, err := orchestrator.NewNaming(value, "")
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
