// Command seqeval evaluates a plan over a JSON array of items, or serves
// plan evaluation over HTTP.
//
//	seqeval --plan top3.yaml --input items.json
//	echo '[3,1,2]' | seqeval -p top3.yaml
//	seqeval --serve --config config.yml
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/bootstrap"
	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/plan"
	"github.com/kbukum/seqkit/server"
	"github.com/kbukum/seqkit/version"
)

const serviceName = "seqeval"

type flags struct {
	configFile string
	planFile   string
	input      string
	serve      bool
	version    bool
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "seqeval:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{}
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default: config.yml in ., ./config or ./configs)")
	fs.StringVarP(&f.planFile, "plan", "p", "", "plan file (YAML or JSON); overrides the configured plan")
	fs.StringVarP(&f.input, "input", "i", "-", "JSON array of items, - for stdin")
	fs.BoolVar(&f.serve, "serve", false, "serve POST /v1/evaluate instead of evaluating once")
	fs.BoolVar(&f.version, "version", false, "print version information and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags]\n\nFlags:\n%s", serviceName, fs.FlagUsages())
	}
	if err := fs.Parse(args); err != nil {
		if !stderrors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(stderr, "Error:", err)
			fs.Usage()
		}
		return nil, err
	}
	return f, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if f.version {
		_, err := fmt.Fprintln(stdout, serviceName, version.Get().String())
		return err
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	var tel telemetry
	app.OnStart(tel.start(&cfg.Observability, app))
	app.OnStop(tel.stop)

	if f.serve {
		return serve(ctx, app, &tel)
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		return evaluateOnce(ctx, cfg.Plan, f.input, stdin, stdout, tel.planOptions(app)...)
	})
}

func loadConfig(f *flags) (*AppConfig, error) {
	cfg := &AppConfig{}
	opts := []config.LoaderOption{
		config.WithDefaults(map[string]any{"name": serviceName}),
	}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if f.planFile != "" {
		cfg.Plan = f.planFile
	}
	return cfg, nil
}

func serve(ctx context.Context, app *bootstrap.App[*AppConfig], tel *telemetry) error {
	var srv *server.Server
	app.OnStart(func(ctx context.Context) error {
		opts := []server.Option{}
		if tel.metrics != nil {
			opts = append(opts, server.WithMetrics(tel.metrics), server.WithTracer(tel.tracer))
		}
		srv = server.New(app.Cfg.Server, app.Logger, opts...)
		return srv.Start(ctx)
	})
	app.OnStop(func(ctx context.Context) error {
		if srv == nil {
			return nil
		}
		return srv.Stop(ctx)
	})
	return app.Run(ctx)
}

// evaluateOnce loads the plan, evaluates it over the items read from input
// and writes the result to stdout as one JSON document.
func evaluateOnce(ctx context.Context, planFile, input string, stdin io.Reader, stdout io.Writer, opts ...plan.Option) error {
	if planFile == "" {
		return errors.MissingField("plan")
	}
	p, err := plan.LoadFile(planFile)
	if err != nil {
		return err
	}
	items, err := readItems(input, stdin)
	if err != nil {
		return err
	}
	result, err := plan.Evaluate(ctx, p, items, opts...)
	if err != nil {
		return err
	}
	return json.NewEncoder(stdout).Encode(result)
}

func readItems(input string, stdin io.Reader) ([]any, error) {
	r := stdin
	if input != "-" {
		file, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer file.Close()
		r = file
	}

	var items []any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, errors.InvalidInput("input", "expected a JSON array: "+err.Error())
	}
	if items == nil {
		items = []any{}
	}
	return items, nil
}

// telemetry holds the OTLP providers installed at startup.
type telemetry struct {
	shutdown func(context.Context) error
	metrics  *observability.Metrics
	tracer   trace.Tracer
}

func (t *telemetry) start(cfg *observability.Config, app *bootstrap.App[*AppConfig]) bootstrap.Hook {
	return func(ctx context.Context) error {
		shutdown, err := observability.Init(ctx, cfg, app.Logger)
		if err != nil {
			return err
		}
		t.shutdown = shutdown
		if !cfg.Enabled {
			return nil
		}
		m, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			return err
		}
		t.metrics = m
		t.tracer = observability.Tracer()
		return nil
	}
}

func (t *telemetry) stop(ctx context.Context) error {
	if t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}

// planOptions observes every stage with the app logger and, when enabled,
// the OTLP metrics and tracer.
func (t *telemetry) planOptions(app *bootstrap.App[*AppConfig]) []plan.Option {
	return []plan.Option{plan.WithObservability(observability.Options{
		Logger:  app.Logger,
		Metrics: t.metrics,
		Tracer:  t.tracer,
	})}
}
