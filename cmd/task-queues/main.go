package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	toml "github.com/pelletier/go-toml"

	"task_queues/internal/config"
	"task_queues/internal/logger"
	"task_queues/internal/rabbitmq"
)

const usage = `usage: task-queues <command> [flags]

commands:
  describe         print the task exchange, queue and binding
  list-opts        print the registered options as JSON
  generate-config  print a sample options file
  declare          declare the task topology on the broker
`

var errUsage = errors.New("unknown command")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error("task-queues: %s", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	command, args := args[0], args[1:]

	// settings errors are logged before the configured logger exists
	if err := logger.Init(logger.DefaultLevel, ""); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	cfg, reg, err := setup(args)
	if err != nil {
		return err
	}

	switch command {
	case "describe":
		return describe(out, cfg.Format)
	case "list-opts":
		return listOpts(out)
	case "generate-config":
		return config.Generate(out, rabbitmq.ListOpts())
	case "declare":
		return declare(ctx, cfg, reg)
	default:
		return fmt.Errorf("%w: %s", errUsage, command)
	}
}

// setup loads the settings, replaces the logger and builds the option
// registry: defaults, then the options file, then explicit settings.
func setup(args []string) (*config.Config, *config.Registry, error) {
	cfg, err := config.Load(args)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	reg := config.NewRegistry()
	if err := rabbitmq.RegisterOpts(reg); err != nil {
		return nil, nil, err
	}
	if err := cfg.Apply(reg); err != nil {
		return nil, nil, err
	}
	return cfg, reg, nil
}

func describe(out io.Writer, format string) error {
	definition := rabbitmq.TaskDefinition()

	var (
		data []byte
		err  error
	)
	if format == "json" {
		data, err = definition.MarshalJSON()
	} else {
		data, err = toml.Marshal(*definition)
	}
	if err != nil {
		return fmt.Errorf("render definition: %w", err)
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}

func listOpts(out io.Writer) error {
	data, err := config.OptGroups(rabbitmq.ListOpts()).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func loadDefinition(path string) (*rabbitmq.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	definition := rabbitmq.Definition{}
	if err := toml.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}
	return &definition, nil
}

func declare(ctx context.Context, cfg *config.Config, reg *config.Registry) (err error) {
	url, err := rabbitmq.TransportURL(reg)
	if err != nil {
		return err
	}

	var definition *rabbitmq.Definition
	if cfg.DefinitionsFile != "" {
		if definition, err = loadDefinition(cfg.DefinitionsFile); err != nil {
			return err
		}
	}

	client, err := rabbitmq.Dial(ctx, cfg.ConnectionName, url)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, client.Close())
	}()
	log := logger.With("connection", client.Name())

	if definition != nil {
		if err := client.CreateDefinitions(ctx, definition); err != nil {
			return fmt.Errorf("create definitions: %w", err)
		}
		log.Infof("declared %d exchanges, %d queues, %d bindings",
			len(definition.Exchanges), len(definition.Queues), len(definition.Bindings))
		return nil
	}

	q := rabbitmq.TaskQueue()
	if err := client.DeclareQueue(ctx, q); err != nil {
		return fmt.Errorf("declare task queue: %w", err)
	}
	log.Infof("declared queue %s on exchange %s", q.Name, q.Exchange.Name)
	return nil
}
