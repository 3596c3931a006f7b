package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/frameless/pkg/tasker"

	"go.llib.dev/restassured/adapter/httpapi"
)

func main() {
	ctx := logging.ContextWith(context.Background(), logging.Field("app", "stuffapi"))
	if err := Main(ctx, os.Args[1:], os.Stdout); err != nil {
		logger.Fatal(ctx, "error in main", logging.ErrField(err))
		os.Exit(1)
	}
}

func Main(ctx context.Context, args []string, out io.Writer) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	return cmd.ExecuteContext(ctx)
}

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "stuffapi",
		Short:         "Reference REST API for the endpoint test cases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newRoutesCommand())
	return root
}

// flags override the environment configuration.
type flags struct {
	Addr        string
	Storage     string
	RequireAuth bool
}

func bindFlags(cmd *cobra.Command) *flags {
	f := &flags{}
	cmd.Flags().StringVar(&f.Addr, "addr", "", "listen address (env: STUFFAPI_ADDR)")
	cmd.Flags().StringVar(&f.Storage, "storage", "", "storage backend: memory, bolt or sqlite (env: STUFFAPI_STORAGE)")
	cmd.Flags().BoolVar(&f.RequireAuth, "require-auth", false, "reject anonymous requests (env: STUFFAPI_REQUIRE_AUTH)")
	return f
}

func (f *flags) config(cmd *cobra.Command) (httpapi.ServerConfig, error) {
	c, err := httpapi.LoadServerConfig()
	if err != nil {
		return httpapi.ServerConfig{}, err
	}
	if cmd.Flags().Changed("addr") {
		c.Addr = f.Addr
	}
	if cmd.Flags().Changed("storage") {
		c.Storage = f.Storage
	}
	if cmd.Flags().Changed("require-auth") {
		c.RequireAuth = f.RequireAuth
	}
	return c, nil
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API",
	}
	f := bindFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := f.config(cmd)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), c)
	}
	return cmd
}

func serve(ctx context.Context, c httpapi.ServerConfig) (returnErr error) {
	storage, closeStorage, err := httpapi.OpenStorage(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage(); err != nil && returnErr == nil {
			returnErr = err
		}
	}()
	api, err := httpapi.NewAPI(httpapi.Config{
		Storage:        storage,
		RequireAuth:    c.RequireAuth,
		PageSize:       c.PageSize,
		RequestTimeout: c.RequestTimeout,
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "starting the stuff api", logging.Field("config", c.String()))
	return tasker.Main(ctx, tasker.HTTPServerTask(httpapi.NewServer(c.Addr, api)))
}

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the named routes of the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := httpapi.NewAPI(httpapi.Config{Storage: httpapi.MemoryStorage()})
			if err != nil {
				return err
			}
			for _, name := range api.Routes.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
