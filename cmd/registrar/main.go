package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"push-registrar/cmd/config"
	"push-registrar/internal/infra/async"
	"push-registrar/internal/infra/httpserver"
	"push-registrar/internal/infra/node"
	"push-registrar/internal/infra/transport"
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/httpapi"
	"push-registrar/internal/push/usecases"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const _commandTimeout = 2 * time.Minute

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	var appConfig config.AppConfig

	root := &cobra.Command{
		Use:          "push-registrar",
		Short:        "Registers this device for remote push notifications",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			appConfig = loaded
			return setupLogging(appConfig.General)
		},
	}
	addConfigFlag(root.PersistentFlags(), &configFile)

	root.AddCommand(
		newRegisterCommand(&appConfig),
		newUnregisterCommand(&appConfig),
		newReconcileCommand(&appConfig),
		newStatusCommand(&appConfig),
		newServeCommand(&appConfig),
		newAccountCommand(&appConfig),
		newVersionCommand(),
	)

	return root
}

func addConfigFlag(flags *pflag.FlagSet, target *string) {
	flags.StringVarP(target, "config", "c", "", "config file (default config/registrar.yaml or /config/registrar.yaml)")
}

func newRegisterCommand(appConfig *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register with the push transport and record the device remotely",
		RunE: withRegistrar(appConfig, func(ctx context.Context, cmd *cobra.Command, registrar usecases.RegistrarService) error {
			result, err := registrar.Register(ctx)
			if printErr := printJSON(cmd.OutOrStdout(), resultOutput(result)); printErr != nil {
				return printErr
			}
			return err
		}),
	}
}

func newUnregisterCommand(appConfig *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Delete the remote device record and leave the push transport",
		RunE: withRegistrar(appConfig, func(ctx context.Context, cmd *cobra.Command, registrar usecases.RegistrarService) error {
			result, err := registrar.Unregister(ctx)
			if printErr := printJSON(cmd.OutOrStdout(), resultOutput(result)); printErr != nil {
				return printErr
			}
			return err
		}),
	}
}

func newReconcileCommand(appConfig *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Register again if the transport token changed or the last attempt failed",
		RunE: withRegistrar(appConfig, func(ctx context.Context, cmd *cobra.Command, registrar usecases.RegistrarService) error {
			attempted, err := registrar.Reconcile(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"attempted": attempted})
		}),
	}
}

func newStatusCommand(appConfig *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored registration",
		RunE: withRegistrar(appConfig, func(ctx context.Context, cmd *cobra.Command, registrar usecases.RegistrarService) error {
			status, err := registrar.Status(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), statusOutput(status))
		}),
	}
}

func newAccountCommand(appConfig *config.AppConfig) *cobra.Command {
	account := &cobra.Command{
		Use:   "account",
		Short: "Manage the REST session used for remote registration",
	}

	var (
		instanceURL  string
		accessToken  string
		refreshToken string
		clientID     string
		tokenURL     string
		userID       string
	)

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store the session for the configured account type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(*appConfig)
			defer a.Close()

			sessions, err := a.sessions()
			if err != nil {
				return err
			}

			value, err := domain.NewAccountBuilder().
				WithAccountType(domain.AccountType(appConfig.Login.AccountType)).
				WithInstanceURL(instanceURL).
				WithTokens(accessToken, refreshToken).
				WithOAuthClient(clientID, tokenURL).
				WithUserID(userID).
				Build()
			if err != nil {
				return err
			}

			return sessions.SetAccount(cmd.Context(), value)
		},
	}
	setCmd.Flags().StringVar(&instanceURL, "instance-url", "", "REST instance URL")
	setCmd.Flags().StringVar(&accessToken, "access-token", "", "OAuth access token")
	setCmd.Flags().StringVar(&refreshToken, "refresh-token", "", "OAuth refresh token")
	setCmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id used to refresh")
	setCmd.Flags().StringVar(&tokenURL, "token-url", "", "OAuth token endpoint used to refresh")
	setCmd.Flags().StringVar(&userID, "user-id", "", "remote user id")
	_ = setCmd.MarkFlagRequired("instance-url")
	_ = setCmd.MarkFlagRequired("access-token")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(*appConfig)
			defer a.Close()

			sessions, err := a.sessions()
			if err != nil {
				return err
			}
			return sessions.ClearAccount(cmd.Context())
		},
	}

	account.AddCommand(setCmd, clearCmd)
	return account
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the build version",
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := node.GetNodeInfo()
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"version": info.Version,
				"commit":  info.CommitHash,
			})
		},
	}
}

func newServeCommand(appConfig *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Keep the registration reconciled and expose the agent API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *appConfig)
		},
	}
}

func serve(ctx context.Context, appConfig config.AppConfig) error {
	slog.Info("🚀 push registrar is initializing")
	slog.Debug("config loaded", slog.String("application_name", appConfig.Registration.ApplicationName))

	shutdownOtel := func() error { return nil }
	if appConfig.Telemetry.Enabled {
		shutdownOtel = startOTel(appConfig.Telemetry.Endpoint)
	}

	a := newApp(appConfig)
	defer a.Close()

	// subscribed before the transport exists so that no push is dropped
	pushes, err := a.broker.Subscribe(transport.PushReceivedTopic)
	if err != nil {
		return fmt.Errorf("following received pushes: %w", err)
	}

	registrar, err := a.registrarService(ctx)
	if err != nil {
		return err
	}
	sessions, err := a.sessions()
	if err != nil {
		return err
	}

	worker, err := usecases.NewRegistrationWorker(registrar, usecases.RegistrationWorkerConfig{
		Schedule:             appConfig.Agent.ReconcileSchedule,
		UnregisterOnShutdown: appConfig.Agent.UnregisterOnShutdown,
		OperationTimeout:     appConfig.Agent.OperationTimeout,
	})
	if err != nil {
		return err
	}

	httpServer := httpserver.NewServer(
		httpserver.ServerConfig{
			Addr:           appConfig.HTTP.Addr,
			AllowedOrigins: appConfig.HTTP.AllowedOrigins,
		},
		httpapi.NewRegistrationController(registrar),
		httpapi.NewSessionController(sessions, domain.AccountType(appConfig.Login.AccountType)),
	)

	appCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	go func() {
		if err := httpServer.Run(); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go runWorker(appCtx, worker, wg.Done)
	wg.Add(1)
	go logPushes(appCtx, a.broker, pushes, wg.Done)

	signalChannel := make(chan os.Signal, 2)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	select {
	case <-signalChannel:
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http server shutdown", slog.Any("error", err))
	}

	cancelFn()
	wg.Wait()

	if err := shutdownOtel(); err != nil {
		slog.Warn("telemetry shutdown", slog.Any("error", err))
	}

	slog.Info("good bye!!!")
	return nil
}

func runWorker(ctx context.Context, worker async.Worker, done func()) {
	worker.Run(ctx, done)
}

// logPushes drains pushes delivered by the transport until ctx is done.
func logPushes(ctx context.Context, broker async.InternalBroker, subscription async.Subscription, done func()) {
	defer done()
	defer func() {
		_ = broker.Unsubscribe(transport.PushReceivedTopic, subscription)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-subscription.Receiver:
			if !ok {
				return
			}
			if push, ok := msg.Value.(transport.Push); ok {
				slog.Info("push notification delivered",
					slog.String("topic", push.Topic),
					slog.Time("received_at", push.ReceivedAt),
					slog.String("payload", string(push.Payload)))
			}
		}
	}
}

type registrarAction func(ctx context.Context, cmd *cobra.Command, registrar usecases.RegistrarService) error

func withRegistrar(appConfig *config.AppConfig, action registrarAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), _commandTimeout)
		defer cancel()

		a := newApp(*appConfig)
		defer a.Close()

		registrar, err := a.registrarService(ctx)
		if err != nil {
			return err
		}
		return action(ctx, cmd, registrar)
	}
}

type resultJSON struct {
	Operation  string `json:"operation,omitempty"`
	Registered bool   `json:"registered"`
	ObjectID   string `json:"object_id,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

type statusJSON struct {
	ApplicationName         string            `json:"application_name"`
	PushConfigured          bool              `json:"push_configured"`
	TransportRegistrationID string            `json:"transport_registration_id,omitempty"`
	Registered              bool              `json:"registered"`
	Options                 map[string]string `json:"options,omitempty"`
	LastResult              *resultJSON       `json:"last_result,omitempty"`
}

func resultOutput(result usecases.RegistrationResult) resultJSON {
	output := resultJSON{
		Operation:  string(result.Operation),
		Registered: result.Registered,
		ObjectID:   result.ObjectID,
		StatusCode: result.StatusCode,
	}
	if result.Err != nil {
		output.Error = result.Err.Error()
	}
	return output
}

func statusOutput(status usecases.RegistrationStatus) statusJSON {
	output := statusJSON{
		ApplicationName:         status.ApplicationName,
		PushConfigured:          status.PushConfigured,
		TransportRegistrationID: status.TransportRegistrationID,
		Registered:              status.Registered,
	}
	if status.Options != nil {
		output.Options = status.Options.AsBundle()
	}
	if status.LastResult != nil {
		result := resultOutput(*status.LastResult)
		output.LastResult = &result
	}
	return output
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("printing output: %w", err)
	}
	return nil
}
