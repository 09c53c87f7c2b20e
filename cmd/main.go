package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"imob-followup/config"
	_ "imob-followup/docs"
	"imob-followup/internal/handlers"
	"imob-followup/internal/repositories"
	"imob-followup/internal/services"
	"imob-followup/internal/utils"
	"imob-followup/internal/wsnotify"
)

var (
	configPath string
	version    = "1.0.0"
)

// @title Imob Follow-up API
// @version 1.0
// @description Painel local de contatos imobiliários e follow-up via WhatsApp
// @host localhost:8081
// @BasePath /api/v1
func main() {
	utils.InitLogger("imob-followup")

	rootCmd := &cobra.Command{
		Use:           "imob",
		Short:         "Follow-up de contatos imobiliários via WhatsApp",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "arquivo de configuração (yaml)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(setupCmd())
	rootCmd.AddCommand(serverURLCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(pairCmd())
	rootCmd.AddCommand(contactsCmd())
	rootCmd.AddCommand(draftCmd())
	rootCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}
}

// appRuntime holds what every command needs: the loaded config, the local
// session store and the wired application.
type appRuntime struct {
	cfg     *config.Config
	app     *services.App
	manager *wsnotify.WebSocketManager
	close   func()
}

func openRuntime() (*appRuntime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar configuração: %w", err)
	}

	db, err := config.ConnectStore(config.NewStoreConfig(cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir armazenamento local: %w", err)
	}

	sessions := repositories.NewSQLiteSessionRepository(db, cfg.ServerURL)
	app, err := services.NewApp(cfg, sessions, wsnotify.Manager)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &appRuntime{
		cfg:     cfg,
		app:     app,
		manager: wsnotify.Manager,
		close: func() {
			app.Close()
			db.Close()
		},
	}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Inicia o painel local (API HTTP + websocket)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			rt.app.EnableLiveUpdates()
			state, err := rt.app.Gate.Evaluate(cmd.Context())
			if err != nil {
				utils.LogWarning("Servidor remoto indisponível na inicialização: %v", err)
			} else {
				utils.LogInfo("Sessão inicial: %s", state)
			}

			server := &http.Server{
				Addr:    rt.cfg.ListenAddr,
				Handler: handlers.NewRouter(handlers.NewHTTPHandler(rt.app), rt.manager),
			}

			// Canal para sinais de interrupção
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				utils.LogInfo("Servidor rodando em %s", rt.cfg.ListenAddr)
				utils.LogInfo("Swagger UI disponível em /api/v1/swagger/index.html")
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case <-stop:
			case err := <-errCh:
				return fmt.Errorf("erro ao iniciar servidor: %w", err)
			}
			utils.LogInfo("Encerrando servidor...")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				utils.LogError("Erro ao encerrar servidor: %v", err)
			}

			utils.LogInfo("Servidor encerrado com sucesso")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("imob-followup v%s\n", version)
		},
	}
}
