package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"kitreport/internal/clients"
	"kitreport/internal/oauth"
	"kitreport/internal/session"
	"kitreport/internal/tasks"
	"kitreport/internal/web"
	"kitreport/pkg/database"
	"kitreport/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := tasks.NewHub()
	router.GET("/ws", tasks.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "kitreport", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	sessions := session.NewService(cfg.SessionSecret, "kitreport", cfg.SessionTTL)

	oauthHandler := oauth.NewHandler(cfg, sessions)
	oauthHandler.RegisterRoutes(router)

	clientsRepo := clients.NewRepo(db)
	taskStore := tasks.NewStore(db)
	runner := tasks.NewRunner(taskStore, hub)

	webHandler := web.NewHandler(cfg.KitBaseURL, sessions, clientsRepo, taskStore, runner)
	webHandler.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
