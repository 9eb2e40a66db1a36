package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite" // Driver SQLite pur Go pour GORM
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	cmd2 "github.com/mengnanen/short-links/cmd"
	"github.com/mengnanen/short-links/internal/api"
	"github.com/mengnanen/short-links/internal/models"
	"github.com/mengnanen/short-links/internal/repository"
	"github.com/mengnanen/short-links/internal/services"
	"github.com/mengnanen/short-links/internal/workers"
)

// RunServerCmd représente la commande 'run-server' qui démarre le serveur HTTP.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Démarre le serveur HTTP du raccourcisseur d'URL.",
	Long: `Cette commande démarre le serveur Gin qui expose les deux handlers:
la redirection (GET /:slug) et la création (POST /create), ainsi que le
health check. Les logs de visite sont écrits de façon asynchrone par un
pool de workers.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Charger la configuration chargée globalement via cmd.Cfg
		cfg := cmd2.Cfg
		if cfg == nil {
			log.Fatalf("FATAL: La configuration n'a pas été chargée correctement.")
		}

		// Initialiser la connexion à la base de données SQLite.
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("FATAL: Impossible de se connecter à la base de données: %v", err)
		}

		// Exécuter les migrations au démarrage pour que les tables 'links' et
		// 'logs' existent toujours.
		if err := db.AutoMigrate(&models.Link{}, &models.LogEntry{}); err != nil {
			log.Fatalf("FATAL: Erreur lors de l'exécution des migrations: %v", err)
		}

		// Initialiser les repositories et services.
		linkRepo := repository.NewLinkRepository(db)
		logRepo := repository.NewLogRepository(db)
		linkService := services.NewLinkService(linkRepo)

		// Créer le channel bufferisé des logs de visite et démarrer les workers.
		// La taille du buffer et le nombre de workers viennent de la config.
		api.LogEventsChannel = make(chan models.LogEvent, cfg.Logs.BufferSize)
		workers.StartLogWorkers(cfg.Logs.WorkerCount, api.LogEventsChannel, logRepo)

		// Initialiser le routeur Gin et les routes.
		router := gin.Default()
		api.SetupRoutes(router, linkService, cfg)

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: router,
		}

		// Démarrer le serveur dans une goroutine pour pouvoir attendre les
		// signaux d'arrêt dans la goroutine principale.
		go func() {
			log.Printf("Serveur démarré sur le port %d", cfg.Server.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("FATAL: Échec du démarrage du serveur: %v", err)
			}
		}()

		// Attendre un signal d'arrêt (Ctrl+C ou SIGTERM).
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Signal d'arrêt reçu, arrêt du serveur...")

		// Arrêt propre du serveur HTTP. Les logs de visite encore dans le
		// channel peuvent être perdus: la durabilité des logs est best-effort.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Attention: Arrêt forcé du serveur: %v", err)
		}

		log.Println("Serveur arrêté.")
	},
}

func init() {
	// Ajouter la commande run-server à RootCmd
	cmd2.RootCmd.AddCommand(RunServerCmd)
}
