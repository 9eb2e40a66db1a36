package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mengnanen/short-links/internal/config"
)

// Cfg contient la configuration chargée une seule fois avant l'exécution des
// sous-commandes. Les sous-commandes y accèdent via cmd.Cfg.
var Cfg *config.Config

// RootCmd est la commande racine de l'application.
// Toutes les sous-commandes (run-server, migrate, create, stats) s'y rattachent
// via leur fonction init().
var RootCmd = &cobra.Command{
	Use:   "short-links",
	Short: "Un service de raccourcissement d'URL avec expiration, mot de passe et logs de visite.",
	Long: `short-links est un service de raccourcissement d'URL.

Il mappe des slugs courts vers des URLs cibles, redirige les visiteurs,
peut protéger l'accès par un mot de passe par lien, gère l'expiration des
liens, et enregistre des logs de visite basiques de façon asynchrone.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Charger un éventuel fichier .env avant Viper, pour que la variable
		// d'environnement ACCESS_PASSWORD soit visible. L'absence du fichier
		// n'est pas une erreur.
		_ = godotenv.Load()

		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("FATAL: Impossible de charger la configuration: %v", err)
		}
		Cfg = cfg
	},
}

// Execute exécute la commande racine de Cobra.
// C'est le point d'entrée appelé par main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Printf("Erreur lors de l'exécution de la commande: %v", err)
		os.Exit(1)
	}
}
