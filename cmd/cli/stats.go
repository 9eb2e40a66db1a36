package cli

import (
	"errors"
	"fmt"
	"log"

	"github.com/glebarez/sqlite" // Driver SQLite pour GORM
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	cmd2 "github.com/mengnanen/short-links/cmd"
	"github.com/mengnanen/short-links/internal/config"
	"github.com/mengnanen/short-links/internal/repository"
	"github.com/mengnanen/short-links/internal/services"
)

// statsSlugFlag stockera la valeur du flag --slug
var statsSlugFlag string

// StatsCmd représente la commande 'stats'
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Affiche le nombre de visites enregistrées pour un lien court.",
	Long: `Cette commande compte les visites enregistrées dans la table 'logs'
pour un slug spécifique. Sans --slug, elle affiche le total pour tous les liens.

Exemple:
  short-links stats --slug="xyz1"`,
	Run: func(cmd *cobra.Command, args []string) {
		// Charger la configuration
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("FATAL: Impossible de charger la configuration: %v", err)
		}

		// Initialiser la connexion à la BDD.
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("FATAL: Impossible de se connecter à la base de données: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Échec de l'obtention de la base de données SQL sous-jacente: %v", err)
		}

		// S'assurer que la connexion est fermée à la fin de l'exécution de la commande grâce à defer
		defer func() {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Attention: Erreur lors de la fermeture de la connexion: %v", err)
			}
		}()

		// Initialiser les repositories et services nécessaires
		linkRepo := repository.NewLinkRepository(db)
		logRepo := repository.NewLogRepository(db)
		linkService := services.NewLinkService(linkRepo)

		// Sans --slug: afficher le nombre de visites pour chaque lien.
		if statsSlugFlag == "" {
			links, err := linkRepo.GetAllLinks()
			if err != nil {
				log.Fatalf("FATAL: Erreur lors de la récupération des liens: %v", err)
			}
			if len(links) == 0 {
				fmt.Println("Aucun lien enregistré.")
				return
			}
			for _, link := range links {
				count, err := logRepo.CountLogsBySlug(link.Slug)
				if err != nil {
					log.Fatalf("FATAL: Erreur lors du comptage des visites: %v", err)
				}
				fmt.Printf("%-10s → %s (%d visites)\n", link.Slug, link.URL, count)
			}
			return
		}

		// Avec --slug: vérifier que le lien existe, puis compter ses visites.
		link, err := linkService.GetLinkBySlug(statsSlugFlag)
		if err != nil {
			// Pour l'erreur, utilisez gorm.ErrRecordNotFound
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatalf("FATAL: Slug '%s' introuvable", statsSlugFlag)
			}
			log.Fatalf("FATAL: Erreur lors de la récupération du lien: %v", err)
		}

		count, err := logRepo.CountLogsBySlug(link.Slug)
		if err != nil {
			log.Fatalf("FATAL: Erreur lors du comptage des visites: %v", err)
		}

		fmt.Printf("Statistiques pour le slug: %s\n", link.Slug)
		fmt.Printf("URL cible: %s\n", link.URL)
		fmt.Printf("Total de visites: %d\n", count)
	},
}

// init() s'exécute automatiquement lors de l'importation du package.
// Il est utilisé pour définir les flags que cette commande accepte.
func init() {
	// Définir le flag --slug pour la commande stats.
	StatsCmd.Flags().StringVarP(&statsSlugFlag, "slug", "s", "", "Le slug dont on veut les statistiques (optionnel)")

	// Ajouter la commande à RootCmd
	cmd2.RootCmd.AddCommand(StatsCmd)
}
