package cli

import (
	"fmt"
	"log"
	"net/url" // Pour extraire le nom d'hôte de la base URL configurée

	"github.com/glebarez/sqlite" // Driver SQLite pour GORM
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	cmd2 "github.com/mengnanen/short-links/cmd"
	"github.com/mengnanen/short-links/internal/config"
	"github.com/mengnanen/short-links/internal/repository"
	"github.com/mengnanen/short-links/internal/services"
)

// Flags de la commande 'create'
var (
	urlFlag      string
	slugFlag     string
	expiryFlag   string
	passwordFlag string
)

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crée une URL courte à partir d'une URL cible.",
	Long: `Cette commande raccourcit une URL cible fournie et affiche le slug généré.

Exemple:
  short-links create --url="https://www.example.com/page" --slug=docs --expiry=7d`,
	Run: func(cmd *cobra.Command, args []string) {
		// Valider que le flag --url a été fourni.
		if urlFlag == "" {
			log.Fatalf("FATAL: Le flag --url est requis")
		}

		// Charger la configuration
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("FATAL: Impossible de charger la configuration: %v", err)
		}

		// Initialiser la connexion à la base de données SQLite.
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("FATAL: Impossible de se connecter à la base de données: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Échec de l'obtention de la base de données SQL sous-jacente: %v", err)
		}

		// S'assurer que la connexion est fermée à la fin de l'exécution de la commande
		defer func() {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Attention: Erreur lors de la fermeture de la connexion: %v", err)
			}
		}()

		// Initialiser les repositories et services nécessaires
		linkRepo := repository.NewLinkRepository(db)
		linkService := services.NewLinkService(linkRepo)

		// Le rejet auto-référentiel utilise le nom d'hôte de la base URL
		// configurée, comme le ferait une requête HTTP entrante.
		host := ""
		if base, err := url.Parse(cfg.Server.BaseURL); err == nil {
			host = base.Hostname()
		}

		// Appeler le LinkService pour créer (ou réutiliser) le lien court.
		link, err := linkService.CreateLink(services.CreateLinkInput{
			URL:      urlFlag,
			Slug:     slugFlag,
			Expiry:   expiryFlag,
			Password: passwordFlag,
			Host:     host,
		})
		if err != nil {
			log.Fatalf("FATAL: Échec de la création du lien court: %v", err)
		}

		fullShortURL := fmt.Sprintf("%s/%s", cfg.Server.BaseURL, link.Slug)
		fmt.Printf("URL courte créée avec succès:\n")
		fmt.Printf("Slug: %s\n", link.Slug)
		fmt.Printf("URL complète: %s\n", fullShortURL)
		if link.ExpiresAt != nil {
			fmt.Printf("Expire le: %s\n", link.ExpiresAt.Format("2006-01-02 15:04:05"))
		}
	},
}

// init() s'exécute automatiquement lors de l'importation du package.
// Il est utilisé pour définir les flags que cette commande accepte.
func init() {
	// Définir les flags de la commande create.
	CreateCmd.Flags().StringVarP(&urlFlag, "url", "u", "", "L'URL cible à raccourcir")
	CreateCmd.Flags().StringVarP(&slugFlag, "slug", "s", "", "Slug personnalisé (optionnel, 2 à 10 caractères)")
	CreateCmd.Flags().StringVarP(&expiryFlag, "expiry", "e", "", "Expiration: ISO-8601 ou durée relative (ex: 30m, 2h, 7d)")
	CreateCmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "Mot de passe d'accès du lien (optionnel)")

	// Marquer le flag comme requis
	CreateCmd.MarkFlagRequired("url")

	// Ajouter la commande à RootCmd
	cmd2.RootCmd.AddCommand(CreateCmd)
}
