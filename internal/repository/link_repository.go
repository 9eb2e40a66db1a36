package repository

import (
	"github.com/mengnanen/short-links/internal/models"
	"gorm.io/gorm"
)

// LinkRepository est une interface qui définit les méthodes d'accès aux données
// pour les opérations sur les liens.
type LinkRepository interface {
	CreateLink(link *models.Link) error
	GetLinkBySlug(slug string) (*models.Link, error)
	GetLinkByURL(url string) (*models.Link, error)
	GetAllLinks() ([]models.Link, error)
}

// GormLinkRepository est l'implémentation de LinkRepository utilisant GORM.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository crée et retourne une nouvelle instance de GormLinkRepository.
// Cette fonction retourne *GormLinkRepository, qui implémente l'interface LinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// CreateLink insère un nouveau lien dans la base de données.
// La contrainte d'unicité sur 'slug' est la véritable garantie de cohérence:
// une violation se manifeste ici par une erreur GORM que le service classifie.
func (r *GormLinkRepository) CreateLink(link *models.Link) error {
	// Utiliser GORM pour créer un nouvel enregistrement (link) dans la table des liens.
	result := r.db.Create(link)
	return result.Error
}

// GetLinkBySlug récupère un lien de la base de données en utilisant son slug.
// Il renvoie gorm.ErrRecordNotFound si aucun lien n'est trouvé avec ce slug.
func (r *GormLinkRepository) GetLinkBySlug(slug string) (*models.Link, error) {
	var link models.Link
	// La méthode First de GORM recherche le premier enregistrement correspondant et le mappe à 'link'.
	result := r.db.Where("slug = ?", slug).First(&link)
	if result.Error != nil {
		return nil, result.Error
	}
	return &link, nil
}

// GetLinkByURL récupère un lien existant pour une URL cible exacte.
// Utilisé pour la déduplication: si l'URL est déjà raccourcie, on réutilise
// son slug plutôt que de créer une ligne en double.
// Il renvoie gorm.ErrRecordNotFound si aucun lien n'existe pour cette URL.
func (r *GormLinkRepository) GetLinkByURL(url string) (*models.Link, error) {
	var link models.Link
	result := r.db.Where("url = ?", url).First(&link)
	if result.Error != nil {
		return nil, result.Error
	}
	return &link, nil
}

// GetAllLinks récupère tous les liens de la base de données.
// Cette méthode est utilisée par la commande CLI 'stats'.
func (r *GormLinkRepository) GetAllLinks() ([]models.Link, error) {
	var links []models.Link
	// Utiliser GORM pour récupérer tous les liens.
	result := r.db.Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}
	return links, nil
}
