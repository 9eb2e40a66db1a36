package repository

import (
	"github.com/mengnanen/short-links/internal/models"
	"gorm.io/gorm"
)

// LogRepository est une interface qui définit les méthodes d'accès aux données
// pour les logs de visite (table 'logs', en append seul).
type LogRepository interface {
	CreateLog(entry *models.LogEntry) error
	CountLogsBySlug(slug string) (int, error)
}

// GormLogRepository est l'implémentation de LogRepository utilisant GORM.
type GormLogRepository struct {
	db *gorm.DB
}

// NewLogRepository crée et retourne une nouvelle instance de GormLogRepository.
func NewLogRepository(db *gorm.DB) *GormLogRepository {
	return &GormLogRepository{db: db}
}

// CreateLog insère un enregistrement de visite dans la table 'logs'.
// Les appelants (workers asynchrones) ignorent volontairement l'échec:
// la durabilité des logs est best-effort.
func (r *GormLogRepository) CreateLog(entry *models.LogEntry) error {
	result := r.db.Create(entry)
	return result.Error
}

// CountLogsBySlug compte le nombre total de visites enregistrées pour un slug donné.
func (r *GormLogRepository) CountLogsBySlug(slug string) (int, error) {
	var count int64 // GORM retourne un int64 pour les comptes
	result := r.db.Model(&models.LogEntry{}).Where("slug = ?", slug).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(count), nil
}
