package models

import "time"

// StatusActive est la seule valeur de statut considérée comme active.
// Toute autre valeur signifie que le lien est désactivé.
const StatusActive = 1

// Link représente un lien raccourci dans la base de données.
// Les tags `gorm:"..."` définissent comment GORM doit mapper cette structure à la table 'links'.
type Link struct {
	ID         uint       `gorm:"primaryKey"`                               // ID est la clé primaire auto-incrémentée
	Slug       string     `gorm:"column:slug;uniqueIndex;size:10;not null"` // Slug doit être unique, indexé pour des recherches rapides
	URL        string     `gorm:"column:url;not null"`                      // URL cible, ne doit pas être null
	Status     int        `gorm:"column:status;default:1"`                  // 1 = actif, toute autre valeur = désactivé
	IP         string     `gorm:"column:ip"`                                // Adresse IP du créateur (métadonnée de provenance)
	UA         string     `gorm:"column:ua"`                                // User-Agent du créateur (métadonnée de provenance)
	CreateTime time.Time  `gorm:"column:create_time;autoCreateTime"`        // Horodatage de la création (géré automatiquement par GORM)
	ExpiresAt  *time.Time `gorm:"column:expires_at;index"`                  // Date d'expiration optionnelle du lien, indexée pour des requêtes efficaces
	Password   *string    `gorm:"column:password"`                          // Mot de passe d'accès optionnel exigé lors de la redirection
}

// TableName force le nom de la table pour correspondre au schéma 'links'.
func (Link) TableName() string {
	return "links"
}

// IsActive vérifie si le lien est actif.
// Seule la valeur de statut 1 est considérée comme active.
func (l *Link) IsActive() bool {
	return l.Status == StatusActive
}

// IsExpired vérifie si le lien a expiré.
// Retourne true si le lien a une date d'expiration et que cette date est dépassée.
func (l *Link) IsExpired() bool {
	// Si ExpiresAt est nil, le lien n'expire jamais
	if l.ExpiresAt == nil {
		return false
	}
	// Comparer la date d'expiration avec l'heure actuelle
	return time.Now().After(*l.ExpiresAt)
}
