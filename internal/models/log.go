package models

import "time"

// LogEntry représente une visite enregistrée dans la table 'logs'.
// C'est une table en append seul: chaque ligne est un enregistrement immuable
// d'une redirection réussie, sans clé étrangère vers la table 'links'.
type LogEntry struct {
	ID         uint      `gorm:"primaryKey"`
	URL        string    `gorm:"column:url"`     // URL cible au moment de la visite
	Slug       string    `gorm:"column:slug"`    // Slug visité
	Referer    *string   `gorm:"column:referer"` // Referer de la requête, nil si absent
	UA         *string   `gorm:"column:ua"`      // User-Agent du visiteur, nil si absent
	IP         *string   `gorm:"column:ip"`      // Meilleure estimation de l'IP du visiteur, nil si absente
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
}

// TableName force le nom de la table pour correspondre au schéma 'logs'.
func (LogEntry) TableName() string {
	return "logs"
}

// LogEvent représente l'événement envoyé dans le channel des logs de visite
// lorsqu'une redirection réussit. Il est consommé par les workers asynchrones
// qui le persistent en base de données. L'écriture est best-effort: si le
// channel est plein ou si l'insertion échoue, l'événement est perdu sans
// jamais affecter la réponse de redirection.
type LogEvent struct {
	URL       string
	Slug      string
	Referer   string
	UA        string
	IP        string
	Timestamp time.Time
}
