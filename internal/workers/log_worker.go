package workers

import (
	"log"

	"github.com/mengnanen/short-links/internal/models"
	"github.com/mengnanen/short-links/internal/repository"
)

// StartLogWorkers démarre un pool de goroutines qui consomment les LogEvent
// du channel et les persistent dans la table 'logs'.
//
// L'écriture des logs de visite est strictement best-effort: un échec
// d'insertion est loggé puis ignoré, et ne remonte jamais vers le handler de
// redirection. La perte de logs en cas d'arrêt brutal du processus est un
// comportement accepté.
func StartLogWorkers(workerCount int, logEventsChan <-chan models.LogEvent, logRepo repository.LogRepository) {
	for i := 0; i < workerCount; i++ {
		// Chaque worker boucle sur le channel jusqu'à sa fermeture.
		go func(workerID int) {
			for event := range logEventsChan {
				entry := &models.LogEntry{
					URL:        event.URL,
					Slug:       event.Slug,
					Referer:    nullable(event.Referer),
					UA:         nullable(event.UA),
					IP:         nullable(event.IP),
					CreateTime: event.Timestamp,
				}

				if err := logRepo.CreateLog(entry); err != nil {
					// Échec avalé: la durabilité des logs est best-effort.
					log.Printf("[LOG WORKER %d] Échec de l'insertion du log de visite pour '%s': %v",
						workerID, event.Slug, err)
				}
			}
		}(i)
	}

	log.Printf("%d workers de logs de visite démarrés.", workerCount)
}

// nullable convertit une chaîne vide en nil pour les colonnes nullables.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
