package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetCORSHeaders pose les en-têtes cross-origin permissifs de l'API de
// création sur une réponse. Exposée séparément pour les handlers hors chaîne
// de middleware (comme le handler 405 du routeur).
func SetCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Max-Age", "86400")
}

// CORS crée un middleware Gin qui ajoute les en-têtes cross-origin permissifs
// sur l'API de création. Toutes les réponses du handler de création doivent
// porter ces en-têtes, y compris les erreurs; la requête préliminaire OPTIONS
// reçoit une réponse vide avec un code 200.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		SetCORSHeaders(c)

		// Requête préliminaire: réponse vide, traitement arrêté ici.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		// Continuer le traitement de la requête
		c.Next()
	}
}
