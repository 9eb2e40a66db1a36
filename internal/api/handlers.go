package api

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm" // Pour gérer gorm.ErrRecordNotFound

	"github.com/mengnanen/short-links/internal/config"
	apperrors "github.com/mengnanen/short-links/internal/errors"
	"github.com/mengnanen/short-links/internal/middleware"
	"github.com/mengnanen/short-links/internal/models"
	"github.com/mengnanen/short-links/internal/services"
)

// LogEventsChannel est le channel global (ou injecté) utilisé pour envoyer les
// événements de visite aux workers asynchrones. Il est bufferisé pour ne pas
// bloquer les requêtes de redirection.
var LogEventsChannel chan models.LogEvent

// SetupRoutes configure toutes les routes de l'API Gin et injecte les dépendances nécessaires.
func SetupRoutes(router *gin.Engine, linkService *services.LinkService, cfg *config.Config) {
	// Le channel est initialisé ici si le serveur ne l'a pas déjà fait.
	// La taille du buffer vient de la configuration Viper.
	if LogEventsChannel == nil {
		LogEventsChannel = make(chan models.LogEvent, cfg.Logs.BufferSize)
	}

	// Route de Health Check, /health
	router.GET("/health", HealthCheckHandler)

	// API de création: POST /create + préliminaire OPTIONS, avec les en-têtes
	// CORS permissifs sur toutes les réponses.
	router.POST("/create", middleware.CORS(), CreateLinkHandler(linkService, cfg))
	router.OPTIONS("/create", middleware.CORS())

	// GET /create doit être un 405 de l'API de création, pas une recherche de
	// slug: les routes statiques de Gin sont prioritaires sur le joker /:slug.
	router.GET("/create", middleware.CORS(), createMethodNotAllowed)

	// Toute autre méthode sur un chemin connu → 405. Le message de guidage de
	// l'API de création ne concerne que son propre chemin.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		if c.Request.URL.Path == "/create" {
			middleware.SetCORSHeaders(c)
			createMethodNotAllowed(c)
			return
		}
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Méthode non autorisée."})
	})

	// Route de Redirection (au niveau racine pour les slugs)
	router.GET("/:slug", RedirectHandler(linkService))

	// Aucun slug dans le chemin (ou route inconnue) → page 404.
	router.NoRoute(func(c *gin.Context) {
		renderNotFoundPage(c)
	})
}

// createMethodNotAllowed renvoie le 405 de l'API de création avec son message
// de guidage. Seules les méthodes POST et OPTIONS sont acceptées sur /create.
func createMethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Use POST /create with JSON body"})
}

// HealthCheckHandler gère la route /health pour vérifier l'état du service.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RedirectHandler gère la redirection d'un slug vers son URL cible, en
// appliquant dans l'ordre la politique statut → expiration → mot de passe,
// puis l'enregistrement asynchrone de la visite.
func RedirectHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Récupère le slug de l'URL avec c.Param
		slug := c.Param("slug")

		// Récupérer le lien associé au slug depuis le linkService
		link, err := linkService.GetLinkBySlug(slug)
		if err != nil {
			// Si le lien n'est pas trouvé, retourner la page 404.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				renderNotFoundPage(c)
				return
			}
			// Gérer d'autres erreurs potentielles de la base de données ou du service.
			// Jamais d'erreur interne brute vers le client.
			log.Printf("Error retrieving link for %s: %v", slug, err)
			c.String(http.StatusInternalServerError, "Server error")
			return
		}

		// Lien désactivé: statut != 1
		if !link.IsActive() {
			c.String(http.StatusGone, "Ce lien a été désactivé.")
			return
		}

		// Lien expiré
		if link.IsExpired() {
			log.Printf("Link %s has expired (expired at: %v)", slug, link.ExpiresAt)
			c.String(http.StatusGone, "Ce lien a expiré.")
			return
		}

		// Mot de passe d'accès: paramètre de requête 'p', ou en-tête de repli.
		if link.Password != nil {
			provided := c.Query("p")
			if provided == "" {
				provided = c.GetHeader("X-Access-Password")
			}
			if *link.Password != provided {
				// 200 à la première visite (formulaire), 401 si une valeur
				// incorrecte a été fournie.
				renderPasswordPage(c, slug, provided != "")
				return
			}
		}

		// Créer un LogEvent avec les métadonnées de provenance de la visite.
		logEvent := models.LogEvent{
			URL:       link.URL,
			Slug:      slug,
			Referer:   c.Request.Referer(),
			UA:        c.Request.UserAgent(),
			IP:        clientIP(c),
			Timestamp: time.Now(),
		}

		// Envoyer le LogEvent dans le LogEventsChannel avec le multiplexage.
		// Utilise un `select` avec un `default` pour éviter de bloquer si le
		// channel est plein: l'écriture du log est best-effort et ne doit
		// jamais retarder ni faire échouer la redirection.
		select {
		case LogEventsChannel <- logEvent:
			// Événement envoyé avec succès
		default:
			log.Printf("Warning: LogEventsChannel is full, dropping visit log for %s.", slug)
		}

		// Effectuer la redirection HTTP 302 (StatusFound) vers l'URL cible.
		c.Redirect(http.StatusFound, link.URL)
	}
}

// CreateLinkRequest représente le corps de la requête JSON pour la création d'un lien.
// Le champ 'password' sert à la fois de mot de passe de création (si le
// déploiement en configure un) et de mot de passe d'accès stocké sur le lien.
type CreateLinkRequest struct {
	URL      string `json:"url"`
	Slug     string `json:"slug,omitempty"`
	Expiry   string `json:"expiry,omitempty"`
	Password string `json:"password,omitempty"`
}

// CreateLinkHandler gère la création d'une URL courte.
// Toutes les réponses (succès comme erreurs) sont en JSON avec les en-têtes
// CORS posés par le middleware.
func CreateLinkHandler(linkService *services.LinkService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLinkRequest
		// Corps JSON manquant ou mal formé → 400.
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Corps JSON manquant ou invalide."})
			return
		}

		// Si un mot de passe de création est configuré au niveau du
		// déploiement, il doit correspondre exactement. Quand il n'est pas
		// configuré, cette vérification est entièrement ignorée.
		if cfg.AccessPassword != "" && req.Password != cfg.AccessPassword {
			c.JSON(http.StatusForbidden, gin.H{"message": "Mot de passe de création incorrect."})
			return
		}

		input := services.CreateLinkInput{
			URL:      req.URL,
			Slug:     req.Slug,
			Expiry:   req.Expiry,
			Password: req.Password,
			IP:       clientIP(c),
			UA:       c.Request.UserAgent(),
			Host:     requestHostname(c),
		}

		link, err := linkService.CreateLink(input)
		if err != nil {
			var invalidURL *apperrors.ErrInvalidURL
			var invalidSlug *apperrors.ErrInvalidSlug
			var selfRef *apperrors.ErrSelfReference
			var slugExists *apperrors.ErrSlugExists

			switch {
			case errors.As(err, &invalidURL), errors.As(err, &invalidSlug), errors.As(err, &selfRef):
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			case errors.As(err, &slugExists):
				c.JSON(http.StatusConflict, gin.H{"message": "Le slug existe déjà."})
			default:
				log.Printf("Error creating link: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			}
			return
		}

		// Réponse identique pour une création et une réutilisation (création
		// idempotente ou déduplication par URL): toujours 200.
		c.JSON(http.StatusOK, gin.H{
			"slug": link.Slug,
			"link": requestOrigin(c) + "/" + link.Slug,
		})
	}
}

// clientIP retourne la meilleure estimation de l'IP du client à partir d'une
// liste d'en-têtes priorisée: l'en-tête de connexion du CDN, puis l'en-tête
// forwarded-for générique, puis un en-tête client-IP générique, sinon vide.
func clientIP(c *gin.Context) string {
	if ip := c.GetHeader("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	return c.GetHeader("clientIP")
}

// requestHostname retourne le nom d'hôte (sans port) de la requête entrante,
// utilisé pour le rejet des raccourcissements auto-référentiels.
func requestHostname(c *gin.Context) string {
	host := c.Request.Host
	// c.Request.URL.Hostname() est vide côté serveur; on passe par une URL
	// reconstruite pour séparer proprement hôte et port (IPv6 compris).
	u := &url.URL{Host: host}
	if h := u.Hostname(); h != "" {
		return h
	}
	return host
}

// requestOrigin reconstruit l'origine (schéma + hôte) de la requête entrante
// pour fabriquer le lien court retourné au client.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
