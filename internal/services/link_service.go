package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm" // Nécessaire pour la gestion spécifique de gorm.ErrRecordNotFound

	apperrors "github.com/mengnanen/short-links/internal/errors"
	"github.com/mengnanen/short-links/internal/models"
	"github.com/mengnanen/short-links/internal/repository" // Importe le package repository
)

// Définition du jeu de caractères pour la génération des slugs aléatoires.
const charset = "1234567890abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SlugLength est la longueur des slugs générés automatiquement.
const SlugLength = 4

var (
	// urlPattern valide l'URL cible: schéma http(s) insensible à la casse,
	// suivi d'au moins 3 caractères.
	urlPattern = regexp.MustCompile(`(?i)^https?://.{3,}`)

	// slugExtPattern rejette les slugs se terminant par un suffixe de type
	// extension de fichier (un point suivi de 1 à 8 lettres), pour ne pas
	// entrer en collision avec des fichiers statiques.
	slugExtPattern = regexp.MustCompile(`\.[a-zA-Z]{1,8}$`)

	// isoPattern reconnaît une date ISO-8601 déjà absolue (date suivie de 'T').
	isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)

	// relativeExpiryPattern reconnaît une durée relative de la forme
	// '<entier><unité>' avec unité parmi m (minutes), h (heures), d (jours).
	relativeExpiryPattern = regexp.MustCompile(`^(\d+)\s*([mhd])$`)
)

// isoLayouts sont les formats essayés dans l'ordre pour une date ISO-8601.
// La plateforme d'origine acceptait aussi des formes sans secondes ni fuseau
// (interprétées ici en UTC), que RFC 3339 strict rejetterait.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// CreateLinkInput regroupe les données nécessaires à la création d'un lien:
// les champs du corps JSON plus les métadonnées de provenance extraites de la
// requête HTTP par le handler.
type CreateLinkInput struct {
	URL      string // URL cible (obligatoire)
	Slug     string // Slug personnalisé (optionnel)
	Expiry   string // Expiration: ISO-8601 ou durée relative '30m'/'2h'/'7d' (optionnel)
	Password string // Mot de passe d'accès par lien (optionnel)
	IP       string // Meilleure estimation de l'IP du créateur
	UA       string // User-Agent du créateur
	Host     string // Nom d'hôte de la requête entrante, pour le rejet auto-référentiel
}

// LinkService est une structure qui fournit des méthodes pour la logique métier des liens.
// Elle détient linkRepo qui est une référence vers une interface LinkRepository.
// IMPORTANT : Le champ doit être du type de l'interface (non-pointeur).
type LinkService struct {
	linkRepo repository.LinkRepository
}

// NewLinkService crée et retourne une nouvelle instance de LinkService.
func NewLinkService(linkRepo repository.LinkRepository) *LinkService {
	return &LinkService{
		linkRepo: linkRepo,
	}
}

// GenerateSlug génère un slug aléatoire d'une longueur spécifiée.
// Il utilise le package 'crypto/rand' pour éviter la prévisibilité.
// Il n'y a pas de boucle de retry en cas de collision: la contrainte
// d'unicité de la base de données est l'autorité au moment de l'insert.
func (s *LinkService) GenerateSlug(length int) (string, error) {
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		randomIndex, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("error generating random number: %w", err)
		}
		result[i] = charset[randomIndex.Int64()]
	}

	return string(result), nil
}

// ValidateURL vérifie que l'URL cible commence par http:// ou https://
// (insensible à la casse) suivi d'au moins 3 caractères.
func (s *LinkService) ValidateURL(rawURL string) error {
	if !urlPattern.MatchString(rawURL) {
		return &apperrors.ErrInvalidURL{URL: rawURL}
	}
	return nil
}

// ValidateSlug vérifie qu'un slug personnalisé respecte les contraintes:
// longueur entre 2 et 10 caractères, et pas de suffixe de type extension de fichier.
// Un slug vide est valide (il sera généré automatiquement).
func (s *LinkService) ValidateSlug(slug string) error {
	if slug == "" {
		return nil
	}
	if len(slug) < 2 || len(slug) > 10 || slugExtPattern.MatchString(slug) {
		return &apperrors.ErrInvalidSlug{Slug: slug}
	}
	return nil
}

// ParseExpiry résout la valeur d'expiration en un horodatage absolu.
// Trois formes sont acceptées:
//   - une date ISO-8601 déjà absolue (ex: '2025-01-01T00:00:00.000Z')
//   - une durée relative '<entier><unité>' avec unité m/h/d (ex: '30m'),
//     calculée comme maintenant + décalage
//   - toute autre forme donne nil (pas d'expiration), silencieusement:
//     ce n'est volontairement pas une erreur de validation.
func (s *LinkService) ParseExpiry(expiry string) *time.Time {
	expiry = strings.TrimSpace(expiry)
	if expiry == "" {
		return nil
	}

	// Déjà une date absolue: on la prend telle quelle.
	// Si elle ressemble à de l'ISO mais ne s'analyse dans aucun des formats,
	// on retombe sur "pas d'expiration", cohérent avec la règle d'ignorance
	// silencieuse.
	if isoPattern.MatchString(expiry) {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, expiry); err == nil {
				return &t
			}
		}
		return nil
	}

	// Durée relative: <entier><unité>
	m := relativeExpiryPattern.FindStringSubmatch(expiry)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	var unit time.Duration
	switch m[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	t := time.Now().Add(time.Duration(n) * unit)
	return &t
}

// CheckSelfReference rejette les tentatives de raccourcir une URL pointant
// vers le domaine du service lui-même. Une URL cible non analysable est
// également rejetée comme invalide. La comparaison porte sur le nom d'hôte
// seul (sans le port), comme sur la plateforme d'origine.
func (s *LinkService) CheckSelfReference(rawURL, requestHost string) error {
	target, err := url.Parse(rawURL)
	if err != nil || target.Hostname() == "" {
		return &apperrors.ErrInvalidURL{URL: rawURL}
	}
	if strings.EqualFold(target.Hostname(), requestHost) {
		return &apperrors.ErrSelfReference{Host: requestHost}
	}
	return nil
}

// CreateLink crée un nouveau lien raccourci, ou réutilise un lien existant.
//
// La résolution suit l'ordre de la plateforme d'origine:
//  1. validation de l'URL et du slug, rejet auto-référentiel;
//  2. si un slug est fourni et existe déjà avec la même URL, re-création
//     idempotente: le lien existant est retourné tel quel;
//  3. si un slug est fourni et existe avec une URL différente, conflit;
//  4. si aucun slug n'est fourni et que l'URL est déjà raccourcie, le slug
//     existant est réutilisé (déduplication par URL cible);
//  5. sinon un slug est généré (si besoin) et la ligne est insérée.
//
// Les pré-vérifications 2-4 sont des optimisations tolérantes aux courses:
// la contrainte d'unicité au moment de l'insert reste la source de vérité,
// et une violation est convertie en ErrSlugExists.
func (s *LinkService) CreateLink(input CreateLinkInput) (*models.Link, error) {
	if err := s.ValidateURL(input.URL); err != nil {
		return nil, err
	}
	if err := s.ValidateSlug(input.Slug); err != nil {
		return nil, err
	}
	if err := s.CheckSelfReference(input.URL, input.Host); err != nil {
		return nil, err
	}

	// Slug personnalisé: vérifier s'il existe déjà.
	if input.Slug != "" {
		existing, err := s.linkRepo.GetLinkBySlug(input.Slug)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("database error checking slug: %w", err)
		}
		if existing != nil {
			if existing.URL == input.URL {
				// Le même mapping existe déjà: re-création idempotente.
				return existing, nil
			}
			return nil, &apperrors.ErrSlugExists{Slug: input.Slug}
		}
	} else {
		// Pas de slug fourni: déduplication par URL cible exacte.
		existing, err := s.linkRepo.GetLinkByURL(input.URL)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("database error checking url: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	slug := input.Slug
	if slug == "" {
		generated, err := s.GenerateSlug(SlugLength)
		if err != nil {
			return nil, fmt.Errorf("error generating slug: %w", err)
		}
		slug = generated
	}

	// Le mot de passe d'accès est stocké à nil quand il est absent.
	var password *string
	if input.Password != "" {
		password = &input.Password
	}

	link := &models.Link{
		Slug:      slug,
		URL:       input.URL,
		Status:    models.StatusActive,
		IP:        input.IP,
		UA:        input.UA,
		ExpiresAt: s.ParseExpiry(input.Expiry),
		Password:  password,
	}

	// Persiste le nouveau lien. La contrainte d'unicité est le filet de
	// sécurité pour les courses entre la pré-vérification et l'insert.
	if err := s.linkRepo.CreateLink(link); err != nil {
		if isUniqueViolation(err) {
			log.Printf("Insert du slug '%s' rejeté par la contrainte d'unicité", slug)
			return nil, &apperrors.ErrSlugExists{Slug: slug}
		}
		return nil, fmt.Errorf("error creating link in database: %w", err)
	}

	return link, nil
}

// GetLinkBySlug récupère un lien via son slug.
// Il délègue l'opération de recherche au repository.
func (s *LinkService) GetLinkBySlug(slug string) (*models.Link, error) {
	return s.linkRepo.GetLinkBySlug(slug)
}

// isUniqueViolation détecte une violation de contrainte d'unicité à partir du
// message d'erreur du driver SQLite ('UNIQUE constraint failed: links.slug').
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}
