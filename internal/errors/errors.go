package errors

import "fmt"

// ErrInvalidURL est retournée quand l'URL cible fournie est invalide
// (schéma absent, trop courte, ou non analysable).
type ErrInvalidURL struct {
	URL string
}

func (e *ErrInvalidURL) Error() string {
	return fmt.Sprintf("URL invalide: %s", e.URL)
}

// ErrInvalidSlug est retournée quand un slug personnalisé ne respecte pas les
// contraintes: longueur entre 2 et 10 caractères, et ne doit pas se terminer
// par un suffixe de type extension de fichier.
type ErrInvalidSlug struct {
	Slug string
}

func (e *ErrInvalidSlug) Error() string {
	return fmt.Sprintf("slug invalide: '%s' (longueur entre 2 et 10, sans extension de fichier)", e.Slug)
}

// ErrSlugExists est retournée quand un slug est déjà associé à une URL
// différente. C'est aussi l'erreur produite quand la contrainte d'unicité de
// la base de données est violée lors de l'insertion (course entre la
// pré-vérification et l'insert).
type ErrSlugExists struct {
	Slug string
}

func (e *ErrSlugExists) Error() string {
	return fmt.Sprintf("le slug '%s' existe déjà", e.Slug)
}

// ErrSelfReference est retournée quand l'URL cible pointe vers le domaine du
// service lui-même: raccourcir son propre domaine est interdit.
type ErrSelfReference struct {
	Host string
}

func (e *ErrSelfReference) Error() string {
	return fmt.Sprintf("impossible de raccourcir un lien vers le même domaine: %s", e.Host)
}
