package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// page404 est la page HTML renvoyée quand aucun lien ne correspond au slug
// demandé (ou qu'aucun slug n'est présent dans le chemin).
const page404 = `<!doctype html><html lang="fr"><meta charset="utf-8">
<title>Lien introuvable</title>
<style>
body{font:16px/1.5 system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;background:#f7f8fa;padding:32px}
.card{max-width:420px;margin:10vh auto;background:#fff;border-radius:12px;box-shadow:0 8px 24px rgba(0,0,0,.08);padding:24px;text-align:center}
h1{font-size:48px;margin:0 0 8px;color:#374151}
p{color:#6b7280;margin:0}
</style>
<div class="card">
  <h1>404</h1>
  <p>Ce lien court n'existe pas ou n'est plus disponible.</p>
</div>
</html>`

// passwordPageTmpl est le formulaire HTML affiché quand un lien est protégé
// par un mot de passe d'accès. Le formulaire renvoie en GET sur le même
// chemin avec le paramètre 'p'. html/template échappe le slug dans l'action.
var passwordPageTmpl = template.Must(template.New("password").Parse(`<!doctype html><html lang="fr"><meta charset="utf-8">
<title>Mot de passe requis</title>
<style>
body{font:16px/1.5 system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;background:#f7f8fa;padding:32px}
.card{max-width:420px;margin:10vh auto;background:#fff;border-radius:12px;box-shadow:0 8px 24px rgba(0,0,0,.08);padding:24px}
h1{font-size:18px;margin:0 0 12px} .err{color:#b91c1c;background:#fee2e2;border-radius:8px;padding:8px 10px;margin-bottom:10px}
input{width:100%;padding:10px 12px;border:1px solid #ddd;border-radius:8px}
button{margin-top:12px;width:100%;padding:10px 12px;border:0;border-radius:8px;background:#22c55e;color:#fff;font-weight:600}
</style>
<div class="card">
  <h1>Ce lien court est protégé par un mot de passe</h1>
  {{if .Wrong}}<div class="err">Mot de passe incorrect, veuillez réessayer</div>{{else}}<p>Saisissez le mot de passe pour continuer.</p>{{end}}
  <form method="GET" action="/{{.Slug}}">
    <input type="password" name="p" placeholder="Mot de passe d'accès" autofocus />
    <button type="submit">Valider et rediriger</button>
  </form>
</div>
</html>`))

// passwordPageData porte les données du formulaire de mot de passe.
type passwordPageData struct {
	Slug  string
	Wrong bool
}

// renderNotFoundPage renvoie la page 404 HTML.
func renderNotFoundPage(c *gin.Context) {
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(page404))
}

// renderPasswordPage renvoie le formulaire de mot de passe.
// Première visite sans mot de passe: HTTP 200 (le formulaire n'est pas une erreur).
// Mot de passe fourni mais incorrect: HTTP 401.
func renderPasswordPage(c *gin.Context, slug string, wrong bool) {
	status := http.StatusOK
	if wrong {
		status = http.StatusUnauthorized
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := passwordPageTmpl.Execute(c.Writer, passwordPageData{Slug: slug, Wrong: wrong}); err != nil {
		// Le statut est déjà parti: on se contente de logger.
		c.Error(err)
	}
}
