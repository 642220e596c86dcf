package http

import (
	"net/http"

	"finanzas/internal/core"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListJars(w http.ResponseWriter, r *http.Request) {
	jars := s.app.Jars()
	out := make([]jarView, 0, len(jars))
	for _, j := range jars {
		out = append(out, toJarView(j))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleJarDeposit adds one fixed unit to the named jar.
func (s *Server) handleJarDeposit(w http.ResponseWriter, r *http.Request) {
	jarType := core.JarType(chi.URLParam(r, "type"))

	jar, err := s.app.DepositJar(jarType)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toJarView(jar))
}
