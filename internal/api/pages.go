package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"flash-gen/internal/services"
	"flash-gen/internal/session"
	"flash-gen/internal/web"
)

func (s *Server) page(sess *session.Session) web.Page {
	return web.Page{
		View:     sess.View(),
		NumCards: s.opts.DefaultCards,
		Language: s.opts.DefaultLanguage,
		MinCards: services.MinCards,
		MaxCards: services.MaxCards,
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page web.Page) {
	var buf bytes.Buffer
	if err := web.Render(&buf, page); err != nil {
		s.log.Error("render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.page(sessionFrom(r.Context())))
}

func (s *Server) handleGenerateForm(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	req, err := s.decodeGenerateRequest(w, r)
	if err != nil {
		page := s.page(sess)
		page.Error = err.Error()
		status := http.StatusBadRequest
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			status = reqErr.status
		}
		s.renderPage(w, status, page)
		return
	}

	warning, status, err := s.runGenerate(r.Context(), sess, req)
	if err == nil && warning == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page := s.page(sess)
	page.Text = req.Text
	page.NumCards = req.NumCards
	page.Language = req.Language
	page.Warning = warning
	if err != nil {
		page.Error = err.Error()
	}
	s.renderPage(w, status, page)
}

func (s *Server) handleToggleForm(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	index, err := parseIndex(r)
	if err == nil {
		err = sess.Toggle(index)
	}
	if err != nil {
		page := s.page(sess)
		page.Error = err.Error()
		s.renderPage(w, indexErrorStatus(err), page)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/#card-%d", index), http.StatusSeeOther)
}
