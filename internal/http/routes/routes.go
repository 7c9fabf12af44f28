// Package routes exposes the coaching engine over HTTP.
package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/adaptivecoach/internal/auth"
	"github.com/briangreenhill/adaptivecoach/internal/coach"
	"github.com/briangreenhill/adaptivecoach/internal/domain"
	"github.com/briangreenhill/adaptivecoach/internal/email"
	appmw "github.com/briangreenhill/adaptivecoach/internal/http/middleware"
)

const (
	sessionUserKey = "user_id"
	magicLinkTTL   = 30 * time.Minute
	maxBodyBytes   = 64 << 10
)

// Coach is the engine surface the API needs.
type Coach interface {
	GeneratePersonalizedResponse(ctx context.Context, userID, query string, uc domain.UserContext, opts coach.Options) (*domain.CoachingResponse, error)
	GenerateAdaptiveRecommendations(ctx context.Context, userID string, uc domain.UserContext) []domain.AdaptiveRecommendation
	ProcessFeedback(ctx context.Context, userID string, f domain.Feedback) error
	Profile(ctx context.Context, userID string) (*domain.Profile, error)
	SaveProfile(ctx context.Context, p *domain.Profile) error
}

// Users resolves sign-in emails to user ids.
type Users interface {
	EnsureUser(ctx context.Context, email string) (string, error)
	LookupUser(ctx context.Context, email string) (string, error)
}

// FeedbackQueue defers the feedback loop to the worker.
type FeedbackQueue interface {
	EnqueueFeedback(ctx context.Context, userID string, f domain.Feedback) (string, error)
}

type Server struct {
	Router *chi.Mux
	Sess   *scs.SessionManager
	Coach  Coach
	Users  Users
	Magic  auth.MagicLink
	Email  email.Sender
	Queue  FeedbackQueue // nil processes feedback inline
	Logger zerolog.Logger
}

type ServerOptions struct {
	Sess   *scs.SessionManager
	Coach  Coach
	Users  Users
	Magic  auth.MagicLink
	Email  email.Sender
	Queue  FeedbackQueue
	Logger zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)

	s := &Server{
		Router: r,
		Sess:   opts.Sess,
		Coach:  opts.Coach,
		Users:  opts.Users,
		Magic:  opts.Magic,
		Email:  opts.Email,
		Queue:  opts.Queue,
		Logger: opts.Logger,
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Post("/auth/magic-link", s.handleMagicLink)
	r.Get("/auth/callback", s.handleCallback)
	r.Post("/auth/logout", s.handleLogout)

	r.Route("/api/users/{userID}", func(pr chi.Router) {
		pr.Use(s.sessionToContext)
		pr.Use(appmw.RequireAuth)
		pr.Use(appmw.RequireSelf("userID"))
		pr.Post("/chat", s.handleChat)
		pr.Get("/recommendations", s.handleRecommendations)
		pr.Post("/recommendations", s.handleRecommendations)
		pr.Post("/feedback", s.handleFeedback)
		pr.Get("/profile", s.handleGetProfile)
		pr.Put("/profile", s.handlePutProfile)
	})

	return s
}

func (s *Server) sessionToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := s.Sess.GetString(r.Context(), sessionUserKey); id != "" {
			r = r.WithContext(appmw.WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// ---- Magic link flow

type magicLinkRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var req magicLinkRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if !decodeJSON(w, r, &req) {
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, r, http.StatusBadRequest, "bad form")
			return
		}
		req.Email = r.Form.Get("email")
	}
	emailAddr := strings.TrimSpace(req.Email)
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		writeError(w, r, http.StatusBadRequest, "email required")
		return
	}

	log := hlog.FromRequest(r)
	if _, err := s.Users.EnsureUser(r.Context(), emailAddr); err != nil {
		log.Error().Err(err).Msg("ensure user failed")
		writeError(w, r, http.StatusInternalServerError, "could not issue link")
		return
	}
	link, err := s.Magic.URL(emailAddr, magicLinkTTL)
	if err != nil {
		log.Error().Err(err).Msg("build magic link failed")
		writeError(w, r, http.StatusInternalServerError, "could not issue link")
		return
	}

	html := "<p>Click the link below to sign in to your running coach:</p><p><a href=\"" + link + "\">Sign in</a></p>"
	if err := s.Email.Send(emailAddr, "Your CoachGPT sign-in link", html); err != nil {
		log.Error().Err(err).Str("email", emailAddr).Msg("send magic link failed")
		writeError(w, r, http.StatusBadGateway, "could not send link")
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	emailAddr, err := s.Magic.Verify(r.URL.Query().Get("token"))
	if err != nil {
		log.Warn().Err(err).Msg("magic link verify failed")
		writeError(w, r, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	userID, err := s.Users.LookupUser(r.Context(), emailAddr)
	if err != nil {
		log.Warn().Err(err).Msg("user lookup failed")
		writeError(w, r, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	if err := s.Sess.RenewToken(r.Context()); err != nil {
		log.Error().Err(err).Msg("renew session token failed")
		writeError(w, r, http.StatusInternalServerError, "could not sign in")
		return
	}
	s.Sess.Put(r.Context(), sessionUserKey, userID)
	writeJSON(w, r, http.StatusOK, map[string]string{"user_id": userID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Sess.Destroy(r.Context()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("destroy session failed")
		writeError(w, r, http.StatusInternalServerError, "could not sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Coaching API

type chatRequest struct {
	Query   string             `json:"query"`
	Context domain.UserContext `json:"context"`
	Strict  bool               `json:"strict,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, r, http.StatusBadRequest, "query required")
		return
	}

	userID := chi.URLParam(r, "userID")
	resp, err := s.Coach.GeneratePersonalizedResponse(r.Context(), userID, req.Query, req.Context, coach.Options{ThrowOnError: req.Strict})
	if err != nil {
		var strict *coach.StrictGenerationError
		if errors.As(err, &strict) {
			hlog.FromRequest(r).Warn().Err(err).Str("reason", strict.Reason).Msg("strict chat failed")
			writeJSON(w, r, http.StatusBadGateway, map[string]string{"error": strict.Summary(), "reason": strict.Reason})
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("chat failed")
		writeError(w, r, http.StatusInternalServerError, "chat failed")
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

type recommendationsRequest struct {
	Context domain.UserContext `json:"context"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	recs := s.Coach.GenerateAdaptiveRecommendations(r.Context(), chi.URLParam(r, "userID"), req.Context)
	writeJSON(w, r, http.StatusOK, map[string]any{"recommendations": recs})
}

type feedbackRequest struct {
	InteractionID   string `json:"interaction_id,omitempty"`
	InteractionType string `json:"interaction_type"`
	Rating          *int   `json:"rating,omitempty"`
	FeedbackText    string `json:"feedback_text,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := chi.URLParam(r, "userID")
	fb := domain.Feedback{
		UserID:          userID,
		InteractionID:   req.InteractionID,
		InteractionType: req.InteractionType,
		Rating:          req.Rating,
		FeedbackText:    req.FeedbackText,
	}
	log := hlog.FromRequest(r)

	if s.Queue != nil {
		taskID, err := s.Queue.EnqueueFeedback(r.Context(), userID, fb)
		if errors.Is(err, coach.ErrInvalidFeedback) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("enqueue feedback failed")
			writeError(w, r, http.StatusServiceUnavailable, "could not queue feedback")
			return
		}
		writeJSON(w, r, http.StatusAccepted, map[string]string{"status": "queued", "task_id": taskID})
		return
	}

	err := s.Coach.ProcessFeedback(r.Context(), userID, fb)
	if errors.Is(err, coach.ErrInvalidFeedback) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("process feedback failed")
		writeError(w, r, http.StatusInternalServerError, "could not store feedback")
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.Coach.Profile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("load profile failed")
		writeError(w, r, http.StatusInternalServerError, "could not load profile")
		return
	}
	if p == nil {
		writeError(w, r, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if !decodeJSON(w, r, &p) {
		return
	}
	p.UserID = chi.URLParam(r, "userID")

	err := s.Coach.SaveProfile(r.Context(), &p)
	if errors.Is(err, coach.ErrInvalidProfile) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save profile failed")
		writeError(w, r, http.StatusInternalServerError, "could not save profile")
		return
	}
	writeJSON(w, r, http.StatusOK, &p)
}
