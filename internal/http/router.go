package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/example/petpal/internal/application"
)

type RouterConfig struct {
	Session    *SessionHandler
	Account    *AccountHandler
	Sitters    *SitterHandler
	Bookings   *BookingHandler
	Records    *RecordsHandler
	Metrics    http.Handler
	Middleware []func(http.Handler) http.Handler
}

// NewControllerRouter wires every handler to controller.
func NewControllerRouter(controller *application.Controller, metrics http.Handler, logger *slog.Logger) http.Handler {
	return NewRouter(RouterConfig{
		Session:    NewSessionHandler(controller, logger),
		Account:    NewAccountHandler(controller, logger),
		Sitters:    NewSitterHandler(controller, logger),
		Bookings:   NewBookingHandler(controller, controller.Store(), logger),
		Records:    NewRecordsHandler(controller.Store(), logger),
		Metrics:    metrics,
		Middleware: []func(http.Handler) http.Handler{RequestLogger(logger)},
	})
}

// NewRouter builds the API. Everything except /metrics runs under one lock.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Session != nil {
		mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Session.State(w, r)
		})
		mux.HandleFunc("/navigate", postOnly(cfg.Session.Navigate))
		mux.HandleFunc("/login", postOnly(cfg.Session.Login))
		mux.HandleFunc("/logout", postOnly(cfg.Session.Logout))
		mux.HandleFunc("/signup", postOnly(cfg.Session.Signup))
	}

	if cfg.Account != nil {
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Account.UpdateUser(w, r)
		})
		mux.HandleFunc("/pets", postOnly(cfg.Account.AddPet))
	}

	if cfg.Sitters != nil {
		mux.HandleFunc("/sitters", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Sitters.List(w, r)
		})
		mux.HandleFunc("/sitters/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/sitters/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Sitters.Get(w, r.WithContext(ContextWithSitterID(r.Context(), id)))
		})
	}

	if cfg.Bookings != nil {
		mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Bookings.List(w, r)
			case http.MethodPost:
				cfg.Bookings.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
	}

	if cfg.Records != nil {
		mux.HandleFunc("/messages", getOrPut(cfg.Records.GetMessages, cfg.Records.PutMessages))
		mux.HandleFunc("/notifications", getOrPut(cfg.Records.GetNotifications, cfg.Records.PutNotifications))
		mux.HandleFunc("/profile", getOrPut(cfg.Records.GetProfile, cfg.Records.PutProfile))
	}

	root := http.NewServeMux()
	root.Handle("/", serialize(&sync.Mutex{})(mux))
	if cfg.Metrics != nil {
		root.Handle("/metrics", cfg.Metrics)
	}

	var handler http.Handler = root
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}

func postOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		next(w, r)
	}
}

func getOrPut(get, put http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			get(w, r)
		case http.MethodPut:
			put(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut)
		}
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
