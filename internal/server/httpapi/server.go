// Package httpapi exposes the order-management REST API: account and token
// endpoints, orders with their items and attachments, and the middleware
// chain (request logging, bearer verification with transparent refresh,
// route protection).
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/logging"
	"github.com/dmitrijs2005/ordermanager/internal/server/auth"
)

type Server struct {
	address     string
	logger      logging.Logger
	codec       *auth.Codec
	accounts    AccountProvider
	refresher   Refresher
	orders      OrderProvider
	items       OrderItemProvider
	attachments AttachmentProvider
}

func NewServer(
	address string,
	logger logging.Logger,
	codec *auth.Codec,
	accounts AccountProvider,
	refresher Refresher,
	orders OrderProvider,
	items OrderItemProvider,
	attachments AttachmentProvider,
) *Server {
	return &Server{
		address:     address,
		logger:      logger.With("module", "http_server"),
		codec:       codec,
		accounts:    accounts,
		refresher:   refresher,
		orders:      orders,
		items:       items,
		attachments: attachments,
	}
}

// Handler builds the routing table with the middleware chain applied.
// Account register/login/check-email stay anonymous; everything else
// requires an authenticated identity.
func (s *Server) Handler() http.Handler {
	account := &accountHandler{accounts: s.accounts}
	order := &orderHandler{orders: s.orders}
	item := &orderItemHandler{items: s.items}
	attachment := &attachmentHandler{attachments: s.attachments}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/account/register", account.register)
	mux.HandleFunc("POST /api/account/login", account.login)
	mux.HandleFunc("GET /api/account/check-email", account.checkEmail)
	mux.Handle("GET /api/account/logout", RequireAuth(http.HandlerFunc(account.logout)))

	protected := func(h http.HandlerFunc) http.Handler { return RequireAuth(h) }

	mux.Handle("GET /api/orders", protected(order.list))
	mux.Handle("POST /api/orders", protected(order.create))
	mux.Handle("GET /api/orders/{id}", protected(order.get))
	mux.Handle("PUT /api/orders/{id}", protected(order.update))
	mux.Handle("DELETE /api/orders/{id}", protected(order.delete))

	mux.Handle("GET /api/orders/{id}/items", protected(item.listByOrder))
	mux.Handle("POST /api/orders/{id}/items", protected(item.create))
	mux.Handle("GET /api/items/{id}", protected(item.get))
	mux.Handle("PUT /api/items/{id}", protected(item.update))
	mux.Handle("DELETE /api/items/{id}", protected(item.delete))

	mux.Handle("POST /api/orders/{id}/attachments", protected(attachment.register))
	mux.Handle("GET /api/orders/{id}/attachments", protected(attachment.listByOrder))
	mux.Handle("GET /api/attachments/{id}/url", protected(attachment.downloadURL))
	mux.Handle("POST /api/attachments/{id}/uploaded", protected(attachment.markUploaded))

	var handler http.Handler = mux
	handler = Auth(s.codec, s.refresher, s.logger)(handler)
	handler = RequestLogger(s.logger)(handler)
	return handler
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
