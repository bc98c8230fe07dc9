package web

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Mal-back/cal-tracker/internal/logging"
	"github.com/Mal-back/cal-tracker/internal/server/auth"
	"github.com/Mal-back/cal-tracker/internal/server/authctx"
	"github.com/Mal-back/cal-tracker/internal/server/metrics"
	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxResultKey ctxKey = iota
	requestInfoKey
)

// ctxResult is written once per request by ResolveCtx.
type ctxResult struct {
	ctx authctx.Ctx
	err error
}

// requestInfo collects what the request log line reports. Handlers fill it
// through the request context while the logging middleware owns it.
type requestInfo struct {
	id     uuid.UUID
	start  time.Time
	userID *int64
	err    error
}

func infoFrom(ctx context.Context) *requestInfo {
	ri, _ := ctx.Value(requestInfoKey).(*requestInfo)
	return ri
}

// WithRequestLog emits exactly one structured line per request and counts
// the request in m.
func WithRequestLog(next http.Handler, log logging.Logger, m *metrics.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ri := &requestInfo{id: uuid.New(), start: time.Now()}
		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}

		r = r.WithContext(context.WithValue(r.Context(), requestInfoKey, ri))
		next.ServeHTTP(lrw, r)

		args := []any{
			"uuid", ri.id.String(),
			"timestamp", ri.start.UTC().Format(time.RFC3339Nano),
			"user_id", ri.userID,
			"req_path", r.URL.Path,
			"req_method", r.Method,
			"status", lrw.status,
			"duration_ms", time.Since(ri.start).Milliseconds(),
		}

		clientErr := ""
		if ri.err != nil {
			c := classify(ri.err)
			clientErr = string(c.client)
			args = append(args,
				"client_error_type", clientErr,
				"error_type", c.kind,
				"error_data", ri.err.Error(),
			)
		}
		m.ObserveRequest(r.Method, lrw.status, clientErr)

		switch {
		case lrw.status >= http.StatusInternalServerError:
			log.Error(r.Context(), "request", args...)
		case lrw.status >= http.StatusBadRequest:
			log.Warn(r.Context(), "request", args...)
		default:
			log.Info(r.Context(), "request", args...)
		}
	})
}

// ResolveCtx runs token resolution for every request passing through it.
// On success the rotated token is set as the new cookie; on any failure
// other than a missing cookie the cookie is removed.
func ResolveCtx(next http.Handler, res *auth.Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := tokenFromCookie(r)

		c, fresh, err := res.Resolve(r.Context(), raw)
		switch {
		case err == nil:
			setTokenCookie(w, fresh)
			if ri := infoFrom(r.Context()); ri != nil {
				id := c.UserID()
				ri.userID = &id
			}
		case !errors.Is(err, auth.ErrTokenNotInCookie):
			removeTokenCookie(w)
		}

		ctx := context.WithValue(r.Context(), ctxResultKey, ctxResult{ctx: c, err: err})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CtxFromRequest returns the Ctx stored by ResolveCtx, or the error
// resolution failed with.
func CtxFromRequest(r *http.Request) (authctx.Ctx, error) {
	res, ok := r.Context().Value(ctxResultKey).(ctxResult)
	if !ok {
		return authctx.Ctx{}, &auth.CtxExtError{Reason: auth.ErrCtxNotInRequest}
	}
	return res.ctx, res.err
}

type ctxHandlerFunc func(w http.ResponseWriter, r *http.Request, c authctx.Ctx) error

// RequireAuth lets the request through only with a resolved Ctx; otherwise
// the stored resolution error goes to the response mapper.
func RequireAuth(next ctxHandlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		c, err := CtxFromRequest(r)
		if err != nil {
			return err
		}
		return next(w, r, c)
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying ResponseWriter does not support hijacking")
	}
	return hj.Hijack()
}

func (w *loggingResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *loggingResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
