package api

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"
	"github.com/sirupsen/logrus"

	"github.com/nilsmartel/hotel/logger"
)

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if err := recover(); err != nil {
				r := box.GetRequest(ctx)
				logger.WithPrefix("api").
					WithField("panic", err).
					WithField("stack", string(debug.Stack())).
					Errorf("%s %s", r.Method, r.URL.String())
				writePrettyError(box.GetResponse(ctx), http.StatusInternalServerError,
					"internal server error", "Unexpected error")
			}
		}()
		next(ctx)
	}
}

func AccessLog(l *logrus.Entry) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				entry := l.WithField("remote", formatRemoteAddr(r)).
					WithField("method", r.Method).
					WithField("url", r.URL.String()).
					WithField("took", time.Since(now).String())
				if err := box.GetError(ctx); err != nil && !errors.Is(err, ErrUnauthorized) {
					entry = entry.WithError(err)
				}
				entry.Info("access")
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}
