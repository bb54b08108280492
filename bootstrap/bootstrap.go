package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fulldump/box"

	"github.com/nilsmartel/hotel/api"
	"github.com/nilsmartel/hotel/configuration"
	"github.com/nilsmartel/hotel/database"
	"github.com/nilsmartel/hotel/logger"
	"github.com/nilsmartel/hotel/service"
)

var VERSION = "dev"

// Bootstrap wires the database and the HTTP API. start blocks until stop is
// called or the process receives SIGINT or SIGTERM. c.HttpAddr is updated
// with the address actually listened on.
func Bootstrap(c *configuration.Configuration) (start, stop func(), err error) {

	log := logger.WithPrefix("bootstrap")

	db := database.NewDatabase(&database.Config{
		Dir:      c.Dir,
		KeyField: c.KeyField,
		Capacity: c.Capacity,
	})

	b := api.Build(service.NewService(db), VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(logger.WithPrefix("access")),
		api.InterceptorUnavailable(db),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		return nil, nil, err
	}
	c.HttpAddr = ln.Addr().String()
	log.Infof("listening on %s", c.HttpAddr)

	stopOnce := &sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			err := db.Stop()
			if err != nil {
				log.WithError(err).Error("stop database")
			}
			s.Shutdown(context.Background())
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		log.Infof("Signal received %s", sig.String())
		stop()
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start()
			if err != nil {
				log.WithError(err).Error("database")
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if c.HttpsEnabled {
				log.Info("HTTPS enabled")
				err = s.ServeTLS(ln, c.HttpsCert, c.HttpsKey)
			} else {
				err = s.Serve(ln)
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("http server")
				stop()
			}
		}()

		wg.Wait()
	}

	return
}
