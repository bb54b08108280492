package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nilsmartel/hotel/bootstrap"
	"github.com/nilsmartel/hotel/configuration"
	"github.com/nilsmartel/hotel/logger"
)

type JSON = map[string]any

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

func TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "hotel_bench_*")
	if err != nil {
		panic("Could not create temp directory: " + err.Error())
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

func CreateCollection(base string) string {

	name := "col-" + strconv.FormatInt(time.Now().UnixNano(), 10)

	payload, _ := json.Marshal(JSON{"name": name})

	req, _ := http.NewRequest("POST", base+"/v1/collections", bytes.NewReader(payload))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	io.Copy(os.Stdout, resp.Body)

	return name
}

// CreateServer starts an in-process server on a random port and points
// c.Base to it.
func CreateServer(c *Config) (stop func()) {
	dir, cleanup := TempDir()
	cleanups = append(cleanups, cleanup)

	conf := configuration.Default()
	conf.Dir = dir
	conf.HttpAddr = "127.0.0.1:0"
	logger.Configure("warn", "")

	start, stop, err := bootstrap.Bootstrap(conf)
	if err != nil {
		panic("Could not start server: " + err.Error())
	}
	go start()

	c.Base = "http://" + conf.HttpAddr
	waitReady(c.Base)

	return stop
}

func waitReady(base string) {
	for i := 0; i < 100; i++ {
		resp, err := http.Get(base + "/v1/collections")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	panic("server not ready at " + base)
}

func newClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     1024,
			MaxIdleConnsPerHost: 1024,
			MaxIdleConns:        1024,
		},
	}
}

// InsertDocuments streams n documents into collection using workers
// concurrent requests.
func InsertDocuments(c Config, client *http.Client, collection string) time.Duration {

	items := c.N

	t0 := time.Now()
	Parallel(c.Workers, func() {

		r, w := io.Pipe()

		wb := bufio.NewWriterSize(w, 1*1024*1024)

		go func() {
			for {
				n := atomic.AddInt64(&items, -1)
				if n < 0 {
					break
				}
				fmt.Fprintf(wb, "{\"id\":%d,\"n\":\"%d\"}\n", n, n)
			}
			wb.Flush()
			w.Close()
		}()

		req, err := http.NewRequest("POST", c.Base+"/v1/collections/"+collection+":insert", r)
		if err != nil {
			logger.WithPrefix("bench").WithError(err).Fatal("new request")
		}

		resp, err := client.Do(req)
		if err != nil {
			logger.WithPrefix("bench").WithError(err).Fatal("do request")
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	})

	return time.Since(t0)
}
