package main

import (
	"bufio"
	"fmt"
	"net/http"
	"time"

	"github.com/nilsmartel/hotel/logger"
)

func TestDrain(c Config) {

	log := logger.WithPrefix("bench")

	if c.Base == "" {
		stop := CreateServer(&c)
		defer stop()
	}

	collection := CreateCollection(c.Base)
	client := newClient()

	fmt.Println("inserting:", c.N)
	InsertDocuments(c, client, collection)

	t0 := time.Now()
	resp, err := client.Post(c.Base+"/v1/collections/"+collection+":drain", "application/json", nil)
	if err != nil {
		log.WithError(err).Fatal("do request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.Status).Fatal("unexpected status")
	}

	drained := 0
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		drained++
	}
	took := time.Since(t0)

	fmt.Println("drained:", drained)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(drained)/took.Seconds())
}
