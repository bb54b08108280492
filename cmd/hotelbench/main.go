package main

import (
	"strings"

	"github.com/fulldump/goconfig"

	"github.com/nilsmartel/hotel/logger"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | INSERT | DRAIN | CHURN"`
	Base    string `usage:"base URL, empty starts an in-process server"`
	N       int64  `usage:"number of documents or operations"`
	Workers int    `usage:"number of workers"`
	Live    int    `usage:"occupied slots kept during CHURN"`
}

var cleanups []func()

func main() {

	log := logger.WithPrefix("bench")

	defer func() {
		log.Info("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "insert",
		Base:    "",
		N:       1_000_000,
		Workers: 16,
		Live:    10_000,
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestInsert(c)
		TestDrain(c)
		TestChurn(c)
	case "INSERT":
		TestInsert(c)
	case "DRAIN":
		TestDrain(c)
	case "CHURN":
		TestChurn(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
