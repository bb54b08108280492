package main

import (
	"fmt"
)

func TestInsert(c Config) {

	if c.Base == "" {
		stop := CreateServer(&c)
		defer stop()
	}

	collection := CreateCollection(c.Base)

	took := InsertDocuments(c, newClient(), collection)

	fmt.Println("sent:", c.N)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())
}
