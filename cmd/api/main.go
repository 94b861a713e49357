package main

import (
	"context"
	"log"

	"github.com/secondspine/bookstore/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("bookstore api: %v", err)
	}
}
