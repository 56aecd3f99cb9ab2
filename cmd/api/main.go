package main

import (
	"context"
	"log"

	"github.com/nexyn/foods-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("foods API failed: %v", err)
	}
}
