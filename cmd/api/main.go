package main

import (
	"context"
	"log"

	api "github.com/Dostonlv/uLab3/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("market API failed: %v", err)
	}
}
