package main

import (
	"log"
	"os"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/application/startup"
)

func main() {
	if err := startup.Initialize(); err != nil {
		log.Fatalf("Gateway startup failed: %v", err)
		os.Exit(1)
	}

	log.Println("Gateway has shut down gracefully.")
}
