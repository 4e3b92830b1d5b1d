package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
)

func main() {
	// Set properties of the predefined Logger: prefix every line with the
	// service name and keep the timestamp.
	log.SetPrefix("lg/nutrilog-api: ")
	log.SetFlags(log.LstdFlags)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	pool := getDBPool(cfg.DBURL)
	defer pool.Close()

	h := newHandler(pool, cfg)

	fmt.Println("Starting gin app...")

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
