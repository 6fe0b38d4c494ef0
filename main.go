// @title QuizGen Backend API
// @version 1.0
// @description Backend for the quiz generation tool: upload study material, generate bilingual questions, collect typed or voice answers and grade them.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"quizgen_backend/internal/app"
	"quizgen_backend/internal/config"
	"quizgen_backend/pkg/configwatcher"
	"quizgen_backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs", "directory holding config.yaml")
	watch := flag.Bool("watch-config", false, "reload config on file change")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		go configwatcher.WatchConfig(*configPath+"/config.yaml", cfg, func(newCfg interface{}) {
			if c, ok := newCfg.(*config.Config); ok {
				application.ApplyConfig(c)
			}
		})
	}

	application.Run()
}
