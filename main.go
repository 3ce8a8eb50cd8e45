package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"CERS-backend/internal/platform/db"
	"CERS-backend/internal/platform/guard"
	"CERS-backend/internal/platform/identity"
	"CERS-backend/internal/rental/history"
	"CERS-backend/internal/rental/items"
	"CERS-backend/internal/rental/orders"
	"CERS-backend/internal/rental/products"
	"CERS-backend/internal/rental/views"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if mode != "dev" && mode != "release" {
		log.Fatal("config: mode must be dev or release")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// 操作者特定（履歴の performed_by とマイページ集計に使う）
	r.Use(identity.Extract([]byte(cfg.Identity.TokenSecret)))

	// 二重実行防止と履歴はサービス間で共有する
	g := guard.New(guard.DefaultInterval)
	rec := history.NewRecorder(conn)

	// /api/v1
	api := r.Group("/api/v1")
	items.RegisterRoutes(api, items.NewService(conn, g, rec))
	orders.RegisterRoutes(api, orders.NewService(conn, g, rec))
	views.RegisterRoutes(api, views.NewService(conn))
	products.RegisterRoutes(api, products.NewService(conn))
	history.RegisterRoutes(api, history.NewService(conn))

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
