package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"LMS-backend/internal/catalog"
	"LMS-backend/internal/circulation"
	"LMS-backend/internal/library"
	"LMS-backend/internal/members"
	"LMS-backend/internal/platform/auth"
	"LMS-backend/internal/platform/config"
	"LMS-backend/internal/platform/httpapi"
	"LMS-backend/internal/platform/logging"
	"LMS-backend/internal/platform/state"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "path to config file")
	flag.Parse()

	// 設定読み込み（ファイルが無ければデフォルトで起動）
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			panic(err)
		}
		cfg = config.Default()
	}

	log := logging.New(cfg.Mode)
	log.WithField("mode", cfg.Mode).Info("starting library backend")

	// 状態ファイル読み込み。初回起動は空の状態から始まる。
	store, err := state.Open(cfg.State.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to load state file")
	}
	log.WithField("path", store.Path()).Info("state loaded")

	// 貸出ポリシーは設定から注入（永続化はしない）
	if err := store.Update(func(st *state.State) error {
		st.Library.MaxBooksPerMember = cfg.Policy.MaxBooksPerMember
		return nil
	}); err != nil {
		log.WithError(err).Fatal("failed to apply borrow policy")
	}

	authSvc := auth.NewService(store, []byte(cfg.Auth.JWTSecret),
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	// 司書アカウントが空なら admin/admin を用意する
	if seeded, err := authSvc.SeedDefaultAdmin(); err != nil {
		log.WithError(err).Fatal("failed to seed default librarian account")
	} else if seeded {
		log.Warn("seeded default librarian account admin/admin; change it")
	}

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.RequestLogger(log), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == "dev" && len(cfg.CORS.Origins) > 0 {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-Id"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "state": store.Path()})
	})

	requireAuth := auth.RequireAuth(authSvc.Secret())

	// /api
	api := r.Group("/api")
	auth.RegisterRoutes(api, authSvc, requireAuth)
	catalog.RegisterRoutes(api, catalog.NewService(store, log), requireAuth)
	members.RegisterRoutes(api, members.NewService(store), requireAuth)
	circulation.RegisterRoutes(api, circulation.NewService(store, cfg.Policy.DefaultLoanDays), requireAuth)

	// 明示保存（変更系は都度保存されるので通常は不要）
	api.POST("/save", requireAuth, func(c *gin.Context) {
		if err := store.Save(); err != nil {
			httpapi.Abort(c, library.ErrInternal("save failed: "+err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			log.WithField("addr", cfg.Server.Addr).Info("listening (tls)")
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			log.WithField("addr", cfg.Server.Addr).Info("listening")
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}

	// 終了時にも念のため保存しておく
	if err := store.Save(); err != nil {
		log.WithError(err).Error("final save failed")
	}
}
