package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/service"
	"github.com/storeops/opsdash-api/pkg/config"
	"github.com/storeops/opsdash-api/pkg/logger"
)

// Mints a bearer token signed with JWT_SECRET, for service accounts and
// the stats contract checker.
func main() {
	var (
		userID string
		email  string
		role   string
		ttl    time.Duration
	)
	flag.StringVar(&userID, "user", "svc-stats-compare", "User id placed in the token")
	flag.StringVar(&email, "email", "", "Email recorded as the actor on status changes")
	flag.StringVar(&role, "role", string(models.RoleViewer), "ADMIN, REVIEWER or VIEWER")
	flag.DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	auth := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: ttl,
		Issuer:            cfg.JWT.Issuer,
	})
	token, expiresAt, err := auth.IssueToken(userID, email, models.UserRole(strings.ToUpper(role)))
	if err != nil {
		logr.Fatal("failed to sign token", zap.Error(err))
	}
	if _, err := auth.ValidateToken(token); err != nil {
		logr.Fatal("minted token does not verify", zap.Error(err))
	}
	logr.Info("token issued", zap.String("user", userID), zap.Time("expires_at", expiresAt))
	fmt.Println(token)
}
