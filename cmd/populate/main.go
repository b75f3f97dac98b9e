// Command populate seeds the database with an admin account plus random
// employees and DID numbers. Records that collide with existing ones are skipped.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/didnumber-service/internal/config"
	"github.com/spec-kit/didnumber-service/internal/observability"
	"github.com/spec-kit/didnumber-service/internal/persistence"
	"github.com/spec-kit/didnumber-service/internal/repository"
	"github.com/spec-kit/didnumber-service/internal/service"
	apperrors "github.com/spec-kit/didnumber-service/pkg/util"
)

func main() {
	employees := flag.Int("employees", 10, "random non-admin employees to create")
	didNumbers := flag.Int("didnumbers", 10, "random DID numbers to create")
	adminEmail := flag.String("admin-email", "admin@admin.com", "email of the seeded admin account")
	adminPassword := flag.String("admin-password", "admin", "password of the seeded admin account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if err := persistence.RunMigrations(ctx, pg.SQL(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		EmployeeRepo: repository.NewEmployeeRepository(pg.SQL()),
		Logger:       logger,
	})
	didService := service.NewDidNumberService(cfg.Inventory, service.DidNumberDependencies{
		DidNumberRepo: repository.NewDidNumberRepository(pg.SQL()),
		Logger:        logger,
	})

	admin := service.SignupInput{
		Email:     *adminEmail,
		Username:  strings.SplitN(*adminEmail, "@", 2)[0],
		FirstName: "First Name",
		LastName:  "Last Name",
		Password:  *adminPassword,
		IsAdmin:   true,
	}
	report(logger, "admin", admin.Email, signup(ctx, authService, admin))

	for i := 0; i < *employees; i++ {
		username := randomLetters(10)
		in := service.SignupInput{
			Email:     username + "@gmail.com",
			Username:  username,
			FirstName: "First Name",
			LastName:  "Last Name",
			Password:  "123456",
		}
		report(logger, "employee", in.Email, signup(ctx, authService, in))
	}

	for i := 0; i < *didNumbers; i++ {
		in := service.DidNumberInput{
			Value:        fmt.Sprintf("+55 %s %s-%s", randomDigits(2), randomDigits(4), randomDigits(4)),
			MonthlyPrice: decimal.RequireFromString("0.06"),
			SetupPrice:   decimal.RequireFromString("3.49"),
			Currency:     "U$",
		}
		_, err := didService.Add(ctx, 0, in)
		report(logger, "did_number", in.Value, err)
	}
}

func signup(ctx context.Context, svc *service.AuthService, in service.SignupInput) error {
	_, err := svc.Signup(ctx, in)
	return err
}

func report(logger *zap.Logger, kind, key string, err error) {
	if err == nil {
		logger.Info("created", zap.String("kind", kind), zap.String("key", key))
		return
	}
	var de *apperrors.DomainError
	if errors.As(err, &de) && de.Code == apperrors.CodeConflict {
		logger.Info("skipped existing", zap.String("kind", kind), zap.String("key", key))
		return
	}
	logger.Fatal("seed failed", zap.String("kind", kind), zap.String("key", key), zap.Error(err))
}

func randomLetters(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func randomDigits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rand.Intn(10))
	}
	return string(b)
}
