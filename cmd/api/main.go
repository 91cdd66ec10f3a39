package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery/internal/config"
	"bakery/internal/domain/model"
	"bakery/internal/handler"
	"bakery/internal/infra/db"
	"bakery/internal/infra/fixture"
	"bakery/internal/infra/logger"
	infraRepo "bakery/internal/infra/repository"
	repo "bakery/internal/repository"
	"bakery/internal/server"
	"bakery/internal/usecase"
	"bakery/pkg/events"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const otpSweepInterval = 10 * time.Minute

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(subjectID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  subjectID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// repos is the full repository set, backed either by postgres or by the
// in-memory fixture store in demo mode.
type repos struct {
	tx       repo.TransactionManager
	users    repo.UserRepository
	admins   repo.AdminRepository
	partners repo.DeliveryPartnerRepository
	coupons  repo.CouponRepository
	products repo.ProductRepository
	otps     repo.OTPRepository
	resets   repo.PasswordResetRepository
}

func main() {
	// a missing .env is fine, the environment may carry everything
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()

	var r repos
	if cfg.DemoMode {
		store := fixture.NewStore()
		store.Seed()
		seedDemoAccounts(store, hasher, log)
		r = repos{
			tx:       store,
			users:    store.Users(),
			admins:   store.Admins(),
			partners: store.Partners(),
			coupons:  store.Coupons(),
			products: store.Products(),
			otps:     store.OTPs(),
			resets:   store.PasswordResets(),
		}
		log.Info("demo mode: serving seeded fixture data, no database required")
	} else {
		gormDB, err := db.Connect(cfg, log)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		if err := gormDB.AutoMigrate(
			&model.User{},
			&model.Admin{},
			&model.Product{},
			&model.Coupon{},
			&model.DeliveryPartner{},
			&model.Order{},
			&model.OrderItem{},
			&model.StatusHistory{},
			&model.OTP{},
			&model.PasswordReset{},
			&model.AuditLog{},
		); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		r = repos{
			tx:       infraRepo.NewTxManagerGorm(gormDB),
			users:    infraRepo.NewUserGormRepository(gormDB),
			admins:   infraRepo.NewAdminGormRepository(gormDB),
			partners: infraRepo.NewDeliveryPartnerGormRepository(gormDB),
			coupons:  infraRepo.NewCouponGormRepository(gormDB),
			products: infraRepo.NewProductGormRepository(gormDB),
			otps:     infraRepo.NewOTPGormRepository(gormDB),
			resets:   infraRepo.NewPasswordResetGormRepository(gormDB),
		}
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		p, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		} else {
			publisher = p
			defer p.Close()
		}
	}

	idGen := &uuidGenerator{}
	clock := &realClock{}
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 24 * time.Hour}

	// expired OTP rows are deleted lazily on verify; the sweep catches the
	// ones no verify ever touches again
	go func() {
		ticker := time.NewTicker(otpSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := r.otps.DeleteExpired(context.Background(), clock.Now())
			if err != nil {
				log.Warn("otp sweep failed", zap.Error(err))
			} else if n > 0 {
				log.Debug("otp sweep removed expired codes", zap.Int64("count", n))
			}
		}
	}()

	// dev and demo deployments have no SMS/mail channel, so OTP codes and
	// reset tokens come back in the response
	reveal := cfg.DemoMode || cfg.GoEnv != "prod"

	orderUC := usecase.NewOrderUsecase(r.tx, publisher, idGen, clock, log)
	adminOrderUC := usecase.NewAdminOrderUsecase(r.tx, publisher, clock, log)
	deliveryUC := usecase.NewDeliveryUsecase(r.tx, publisher, clock, cfg.DeliveryFeeDefault, log)
	authUC := usecase.NewAuthUsecase(r.users, r.admins, r.partners, r.resets, hasher, verifier, issuer, idGen, clock, reveal, log)
	otpUC := usecase.NewOTPUsecase(r.otps, clock, reveal, log)
	couponUC := usecase.NewCouponUsecase(r.coupons, clock)
	productUC := usecase.NewProductUsecase(r.products)
	directoryUC := usecase.NewDirectoryUsecase(r.tx, r.users, r.admins, hasher)

	e := server.New(cfg, log, server.Handlers{
		Auth:           handler.NewAuthHandler(authUC, otpUC),
		Order:          handler.NewOrderHandler(orderUC),
		Product:        handler.NewProductHandler(productUC),
		Coupon:         handler.NewCouponHandler(couponUC),
		AdminOrder:     handler.NewAdminOrderHandler(adminOrderUC),
		AdminCatalog:   handler.NewAdminCatalogHandler(productUC, couponUC),
		AdminDirectory: handler.NewAdminDirectoryHandler(directoryUC),
		Delivery:       handler.NewDeliveryHandler(deliveryUC),
	})

	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

// seedDemoAccounts adds login-able demo identities on top of the catalogue
// fixtures.
func seedDemoAccounts(store *fixture.Store, hasher usecase.PasswordHasher, log *zap.Logger) {
	ctx := context.Background()
	hash, err := hasher.Hash("demo-password")
	if err != nil {
		log.Fatal("seeding demo accounts failed", zap.Error(err))
	}

	if _, err := store.Admins().Create(ctx, model.Admin{
		Name: "Demo Admin", Email: "admin@demo.local", Password: hash,
	}); err != nil {
		log.Fatal("seeding demo admin failed", zap.Error(err))
	}
	if _, err := store.Users().Create(ctx, model.User{
		Name: "Demo Customer", Email: "customer@demo.local", Phone: "9000000002",
		Address: "12 Rose Street", Password: hash,
	}); err != nil {
		log.Fatal("seeding demo customer failed", zap.Error(err))
	}

	// the seeded rider gets the same password
	partners, err := store.Partners().List(ctx)
	if err != nil || len(partners) == 0 {
		log.Fatal("seeding demo partner failed", zap.Error(err))
	}
	p := partners[0]
	if err := store.Partners().UpdatePassword(ctx, p.ID, hash); err != nil {
		log.Fatal("seeding demo partner failed", zap.Error(err))
	}

	log.Info("demo accounts ready",
		zap.String("admin", "admin@demo.local"),
		zap.String("customer", "customer@demo.local"),
		zap.String("partner", p.Email),
		zap.String("password", "demo-password"),
	)
}
