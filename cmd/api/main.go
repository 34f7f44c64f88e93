package main

import (
	"os"
	"time"

	"kaizen/internal/config"
	"kaizen/internal/domain/model"
	"kaizen/internal/editor"
	"kaizen/internal/handler"
	"kaizen/internal/infra/cache"
	"kaizen/internal/infra/db"
	infraRepo "kaizen/internal/infra/repository"
	"kaizen/internal/infra/storage"
	"kaizen/internal/repository"
	"kaizen/internal/server"
	"kaizen/internal/usecase"
	auth "kaizen/internal/usecase/auth_usecase"
	"kaizen/internal/usecase/uploader"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

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

//アクセストークン
func newJWTIssuer(secret string) *jwtIssuer {
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID string, email string, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "kaizen-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.User{},
		&model.RefreshToken{},
	); err != nil {
		logger.Fatal().Err(err).Msg("migrate db")
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)

	//商品索引（Redis）
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	index := cache.NewRedisProductIndex(rdb, 24*time.Hour)

	//画像バケット。STORAGE_URLが無ければローカルディスク。
	var blobStore repository.BlobStore
	if cfg.StorageURL != "" {
		blobStore = storage.NewObjectStore(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	} else {
		fsStore, err := storage.NewFSStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("init upload dir")
		}
		blobStore = fsStore
	}

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()

	//JWT issuer
	issuer := newJWTIssuer(cfg.JWTSecret)

	//refresh TTL
	refreshTTL := 14 * 24 * time.Hour

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, idGen, clock, cfg.AdminEmail)
	loginUC := auth.NewLoginUsecase(userRepo, rtRepo, verifier, issuer, idGen, clock, refreshTTL)
	logoutUC := auth.NewLogoutUsecase(rtRepo)

	catalogUC := usecase.NewCatalogUsecase(productRepo, index, logger)
	adminUC := usecase.NewAdminProductUsecase(productRepo, index, idGen, clock, logger)

	//画像パイプラインとエディタ
	pipeline := uploader.NewPipeline(blobStore, idGen, logger)
	editors := editor.NewManager(pipeline, adminUC, logger)

	//Handler生成
	authH := handler.NewAuthHandler(registerUC, loginUC, logoutUC, refreshTTL, cfg.GoEnv != "dev")
	productH := handler.NewProductHandler(catalogUC)
	adminH := handler.NewAdminProductHandler(editors, adminUC, catalogUC)

	//Server起動
	if err := server.Start(cfg, logger, authH, productH, adminH); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
