package config

import (
	"fmt"
	"os"
	"strconv"
)

// 1管理者運用の固定アドレス。環境変数ADMIN_EMAILで上書きできる。
const DefaultAdminEmail = "admin@kaizen.com"

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あればDSNより優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート
	PostgresSSLMode  string

	RedisAddr string // 商品索引キャッシュ

	// 画像バケット。URLが空ならローカルディスク保存に切り替える。
	StorageURL    string
	StorageKey    string
	StorageBucket string
	UploadDir     string // ローカル保存先（STORAGE_URL未設定時）
	PublicBaseURL string // ローカル保存時の公開URLベース

	JWTSecret  string // JWT署名シークレット
	AdminEmail string // 管理者として扱う唯一のメールアドレス

	GoEnv string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "kaizen"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),

		StorageURL:    os.Getenv("STORAGE_URL"),
		StorageKey:    os.Getenv("STORAGE_KEY"),
		StorageBucket: getenv("STORAGE_BUCKET", "product-images"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		AdminEmail: getenv("ADMIN_EMAIL", DefaultAdminEmail),

		GoEnv: getenv("GO_ENV", "dev"),
	}

	pgPort, err := atoiEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	cfg.PostgresPort = pgPort

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StorageURL != "" && cfg.StorageKey == "" {
		return Config{}, fmt.Errorf("STORAGE_KEY is required when STORAGE_URL is set")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
