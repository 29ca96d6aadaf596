package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envS3Bucket              = "S3_BUCKET"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envAdminEmail            = "ADMIN_EMAIL"
	envAdminPasswordHash     = "ADMIN_PASSWORD_HASH"
	envResendAPIKey          = "RESEND_API_KEY"
	envMailFrom              = "MAIL_FROM"
	envGalleryBaseURL        = "GALLERY_BASE_URL"
	envDownloadURLTimeLimit  = "DOWNLOAD_URL_TIME_LIMIT"
	envExtraRetouchPrice     = "EXTRA_RETOUCH_PRICE_CENTS"
	envUploadBatchSize       = "UPLOAD_BATCH_SIZE"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "selectstudio"
	defaultDBUser             = "selectstudio_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultJWTExpiry          = 60 * time.Minute
	defaultPresignedURLExpiry = 15 * time.Minute
	defaultExtraRetouchPrice  = int64(2500)
	defaultUploadBatchSize    = 5
	minJWTSecretLength        = 32
	minUniqueCharsInSecret    = 16
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2

	errPortRequired            = "PORT must be set"
	errDBPasswordRequired      = "DB_PASSWORD must be set"
	errRegionRequired          = "REGION must be set"
	errS3BucketRequired        = "S3_BUCKET must be set"
	errAdminEmailRequired      = "ADMIN_EMAIL must be set"
	errAdminPassHashRequired   = "ADMIN_PASSWORD_HASH must be set"
	errMailFromRequired        = "MAIL_FROM must be set"
	errGalleryBaseURLRequired  = "GALLERY_BASE_URL must be set"
	errJWTSecretRequired       = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropy     = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errUploadBatchSizeInvalid  = "UPLOAD_BATCH_SIZE must be positive"
	errExtraPriceInvalid       = "EXTRA_RETOUCH_PRICE_CENTS must not be negative"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AWS      AWSConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Mail     MailConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
}

type AdminConfig struct {
	Email        string
	PasswordHash string
}

type MailConfig struct {
	ResendAPIKey string
	From         string
}

type AppConfig struct {
	GalleryBaseURL         string
	PresignedURLExpiry     time.Duration
	ExtraRetouchPriceCents int64
	UploadBatchSize        int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		AWS: AWSConfig{
			Region:          os.Getenv(envAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Bucket:          os.Getenv(envS3Bucket),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv(envJWTSecret),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		Admin: AdminConfig{
			Email:        os.Getenv(envAdminEmail),
			PasswordHash: os.Getenv(envAdminPasswordHash),
		},
		Mail: MailConfig{
			ResendAPIKey: os.Getenv(envResendAPIKey),
			From:         os.Getenv(envMailFrom),
		},
		App: AppConfig{
			GalleryBaseURL:         os.Getenv(envGalleryBaseURL),
			PresignedURLExpiry:     getDurationEnv(envDownloadURLTimeLimit, defaultPresignedURLExpiry),
			ExtraRetouchPriceCents: getInt64Env(envExtraRetouchPrice, defaultExtraRetouchPrice),
			UploadBatchSize:        getIntEnv(envUploadBatchSize, defaultUploadBatchSize),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequired)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequired)
	}

	if c.AWS.Region == "" {
		return fmt.Errorf(errRegionRequired)
	}

	if c.AWS.Bucket == "" {
		return fmt.Errorf(errS3BucketRequired)
	}

	if c.Admin.Email == "" {
		return fmt.Errorf(errAdminEmailRequired)
	}

	if c.Admin.PasswordHash == "" {
		return fmt.Errorf(errAdminPassHashRequired)
	}

	if c.Mail.From == "" {
		return fmt.Errorf(errMailFromRequired)
	}

	if c.App.GalleryBaseURL == "" {
		return fmt.Errorf(errGalleryBaseURLRequired)
	}

	if c.App.UploadBatchSize <= 0 {
		return fmt.Errorf(errUploadBatchSizeInvalid)
	}

	if c.App.ExtraRetouchPriceCents < 0 {
		return fmt.Errorf(errExtraPriceInvalid)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequired)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropy)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
