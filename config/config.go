// server/config/config.go
package config

import (
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	Expiration       string `mapstructure:"expiration"`
	CookieExpireDays int    `mapstructure:"cookieExpireDays"`
	CookieAuth       bool   `mapstructure:"cookieAuth"`
}

type RateLimitConfig struct {
	Requests int    `mapstructure:"requests"`
	Window   string `mapstructure:"window"`
}

type UploadConfig struct {
	MaxSize int64  `mapstructure:"maxSize"`
	Path    string `mapstructure:"path"`
}

type GeocoderConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"apiKey"`
}

type EmailConfig struct {
	SendGridAPIKey string `mapstructure:"sendGridAPIKey"`
	FromAddress    string `mapstructure:"fromAddress"`
	FromName       string `mapstructure:"fromName"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	Email     EmailConfig     `mapstructure:"email"`
	S3        S3Config        `mapstructure:"s3"`
}

// LoadConfig reads config.yaml from the given path and overrides
// individual keys with environment variables when they are set.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("jwt.cookieExpireDays", "JWT_COOKIE_EXPIRE_DAYS")
	viper.BindEnv("jwt.cookieAuth", "JWT_COOKIE_AUTH")
	viper.BindEnv("rateLimit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rateLimit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("upload.maxSize", "UPLOAD_MAX_SIZE")
	viper.BindEnv("upload.path", "UPLOAD_PATH")
	viper.BindEnv("geocoder.url", "GEOCODER_URL")
	viper.BindEnv("geocoder.apiKey", "GEOCODER_API_KEY")
	viper.BindEnv("email.sendGridAPIKey", "SENDGRID_API_KEY")
	viper.BindEnv("email.fromAddress", "EMAIL_FROM")
	viper.BindEnv("email.fromName", "EMAIL_FROM_NAME")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")

	viper.SetDefault("server.port", "5000")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("mongo.dbName", "devcamper")
	viper.SetDefault("jwt.expiration", "720h")
	viper.SetDefault("jwt.cookieExpireDays", 30)
	viper.SetDefault("jwt.cookieAuth", true)
	viper.SetDefault("rateLimit.requests", 100)
	viper.SetDefault("rateLimit.window", "10m")
	viper.SetDefault("upload.maxSize", 1000000)
	viper.SetDefault("upload.path", "./public/uploads")

	// A missing config file is fine, environment variables take over.
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
