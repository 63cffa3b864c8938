package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env           string
	Port          string
	SessionSecret string
	DatabaseURL   string
	RedisURL      string

	StripeSecretKey      string
	BaseURL              string // checkout redirects: BASE_URL/success and BASE_URL/cart
	OnboardingRefreshURL string
	OnboardingReturnURL  string

	CloudinaryCloudName    string
	CloudinaryUploadPreset string

	AllowedEmailDomain string // only institutional accounts stay signed in

	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	domain := strings.TrimSpace(viper.GetString("ALLOWED_EMAIL_DOMAIN"))
	if domain == "" {
		domain = "@psu.edu"
	}
	if !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}

	baseURL := strings.TrimRight(viper.GetString("BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	return &Config{
		Env:           env,
		Port:          port,
		SessionSecret: viper.GetString("SESSION_SECRET"),
		DatabaseURL:   viper.GetString("DATABASE_URL"),
		RedisURL:      viper.GetString("REDIS_URL"),

		StripeSecretKey:      viper.GetString("STRIPE_SECRET_KEY"),
		BaseURL:              baseURL,
		OnboardingRefreshURL: withDefault(viper.GetString("ONBOARDING_REFRESH_URL"), baseURL+"/profile/retry"),
		OnboardingReturnURL:  withDefault(viper.GetString("ONBOARDING_RETURN_URL"), baseURL+"/profile"),

		CloudinaryCloudName:    viper.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryUploadPreset: viper.GetString("CLOUDINARY_UPLOAD_PRESET"),

		AllowedEmailDomain: domain,

		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
	}, nil
}

func withDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
