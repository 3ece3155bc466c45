package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/poofware/handbook-service/internal/utils"
)

// Pagination holds the limit/offset defaults applied to every list endpoint.
type Pagination struct {
	DefaultLimit  int `env:"DEFAULT_LIMIT" envDefault:"10"`
	DefaultOffset int `env:"DEFAULT_OFFSET" envDefault:"0"`
	MaxLimit      int `env:"MAX_LIMIT" envDefault:"100"`
}

type Config struct {
	OrganizationName string
	AppName          string

	Env     string `env:"ENV" envDefault:"dev"`
	AppPort string `env:"APP_PORT" envDefault:"8080"`
	AppUrl  string `env:"APP_URL_FROM_ANYWHERE" envDefault:"http://localhost:8080"`
	DBUrl   string `env:"DB_URL"`

	Pagination Pagination `envPrefix:"PAGINATION_"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	BWSAccessToken  string `env:"BWS_ACCESS_TOKEN"`
	BWSOrganization string `env:"BWS_ORGANIZATION_ID"`
	LDSDKKey        string `env:"LD_SDK_KEY"`
	LDServerCtxKind string `env:"LD_SERVER_CONTEXT_KIND" envDefault:"service"`
	LDServerCtxKey  string `env:"LD_SERVER_CONTEXT_KEY" envDefault:"handbook-service"`

	// Feature-flag snapshots. Env values are the fallback when LaunchDarkly is not configured.
	LDFlag_SeedDbWithTestData bool `env:"SEED_DB_WITH_TEST_DATA" envDefault:"false"`
	LDFlag_CORSHighSecurity   bool `env:"CORS_HIGH_SECURITY" envDefault:"false"`
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
)

// build-time overrides, set with -ldflags
var (
	AppName = "handbook-service"
)

// LoadConfig builds the Config from the environment, Bitwarden secrets and
// LaunchDarkly flags. Any failure is fatal.
func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	cfg, err := ParseEnv()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid environment configuration")
	}

	if cfg.BWSAccessToken != "" {
		if err := cfg.loadBWSSecrets(); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to load secrets from BWS")
		}
	} else {
		utils.Logger.Debug("BWS_ACCESS_TOKEN not set; reading secrets from env")
	}

	if cfg.DBUrl == "" {
		utils.Logger.Fatal("DB_URL is missing (env or BWS secrets)")
	}

	if cfg.LDSDKKey != "" {
		if err := cfg.loadLDFlags(); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to evaluate LaunchDarkly flags")
		}
	} else {
		utils.Logger.Debug("LD_SDK_KEY not set; feature flags come from env")
	}
	utils.Logger.Debugf("seed_db_with_test_data flag: %t", cfg.LDFlag_SeedDbWithTestData)
	utils.Logger.Debugf("cors_high_security flag: %t", cfg.LDFlag_CORSHighSecurity)

	utils.Logger.Infof("Loaded config for %s (%s)", cfg.AppName, cfg.Env)
	return cfg
}

// ParseEnv reads and validates the env-driven part of the configuration.
func ParseEnv() (*Config, error) {
	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          AppName,
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Pagination.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (p Pagination) validate() error {
	if p.DefaultLimit < 1 {
		return errors.New("PAGINATION_DEFAULT_LIMIT must be >= 1")
	}
	if p.DefaultOffset < 0 {
		return errors.New("PAGINATION_DEFAULT_OFFSET must be >= 0")
	}
	if p.MaxLimit < p.DefaultLimit {
		return fmt.Errorf("PAGINATION_MAX_LIMIT (%d) must be >= PAGINATION_DEFAULT_LIMIT (%d)", p.MaxLimit, p.DefaultLimit)
	}
	return nil
}

func (c *Config) loadBWSSecrets() error {
	client, err := utils.NewBWSSecretsClient(c.BWSAccessToken, c.BWSOrganization)
	if err != nil {
		return err
	}
	defer client.Close()

	projectName := fmt.Sprintf("%s-%s", c.AppName, c.Env)
	secrets, err := client.GetBWSSecrets(projectName)
	if err != nil {
		return err
	}
	if dbURL, ok := secrets["DB_URL"]; ok && dbURL != "" {
		c.DBUrl = dbURL
	}
	if ldKey, ok := secrets["LD_SDK_KEY"]; ok && ldKey != "" {
		c.LDSDKKey = ldKey
	}
	utils.Logger.Infof("Fetched %d secrets from BWS project %s", len(secrets), projectName)
	return nil
}

func (c *Config) loadLDFlags() error {
	ldClient, err := ld.MakeClient(c.LDSDKKey, LDConnectionTimeout)
	if err != nil {
		return fmt.Errorf("create LaunchDarkly client: %w", err)
	}
	defer ldClient.Close()

	if !ldClient.Initialized() {
		return errors.New("LaunchDarkly client failed to initialize")
	}

	ctx := ldcontext.NewWithKind(ldcontext.Kind(c.LDServerCtxKind), c.LDServerCtxKey)

	seed, err := ldClient.BoolVariation("seed_db_with_test_data", ctx, c.LDFlag_SeedDbWithTestData)
	if err != nil {
		return fmt.Errorf("seed_db_with_test_data flag: %w", err)
	}
	corsHigh, err := ldClient.BoolVariation("cors_high_security", ctx, c.LDFlag_CORSHighSecurity)
	if err != nil {
		return fmt.Errorf("cors_high_security flag: %w", err)
	}

	c.LDFlag_SeedDbWithTestData = seed
	c.LDFlag_CORSHighSecurity = corsHigh
	return nil
}

// AllowedOrigins lists the CORS origins for the current security flag.
func (c *Config) AllowedOrigins() []string {
	origins := []string{c.AppUrl}
	if !c.LDFlag_CORSHighSecurity {
		origins = append(origins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}
	return origins
}

func (c *Config) Close() {}
