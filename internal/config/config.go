package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Everflow     Everflow     `mapstructure:",squash"`
	Tune         Tune         `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	StatsCache   StatsCache   `mapstructure:",squash"`
	Business     Business     `mapstructure:",squash"`
	SnapshotSync SnapshotSync `mapstructure:",squash"`
	SecretKey    string       `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Everflow struct {
	BaseURL               string `mapstructure:"everflow_base_url"`
	APIKey                string `mapstructure:"everflow_api_key"`
	TimezoneID            int    `mapstructure:"everflow_timezone_id"`
	PageLimit             int    `mapstructure:"everflow_page_limit"`
	CustomPageLimit       int    `mapstructure:"everflow_custom_page_limit"`
	MaxPages              int    `mapstructure:"everflow_max_pages"`
	RequestTimeoutSeconds int    `mapstructure:"everflow_request_timeout_seconds"`
}

type Tune struct {
	BaseURL               string `mapstructure:"tune_base_url"`
	APIKey                string `mapstructure:"tune_api_key"`
	RequestTimeoutSeconds int    `mapstructure:"tune_request_timeout_seconds"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type StatsCache struct {
	TTLSeconds int `mapstructure:"stats_cache_ttl_seconds"`
}

// Business concentra as taxas e constantes de negócio usadas nos cálculos
// de comissão. Os valores padrão refletem o acordo comercial vigente.
type Business struct {
	PayoutPerLead           float64 `mapstructure:"payout_per_lead"`
	ManagerMarginPerLead    float64 `mapstructure:"manager_margin_per_lead"`
	FlatCARatePerLead       float64 `mapstructure:"flat_ca_rate_per_lead"`
	ConversionClickRatio    float64 `mapstructure:"conversion_click_ratio"`
	BonusBlockSize          int     `mapstructure:"bonus_block_size"`
	BonusPerBlock           float64 `mapstructure:"bonus_per_block"`
	OverrideBonusSub1       string  `mapstructure:"override_bonus_sub1"`
	OverrideBonusPerLead    float64 `mapstructure:"override_bonus_per_lead"`
	DailyAnomalyThreshold   int     `mapstructure:"daily_anomaly_threshold"`
	MonthlyAnomalyThreshold int     `mapstructure:"monthly_anomaly_threshold"`
}

type SnapshotSync struct {
	CronSchedule string `mapstructure:"snapshot_sync_cron"`
	Enabled      bool   `mapstructure:"snapshot_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/affiliate_dashboard")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("EVERFLOW_BASE_URL", "https://api.eflow.team/v1")
	viper.SetDefault("EVERFLOW_API_KEY", "your_api_key") // ONLY LOCAL
	viper.SetDefault("EVERFLOW_TIMEZONE_ID", 67)
	viper.SetDefault("EVERFLOW_PAGE_LIMIT", 500)
	viper.SetDefault("EVERFLOW_CUSTOM_PAGE_LIMIT", 2000)
	viper.SetDefault("EVERFLOW_MAX_PAGES", 20)
	viper.SetDefault("EVERFLOW_REQUEST_TIMEOUT_SECONDS", 30)

	viper.SetDefault("TUNE_BASE_URL", "https://api.hasoffers.com/Apiv3/json")
	viper.SetDefault("TUNE_API_KEY", "your_api_key") // ONLY LOCAL
	viper.SetDefault("TUNE_REQUEST_TIMEOUT_SECONDS", 30)

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("STATS_CACHE_TTL_SECONDS", 30)

	// Taxas de negócio
	viper.SetDefault("PAYOUT_PER_LEAD", 4.70)
	viper.SetDefault("MANAGER_MARGIN_PER_LEAD", 25.30)
	viper.SetDefault("FLAT_CA_RATE_PER_LEAD", 30.0)
	viper.SetDefault("CONVERSION_CLICK_RATIO", 0.077)
	viper.SetDefault("BONUS_BLOCK_SIZE", 10)
	viper.SetDefault("BONUS_PER_BLOCK", 10.0)
	viper.SetDefault("OVERRIDE_BONUS_SUB1", "som")
	viper.SetDefault("OVERRIDE_BONUS_PER_LEAD", 2.0)
	viper.SetDefault("DAILY_ANOMALY_THRESHOLD", 5000)
	viper.SetDefault("MONTHLY_ANOMALY_THRESHOLD", 10000)

	// Defaults para sincronização de snapshots de fallback
	viper.SetDefault("SNAPSHOT_SYNC_CRON", "*/15 * * * *") // A cada 15 minutos
	viper.SetDefault("SNAPSHOT_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Info("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
