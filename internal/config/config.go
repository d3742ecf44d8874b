package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env            string `yaml:"env" env-default:"local"`
	HTTPServer     `yaml:"http_server"`
	SettlementDB   `yaml:"settlement_db"`
	LogConfig      `yaml:"log_config"`
	KafkaService   `yaml:"kafka-service"`
	PaymentGateway `yaml:"payment-gateway"`
	Settlement     `yaml:"settlement"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type SettlementDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type PaymentGateway struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Settlement struct {
	BusinessFeeRate        float64       `yaml:"business_fee_rate" env-default:"0.03"`
	StandardFeeRate        float64       `yaml:"standard_fee_rate" env-default:"0.05"`
	AutoConfirmAfter       time.Duration `yaml:"auto_confirm_after" env-default:"336h"`
	VotingTTL              time.Duration `yaml:"voting_ttl" env-default:"72h"`
	JuryQuorum             int           `yaml:"jury_quorum" env-default:"5"`
	LowQuorumVoteThreshold int64         `yaml:"low_quorum_vote_threshold" env-default:"2"`
	AutoConfirmInterval    time.Duration `yaml:"auto_confirm_interval" env-default:"1h"`
	ExpireVotingsInterval  time.Duration `yaml:"expire_votings_interval" env-default:"30m"`
}

func MustLoad() *SettlementConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
