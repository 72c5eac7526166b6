package config

import (
	"github.com/LaGodxy/NovaFund/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Funding  FundingConfig  `mapstructure:"funding"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ChainConfig 链配置
type ChainConfig struct {
	RpcUrl           string `mapstructure:"rpc_url"`           // RPC节点URL
	ChainId          int64  `mapstructure:"chain_id"`          // 链ID
	PrivateKey       string `mapstructure:"private_key"`       // 托管账户私钥
	CustodianAddress string `mapstructure:"custodian_address"` // 托管账户地址
}

// FundingConfig 众筹参数
type FundingConfig struct {
	MinFundingGoal     int64  `mapstructure:"min_funding_goal"`     // 最小筹款目标
	MinContribution    int64  `mapstructure:"min_contribution"`     // 最小单笔贡献
	MinProjectDuration uint64 `mapstructure:"min_project_duration"` // 最短众筹时长（秒）
	MaxProjectDuration uint64 `mapstructure:"max_project_duration"` // 最长众筹时长（秒）
}

type TaskConfig struct {
	Interval      int `mapstructure:"interval"`       // 秒
	RefundWorkers int `mapstructure:"refund_workers"` // 退款并发数
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/novafund")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "novafund")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("chain.chain_id", 1)
	viper.SetDefault("funding.min_funding_goal", 1000000000)
	viper.SetDefault("funding.min_contribution", 100000000)
	viper.SetDefault("funding.min_project_duration", 86400)
	viper.SetDefault("funding.max_project_duration", 7776000)
	viper.SetDefault("task.interval", 60)
	viper.SetDefault("task.refund_workers", 4)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
