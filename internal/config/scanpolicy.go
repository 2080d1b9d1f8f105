package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ScanPolicy bounds how fast badges may be scanned. Rates are tokens per
// second, bursts are bucket sizes.
type ScanPolicy struct {
	BadgeRate     float64 `mapstructure:"badgeRate"`
	BadgeBurst    int     `mapstructure:"badgeBurst"`
	EndpointRate  float64 `mapstructure:"endpointRate"`
	EndpointBurst int     `mapstructure:"endpointBurst"`
}

func DefaultScanPolicy() ScanPolicy {
	return ScanPolicy{
		BadgeRate:     2,
		BadgeBurst:    5,
		EndpointRate:  200,
		EndpointBurst: 400,
	}
}

type ScanPolicyHolder struct {
	current atomic.Value // holds ScanPolicy
}

// NewStaticScanPolicyHolder returns a holder that never reloads.
func NewStaticScanPolicyHolder(policy ScanPolicy) *ScanPolicyHolder {
	holder := &ScanPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func NewScanPolicyHolder(log *zap.Logger) (*ScanPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("scanpolicy")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/badgescan")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BADGESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultScanPolicy()
	v.SetDefault("scan.badgeRate", defaults.BadgeRate)
	v.SetDefault("scan.badgeBurst", defaults.BadgeBurst)
	v.SetDefault("scan.endpointRate", defaults.EndpointRate)
	v.SetDefault("scan.endpointBurst", defaults.EndpointBurst)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var policy ScanPolicy
	if err := v.UnmarshalKey("scan", &policy); err != nil {
		return nil, err
	}
	if err := validateScanPolicy(policy); err != nil {
		return nil, err
	}

	holder := NewStaticScanPolicyHolder(policy)
	if !fileFound {
		return holder, nil
	}

	log = log.Named("config.scanpolicy")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ScanPolicy
		if err := v.UnmarshalKey("scan", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := validateScanPolicy(updated); err != nil {
			log.Warn("invalid policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *ScanPolicyHolder) Get() ScanPolicy {
	return h.current.Load().(ScanPolicy)
}

func validateScanPolicy(p ScanPolicy) error {
	if p.BadgeRate <= 0 || p.BadgeBurst <= 0 {
		return errors.New("scan.badgeRate and scan.badgeBurst must be positive")
	}
	if p.EndpointRate <= 0 || p.EndpointBurst <= 0 {
		return errors.New("scan.endpointRate and scan.endpointBurst must be positive")
	}
	return nil
}
