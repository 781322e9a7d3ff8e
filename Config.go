package go_ballisticengine

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const cMaximumCalculatorStepSize float64 = 1.0
const cZeroFindingAccuracy float64 = 0.000005
const cMinimumVelocity float64 = 50.0
const cMaximumDrop float64 = -15000
const cMinimumAltitude float64 = -1410.748
const cGravityConstant float64 = -32.17405
const cMaxIterations int = 60
const cChartResolution float64 = 100.0

//Config keeps the integration and zero-finding tuning constants.
//
//A Config belongs to one engine and may be temporarily overridden by solvers
//within one call chain; it is never shared between concurrent engines.
type Config struct {
	//MaximumCalculatorStepSize caps the distance covered by one integration
	//step, in feet
	MaximumCalculatorStepSize float64 `json:"maximumCalculatorStepSize" mapstructure:"maximumCalculatorStepSize"`
	//ZeroFindingAccuracy is the height residual, in feet, below which a zero
	//search is considered converged
	ZeroFindingAccuracy float64 `json:"zeroFindingAccuracy" mapstructure:"zeroFindingAccuracy"`
	//MinimumVelocity terminates integration once the projectile slows below
	//it, in fps; zero disables the check
	MinimumVelocity float64 `json:"minimumVelocity" mapstructure:"minimumVelocity"`
	//MaximumDrop terminates integration once a descending projectile falls
	//below this height, in feet (negative)
	MaximumDrop float64 `json:"maximumDrop" mapstructure:"maximumDrop"`
	//MinimumAltitude terminates integration once a descending projectile
	//falls below this altitude over sea level, in feet
	MinimumAltitude float64 `json:"minimumAltitude" mapstructure:"minimumAltitude"`
	//GravityConstant is the vertical gravity acceleration, in ft/s^2
	//(negative points down)
	GravityConstant float64 `json:"gravityConstant" mapstructure:"gravityConstant"`
	//MaxIterations caps root-finding iteration counts
	MaxIterations int `json:"maxIterations" mapstructure:"maxIterations"`
	//ChartResolution is the downrange spacing of trajectory rows, in feet,
	//used when a trajectory request gives no range step of its own
	ChartResolution float64 `json:"chartResolution" mapstructure:"chartResolution"`
}

//DefaultConfig returns the config with the standard tuning constants
func DefaultConfig() Config {
	return Config{
		MaximumCalculatorStepSize: cMaximumCalculatorStepSize,
		ZeroFindingAccuracy:       cZeroFindingAccuracy,
		MinimumVelocity:           cMinimumVelocity,
		MaximumDrop:               cMaximumDrop,
		MinimumAltitude:           cMinimumAltitude,
		GravityConstant:           cGravityConstant,
		MaxIterations:             cMaxIterations,
		ChartResolution:           cChartResolution,
	}
}

//LoadConfig reads the tuning constants from ballisticengine.cfg.json in the
//directory given, falling back to the defaults for missing keys or a missing
//file
func LoadConfig(configDir string) (Config, error) {
	v := viper.New()

	v.SetDefault("maximumCalculatorStepSize", cMaximumCalculatorStepSize)
	v.SetDefault("zeroFindingAccuracy", cZeroFindingAccuracy)
	v.SetDefault("minimumVelocity", cMinimumVelocity)
	v.SetDefault("maximumDrop", cMaximumDrop)
	v.SetDefault("minimumAltitude", cMinimumAltitude)
	v.SetDefault("gravityConstant", cGravityConstant)
	v.SetDefault("maxIterations", cMaxIterations)
	v.SetDefault("chartResolution", cChartResolution)

	v.SetConfigName("ballisticengine.cfg")
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return DefaultConfig(), fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}
