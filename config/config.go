// config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Neo4j         DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Actuator      ActuatorConfiguration
	Engine        EngineConfiguration
	Geofence      GeofenceConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// DatabaseConfiguration stores data for database connection
type DatabaseConfiguration struct {
	URI string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr string
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// ActuatorConfiguration stores the external actuator endpoint settings
type ActuatorConfiguration struct {
	URL             string
	DispatchTimeout time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	CallbackWait    time.Duration
}

// EngineConfiguration stores the correlation engine tunables
type EngineConfiguration struct {
	GuardTTL       time.Duration
	EventRetention time.Duration
	SweepInterval  time.Duration
	StoreBackend   string
}

// GeofenceConfiguration stores the authorized area definition
type GeofenceConfiguration struct {
	Name         string
	Lat          float64
	Lon          float64
	RadiusMeters float64
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("neo4j.uri", "bolt://localhost:7687")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("log.dir", "logging")

	viper.SetDefault("actuator.url", "http://localhost:9090")
	viper.SetDefault("actuator.dispatchTimeout", "5s")
	viper.SetDefault("actuator.maxRetries", 3)
	viper.SetDefault("actuator.retryBackoff", "2s")
	viper.SetDefault("actuator.callbackWait", "30s")

	viper.SetDefault("engine.guardTTL", "15s")
	viper.SetDefault("engine.eventRetention", "24h")
	viper.SetDefault("engine.sweepInterval", "10s")
	viper.SetDefault("engine.storeBackend", "memory")

	viper.SetDefault("geofence.name", "site")
	viper.SetDefault("geofence.lat", 0.0)
	viper.SetDefault("geofence.lon", 0.0)
	viper.SetDefault("geofence.radiusMeters", 150.0)

	viper.SetDefault("rateLimit.requests", 100)
	viper.SetDefault("rateLimit.window", "1m")

	// Seed values for the global schedule when none has been stored yet.
	viper.SetDefault("schedule.weekday.enabled", true)
	viper.SetDefault("schedule.weekday.start", "06:00")
	viper.SetDefault("schedule.weekday.end", "22:00")
	viper.SetDefault("schedule.saturday.enabled", true)
	viper.SetDefault("schedule.saturday.start", "08:00")
	viper.SetDefault("schedule.saturday.end", "18:00")
	viper.SetDefault("schedule.sunday.enabled", false)
	viper.SetDefault("schedule.sunday.start", "00:00")
	viper.SetDefault("schedule.sunday.end", "00:00")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 retrieves a float64 value from the configuration
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
