package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type envValue interface {
	string | int | bool | float64 | time.Duration
}

// GetEnv reads an environment variable and converts it to the type of the default
// value. An unset or empty variable yields the default, an invalid one panics.
func GetEnv[T envValue](envVarName string, defaultValue T) T {
	value, ok := os.LookupEnv(envVarName)
	if !ok || value == "" {
		return defaultValue
	}

	parsed, err := parseEnv[T](value)
	if err != nil {
		panic(fmt.Sprintf("Environment variable %s is not valid: %s", envVarName, err))
	}
	return parsed
}

func GetRequiredEnv[T envValue](envVarName string) T {
	value, ok := os.LookupEnv(envVarName)
	if !ok || value == "" {
		log.Fatalf("%s environment variable is required", envVarName)
	}

	parsed, err := parseEnv[T](value)
	if err != nil {
		log.Fatalf("%s environment variable is not valid: %s", envVarName, err)
	}
	return parsed
}

func parseEnv[T envValue](value string) (T, error) {
	var out T

	switch ptr := any(&out).(type) {
	case *string:
		*ptr = value
	case *int:
		v, err := strconv.Atoi(value)
		if err != nil {
			return out, fmt.Errorf("'%s' is not an integer", value)
		}
		*ptr = v
	case *bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return out, fmt.Errorf("'%s' cannot be converted to bool", value)
		}
		*ptr = v
	case *float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return out, fmt.Errorf("'%s' is not a number", value)
		}
		*ptr = v
	case *time.Duration:
		v, err := time.ParseDuration(value)
		if err != nil {
			return out, fmt.Errorf("'%s' is not a duration", value)
		}
		*ptr = v
	}

	return out, nil
}
