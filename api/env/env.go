package env

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var cacheLock sync.RWMutex
var cache = make(map[string]string)

func init() {
	//.env is optional, real deployments use the environment
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// Get returns the value for key, reading it from the file named by "<key>.file" when that is set.
func Get(key string) string {
	cacheLock.RLock()
	val, exists := cache[key]
	cacheLock.RUnlock()
	if exists {
		return val
	}

	filename := viper.GetString(key + ".file")
	if filename == "" {
		return viper.GetString(key)
	}
	val, err := readSecret(filename)
	if err != nil {
		//see GetDurationOr for why this is not api/logger
		log.Printf("error reading secret: %s", err.Error())
		return ""
	}
	//update cache with the full value, so we don't constantly read it
	Set(key, val)
	return val
}

func Set(key string, val string) {
	cacheLock.Lock()
	defer cacheLock.Unlock()
	cache[key] = val
}

func GetOr(key string, def string) string {
	res := Get(key)
	if res == "" {
		return def
	}
	return res
}

func GetBool(key string) bool {
	return GetBoolOr(key, false)
}

func GetBoolOr(key string, def bool) bool {
	res := Get(key)
	if res == "" {
		return def
	}
	return cast.ToBool(res)
}

func GetInt(key string) int {
	return cast.ToInt(Get(key))
}

// GetDurationOr accepts Go durations ("90s") as well as bare numbers, which are read as seconds.
func GetDurationOr(key string, def time.Duration) time.Duration {
	res := Get(key)
	if res == "" {
		return def
	}
	if n, err := cast.ToInt64E(res); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := cast.ToDurationE(res)
	if err != nil || d <= 0 {
		//api/logger reads its settings from env, so env cannot log through it
		log.Printf("invalid duration for %s: %q", key, res)
		return def
	}
	return d
}

// GetStringArray splits the value on separator and drops empty entries.
func GetStringArray(key, separator string) []string {
	val := Get(key)
	if separator == "" {
		separator = ","
	}

	result := make([]string, 0)
	for _, v := range strings.Split(val, separator) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		result = append(result, v)
	}
	return result
}

func readSecret(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
