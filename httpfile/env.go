package httpfile

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Env resolves environment lookups. The process environment wins over values
// read from dotenv files.
type Env struct {
	files   map[string]string
	process bool
}

// LoadEnv reads the given dotenv files. Later files do not override earlier
// ones. With no paths it reads ./.env when present.
func LoadEnv(paths ...string) (*Env, error) {
	if len(paths) == 0 {
		m, err := godotenv.Read()
		if errors.Is(err, fs.ErrNotExist) {
			return &Env{files: map[string]string{}, process: true}, nil
		}
		if err != nil {
			return nil, err
		}
		return &Env{files: m, process: true}, nil
	}

	files := map[string]string{}
	for _, p := range paths {
		m, err := godotenv.Read(p)
		if err != nil {
			return nil, err
		}
		for k, v := range m {
			if _, ok := files[k]; !ok {
				files[k] = v
			}
		}
	}
	return &Env{files: files, process: true}, nil
}

// EnvFromMap returns an Env backed by m alone, without the process
// environment.
func EnvFromMap(m map[string]string) *Env {
	return &Env{files: m}
}

// Lookup returns the value of name, or def when it is not set anywhere.
func (e *Env) Lookup(name, def string) string {
	if e == nil {
		return def
	}
	if e.process {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
	}
	if v, ok := e.files[name]; ok {
		return v
	}
	return def
}

var defaultEnv = sync.OnceValue(func() *Env {
	env, err := LoadEnv()
	if err != nil {
		return &Env{process: true}
	}
	return env
})

// DefaultEnv returns the process environment layered over ./.env, read once.
func DefaultEnv() *Env {
	return defaultEnv()
}

// Getenv reads name from DefaultEnv. Generated request functions call it.
func Getenv(name, def string) string {
	return DefaultEnv().Lookup(name, def)
}
