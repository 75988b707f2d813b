package quadra

import (
	"fmt"
	"os"

	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/worker"
	"github.com/pelletier/go-toml"
)

// Config is the optional file configuration of the manager: numeric
// settings and the workers started alongside it.
type Config struct {
	Manager ManagerConfig  `toml:"manager"`
	Workers []WorkerConfig `toml:"workers"`
}

type ManagerConfig struct {
	Policy         string `toml:"policy"`
	WasmFile       string `toml:"wasm_file"`
	BurnIterations int64  `toml:"burn_iterations"`
}

type WorkerConfig struct {
	Name  string `toml:"name"`
	Kind  string `toml:"kind"`
	Count int    `toml:"count"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if _, err := numeric.ParseBoundPolicy(cfg.Manager.Policy); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

// Pool expands the configured workers into one spec per worker. A named
// entry with a count above one yields name-1, name-2 and so on; unnamed
// entries are named by the manager.
func (c *Config) Pool() ([]manager.WorkerSpec, error) {
	var specs []manager.WorkerSpec
	for i, w := range c.Workers {
		kind := worker.Kind(w.Kind)
		switch kind {
		case "":
			kind = worker.KindNative
		case worker.KindNative, worker.KindWasm:
		default:
			return nil, fmt.Errorf("workers[%d]: unsupported kind %q", i, w.Kind)
		}

		count := max(w.Count, 1)
		for n := 1; n <= count; n++ {
			name := w.Name
			if name != "" && count > 1 {
				name = fmt.Sprintf("%s-%d", w.Name, n)
			}
			specs = append(specs, manager.WorkerSpec{Name: name, Kind: kind})
		}
	}

	return specs, nil
}
