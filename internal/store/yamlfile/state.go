package yamlfile

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// State is the session state persisted between invocations.
type State struct {
	NowContext string `yaml:"now_context,omitempty"`
}

// StateStore keeps State in a single YAML file.
type StateStore struct {
	path string
	mu   sync.RWMutex
}

// NewStateStore creates a state store at path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the state file. A missing or empty file yields the zero State.
func (s *StateStore) Load() (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}
		return State{}, err
	}

	var st State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Save writes the state file atomically.
func (s *StateStore) Save(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	return writeAtomic(s.path, data)
}
