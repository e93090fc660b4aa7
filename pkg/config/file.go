package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"retroport/internal/util"
)

// Load reads a YAML file of sections and applies every value to the store.
// A missing file is not an error: the registered defaults stay in place.
func (s *Store) Load(filePath string) error {
	return s.load(filePath, "")
}

// LoadKey reads filePath but applies only the value for key
func (s *Store) LoadKey(filePath, key string) error {
	return s.load(filePath, key)
}

func (s *Store) load(filePath, only string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading config: %w", err)
	}
	return s.unmarshal(data, only)
}

// Unmarshal applies YAML data to the store
func (s *Store) Unmarshal(data []byte) error {
	return s.unmarshal(data, "")
}

func (s *Store) unmarshal(data []byte, only string) error {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}

	var errs []error
	apply := func(key string, value interface{}) {
		if only != "" && !strings.EqualFold(key, only) {
			return
		}
		if err := s.setValue(key, value); err != nil {
			errs = append(errs, err)
		}
	}

	for _, item := range doc {
		section := fmt.Sprint(item.Key)
		keys, ok := item.Value.(yaml.MapSlice)
		if !ok {
			// top-level scalar: a key without a section
			apply(section, item.Value)
			continue
		}
		for _, kv := range keys {
			apply(section+"."+fmt.Sprint(kv.Key), kv.Value)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("error applying config: %w", errors.Join(errs...))
	}
	return nil
}

func (s *Store) setValue(key string, value interface{}) error {
	e, err := s.findOrAdd(key)
	if err != nil {
		return err
	}
	if e.typ == TypeNone {
		e.raw = value
		return nil
	}
	if value == nil {
		return nil
	}
	return e.set(fmt.Sprint(value))
}

// Marshal renders the store as YAML, one mapping per section in first-seen order.
// Bound values are clamped to their ranges first.
func (s *Store) Marshal() ([]byte, error) {
	var doc yaml.MapSlice
	sections := make(map[string]int)

	for _, e := range s.entries {
		if e.typ == TypeNone && e.raw == nil {
			continue
		}
		if e.typ != TypeNone {
			e.clamp()
		}
		if e.section == "" {
			doc = append(doc, yaml.MapItem{Key: e.name, Value: e.value()})
			continue
		}
		idx, ok := sections[e.section]
		if !ok {
			idx = len(doc)
			sections[e.section] = idx
			doc = append(doc, yaml.MapItem{Key: e.section, Value: yaml.MapSlice{}})
		}
		keys := doc[idx].Value.(yaml.MapSlice)
		doc[idx].Value = append(keys, yaml.MapItem{Key: e.name, Value: e.value()})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error serializing config: %w", err)
	}
	return data, nil
}

// Save writes the store to filePath, creating parent directories as needed
func (s *Store) Save(filePath string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}

	if err := util.CreateDirIfNotExist(filepath.Dir(filePath)); err != nil {
		return err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
