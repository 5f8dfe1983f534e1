package mongodb

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadOptions reads MongoDB options from a viper instance under the
// given key (e.g. "storage.mongodb"). Fields absent from the config
// keep their NewOptions defaults.
func LoadOptions(v *viper.Viper, key string) (*Options, error) {
	opts := NewOptions()
	if v == nil {
		return opts, nil
	}
	if err := v.UnmarshalKey(key, opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mongodb options at %q: %w", key, err)
	}
	return opts, nil
}
