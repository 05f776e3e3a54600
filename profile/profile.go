/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package profile is the optional persisted profile store named in the
// specification's external-interfaces section: a keyed store of named
// connection configs that only the RPC layer consults, translating a
// profile reference into a connection.Config before calling AddConnection.
// The Core never reads or writes it.
package profile

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sabouaram/connmux/connection"
	"github.com/sabouaram/connmux/errors"
)

// entry is the on-disk shape of one profile, decoded via mapstructure tags
// shared with connection.SerialConfig/SshConfig.
type entry struct {
	Kind   string                  `mapstructure:"kind"`
	Serial *connection.SerialConfig `mapstructure:"serial"`
	Ssh    *connection.SshConfig    `mapstructure:"ssh"`
}

// Store is a read-only, named lookup of connection.Config values backed by
// a viper instance. The zero value is not usable; build one with Load.
type Store struct {
	v *viper.Viper
}

// Load reads profiles from path (any format viper supports: yaml, json,
// toml) under the top-level "profiles" key, keyed by name.
func Load(path string) (*Store, errors.Error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, ErrorLoad.Error(err)
	}

	return &Store{v: v}, nil
}

// Get resolves name to a connection.Config. Fails with ErrorNotFound when
// no such profile is defined, or ErrorDecode when the stored shape doesn't
// decode cleanly.
func (s *Store) Get(name string) (connection.Config, errors.Error) {
	key := fmt.Sprintf("profiles.%s", name)

	if !s.v.IsSet(key) {
		return connection.Config{}, ErrorNotFound.Error(fmt.Errorf("profile %q is not defined", name))
	}

	var e entry
	if err := s.v.UnmarshalKey(key, &e); err != nil {
		return connection.Config{}, ErrorDecode.Error(err)
	}

	switch e.Kind {
	case "serial":
		if e.Serial == nil {
			return connection.Config{}, ErrorDecode.Error(fmt.Errorf("profile %q is missing its serial section", name))
		}
		return connection.NewSerialConfig(e.Serial.Port, e.Serial.Baud), nil
	case "ssh":
		if e.Ssh == nil {
			return connection.Config{}, ErrorDecode.Error(fmt.Errorf("profile %q is missing its ssh section", name))
		}
		return connection.NewSshConfig(e.Ssh.Host, e.Ssh.Port, e.Ssh.User, e.Ssh.Password), nil
	default:
		return connection.Config{}, ErrorDecode.Error(fmt.Errorf("profile %q has unknown kind %q", name, e.Kind))
	}
}

// Names returns every profile name currently defined, in no particular
// order.
func (s *Store) Names() []string {
	raw, ok := s.v.Get("profiles").(map[string]interface{})
	if !ok {
		return nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	return names
}
