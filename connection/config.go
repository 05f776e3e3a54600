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

package connection

import (
	"fmt"

	"github.com/sabouaram/connmux/errors"
)

// Kind enumerates the supported transport variants a Config may describe.
type Kind uint8

const (
	// KindSerial selects the Serial transport.
	KindSerial Kind = iota + 1
	// KindSsh selects the Ssh transport.
	KindSsh
)

func (k Kind) String() string {
	switch k {
	case KindSerial:
		return "serial"
	case KindSsh:
		return "ssh"
	default:
		return "unknown"
	}
}

// SerialConfig describes a serial/RS232-style device to open.
type SerialConfig struct {
	// Port is the device path, e.g. /dev/ttyUSB0 or COM3.
	Port string `yaml:"port" json:"port" mapstructure:"port"`
	// Baud is the line rate; must be > 0.
	Baud uint32 `yaml:"baud" json:"baud" mapstructure:"baud"`
}

// SshConfig describes an interactive SSH shell session to open.
type SshConfig struct {
	Host     string `yaml:"host" json:"host" mapstructure:"host"`
	Port     uint16 `yaml:"port" json:"port" mapstructure:"port"`
	User     string `yaml:"user" json:"user" mapstructure:"user"`
	Password string `yaml:"password" json:"password" mapstructure:"password"`
}

// Config is a tagged variant over the supported transports. Exactly one of
// Serial or Ssh is meaningful, selected by Kind. A Config is consumed once,
// at connection time; reconfiguration requires a new connection.
type Config struct {
	Kind   Kind          `yaml:"kind" json:"kind" mapstructure:"kind"`
	Serial *SerialConfig `yaml:"serial,omitempty" json:"serial,omitempty" mapstructure:"serial"`
	Ssh    *SshConfig    `yaml:"ssh,omitempty" json:"ssh,omitempty" mapstructure:"ssh"`
}

// NewSerialConfig builds a Config selecting the Serial transport.
func NewSerialConfig(port string, baud uint32) Config {
	return Config{
		Kind:   KindSerial,
		Serial: &SerialConfig{Port: port, Baud: baud},
	}
}

// NewSshConfig builds a Config selecting the Ssh transport.
func NewSshConfig(host string, port uint16, user, password string) Config {
	return Config{
		Kind: KindSsh,
		Ssh:  &SshConfig{Host: host, Port: port, User: user, Password: password},
	}
}

// Validate checks the tagged fields required by the selected Kind, returning
// a structured Config error describing the first problem found.
func (c Config) Validate() errors.Error {
	switch c.Kind {
	case KindSerial:
		if c.Serial == nil {
			return ErrorConfig.Error(fmt.Errorf("serial config is missing"))
		}
		if c.Serial.Port == "" {
			return ErrorConfig.Error(fmt.Errorf("serial port must not be empty"))
		}
		if c.Serial.Baud == 0 {
			return ErrorConfig.Error(fmt.Errorf("serial baud must be > 0"))
		}
		return nil
	case KindSsh:
		if c.Ssh == nil {
			return ErrorConfig.Error(fmt.Errorf("ssh config is missing"))
		}
		if c.Ssh.Host == "" {
			return ErrorConfig.Error(fmt.Errorf("ssh host must not be empty"))
		}
		if c.Ssh.Port == 0 {
			return ErrorConfig.Error(fmt.Errorf("ssh port must be > 0"))
		}
		if c.Ssh.User == "" {
			return ErrorConfig.Error(fmt.Errorf("ssh user must not be empty"))
		}
		return nil
	default:
		return ErrorConfig.Error(fmt.Errorf("unknown connection kind %q", c.Kind.String()))
	}
}
