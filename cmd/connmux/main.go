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

// Command connmux is the local terminal front-end: it opens one connection
// through the Manager, relays stdin keystrokes to it and its inbound chunks
// to stdout, and exits on the Ctrl+A x escape or a stopped remote.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sabouaram/connmux/connection"
	liblog "github.com/sabouaram/connmux/logger"
	"github.com/sabouaram/connmux/manager"
)

func main() {
	root := &cobra.Command{
		Use:           "connmux",
		Short:         "Open and drive a single serial or SSH connection from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serialCommand(), sshCommand())

	if err := root.Execute(); err != nil {
		printError.Println(err.Error())
		os.Exit(1)
	}
}

func serialCommand() *cobra.Command {
	var port string
	var baud uint32

	cmd := &cobra.Command{
		Use:   "serial",
		Short: "Connect to a serial device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(connection.NewSerialConfig(port, baud))
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "device path, e.g. /dev/ttyUSB0")
	cmd.Flags().Uint32Var(&baud, "baud", 115200, "line rate")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

func sshCommand() *cobra.Command {
	var host, user, password string
	var port uint16

	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Connect to a remote shell over SSH",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(connection.NewSshConfig(host, port, user, password))
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "remote host")
	cmd.Flags().Uint16Var(&port, "port", 22, "remote port")
	cmd.Flags().StringVar(&user, "user", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// runSession owns the process's one Manager for the command's lifetime: it
// adds the connection described by cfg, relays it to the terminal, and
// returns once the session has ended, either by the escape sequence or by
// the remote closing.
func runSession(cfg connection.Config) error {
	log := liblog.New(context.Background())
	mgr := manager.New(manager.WithLogger(log))

	id, err := mgr.AddConnection(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}

	recv, serr := mgr.Subscribe(id)
	if serr != nil {
		return fmt.Errorf("subscribe failed: %w", serr)
	}

	return relay(mgr, id, recv)
}
