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

package profile

import "github.com/sabouaram/connmux/errors"

const (
	// ErrorLoad is returned when the backing viper instance fails to read or
	// parse its configuration source.
	ErrorLoad errors.CodeError = iota + errors.MinPkgProfile
	// ErrorNotFound is returned when a named profile is absent from the store.
	ErrorNotFound
	// ErrorDecode is returned when a profile entry cannot be decoded into a
	// connection.Config.
	ErrorDecode
)

func init() {
	errors.RegisterIdFctMessage(ErrorLoad, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorLoad:
		return "profile store failed to load its configuration source"
	case ErrorNotFound:
		return "named profile is not defined"
	case ErrorDecode:
		return "named profile could not be decoded into a connection config"
	}

	return ""
}
