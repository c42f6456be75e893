/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

// Package logger is the ambient logging surface consumed by every codec and
// archive package: a small leveled facade over logrus, kept deliberately thin
// because the core's job is parsing bytes, not operating a logging pipeline.
package logger

import "github.com/sirupsen/logrus"

// Level mirrors the set of severities the core ever emits. Archive/codec code
// never panics or fatals on a format error (it returns liberr.Error instead),
// so only Error/Warn/Info/Debug are used in practice.
type Level uint8

const (
	ErrorLevel Level = iota
	WarnLevel
	InfoLevel
	DebugLevel
)

func (l Level) logrus() logrus.Level {
	switch l {
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

// Log writes msg at this level on the default logger.
func (l Level) Log(msg string) {
	std.WithField("level", l).Logln(l.logrus(), msg)
}

// Logf writes a formatted message at this level on the default logger.
func (l Level) Logf(pattern string, args ...interface{}) {
	std.WithField("level", l).Logf(l.logrus(), pattern, args...)
}

var std = logrus.StandardLogger()

// SetOutputLevel changes the minimal level the default logger will emit.
func SetOutputLevel(l Level) {
	std.SetLevel(l.logrus())
}
