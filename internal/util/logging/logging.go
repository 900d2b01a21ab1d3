/*
Copyright 2026 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// The file provides logging utilities and constants for the application.
package logging

import (
	"net/http"

	"k8s.io/klog/v2"
)

// Verbosity levels passed to logger.V.
const (
	ERROR   = 1
	WARNING = 2
	INFO    = 3
	DEBUG   = 4
	TRACE   = 5
)

// ExitCodeStartupFailure is the process exit code when the service cannot start.
const ExitCodeStartupFailure = 1

func GetRequestLogger(r *http.Request) klog.Logger {
	return klog.FromContext(r.Context())
}

// Fatal logs err, flushes all pending log entries and exits with
// ExitCodeStartupFailure. Deferred functions do not run.
func Fatal(logger klog.Logger, err error, msg string, keysAndValues ...any) {
	logger.Error(err, msg, keysAndValues...)
	klog.FlushAndExit(klog.ExitFlushTimeout, ExitCodeStartupFailure)
}
