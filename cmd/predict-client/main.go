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

// The entry point for the prediction client.
// It sends one patient record to the api server and prints the label.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/llm-d-incubation/heart-predictor/internal/client"
	"github.com/llm-d-incubation/heart-predictor/internal/util/logging"
)

func main() {
	defer klog.Flush()

	flags := flag.NewFlagSet("heart-predictor-client", flag.ExitOnError)
	server := flags.String("server", "http://localhost:8080", "Base URL of the api server")
	file := flags.String("file", "-", "JSON record to send, - for stdin")
	timeout := flags.Duration("timeout", 30*time.Second, "Request timeout")
	insecure := flags.Bool("insecure", false, "Skip TLS certificate verification")
	caCert := flags.String("ca-cert-file", "", "CA certificate of the server")
	klog.InitFlags(flags)
	flags.Parse(os.Args[1:])

	logger := klog.Background()

	record, err := readRecord(*file)
	if err != nil {
		logging.Fatal(logger, err, "failed to read record", "file", *file)
	}

	c, err := client.New(client.Config{
		BaseURL:               *server,
		Timeout:               *timeout,
		TLSInsecureSkipVerify: *insecure,
		TLSCACertFile:         *caCert,
	})
	if err != nil {
		logging.Fatal(logger, err, "failed to create client")
	}

	requestID := uuid.NewString()
	label, err := c.Predict(context.Background(), requestID, record)
	if err != nil {
		logging.Fatal(logger, err, "prediction failed", "requestID", requestID)
	}
	fmt.Println(label)
}

func readRecord(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
