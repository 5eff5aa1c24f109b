// Package script implements the Starlark scripting protocol: each
// attack calls a user-defined request() function that returns the
// target to hit, so URLs and methods can vary per request.
package script

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	verrors "github.com/volleyload/volley/internal/errors"
	"github.com/volleyload/volley/pkg/metrics"
	"github.com/volleyload/volley/pkg/protocols"
)

// Attacker runs a Starlark script to generate requests.
type Attacker struct {
	client    *http.Client
	requestFn starlark.Value
}

// NewAttacker loads the script and resolves its request() function.
func NewAttacker(scriptPath string, timeout time.Duration, insecure bool) (protocols.Attacker, error) {
	thread := &starlark.Thread{Name: "main"}
	opts := &syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(opts, thread, scriptPath, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("script execution failed: %w", err)
	}

	reqFn, ok := globals["request"]
	if !ok {
		return nil, verrors.ErrScriptNoRequestFn
	}

	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure},
		MaxIdleConns:    1000,
		MaxConnsPerHost: 1000,
	}

	return &Attacker{
		client: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
		requestFn: reqFn,
	}, nil
}

// Name returns the name of the protocol.
func (s *Attacker) Name() string {
	return "script"
}

// Attack evaluates request() and performs the returned request. Script
// failures count as failed samples, like transport errors, so a buggy
// scenario shows up in the dashboard instead of stopping the test.
func (s *Attacker) Attack(ctx context.Context) metrics.Sample {
	start := time.Now()

	thread := &starlark.Thread{Name: "worker"}

	res, err := starlark.Call(thread, s.requestFn, nil, nil)
	if err != nil {
		return metrics.NewSample(0, time.Since(start), fmt.Errorf("script error: %w", err))
	}

	dict, ok := res.(*starlark.Dict)
	if !ok {
		return metrics.NewSample(0, time.Since(start), verrors.ErrScriptBadReturn)
	}

	method := http.MethodGet
	url := ""
	var body io.Reader

	for _, item := range dict.Items() {
		k, ok := item[0].(starlark.String)
		if !ok {
			continue
		}
		switch string(k) {
		case "method":
			if v, ok := item[1].(starlark.String); ok {
				method = string(v)
			}
		case "url":
			if v, ok := item[1].(starlark.String); ok {
				url = string(v)
			}
		case "body":
			if v, ok := item[1].(starlark.String); ok {
				body = strings.NewReader(string(v))
			}
		}
	}

	if url == "" {
		return metrics.NewSample(0, time.Since(start), verrors.ErrScriptEmptyURL)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return metrics.NewSample(0, time.Since(start), err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return metrics.NewSample(0, time.Since(start), err)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	return metrics.NewSample(resp.StatusCode, time.Since(start), nil)
}
