package publicdata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"

	"trendsync/internal/metrics"
)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args, returning stdout or an error carrying stderr.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// CurlGetter is the fallback transport: it shells out to curl, which
// negotiates TLS on its own terms.
type CurlGetter struct {
	Binary  string
	Timeout time.Duration
	Retries int
	Runner  CommandRunner
}

// NewCurlGetter creates a fallback transport using the given curl binary.
func NewCurlGetter(binary string, timeout time.Duration, retries int) *CurlGetter {
	if binary == "" {
		binary = "curl"
	}
	return &CurlGetter{Binary: binary, Timeout: timeout, Retries: retries, Runner: ExecRunner{}}
}

// Args builds the curl argument list. Every parameter goes through
// --data-urlencode so values are escaped by curl, never concatenated.
func (g *CurlGetter) Args(endpoint string, params url.Values) []string {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}

	args := []string{
		"--silent", "--show-error", "--fail", "--get",
		"--max-time", strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64),
	}
	if g.Retries > 0 {
		args = append(args, "--retry", strconv.Itoa(g.Retries))
	}
	args = append(args, endpoint)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range params[k] {
			args = append(args, "--data-urlencode", k+"="+v)
		}
	}
	return args
}

// GetJSON runs curl and parses its output. Every failure is reported as
// ErrFallbackFailed.
func (g *CurlGetter) GetJSON(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	runner := g.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	// curl's --max-time bounds each try; the context bounds the retries too.
	deadline := g.Timeout * time.Duration(g.Retries+2)
	if deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	out, err := runner.Run(ctx, g.Binary, g.Args(endpoint, params)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFallbackFailed, err)
	}

	text := strings.TrimSpace(decodeText(out))
	if text == "" {
		return nil, fmt.Errorf("%w: empty body", ErrFallbackFailed)
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: %v", ErrFallbackFailed, ErrInvalidJSON)
	}
	return json.RawMessage(text), nil
}

// textDecoders are tried in order; the first clean decode wins.
var textDecoders = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-8", nil},
	{"cp949", korean.EUCKR},
	{"iso-8859-1", charmap.ISO8859_1},
}

// decodeText converts raw subprocess output to UTF-8, falling back to a lossy
// decode when no candidate encoding fits.
func decodeText(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	for _, d := range textDecoders {
		if d.enc == nil {
			if utf8.Valid(raw) {
				return string(raw)
			}
			continue
		}
		out, err := d.enc.NewDecoder().Bytes(raw)
		if err == nil && !bytes.ContainsRune(out, utf8.RuneError) {
			return string(out)
		}
	}

	return strings.ToValidUTF8(string(raw), "�")
}

// FallbackGetter tries Primary and, when ShouldFallback accepts its error,
// Fallback. A nil ShouldFallback means IsTransportError.
type FallbackGetter struct {
	Primary        Getter
	Fallback       Getter
	ShouldFallback func(error) bool
}

// GetJSON implements Getter.
func (g *FallbackGetter) GetJSON(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	doc, err := g.Primary.GetJSON(ctx, endpoint, params)
	if err == nil {
		metrics.ObservePublicRequest(metrics.TransportPrimary, metrics.OutcomeOK)
		return doc, nil
	}
	metrics.ObservePublicRequest(metrics.TransportPrimary, metrics.OutcomeError)

	shouldFallback := g.ShouldFallback
	if shouldFallback == nil {
		shouldFallback = IsTransportError
	}
	if g.Fallback == nil || !shouldFallback(err) {
		return nil, err
	}

	slog.Warn("primary transport failed, trying fallback", "endpoint", endpoint, "error", err)

	doc, ferr := g.Fallback.GetJSON(ctx, endpoint, params)
	if ferr != nil {
		metrics.ObservePublicRequest(metrics.TransportFallback, metrics.OutcomeError)
		if !errors.Is(ferr, ErrFallbackFailed) {
			ferr = fmt.Errorf("%w: %v", ErrFallbackFailed, ferr)
		}
		return nil, fmt.Errorf("%w (primary: %v)", ferr, err)
	}
	metrics.ObservePublicRequest(metrics.TransportFallback, metrics.OutcomeOK)
	return doc, nil
}
