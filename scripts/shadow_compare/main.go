package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

// keyDiff lists top-level JSON keys present on only one side.
type keyDiff struct {
	OnlyLegacy []string
	OnlyGo     []string
}

func (d keyDiff) empty() bool {
	return len(d.OnlyLegacy) == 0 && len(d.OnlyGo) == 0
}

type comparison struct {
	Target       target
	LegacyStatus int
	GoStatus     int
	Keys         keyDiff
	Err          error
	GoTook       time.Duration
	LegacyTook   time.Duration
}

func (c comparison) matches() bool {
	return c.Err == nil && c.GoStatus == c.LegacyStatus && c.Keys.empty()
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		token       string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8000", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8001", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.StringVar(&token, "token", "", "Bearer token sent to both APIs")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync() //nolint:errcheck

	targets, err := loadTargets(targetsPath)
	if err != nil {
		logger.Fatal("failed to load targets", zap.String("path", targetsPath), zap.Error(err))
	}

	client := &http.Client{Timeout: timeout}
	var breaking, optional int
	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, token, t)
		report(logger, comp)
		if comp.matches() {
			continue
		}
		if t.Critical {
			breaking++
		} else {
			optional++
		}
	}

	logger.Info("shadow compare finished", zap.Int("targets", len(targets)), zap.Int("breaking", breaking), zap.Int("optional", optional))
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compareTarget(client *http.Client, goBase, legacyBase, token string, tgt target) comparison {
	comp := comparison{Target: tgt}

	goStatus, goBody, goTook, err := fetch(client, goBase, token, tgt)
	if err != nil {
		comp.Err = fmt.Errorf("go request failed: %w", err)
		return comp
	}
	legacyStatus, legacyBody, legacyTook, err := fetch(client, legacyBase, token, tgt)
	if err != nil {
		comp.Err = fmt.Errorf("legacy request failed: %w", err)
		return comp
	}

	comp.GoStatus, comp.GoTook = goStatus, goTook
	comp.LegacyStatus, comp.LegacyTook = legacyStatus, legacyTook
	comp.Keys = diffKeys(topLevelKeys(legacyBody), topLevelKeys(goBody))
	return comp
}

func fetch(client *http.Client, base, token string, tgt target) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// topLevelKeys returns the keys of a JSON object body, or nil for anything else.
func topLevelKeys(body []byte) map[string]struct{} {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}
	keys := make(map[string]struct{}, len(obj))
	for k := range obj {
		keys[k] = struct{}{}
	}
	return keys
}

func diffKeys(legacy, goKeys map[string]struct{}) keyDiff {
	var d keyDiff
	for k := range legacy {
		if _, ok := goKeys[k]; !ok {
			d.OnlyLegacy = append(d.OnlyLegacy, k)
		}
	}
	for k := range goKeys {
		if _, ok := legacy[k]; !ok {
			d.OnlyGo = append(d.OnlyGo, k)
		}
	}
	sort.Strings(d.OnlyLegacy)
	sort.Strings(d.OnlyGo)
	return d
}

func report(logger *zap.Logger, c comparison) {
	fields := []zap.Field{
		zap.String("method", c.Target.Method),
		zap.String("path", c.Target.Path),
		zap.Bool("critical", c.Target.Critical),
	}
	switch {
	case c.Err != nil:
		logger.Error("compare failed", append(fields, zap.Error(c.Err))...)
	case c.matches():
		logger.Info("match", append(fields, zap.Int("status", c.GoStatus), zap.Duration("go_took", c.GoTook), zap.Duration("legacy_took", c.LegacyTook))...)
	default:
		logger.Warn("diff", append(fields,
			zap.Int("legacy_status", c.LegacyStatus),
			zap.Int("go_status", c.GoStatus),
			zap.Strings("only_legacy", c.Keys.OnlyLegacy),
			zap.Strings("only_go", c.Keys.OnlyGo),
		)...)
	}
}
