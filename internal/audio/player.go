// Package audio plays pronunciation clips through an external player.
package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const downloadTimeout = 15 * time.Second

// ErrNoPlayer is returned when no audio player command is available.
var ErrNoPlayer = errors.New("no audio player found; set [audio] player in config")

// candidates are tried in order when no player is configured.
var candidates = [][]string{
	{"mpv", "--no-video", "--really-quiet"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"afplay"},
	{"paplay"},
	{"aplay", "-q"},
}

// PlaybackError reports a failed playback.
type PlaybackError struct {
	Ref string
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("play %q: %v", e.Ref, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// Player plays local files or http(s) URLs. Remote clips are downloaded
// once into the cache directory.
type Player struct {
	command  []string
	cacheDir string
	client   *http.Client
	run      func(ctx context.Context, name string, args ...string) error
}

// NewPlayer returns a Player. An empty command selects the first installed
// candidate player.
func NewPlayer(command, cacheDir string) *Player {
	return &Player{
		command:  strings.Fields(command),
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: downloadTimeout},
		run:      runCommand,
	}
}

// Detect returns the first candidate player found by lookPath.
func Detect(lookPath func(string) (string, error)) ([]string, bool) {
	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c, true
		}
	}
	return nil, false
}

// Play blocks until the clip finishes or ctx is cancelled.
func (p *Player) Play(ctx context.Context, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return &PlaybackError{Ref: ref, Err: errors.New("empty audio reference")}
	}
	command := p.command
	if len(command) == 0 {
		detected, ok := Detect(exec.LookPath)
		if !ok {
			return &PlaybackError{Ref: ref, Err: ErrNoPlayer}
		}
		command = detected
	}
	file, err := p.resolve(ctx, ref)
	if err != nil {
		return &PlaybackError{Ref: ref, Err: err}
	}
	args := append(append([]string(nil), command[1:]...), file)
	if err := p.run(ctx, command[0], args...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &PlaybackError{Ref: ref, Err: err}
	}
	return nil
}

func (p *Player) resolve(ctx context.Context, ref string) (string, error) {
	if !isRemote(ref) {
		if _, err := os.Stat(ref); err != nil {
			return "", err
		}
		return ref, nil
	}
	if p.cacheDir == "" {
		return "", errors.New("no cache directory for remote audio")
	}
	dest := filepath.Join(p.cacheDir, CacheName(ref))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	if err := p.download(ctx, ref, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (p *Player) download(ctx context.Context, ref, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch audio: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch audio: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write audio: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// CacheName maps a remote reference to a stable file name.
func CacheName(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	ext := ".mp3"
	if u, err := url.Parse(ref); err == nil {
		if e := path.Ext(u.Path); e != "" && len(e) <= 5 {
			ext = strings.ToLower(e)
		}
	}
	return hex.EncodeToString(sum[:8]) + ext
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
