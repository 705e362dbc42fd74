package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/fadilmartias/talent-assessment/internal/config"
)

type LocalModelServiceInterface interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// LocalModelService runs the local model bridge script as a child process.
// The process is killed when ctx is done.
type LocalModelService struct {
	Python string
	Script string
	Dir    string
}

func NewLocalModelService() *LocalModelService {
	cfg := config.LoadBridgeConfig()
	return &LocalModelService{Python: cfg.Python, Script: cfg.Script, Dir: cfg.Dir}
}

func (s *LocalModelService) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.Python, append([]string{s.Script}, args...)...)
	cmd.Dir = s.Dir
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("local model bridge killed after %v: %w", time.Since(start).Round(time.Millisecond), ctx.Err())
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("local model bridge failed: %s", truncate(msg, 400))
	}

	log.Printf("local model bridge finished in %v (%d bytes)", time.Since(start).Round(time.Millisecond), stdout.Len())
	return stdout.Bytes(), nil
}
