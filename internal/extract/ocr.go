package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docscan/docvault/pkg/utils"
)

const stderrLogLimit = 8 << 10 // cap stderr noise in logs at 8KB

// Runner executes an external command; tests stub it to avoid requiring the
// tesseract binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger *zap.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		r.logger.Error("exec failed",
			zap.String("cmd", name),
			zap.String("args", strings.Join(args, " ")),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
			zap.String("stderr", utils.Truncate(errb.String(), stderrLogLimit)),
		)
	} else {
		r.logger.Debug("exec ok",
			zap.String("cmd", name),
			zap.String("args", strings.Join(args, " ")),
			zap.Duration("duration", time.Since(start)),
			zap.Int("stdout_bytes", out.Len()),
		)
	}
	return out.Bytes(), errb.Bytes(), err
}

// OCREngine runs tesseract end-to-end on an image file and returns its
// best-effort plain-text output, which may be empty.
type OCREngine struct {
	binary string
	lang   string
	runner Runner
	logger *zap.Logger
}

// NewOCREngine builds an OCR engine shelling out to the given tesseract binary.
func NewOCREngine(binary, lang string, logger *zap.Logger) *OCREngine {
	if binary == "" {
		binary = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OCREngine{
		binary: binary,
		lang:   lang,
		runner: execRunner{logger: logger},
		logger: logger,
	}
}

// Recognize runs OCR on the image at path. Engine faults (missing binary,
// unreadable input, crash) surface as errors carrying the engine's stderr.
func (o *OCREngine) Recognize(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := o.runner.Run(ctx, o.binary, path, "stdout", "-l", o.lang)
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg == "" {
			return "", fmt.Errorf("tesseract: %w", err)
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, utils.Truncate(msg, 512))
	}
	return string(out), nil
}
